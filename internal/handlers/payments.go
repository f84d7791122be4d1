package handlers

import (
	"encoding/json"
	"net/http"

	"brokerage/internal/middleware"
	"brokerage/internal/money"
	"brokerage/internal/services"
)

type paymentRequest struct {
	Amount           string `json:"amount"`
	PaymentMethod    string `json:"payment_method"`
	CardNumber       string `json:"card_number"`
	GatewayReference string `json:"gateway_reference"`
}

// CompletePayment records a gateway-confirmed payment and lifts the trial
// gate. The card number, if the client sends one at all, is reduced to its
// last four digits before anything is stored.
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := money.ParseMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid payment amount")
		return
	}
	payment, err := h.billing.CompletePayment(r.Context(), services.PaymentRequest{
		BrokerID:         brokerID,
		Amount:           amount,
		PaymentMethod:    req.PaymentMethod,
		CardLast4:        cardLast4(req.CardNumber),
		GatewayReference: req.GatewayReference,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"payment": payment,
		"amount":  money.FormatMinor(payment.Amount),
	})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)
	payments, err := h.billing.ListPayments(r.Context(), brokerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load payments")
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func cardLast4(cardNumber string) string {
	digits := make([]byte, 0, len(cardNumber))
	for i := 0; i < len(cardNumber); i++ {
		if cardNumber[i] >= '0' && cardNumber[i] <= '9' {
			digits = append(digits, cardNumber[i])
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}
