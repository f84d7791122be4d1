package handlers

import (
	"encoding/json"
	"net/http"

	"brokerage/internal/money"

	"github.com/go-chi/chi/v5"
)

type acceptOfferRequest struct {
	InquiryID     string `json:"inquiry_id"`
	CustomerNotes string `json:"customer_notes"`
}

// AcceptOffer forms the deal for an inquiry's pending offer and schedules
// the interview.
func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	var req acceptOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.InquiryID == "" {
		respondError(w, http.StatusBadRequest, "inquiry_id is required")
		return
	}
	result, err := h.workflow.AcceptOffer(r.Context(), req.InquiryID, req.CustomerNotes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload := map[string]any{
		"success": true,
		"deal":    result.Deal,
	}
	if result.RegistrationNumber != "" {
		payload["registration_number"] = result.RegistrationNumber
	}
	respondJSON(w, http.StatusCreated, payload)
}

type reviewRequest struct {
	Rating           int    `json:"rating"`
	CommissionAmount string `json:"commission_amount"`
	Notes            string `json:"notes"`
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	var commissionAmount int64
	if req.CommissionAmount != "" {
		parsed, err := money.ParseMinor(req.CommissionAmount)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid commission amount")
			return
		}
		commissionAmount = parsed
	}
	deal, err := h.workflow.SubmitReview(r.Context(), chi.URLParam(r, "id"), req.Rating, commissionAmount, req.Notes)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload := map[string]any{
		"success": true,
		"deal":    deal,
	}
	if deal.CommissionAmount != nil {
		payload["commission_amount"] = money.FormatMinor(*deal.CommissionAmount)
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.DeleteDeal(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
