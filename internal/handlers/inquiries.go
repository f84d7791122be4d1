package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"brokerage/internal/middleware"
	"brokerage/internal/services"

	"github.com/go-chi/chi/v5"
)

type submitInquiryRequest struct {
	TransactionType string `json:"transaction_type"`
	City            string `json:"city"`
	Area            string `json:"area"`
	PropertyType    string `json:"property_type"`
	Bedrooms        *int   `json:"bedrooms"`
	Bathrooms       *int   `json:"bathrooms"`
	MinPrice        *int64 `json:"min_price"`
	MaxPrice        *int64 `json:"max_price"`
	MinSize         *int   `json:"min_size"`
	MaxSize         *int   `json:"max_size"`
	Furnished       bool   `json:"furnished"`
}

func (h *Handler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var req submitInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	inquiry, err := h.workflow.SubmitInquiry(r.Context(), services.InquiryInput{
		TransactionType: req.TransactionType,
		City:            req.City,
		Area:            req.Area,
		PropertyType:    req.PropertyType,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		MinPrice:        req.MinPrice,
		MaxPrice:        req.MaxPrice,
		MinSize:         req.MinSize,
		MaxSize:         req.MaxSize,
		Furnished:       req.Furnished,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"inquiry_id": inquiry.ID,
	})
}

func (h *Handler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	inquiries, err := h.inquiries.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load inquiries")
		return
	}
	respondJSON(w, http.StatusOK, inquiries)
}

func (h *Handler) GetInquiry(w http.ResponseWriter, r *http.Request) {
	inquiry, err := h.inquiries.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "inquiry not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load inquiry")
		return
	}
	respondJSON(w, http.StatusOK, inquiry)
}

type acceptInquiryRequest struct {
	Commission string   `json:"commission"`
	Notes      string   `json:"notes"`
	Media      []string `json:"media"`
}

// AcceptInquiry creates the acting broker's offer. The offer snapshots the
// broker's current name and phone rather than just referencing the account.
func (h *Handler) AcceptInquiry(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req acceptInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	broker, err := h.profiles.GetByID(r.Context(), brokerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load broker profile")
		return
	}
	post, err := h.workflow.AcceptInquiry(r.Context(), services.AcceptInquiryRequest{
		InquiryID:  chi.URLParam(r, "id"),
		Broker:     broker,
		Commission: req.Commission,
		Notes:      req.Notes,
		Media:      req.Media,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"broker_post_id": post.ID,
	})
}

func (h *Handler) RejectInquiry(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.RejectInquiry(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) WithdrawOffer(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.workflow.WithdrawOffer(r.Context(), chi.URLParam(r, "id"), brokerID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
