package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/services"
	"brokerage/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	brokerID := r.URL.Query().Get("broker_id")
	properties, err := h.properties.ListActive(r.Context(), brokerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load properties")
		return
	}
	respondJSON(w, http.StatusOK, propertyViews(properties))
}

// RequestProperty turns a listed property into a ready-made inquiry with the
// listing broker's offer already attached.
func (h *Handler) RequestProperty(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflow.RequestProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":        true,
		"inquiry_id":     result.Inquiry.ID,
		"broker_post_id": result.Post.ID,
	})
}

func (h *Handler) ListBrokerProperties(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)
	properties, err := h.properties.ListByBroker(r.Context(), brokerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load properties")
		return
	}
	respondJSON(w, http.StatusOK, propertyViews(properties))
}

type propertyRequest struct {
	TransactionType string   `json:"transaction_type"`
	City            string   `json:"city"`
	Area            string   `json:"area"`
	PropertyType    string   `json:"property_type"`
	Bedrooms        *int     `json:"bedrooms"`
	Bathrooms       *int     `json:"bathrooms"`
	Price           *int64   `json:"price"`
	Size            *int     `json:"size"`
	Furnished       bool     `json:"furnished"`
	Notes           string   `json:"notes"`
	IsActive        *bool    `json:"is_active"`
	Media           []string `json:"media"`
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TransactionType == "" {
		req.TransactionType = models.TransactionRent
	}
	if err := validator.ValidateTransactionType(req.TransactionType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	property := models.Property{
		ID:              uuid.NewString(),
		BrokerID:        brokerID,
		TransactionType: req.TransactionType,
		City:            req.City,
		Area:            req.Area,
		PropertyType:    req.PropertyType,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		Price:           req.Price,
		Size:            req.Size,
		Furnished:       req.Furnished,
		Notes:           req.Notes,
		IsActive:        true,
		Media:           encodeMediaList(req.Media),
	}
	if req.IsActive != nil {
		property.IsActive = *req.IsActive
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.properties.Create(r.Context(), tx, property)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create property")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"property_id": property.ID,
	})
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	propertyID := chi.URLParam(r, "id")
	existing, err := h.properties.GetByID(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load property")
		return
	}
	// Someone else's listing looks the same as a missing one.
	if existing.BrokerID != brokerID {
		respondError(w, http.StatusNotFound, "property not found")
		return
	}
	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TransactionType == "" {
		req.TransactionType = existing.TransactionType
	}
	if err := validator.ValidateTransactionType(req.TransactionType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated := existing
	updated.TransactionType = req.TransactionType
	updated.City = req.City
	updated.Area = req.Area
	updated.PropertyType = req.PropertyType
	updated.Bedrooms = req.Bedrooms
	updated.Bathrooms = req.Bathrooms
	updated.Price = req.Price
	updated.Size = req.Size
	updated.Furnished = req.Furnished
	updated.Notes = req.Notes
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if req.Media != nil {
		updated.Media = encodeMediaList(req.Media)
	}
	var rows int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.properties.Update(r.Context(), tx, updated, time.Now())
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update property")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "property not found")
		return
	}
	respondJSON(w, http.StatusOK, propertyView(updated))
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	propertyID := chi.URLParam(r, "id")
	existing, err := h.properties.GetByID(r.Context(), propertyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "property not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load property")
		return
	}
	if existing.BrokerID != brokerID {
		respondError(w, http.StatusNotFound, "property not found")
		return
	}
	var rows int64
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.properties.Delete(r.Context(), tx, propertyID, brokerID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete property")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "property not found")
		return
	}
	// Object cleanup is best effort; a failure leaves an orphan in the
	// bucket, not a dangling listing.
	for _, objectURL := range services.DecodeMedia(existing.Media) {
		_ = h.media.Delete(r.Context(), objectURL)
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

type propertyPayload struct {
	models.Property
	MediaURLs []string `json:"media"`
}

func propertyView(property models.Property) propertyPayload {
	return propertyPayload{
		Property:  property,
		MediaURLs: services.DecodeMedia(property.Media),
	}
}

func propertyViews(properties []models.Property) []propertyPayload {
	views := make([]propertyPayload, 0, len(properties))
	for _, property := range properties {
		views = append(views, propertyView(property))
	}
	return views
}

func encodeMediaList(media []string) string {
	if len(media) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(media)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
