package handlers

import (
	"net/http"

	"brokerage/internal/auth"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// ListRejections returns the broker's rejection feed. Reading the feed marks
// entries as notified but does not consume them; they stay until acknowledged.
func (h *Handler) ListRejections(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := pagination(r)
	rejections, err := h.rejections.ListByBroker(r.Context(), brokerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load rejections")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		for i, rejection := range rejections {
			if rejection.Notified {
				continue
			}
			if err := h.rejections.MarkNotified(r.Context(), tx, rejection.ID); err != nil {
				return err
			}
			rejections[i].Notified = true
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load rejections")
		return
	}
	respondJSON(w, http.StatusOK, rejections)
}

func (h *Handler) AcknowledgeRejection(w http.ResponseWriter, r *http.Request) {
	brokerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rejectionID := chi.URLParam(r, "id")
	var rows int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		rows, err = h.rejections.Acknowledge(r.Context(), tx, rejectionID, brokerID)
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to acknowledge rejection")
		return
	}
	if rows == 0 {
		respondError(w, http.StatusNotFound, "rejection not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// WSRejections upgrades to a websocket that streams rejection notices to the
// authenticated broker. Browsers cannot set an Authorization header on a
// websocket dial, so the token rides in the query string.
func (h *Handler) WSRejections(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if claims.UserType != models.UserTypeBroker {
		respondError(w, http.StatusForbidden, "broker access required")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
