package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"brokerage/internal/middleware"
)

type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// MediaUploadURL hands the client a presigned PUT URL. The file never passes
// through this server; the returned object URL is what goes into offer and
// property media lists.
func (h *Handler) MediaUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req uploadURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}
	if req.ContentType == "" {
		req.ContentType = "application/octet-stream"
	}
	uploadURL, objectURL, err := h.media.PresignUpload(r.Context(), userID, req.Filename, req.ContentType)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create upload url")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"upload_url": uploadURL,
		"object_url": objectURL,
	})
}
