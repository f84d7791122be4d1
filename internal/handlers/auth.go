package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"brokerage/internal/auth"
	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/store"
	"brokerage/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type registerRequest struct {
	UserType     string `json:"user_type"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	NationalID   string `json:"national_id"`
	Password     string `json:"password"`
	LicenseImage string `json:"license_image"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.UserType == "" {
		req.UserType = models.UserTypeUser
	}
	if err := validator.ValidateUserType(req.UserType); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateFullName(req.FullName); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePhone(req.Phone); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}

	input := store.ProfileInput{
		ID:           uuid.NewString(),
		UserType:     req.UserType,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		NationalID:   req.NationalID,
		PasswordHash: passwordHash,
	}
	// Brokers start on a free trial window; plain users carry none of the
	// trial/license fields.
	if req.UserType == models.UserTypeBroker {
		now := time.Now()
		trialEnd := now.Add(time.Duration(h.cfg.TrialDays) * 24 * time.Hour)
		input.TrialStartDate = &now
		input.TrialEndDate = &trialEnd
		if req.LicenseImage != "" {
			input.LicenseImage = &req.LicenseImage
		}
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.profiles.Create(r.Context(), tx, input)
	})
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, input.ID, input.UserType, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"token":     token,
		"user_id":   input.ID,
		"user_type": input.UserType,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	profile, err := h.profiles.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, profile.ID, profile.UserType, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	payload := map[string]any{
		"success":   true,
		"token":     token,
		"user_id":   profile.ID,
		"user_type": profile.UserType,
	}
	// Expired unpaid brokers get a token but are steered to the payment
	// flow instead of the broker dashboard.
	if profile.UserType == models.UserTypeBroker {
		trialActive := profile.IsTrialActive(time.Now())
		payload["trial_active"] = trialActive
		payload["requires_payment"] = !trialActive
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile, err := h.profiles.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}
