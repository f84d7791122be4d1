package middleware

import (
	"context"
	"net/http"
	"time"

	"brokerage/internal/models"
)

type ProfileStore interface {
	GetByID(ctx context.Context, userID string) (models.UserProfile, error)
}

// RequireBroker rejects non-broker tokens. With gateTrial set it also loads
// the profile and rejects brokers whose trial has lapsed without payment,
// steering them to the payment flow.
func RequireBroker(profiles ProfileStore, gateTrial bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			userType, ok := UserTypeFromContext(r.Context())
			if !ok || userType != models.UserTypeBroker {
				http.Error(w, "broker account required", http.StatusForbidden)
				return
			}
			if !gateTrial {
				next.ServeHTTP(w, r)
				return
			}
			profile, err := profiles.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, "unable to verify account", http.StatusInternalServerError)
				return
			}
			if !profile.IsTrialActive(time.Now()) {
				http.Error(w, "trial expired, payment required", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
