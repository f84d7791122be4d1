package middleware

import (
	"context"
	"net/http"
	"strings"

	"brokerage/internal/auth"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userTypeKey contextKey = "user_type"
)

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

func UserTypeFromContext(ctx context.Context) (string, bool) {
	userType, ok := ctx.Value(userTypeKey).(string)
	return userType, ok
}

// WithIdentity stores the authenticated identity on a context. Used by the
// websocket endpoint, which authenticates via query parameter.
func WithIdentity(ctx context.Context, userID, userType string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userTypeKey, userType)
}

func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), claims.UserID, claims.UserType)))
		})
	}
}
