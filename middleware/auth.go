package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/auth"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "userID"
const UsernameKey contextKey = "username"

// BearerToken pulls the token out of an Authorization header. The websocket
// endpoint falls back to a token query parameter since browsers can't set
// headers on upgrade requests.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		token := r.URL.Query().Get("token")
		return token, token != ""
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// JWTAuthMiddleware validates access tokens and stores the caller in the request context
func JWTAuthMiddleware(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", "Bearer")
				respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			userID, username, err := issuer.Parse(token)
			if err != nil {
				config.Logger.WithError(err).Debug("Token verification failed")
				w.Header().Set("WWW-Authenticate", "Bearer")
				respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, username)))
		})
	}
}

// WithUser returns a context carrying an authenticated user.
func WithUser(ctx context.Context, userID uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
