package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/plan"
	"studyTrackerAPI/internal/task"
	"studyTrackerAPI/internal/user"
	"studyTrackerAPI/middleware"
	"studyTrackerAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestTimeout = 5 * time.Second

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service and validation errors to a status
// code. Anything unrecognised is logged and reported as a 500.
func respondWithServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrUsernameTaken):
		respondWithError(w, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, services.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, services.ErrInactiveUser):
		respondWithError(w, http.StatusUnauthorized, "Inactive user")
	case errors.Is(err, services.ErrInvalidToken):
		respondWithError(w, http.StatusBadRequest, "Invalid or expired verification token")
	case errors.Is(err, task.ErrInvalidTask),
		errors.Is(err, plan.ErrInvalidPlan),
		errors.Is(err, user.ErrUsernameRequired),
		errors.Is(err, user.ErrPasswordTooShort),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidAvatarStyle),
		errors.Is(err, services.ErrAvatarSeedRequired):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		config.Logger.WithError(err).Warnf("Timed out while trying to %s", action)
		respondWithError(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		config.Logger.WithError(err).Errorf("Failed to %s", action)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func currentUser(w http.ResponseWriter, ctx context.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
	}
	return userID, ok
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
