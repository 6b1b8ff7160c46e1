package handlers

import (
	"context"
	"errors"
	"net/http"

	"studyTrackerAPI/config"
	"studyTrackerAPI/services"

	"github.com/sirupsen/logrus"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// GetAchievements reconciles the caller's unlocked tiers against their
// current activity and returns the full catalog with progress.
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	resp, err := h.achievementService.GetAchievements(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		config.Logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("Failed to reconcile achievements")
		respondWithError(w, http.StatusInternalServerError, "Failed to load achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func (h *AchievementHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"achievements": h.achievementService.Catalog(),
	})
}
