package handlers

import (
	"net/http"

	"studyTrackerAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

func (h *LeaderboardHandler) GetWeeklyLeaderboard(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load leaderboard", h.leaderboardService.GetWeeklyLeaderboard)
}
