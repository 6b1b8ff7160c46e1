package handlers

import (
	"context"
	"net/http"

	"studyTrackerAPI/services"

	"github.com/google/uuid"
)

type StatisticsHandler struct {
	statisticsService *services.StatisticsService
}

func NewStatisticsHandler(statisticsService *services.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// serve runs one statistics query for the caller. All the endpoints share
// the same shape.
func serve[T any](w http.ResponseWriter, r *http.Request, action string, load func(context.Context, uuid.UUID) (T, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	result, err := load(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, action)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *StatisticsHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load statistics", h.statisticsService.GetOverview)
}

func (h *StatisticsHandler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load daily statistics", h.statisticsService.GetDailyStats)
}

func (h *StatisticsHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load weekly statistics", h.statisticsService.GetWeeklyStats)
}

func (h *StatisticsHandler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load monthly statistics", h.statisticsService.GetMonthlyStats)
}

func (h *StatisticsHandler) GetTotalStats(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load total statistics", h.statisticsService.GetTotalStats)
}

func (h *StatisticsHandler) GetTimeDistribution(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load time distribution", h.statisticsService.GetTimeDistribution)
}

func (h *StatisticsHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	serve(w, r, "load heatmap", h.statisticsService.GetHeatmap)
}
