package handlers

import (
	"context"
	"net/http"

	"studyTrackerAPI/internal/plan"
	"studyTrackerAPI/services"
)

type PlanHandler struct {
	planService *services.PlanService
}

func NewPlanHandler(planService *services.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	var req plan.CreatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.planService.CreatePlan(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "create plan")
		return
	}

	respondWithJSON(w, http.StatusCreated, p)
}

func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	plans, err := h.planService.ListPlans(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "list plans")
		return
	}

	respondWithJSON(w, http.StatusOK, plans)
}

func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	planID, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.planService.GetPlan(ctx, userID, planID)
	if err != nil {
		respondWithServiceError(w, err, "load plan")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	planID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req plan.UpdatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.planService.UpdatePlan(ctx, userID, planID, &req)
	if err != nil {
		respondWithServiceError(w, err, "update plan")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	planID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(ctx, userID, planID); err != nil {
		respondWithServiceError(w, err, "delete plan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
