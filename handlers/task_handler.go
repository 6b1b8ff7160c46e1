package handlers

import (
	"context"
	"net/http"

	"studyTrackerAPI/internal/task"
	"studyTrackerAPI/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	var req task.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.taskService.CreateTask(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err, "create task")
		return
	}

	respondWithJSON(w, http.StatusCreated, t)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "list tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ListTodayTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTodayTasks(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err, "list today's tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	t, err := h.taskService.GetTask(ctx, userID, taskID)
	if err != nil {
		respondWithServiceError(w, err, "load task")
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req task.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := h.taskService.UpdateTask(ctx, userID, taskID, &req)
	if err != nil {
		respondWithServiceError(w, err, "update task")
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID, ok := currentUser(w, ctx)
	if !ok {
		return
	}
	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(ctx, userID, taskID); err != nil {
		respondWithServiceError(w, err, "delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
