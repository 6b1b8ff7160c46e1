package handlers

import (
	"context"
	"net/http"
	"time"

	"studyTrackerAPI/services"
)

type AvatarHandler struct {
	avatarService *services.AvatarService
}

func NewAvatarHandler(avatarService *services.AvatarService) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService}
}

func (h *AvatarHandler) GenerateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	q := r.URL.Query()
	req := services.AvatarRequest{
		Style:           q.Get("style"),
		Seed:            q.Get("seed"),
		BackgroundColor: q.Get("backgroundColor"),
		Chars:           q.Get("chars"),
	}
	if req.Style == "" {
		req.Style = "initials"
	}

	avatar, err := h.avatarService.Generate(ctx, req)
	if err != nil {
		respondWithServiceError(w, err, "generate avatar")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"avatar": avatar})
}
