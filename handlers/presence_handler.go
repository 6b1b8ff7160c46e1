package handlers

import (
	"net/http"

	"studyTrackerAPI/config"
	"studyTrackerAPI/middleware"
	"studyTrackerAPI/services"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type PresenceHandler struct {
	hub *services.PresenceHub
}

func NewPresenceHandler(hub *services.PresenceHub) *PresenceHandler {
	return &PresenceHandler{hub: hub}
}

// OnlineUsers upgrades an authenticated request and joins it to the hub.
func (h *PresenceHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r.Context())
	if !ok {
		return
	}
	username, _ := middleware.GetUsername(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		config.Logger.WithError(err).Warn("Presence websocket upgrade failed")
		return
	}

	client := services.NewPresenceClient(h.hub, conn, userID, username)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
