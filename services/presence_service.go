// The presence hub tracks which users have the app open. Run owns the client
// set; every other goroutine talks to it through channels.
package services

import (
	"encoding/json"
	"sort"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/task"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

const anonymousName = "匿名用户"

type OnlineUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	LastActivity int64     `json:"lastActivity"`
	PrivacyMode  bool      `json:"privacyMode"`
}

type presenceUpdate struct {
	client      *PresenceClient
	privacyMode *bool
	ack         bool
}

type PresenceHub struct {
	clients    map[*PresenceClient]bool
	Register   chan *PresenceClient
	Unregister chan *PresenceClient
	refresh    chan *PresenceClient
	update     chan presenceUpdate
	taskEvents chan task.TaskUpdate
	stop       chan struct{}
	now        func() time.Time
}

func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		clients:    make(map[*PresenceClient]bool),
		Register:   make(chan *PresenceClient),
		Unregister: make(chan *PresenceClient),
		refresh:    make(chan *PresenceClient),
		update:     make(chan presenceUpdate),
		taskEvents: make(chan task.TaskUpdate, 64),
		stop:       make(chan struct{}),
		now:        time.Now,
	}
}

func (h *PresenceHub) Run() {
	for {
		select {
		case client := <-h.Register:
			client.lastActivity = h.now()
			h.clients[client] = true
			config.Logger.WithFields(logrus.Fields{"user_id": client.UserID, "connections": len(h.clients)}).Debug("Presence client connected")
			h.broadcastUsers()

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.broadcastUsers()
			}

		case client := <-h.refresh:
			if h.clients[client] {
				client.lastActivity = h.now()
				h.sendTo(client, h.usersMessage())
			}

		case u := <-h.update:
			if !h.clients[u.client] {
				continue
			}
			u.client.lastActivity = h.now()
			if u.ack {
				h.sendTo(u.client, mustMarshal(map[string]string{"type": "heartbeat_ack"}))
			}
			if u.privacyMode != nil && *u.privacyMode != u.client.privacyMode {
				u.client.privacyMode = *u.privacyMode
				h.broadcastUsers()
			}

		case ev := <-h.taskEvents:
			h.broadcast(h.taskMessage(ev))

		case <-h.stop:
			for client := range h.clients {
				h.remove(client)
			}
			return
		}
	}
}

func (h *PresenceHub) Stop() {
	close(h.stop)
}

// NotifyTaskUpdate fans a task change out to every connected client. It never
// blocks the caller.
func (h *PresenceHub) NotifyTaskUpdate(update task.TaskUpdate) {
	select {
	case h.taskEvents <- update:
	default:
		config.Logger.WithField("user_id", update.SenderID).Warn("Presence hub busy, dropping task update")
	}
}

func (h *PresenceHub) remove(client *PresenceClient) {
	delete(h.clients, client)
	close(client.Send)
}

func (h *PresenceHub) sendTo(client *PresenceClient, msg []byte) {
	select {
	case client.Send <- msg:
	default:
		h.remove(client)
	}
}

func (h *PresenceHub) broadcast(msg []byte) {
	for client := range h.clients {
		h.sendTo(client, msg)
	}
}

func (h *PresenceHub) broadcastUsers() {
	h.broadcast(h.usersMessage())
}

// onlineUsers returns one entry per user, most recently active first. A user
// with several connections is private if any of them is.
func (h *PresenceHub) onlineUsers() []OnlineUser {
	byUser := make(map[uuid.UUID]*OnlineUser)
	for client := range h.clients {
		u, ok := byUser[client.UserID]
		if !ok {
			u = &OnlineUser{ID: client.UserID, Username: client.Username}
			byUser[client.UserID] = u
		}
		u.LastActivity = max(u.LastActivity, client.lastActivity.UnixMilli())
		u.PrivacyMode = u.PrivacyMode || client.privacyMode
	}

	users := make([]OnlineUser, 0, len(byUser))
	for _, u := range byUser {
		if u.PrivacyMode {
			u.Username = anonymousName
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastActivity != users[j].LastActivity {
			return users[i].LastActivity > users[j].LastActivity
		}
		return users[i].ID.String() < users[j].ID.String()
	})

	onlineUsers.Set(float64(len(users)))
	return users
}

func (h *PresenceHub) isPrivate(userID uuid.UUID) bool {
	for client := range h.clients {
		if client.UserID == userID && client.privacyMode {
			return true
		}
	}
	return false
}

func (h *PresenceHub) usersMessage() []byte {
	return mustMarshal(struct {
		Action string       `json:"action"`
		Users  []OnlineUser `json:"users"`
	}{"online_users_updated", h.onlineUsers()})
}

func (h *PresenceHub) taskMessage(ev task.TaskUpdate) []byte {
	sender := ev.SenderID
	t := ev.Task
	if h.isPrivate(sender) {
		sender = uuid.Nil
		if t != nil {
			t = &task.Task{ID: t.ID, Duration: t.Duration, Completed: t.Completed}
		}
	}

	return mustMarshal(struct {
		Type     string     `json:"type"`
		Action   string     `json:"action"`
		Task     *task.Task `json:"task"`
		SenderID uuid.UUID  `json:"sender_id"`
	}{"task_update", ev.Action, t, sender})
}

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		config.Logger.WithError(err).Error("Failed to marshal presence message")
		return []byte(`{}`)
	}
	return data
}

// PresenceClient sits between one websocket connection and the hub.
type PresenceClient struct {
	Hub      *PresenceHub
	Conn     *websocket.Conn
	Send     chan []byte
	UserID   uuid.UUID
	Username string

	// Owned by the hub goroutine.
	privacyMode  bool
	lastActivity time.Time
}

func NewPresenceClient(hub *PresenceHub, conn *websocket.Conn, userID uuid.UUID, username string) *PresenceClient {
	return &PresenceClient{
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 16),
		UserID:   userID,
		Username: username,
	}
}

type presencePayload struct {
	Type    string `json:"type"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// handle routes one client message to the hub. It reports false when the
// message type is unknown.
func (c *PresenceClient) handle(message []byte) bool {
	var payload presencePayload
	if err := json.Unmarshal(message, &payload); err != nil {
		return false
	}

	switch payload.Type {
	case "get_online_users":
		c.Hub.refresh <- c
	case "heartbeat":
		c.Hub.update <- presenceUpdate{client: c, ack: true}
	case "privacy_mode":
		enabled := payload.Enabled != nil && *payload.Enabled
		c.Hub.update <- presenceUpdate{client: c, privacyMode: &enabled}
	case "authenticate":
		// Already authenticated by the upgrade request.
		c.Hub.update <- presenceUpdate{client: c}
	default:
		return false
	}
	return true
}

func (c *PresenceClient) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				config.Logger.WithError(err).WithField("user_id", c.UserID).Warn("Presence connection closed unexpectedly")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		if !c.handle(message) {
			config.Logger.WithField("user_id", c.UserID).Debug("Ignoring unknown presence message")
		}
	}
}

// WritePump handles messages going to the browser.
func (c *PresenceClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
