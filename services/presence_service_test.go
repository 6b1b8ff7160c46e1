package services

import (
	"encoding/json"
	"testing"
	"time"

	"studyTrackerAPI/internal/task"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usersMessage struct {
	Action string       `json:"action"`
	Users  []OnlineUser `json:"users"`
}

func startHub(t *testing.T) *PresenceHub {
	t.Helper()
	hub := NewPresenceHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *PresenceClient) map[string]any {
	t.Helper()
	select {
	case msg := <-c.Send:
		var out map[string]any
		require.NoError(t, json.Unmarshal(msg, &out))
		return out
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for presence message")
		return nil
	}
}

func receiveUsers(t *testing.T, c *PresenceClient) []OnlineUser {
	t.Helper()
	select {
	case msg := <-c.Send:
		var out usersMessage
		require.NoError(t, json.Unmarshal(msg, &out))
		require.Equal(t, "online_users_updated", out.Action)
		return out.Users
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for online users")
		return nil
	}
}

func TestPresenceHubBroadcastsOnRegister(t *testing.T) {
	hub := startHub(t)

	alice := NewPresenceClient(hub, nil, uuid.New(), "alice")
	hub.Register <- alice
	users := receiveUsers(t, alice)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NotZero(t, users[0].LastActivity)

	bob := NewPresenceClient(hub, nil, uuid.New(), "bob")
	hub.Register <- bob
	assert.Len(t, receiveUsers(t, alice), 2)
	assert.Len(t, receiveUsers(t, bob), 2)

	hub.Unregister <- bob
	assert.Len(t, receiveUsers(t, alice), 1)

	_, open := <-bob.Send
	assert.False(t, open)
}

func TestPresenceHubDeduplicatesUserConnections(t *testing.T) {
	hub := startHub(t)
	id := uuid.New()

	first := NewPresenceClient(hub, nil, id, "alice")
	hub.Register <- first
	receiveUsers(t, first)

	second := NewPresenceClient(hub, nil, id, "alice")
	hub.Register <- second
	assert.Len(t, receiveUsers(t, first), 1)
	assert.Len(t, receiveUsers(t, second), 1)
}

func TestPresenceClientMessages(t *testing.T) {
	hub := startHub(t)
	c := NewPresenceClient(hub, nil, uuid.New(), "alice")
	hub.Register <- c
	receiveUsers(t, c)

	require.True(t, c.handle([]byte(`{"type":"heartbeat"}`)))
	assert.Equal(t, "heartbeat_ack", receive(t, c)["type"])

	require.True(t, c.handle([]byte(`{"type":"get_online_users"}`)))
	assert.Len(t, receiveUsers(t, c), 1)

	require.True(t, c.handle([]byte(`{"type":"privacy_mode","enabled":true}`)))
	users := receiveUsers(t, c)
	require.Len(t, users, 1)
	assert.True(t, users[0].PrivacyMode)
	assert.Equal(t, anonymousName, users[0].Username)

	assert.False(t, c.handle([]byte(`{"type":"dance"}`)))
	assert.False(t, c.handle([]byte(`not json`)))
}

func TestPresenceHubTaskUpdates(t *testing.T) {
	hub := startHub(t)
	sender := uuid.New()

	watcher := NewPresenceClient(hub, nil, uuid.New(), "bob")
	hub.Register <- watcher
	receiveUsers(t, watcher)

	hub.NotifyTaskUpdate(task.TaskUpdate{
		Action:   task.ActionStarted,
		Task:     &task.Task{ID: uuid.New(), UserID: sender, Name: "Go 并发", Duration: 25},
		SenderID: sender,
	})

	msg := receive(t, watcher)
	assert.Equal(t, "task_update", msg["type"])
	assert.Equal(t, "started", msg["action"])
	assert.Equal(t, sender.String(), msg["sender_id"])
	assert.Equal(t, "Go 并发", msg["task"].(map[string]any)["name"])
}

func TestPresenceHubHidesPrivateSenders(t *testing.T) {
	hub := startHub(t)

	private := NewPresenceClient(hub, nil, uuid.New(), "alice")
	hub.Register <- private
	receiveUsers(t, private)
	require.True(t, private.handle([]byte(`{"type":"privacy_mode","enabled":true}`)))
	receiveUsers(t, private)

	hub.NotifyTaskUpdate(task.TaskUpdate{
		Action:   task.ActionCompleted,
		Task:     &task.Task{ID: uuid.New(), UserID: private.UserID, Name: "secret", Duration: 30, Completed: true},
		SenderID: private.UserID,
	})

	msg := receive(t, private)
	assert.Equal(t, uuid.Nil.String(), msg["sender_id"])
	taskBody := msg["task"].(map[string]any)
	assert.Equal(t, "", taskBody["name"])
	assert.Equal(t, float64(30), taskBody["duration"])
}
