package achievement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

type memoryStore struct {
	rows     []*UserAchievement
	now      time.Time
	failList bool
	failOn   string
	inserts  int
	deletes  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *memoryStore) seed(userID uuid.UUID, typ string, level int, at time.Time) *UserAchievement {
	row := &UserAchievement{ID: uuid.New(), UserID: userID, Type: typ, Level: level, UnlockedAt: at}
	m.rows = append(m.rows, row)
	return row
}

func (m *memoryStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*UserAchievement, error) {
	if m.failList {
		return nil, errStoreDown
	}
	var out []*UserAchievement
	for _, row := range m.rows {
		if row.UserID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryStore) Insert(_ context.Context, userID uuid.UUID, typ string, level int) (*UserAchievement, error) {
	if m.failOn == "insert" {
		return nil, errStoreDown
	}
	m.now = m.now.Add(time.Second)
	m.inserts++
	return m.seed(userID, typ, level, m.now), nil
}

func (m *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	if m.failOn == "delete" {
		return errStoreDown
	}
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			m.deletes++
			return nil
		}
	}
	return nil
}

func (m *memoryStore) has(userID uuid.UUID, typ string, level int) bool {
	for _, row := range m.rows {
		if row.UserID == userID && row.Type == typ && row.Level == level {
			return true
		}
	}
	return false
}
