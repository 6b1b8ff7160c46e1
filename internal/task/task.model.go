package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Name      string     `json:"name" db:"name"`
	Duration  int        `json:"duration" db:"duration"`
	Start     *time.Time `json:"start" db:"start_time"`
	End       *time.Time `json:"end" db:"end_time"`
	Completed bool       `json:"completed" db:"completed"`
}

// Minutes returns the duration with negative values clamped to zero.
func (t Task) Minutes() int {
	if t.Duration < 0 {
		return 0
	}
	return t.Duration
}

// TaskUpdate is what the presence hub fans out to connected clients when a
// task changes.
type TaskUpdate struct {
	Action   string    `json:"action"`
	Task     *Task     `json:"task"`
	SenderID uuid.UUID `json:"sender_id"`
}

const (
	ActionStarted   = "started"
	ActionCompleted = "completed"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
)
