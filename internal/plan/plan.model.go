package plan

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Text      string     `json:"text" db:"text"`
	Completed bool       `json:"completed" db:"completed"`
	Started   bool       `json:"started" db:"started"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	StartTime *time.Time `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time" db:"end_time"`
}

// Stamp records start and end times the first time a plan is started or
// completed. A completed plan is always considered started.
func (p *Plan) Stamp(now time.Time) {
	if p.Completed {
		p.Started = true
	}
	if p.Started && p.StartTime == nil {
		ts := now
		p.StartTime = &ts
	}
	if p.Completed && p.EndTime == nil {
		ts := now
		p.EndTime = &ts
	}
}
