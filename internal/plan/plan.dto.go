package plan

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidPlan = errors.New("invalid plan: text is required")

type CreatePlanRequest struct {
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Started   bool       `json:"started"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type UpdatePlanRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Started   *bool   `json:"started,omitempty"`
}

func (r *CreatePlanRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrInvalidPlan
	}
	return nil
}

// Apply copies the set fields onto p and stamps lifecycle times.
func (r *UpdatePlanRequest) Apply(p *Plan, now time.Time) error {
	if r.Text != nil {
		if strings.TrimSpace(*r.Text) == "" {
			return ErrInvalidPlan
		}
		p.Text = *r.Text
	}
	if r.Started != nil {
		p.Started = *r.Started
	}
	if r.Completed != nil {
		p.Completed = *r.Completed
	}
	p.Stamp(now)
	return nil
}
