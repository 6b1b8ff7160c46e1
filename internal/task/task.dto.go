package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type CreateTaskRequest struct {
	Name      string  `json:"name"`
	Duration  int     `json:"duration"`
	Start     *string `json:"start,omitempty"`
	End       *string `json:"end,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type UpdateTaskRequest struct {
	Name      *string `json:"name,omitempty"`
	Duration  *int    `json:"duration,omitempty"`
	Start     *string `json:"start,omitempty"`
	End       *string `json:"end,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

var ErrInvalidTask = errors.New("invalid task")

// Validate checks the request and returns the parsed start and end times.
func (r *CreateTaskRequest) Validate(loc *time.Location) (start, end *time.Time, err error) {
	if strings.TrimSpace(r.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidTask)
	}
	if r.Duration < 0 {
		return nil, nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidTask)
	}
	if start, err = parseOptional(r.Start, loc); err != nil {
		return nil, nil, err
	}
	if end, err = parseOptional(r.End, loc); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// Apply copies the set fields of the request onto t.
func (r *UpdateTaskRequest) Apply(t *Task, loc *time.Location) error {
	if r.Name != nil {
		if strings.TrimSpace(*r.Name) == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidTask)
		}
		t.Name = *r.Name
	}
	if r.Duration != nil {
		if *r.Duration < 0 {
			return fmt.Errorf("%w: duration must not be negative", ErrInvalidTask)
		}
		t.Duration = *r.Duration
	}
	if r.Start != nil {
		start, err := parseOptional(r.Start, loc)
		if err != nil {
			return err
		}
		t.Start = start
	}
	if r.End != nil {
		end, err := parseOptional(r.End, loc)
		if err != nil {
			return err
		}
		t.End = end
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	return nil
}

func parseOptional(value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(*value, loc)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339 timestamps and offset-less local timestamps.
// Offset-less values are interpreted in loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrInvalidTask, value)
}
