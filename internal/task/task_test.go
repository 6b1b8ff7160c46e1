package task

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"utc suffix", "2025-03-01T14:30:00Z", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"explicit offset", "2025-03-01T22:30:00+08:00", time.Date(2025, 3, 1, 14, 30, 0, 0, time.UTC)},
		{"local without offset", "2025-03-01T22:30:00", time.Date(2025, 3, 1, 22, 30, 0, 0, shanghai)},
		{"local with millis", "2025-03-01T22:30:00.250", time.Date(2025, 3, 1, 22, 30, 0, 250000000, shanghai)},
		{"space separated", "2025-03-01 05:10:00", time.Date(2025, 3, 1, 5, 10, 0, 0, shanghai)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.value, shanghai)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTask)
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	start := "2025-03-01T08:00:00Z"
	req := &CreateTaskRequest{Name: "英语阅读", Duration: 25, Start: &start}

	s, e, err := req.Validate(time.UTC)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Nil(t, e)

	_, _, err = (&CreateTaskRequest{Name: "", Duration: 5}).Validate(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, _, err = (&CreateTaskRequest{Name: "x", Duration: -1}).Validate(time.UTC)
	assert.ErrorIs(t, err, ErrInvalidTask)
}

func TestTask_Minutes(t *testing.T) {
	assert.Equal(t, 0, Task{Duration: -10}.Minutes())
	assert.Equal(t, 25, Task{Duration: 25}.Minutes())
}
