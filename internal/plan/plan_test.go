package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePlanRequest_Apply(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(2 * time.Hour)
	started := true
	completed := true

	p := &Plan{Text: "read chapter 3"}

	require.NoError(t, (&UpdatePlanRequest{Started: &started}).Apply(p, t0))
	require.NotNil(t, p.StartTime)
	assert.Equal(t, t0, *p.StartTime)
	assert.Nil(t, p.EndTime)

	require.NoError(t, (&UpdatePlanRequest{Completed: &completed}).Apply(p, t1))
	require.NotNil(t, p.EndTime)
	assert.Equal(t, t1, *p.EndTime)
	assert.Equal(t, t0, *p.StartTime, "start time must not be overwritten")
}

func TestUpdatePlanRequest_CompletingUnstartedPlan(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	completed := true
	p := &Plan{Text: "mock exam"}

	require.NoError(t, (&UpdatePlanRequest{Completed: &completed}).Apply(p, now))

	assert.True(t, p.Started)
	require.NotNil(t, p.StartTime)
	require.NotNil(t, p.EndTime)
}

func TestUpdatePlanRequest_RejectsEmptyText(t *testing.T) {
	empty := "   "
	p := &Plan{Text: "keep"}

	err := (&UpdatePlanRequest{Text: &empty}).Apply(p, time.Now())

	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Equal(t, "keep", p.Text)
}
