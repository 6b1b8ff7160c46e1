package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLongestStreak(t *testing.T) {
	d := DayOf(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), time.UTC)

	tests := []struct {
		name string
		days []Day
		want int
	}{
		{"empty", nil, 0},
		{"single", []Day{d}, 1},
		{"gap splits runs", []Day{d, d + 1, d + 2, d + 5, d + 6}, 3},
		{"unsorted with duplicates", []Day{d + 6, d, d + 5, d + 1, d, d + 2}, 3},
		{"later run wins", []Day{d, d + 3, d + 4, d + 5, d + 6}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.days))
		})
	}
}

func TestCurrentStreak(t *testing.T) {
	today := DayOf(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, 3, CurrentStreak([]Day{today - 2, today - 1, today}, today))
	assert.Equal(t, 2, CurrentStreak([]Day{today - 2, today - 1}, today), "yesterday keeps the streak alive")
	assert.Equal(t, 0, CurrentStreak([]Day{today - 3, today - 2}, today))
	assert.Equal(t, 1, CurrentStreak([]Day{today - 5, today}, today))
	assert.Equal(t, 0, CurrentStreak(nil, today))
}

func TestDayOf_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	assert.NoError(t, err)

	ts := time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-01", DayOf(ts, time.UTC).String())
	assert.Equal(t, "2025-03-02", DayOf(ts, loc).String())
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, loc), DayOf(ts, loc).Time(loc))
}
