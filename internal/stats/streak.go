package stats

import (
	"slices"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Day is a calendar date counted in days since 1970-01-01.
type Day int64

// DayOf returns the calendar date of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay)
}

// Time returns midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, dd := time.Unix(int64(d)*secondsPerDay, 0).UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, loc)
}

func (d Day) String() string {
	return d.Time(time.UTC).Format(time.DateOnly)
}

func distinctSorted(days []Day) []Day {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}

// LongestStreak returns the length of the longest run of consecutive days.
func LongestStreak(days []Day) int {
	days = distinctSorted(days)
	longest, run := 0, 0
	for i, d := range days {
		if i > 0 && d == days[i-1]+1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// CurrentStreak returns the run of consecutive days ending today, or ending
// yesterday when today has no activity yet.
func CurrentStreak(days []Day, today Day) int {
	days = distinctSorted(days)
	if len(days) == 0 {
		return 0
	}
	i := len(days) - 1
	for i >= 0 && days[i] > today {
		i--
	}
	if i < 0 || days[i] < today-1 {
		return 0
	}
	streak := 1
	for ; i > 0 && days[i-1] == days[i]-1; i-- {
		streak++
	}
	return streak
}
