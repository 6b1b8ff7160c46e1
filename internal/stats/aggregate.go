package stats

import (
	"time"

	"studyTrackerAPI/internal/plan"
	"studyTrackerAPI/internal/task"
)

const (
	NightStartHour  = 22
	EarlyEndHour    = 6
	LongTaskMinutes = 25
)

// Aggregate computes a user's achievement counters from their tasks and
// plans. Hour and weekday classification happens in loc. Tasks without a
// start time still count toward totals, keyword counters and long tasks.
// The two achievement-count fields are left at zero.
func Aggregate(tasks []task.Task, plans []plan.Plan, loc *time.Location) UserStats {
	if loc == nil {
		loc = time.UTC
	}

	var s UserStats
	perDay := make(map[Day]int)

	for _, t := range tasks {
		s.TotalTasks++
		s.TotalMinutes += t.Minutes()
		if t.Duration >= LongTaskMinutes {
			s.LongTasks++
		}
		for _, subject := range Subjects {
			if subject.Matches(t.Name) {
				*s.counter(subject.Metric)++
			}
		}

		if t.Start == nil {
			continue
		}
		start := t.Start.In(loc)
		if start.Hour() >= NightStartHour {
			s.NightTasks++
		}
		if start.Hour() < EarlyEndHour {
			s.EarlyTasks++
		}
		if wd := start.Weekday(); wd == time.Saturday || wd == time.Sunday {
			s.WeekendTasks++
		}
		perDay[DayOf(start, loc)]++
	}

	days := make([]Day, 0, len(perDay))
	for day, n := range perDay {
		days = append(days, day)
		s.MaxDailyTasks = max(s.MaxDailyTasks, n)
	}
	s.StreakDays = LongestStreak(days)

	s.TotalPlans = len(plans)
	for _, p := range plans {
		if p.Completed {
			s.CompletedPlans++
		}
	}

	return s
}
