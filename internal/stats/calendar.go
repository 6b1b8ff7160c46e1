package stats

import (
	"math"
	"time"
)

const (
	OverviewDays = 30
	HeatmapDays  = 365
)

// WeekStart returns the Monday of the week containing d.
func WeekStart(d Day) Day {
	// 1970-01-01 was a Thursday.
	offset := (int64(d) + 3) % 7
	if offset < 0 {
		offset += 7
	}
	return d - Day(offset)
}

// MonthStart returns the first day of the month containing d.
func MonthStart(d Day) Day {
	t := d.Time(time.UTC)
	return DayOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), time.UTC)
}

// FillDaily returns one entry per day in [from, to], using zero for days
// missing from minutes.
func FillDaily(from, to Day, minutes map[Day]int) []DailyStat {
	if to < from {
		return []DailyStat{}
	}
	out := make([]DailyStat, 0, int(to-from)+1)
	for d := from; d <= to; d++ {
		out = append(out, DailyStat{Date: d.String(), Duration: minutes[d]})
	}
	return out
}

// FillHourly returns 24 entries, one per hour of the day.
func FillHourly(minutes map[int]int) []HourlyStat {
	out := make([]HourlyStat, 24)
	for h := range out {
		out[h] = HourlyStat{Hour: h, Duration: minutes[h]}
	}
	return out
}

// Heatmap returns whole study hours per day in [from, to].
func Heatmap(from, to Day, minutes map[Day]int) []HeatmapCell {
	daily := FillDaily(from, to, minutes)
	out := make([]HeatmapCell, len(daily))
	for i, d := range daily {
		out[i] = HeatmapCell{Date: d.Date, Count: d.Duration / 60}
	}
	return out
}

// HeatmapStart clamps the heatmap window to the last year.
func HeatmapStart(registered, today Day) Day {
	return max(registered, today-HeatmapDays)
}

// Hours converts minutes to hours rounded to one decimal place.
func Hours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
