package stats

type DailyStat struct {
	Date     string `json:"date"`
	Duration int    `json:"duration"`
}

type HourlyStat struct {
	Hour     int `json:"hour"`
	Duration int `json:"duration"`
}

type HeatmapCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Overview struct {
	Today         int          `json:"today"`
	Yesterday     int          `json:"yesterday"`
	ThisWeek      int          `json:"this_week"`
	ThisMonth     int          `json:"this_month"`
	Total         int          `json:"total"`
	Daily         []DailyStat  `json:"daily"`
	Hourly        []HourlyStat `json:"hourly"`
	CurrentStreak int          `json:"current_streak"`
	LongestStreak int          `json:"longest_streak"`
}

type DayStats struct {
	Hourly []HourlyStat `json:"hourly"`
	Total  int          `json:"total"`
}

type PeriodStats struct {
	Daily []DailyStat `json:"daily"`
	Total int         `json:"total"`
}

type TotalStats struct {
	DailyMinutes   int     `json:"dailyMinutes"`
	WeeklyMinutes  int     `json:"weeklyMinutes"`
	MonthlyMinutes int     `json:"monthlyMinutes"`
	TotalHours     float64 `json:"totalHours"`
}
