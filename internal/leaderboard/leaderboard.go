package leaderboard

import "github.com/google/uuid"

const DefaultLimit = 50

type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	Avatar        *string   `json:"avatar" db:"avatar"`
	WeeklyMinutes int       `json:"weekly_minutes" db:"weekly_minutes"`
	TasksThisWeek int       `json:"tasks_this_week" db:"tasks_this_week"`
	Rank          int       `json:"rank" db:"rank"`
}

type Leaderboard struct {
	WeekStart    string              `json:"week_start"`
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"user_position"`
	TotalUsers   int                 `json:"total_users"`
}
