package achievement

import (
	"fmt"
	"time"

	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
)

// Level is one tier of an achievement. It is satisfied when the named
// statistic reaches Threshold.
type Level struct {
	Level       int          `json:"level"`
	Description string       `json:"description"`
	Metric      stats.Metric `json:"metric"`
	Threshold   int          `json:"threshold"`
}

func (l Level) Satisfied(s stats.UserStats) bool {
	return s.Value(l.Metric) >= l.Threshold
}

type Achievement struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Levels      []Level `json:"levels"`
}

// Type is the identifier persisted with unlocked tiers.
func (a Achievement) Type() string {
	return TypeFor(a.ID)
}

// IsMeta reports whether the achievement counts other achievements.
func (a Achievement) IsMeta() bool {
	for _, l := range a.Levels {
		if l.Metric == stats.MetricTotalAchievements || l.Metric == stats.MetricUnlockedAchievements {
			return true
		}
	}
	return false
}

func TypeFor(id int) string {
	return fmt.Sprintf("achievement_%d", id)
}

// UserAchievement is a persisted unlocked tier.
type UserAchievement struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Type       string    `json:"type" db:"type"`
	Level      int       `json:"level" db:"level"`
	UnlockedAt time.Time `json:"unlocked_at" db:"unlocked_at"`
}

type LevelStatus struct {
	Level      int        `json:"level"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}

type AchievementWithStatus struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	HighestLevel int           `json:"highest_level"`
	IsUnlocked   bool          `json:"is_unlocked"`
	Levels       []LevelStatus `json:"levels"`
}

type Response struct {
	Status       string                  `json:"status"`
	Achievements []AchievementWithStatus `json:"achievements"`
	UserStats    stats.UserStats         `json:"user_stats"`
}
