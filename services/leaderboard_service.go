package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyTrackerAPI/internal/leaderboard"
	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LeaderboardService struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewLeaderboardService(db *pgxpool.Pool, loc *time.Location) *LeaderboardService {
	return &LeaderboardService{db: db, loc: loc}
}

const weeklyRankingCTE = `
	WITH weekly AS (
		SELECT
			u.id AS user_id,
			u.username,
			u.avatar,
			COALESCE(SUM(GREATEST(t.duration, 0)), 0)::int AS weekly_minutes,
			COUNT(t.id)::int AS tasks_this_week
		FROM common_users u
		LEFT JOIN study_tasks t
			ON t.user_id = u.id AND t.start_time >= $1 AND t.start_time < $2
		WHERE u.is_active
		GROUP BY u.id, u.username, u.avatar
	),
	ranked AS (
		SELECT *, RANK() OVER (ORDER BY weekly_minutes DESC)::int AS rank
		FROM weekly
	)
`

func scanEntry(row pgx.Row) (*leaderboard.LeaderboardEntry, error) {
	e := &leaderboard.LeaderboardEntry{}
	if err := row.Scan(&e.UserID, &e.Username, &e.Avatar, &e.WeeklyMinutes, &e.TasksThisWeek, &e.Rank); err != nil {
		return nil, err
	}
	return e, nil
}

// GetWeeklyLeaderboard ranks active users by study minutes since Monday.
func (s *LeaderboardService) GetWeeklyLeaderboard(ctx context.Context, userID uuid.UUID) (*leaderboard.Leaderboard, error) {
	weekStart := stats.WeekStart(stats.DayOf(time.Now(), s.loc))
	from, to := weekStart.Time(s.loc), (weekStart + 7).Time(s.loc)

	query := weeklyRankingCTE + `
	SELECT user_id, username, avatar, weekly_minutes, tasks_this_week, rank
	FROM ranked
	ORDER BY rank, username
	LIMIT $3
	`

	rows, err := s.db.Query(ctx, query, from, to, leaderboard.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	board := &leaderboard.Leaderboard{
		WeekStart: weekStart.String(),
		Entries:   []*leaderboard.LeaderboardEntry{},
	}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		board.Entries = append(board.Entries, entry)
		if entry.UserID == userID {
			board.UserPosition = entry
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	if board.UserPosition == nil {
		position, err := scanEntry(s.db.QueryRow(ctx, weeklyRankingCTE+`
		SELECT user_id, username, avatar, weekly_minutes, tasks_this_week, rank
		FROM ranked WHERE user_id = $3`, from, to, userID))
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get user position: %w", err)
		}
		board.UserPosition = position
	}

	err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM common_users WHERE is_active`).Scan(&board.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	return board, nil
}
