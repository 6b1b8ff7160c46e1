package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type StatisticsService struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewStatisticsService(db *pgxpool.Pool, loc *time.Location) *StatisticsService {
	return &StatisticsService{db: db, loc: loc}
}

type periodTotals struct {
	today, yesterday, week, month, total int
}

func (s *StatisticsService) today() stats.Day {
	return stats.DayOf(time.Now(), s.loc)
}

func (s *StatisticsService) periodTotals(ctx context.Context, userID uuid.UUID, today stats.Day) (periodTotals, error) {
	query := `
	SELECT
		COALESCE(SUM(GREATEST(duration, 0)) FILTER (WHERE start_time >= $2 AND start_time < $3), 0),
		COALESCE(SUM(GREATEST(duration, 0)) FILTER (WHERE start_time >= $4 AND start_time < $2), 0),
		COALESCE(SUM(GREATEST(duration, 0)) FILTER (WHERE start_time >= $5 AND start_time < $3), 0),
		COALESCE(SUM(GREATEST(duration, 0)) FILTER (WHERE start_time >= $6 AND start_time < $3), 0),
		COALESCE(SUM(GREATEST(duration, 0)), 0)
	FROM study_tasks
	WHERE user_id = $1
	`

	var t periodTotals
	err := s.db.QueryRow(ctx, query,
		userID,
		today.Time(s.loc),
		(today + 1).Time(s.loc),
		(today - 1).Time(s.loc),
		stats.WeekStart(today).Time(s.loc),
		stats.MonthStart(today).Time(s.loc),
	).Scan(&t.today, &t.yesterday, &t.week, &t.month, &t.total)
	if err != nil {
		return t, fmt.Errorf("failed to sum study time: %w", err)
	}
	return t, nil
}

// dailyMinutes sums study minutes per local calendar day in [from, to].
func (s *StatisticsService) dailyMinutes(ctx context.Context, userID uuid.UUID, from, to stats.Day) (map[stats.Day]int, error) {
	query := `
	SELECT (start_time AT TIME ZONE $2)::date AS day, COALESCE(SUM(GREATEST(duration, 0)), 0)
	FROM study_tasks
	WHERE user_id = $1 AND start_time >= $3 AND start_time < $4
	GROUP BY day
	`

	rows, err := s.db.Query(ctx, query, userID, s.loc.String(), from.Time(s.loc), (to + 1).Time(s.loc))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	minutes := make(map[stats.Day]int)
	for rows.Next() {
		var day time.Time
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		minutes[stats.DayOf(day, time.UTC)] = total
	}
	return minutes, rows.Err()
}

// hourlyMinutes sums study minutes per local hour of day. A nil bound is open.
func (s *StatisticsService) hourlyMinutes(ctx context.Context, userID uuid.UUID, from, to *time.Time) (map[int]int, error) {
	query := `
	SELECT EXTRACT(HOUR FROM start_time AT TIME ZONE $2)::int AS hour, COALESCE(SUM(GREATEST(duration, 0)), 0)
	FROM study_tasks
	WHERE user_id = $1
	  AND start_time IS NOT NULL
	  AND ($3::timestamptz IS NULL OR start_time >= $3)
	  AND ($4::timestamptz IS NULL OR start_time < $4)
	GROUP BY hour
	`

	rows, err := s.db.Query(ctx, query, userID, s.loc.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly stats: %w", err)
	}
	defer rows.Close()

	minutes := make(map[int]int)
	for rows.Next() {
		var hour, total int
		if err := rows.Scan(&hour, &total); err != nil {
			return nil, fmt.Errorf("failed to scan hourly stats: %w", err)
		}
		minutes[hour] = total
	}
	return minutes, rows.Err()
}

func (s *StatisticsService) activeDays(ctx context.Context, userID uuid.UUID) ([]stats.Day, error) {
	query := `
	SELECT DISTINCT (start_time AT TIME ZONE $2)::date
	FROM study_tasks
	WHERE user_id = $1 AND start_time IS NOT NULL
	`

	rows, err := s.db.Query(ctx, query, userID, s.loc.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query active days: %w", err)
	}
	defer rows.Close()

	var days []stats.Day
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan active day: %w", err)
		}
		days = append(days, stats.DayOf(day, time.UTC))
	}
	return days, rows.Err()
}

func (s *StatisticsService) GetOverview(ctx context.Context, userID uuid.UUID) (*stats.Overview, error) {
	today := s.today()
	from := today - stats.OverviewDays + 1

	var (
		totals periodTotals
		daily  map[stats.Day]int
		hourly map[int]int
		days   []stats.Day
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.periodTotals(gctx, userID, today)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.dailyMinutes(gctx, userID, from, today)
		return err
	})
	g.Go(func() (err error) {
		hourly, err = s.hourlyMinutes(gctx, userID, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		days, err = s.activeDays(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats.Overview{
		Today:         totals.today,
		Yesterday:     totals.yesterday,
		ThisWeek:      totals.week,
		ThisMonth:     totals.month,
		Total:         totals.total,
		Daily:         stats.FillDaily(from, today, daily),
		Hourly:        stats.FillHourly(hourly),
		CurrentStreak: stats.CurrentStreak(days, today),
		LongestStreak: stats.LongestStreak(days),
	}, nil
}

func (s *StatisticsService) GetDailyStats(ctx context.Context, userID uuid.UUID) (*stats.DayStats, error) {
	today := s.today()
	from, to := today.Time(s.loc), (today + 1).Time(s.loc)

	hourly, err := s.hourlyMinutes(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, m := range hourly {
		total += m
	}
	return &stats.DayStats{Hourly: stats.FillHourly(hourly), Total: total}, nil
}

func (s *StatisticsService) periodStats(ctx context.Context, userID uuid.UUID, from, to stats.Day) (*stats.PeriodStats, error) {
	minutes, err := s.dailyMinutes(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	daily := stats.FillDaily(from, to, minutes)
	total := 0
	for _, d := range daily {
		total += d.Duration
	}
	return &stats.PeriodStats{Daily: daily, Total: total}, nil
}

// GetWeeklyStats covers Monday through Sunday of the current week.
func (s *StatisticsService) GetWeeklyStats(ctx context.Context, userID uuid.UUID) (*stats.PeriodStats, error) {
	start := stats.WeekStart(s.today())
	return s.periodStats(ctx, userID, start, start+6)
}

// GetMonthlyStats covers the first of the month through today.
func (s *StatisticsService) GetMonthlyStats(ctx context.Context, userID uuid.UUID) (*stats.PeriodStats, error) {
	today := s.today()
	return s.periodStats(ctx, userID, stats.MonthStart(today), today)
}

func (s *StatisticsService) GetTotalStats(ctx context.Context, userID uuid.UUID) (*stats.TotalStats, error) {
	totals, err := s.periodTotals(ctx, userID, s.today())
	if err != nil {
		return nil, err
	}
	return &stats.TotalStats{
		DailyMinutes:   totals.today,
		WeeklyMinutes:  totals.week,
		MonthlyMinutes: totals.month,
		TotalHours:     stats.Hours(totals.total),
	}, nil
}

func (s *StatisticsService) GetTimeDistribution(ctx context.Context, userID uuid.UUID) ([]stats.HourlyStat, error) {
	hourly, err := s.hourlyMinutes(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	return stats.FillHourly(hourly), nil
}

// GetHeatmap covers registration day through today, capped at one year.
func (s *StatisticsService) GetHeatmap(ctx context.Context, userID uuid.UUID) ([]stats.HeatmapCell, error) {
	var registered time.Time
	err := s.db.QueryRow(ctx, `SELECT created_at FROM common_users WHERE id = $1`, userID).Scan(&registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load registration date: %w", err)
	}

	today := s.today()
	from := stats.HeatmapStart(stats.DayOf(registered, s.loc), today)

	minutes, err := s.dailyMinutes(ctx, userID, from, today)
	if err != nil {
		return nil, err
	}
	return stats.Heatmap(from, today, minutes), nil
}
