package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/internal/achievement"
	"studyTrackerAPI/internal/stats"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type AchievementService struct {
	db  *pgxpool.Pool
	loc *time.Location
}

func NewAchievementService(db *pgxpool.Pool, loc *time.Location) *AchievementService {
	return &AchievementService{db: db, loc: loc}
}

// GetAchievements recomputes the user's statistics, reconciles unlocked tiers
// and returns the full catalog with per-tier status. The user row is locked
// for the duration so concurrent requests for one user serialize.
func (s *AchievementService) GetAchievements(ctx context.Context, userID uuid.UUID) (*achievement.Response, error) {
	started := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM common_users WHERE id = $1 FOR UPDATE`, userID).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	tasks, err := queryTasks(ctx, tx, `SELECT `+taskColumns+` FROM study_tasks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	plans, err := queryPlans(ctx, tx, `SELECT `+planColumns+` FROM study_plans WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	base := stats.Aggregate(tasks, plans, s.loc)

	result, err := achievement.Reconcile(ctx, &achievementStore{q: tx}, userID, base)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, ua := range result.Unlocked {
		achievementUnlocks.WithLabelValues(ua.Type).Inc()
	}
	for _, ua := range result.Revoked {
		achievementRevocations.WithLabelValues(ua.Type).Inc()
	}
	reconcileDuration.Observe(time.Since(started).Seconds())

	if len(result.Unlocked) > 0 || len(result.Revoked) > 0 || result.Collapsed > 0 {
		config.Logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"unlocked":  len(result.Unlocked),
			"revoked":   len(result.Revoked),
			"collapsed": result.Collapsed,
		}).Info("Achievements reconciled")
	}

	return &result.Response, nil
}

// achievementStore persists tiers inside the caller's transaction.
type achievementStore struct {
	q querier
}

const achievementColumns = `id, user_id, type, level, unlocked_at`

func scanUserAchievement(row pgx.Row) (*achievement.UserAchievement, error) {
	ua := &achievement.UserAchievement{}
	if err := row.Scan(&ua.ID, &ua.UserID, &ua.Type, &ua.Level, &ua.UnlockedAt); err != nil {
		return nil, err
	}
	return ua, nil
}

func (st *achievementStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*achievement.UserAchievement, error) {
	rows, err := st.q.Query(ctx,
		`SELECT `+achievementColumns+` FROM study_achievements WHERE user_id = $1 ORDER BY unlocked_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var out []*achievement.UserAchievement
	for rows.Next() {
		ua, err := scanUserAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return out, nil
}

func (st *achievementStore) Insert(ctx context.Context, userID uuid.UUID, achievementType string, level int) (*achievement.UserAchievement, error) {
	query := `
	INSERT INTO study_achievements (id, user_id, type, level, unlocked_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (user_id, type, level) DO NOTHING
	RETURNING ` + achievementColumns

	ua, err := scanUserAchievement(st.q.QueryRow(ctx, query, uuid.New(), userID, achievementType, level))
	if err == nil {
		return ua, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Row already present.
	return scanUserAchievement(st.q.QueryRow(ctx,
		`SELECT `+achievementColumns+` FROM study_achievements WHERE user_id = $1 AND type = $2 AND level = $3`,
		userID, achievementType, level))
}

func (st *achievementStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := st.q.Exec(ctx, `DELETE FROM study_achievements WHERE id = $1`, id)
	return err
}

// Catalog returns the static achievement definitions.
func (s *AchievementService) Catalog() []achievement.Achievement {
	return achievement.All()
}
