package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyTrackerAPI/internal/plan"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PlanService struct {
	db *pgxpool.Pool
}

func NewPlanService(db *pgxpool.Pool) *PlanService {
	return &PlanService{db: db}
}

const planColumns = `id, user_id, text, completed, started, created_at, start_time, end_time`

func scanPlan(row pgx.Row) (*plan.Plan, error) {
	p := &plan.Plan{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Completed, &p.Started, &p.CreatedAt, &p.StartTime, &p.EndTime); err != nil {
		return nil, err
	}
	return p, nil
}

func queryPlans(ctx context.Context, q querier, query string, args ...any) ([]plan.Plan, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []plan.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}
	return plans, nil
}

func (s *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, req *plan.CreatePlanRequest) (*plan.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &plan.Plan{
		Text:      req.Text,
		Completed: req.Completed,
		Started:   req.Started,
		CreatedAt: now,
	}
	if req.CreatedAt != nil {
		p.CreatedAt = *req.CreatedAt
	}
	p.Stamp(now)

	query := `
	INSERT INTO study_plans (id, user_id, text, completed, started, created_at, start_time, end_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING ` + planColumns

	created, err := scanPlan(s.db.QueryRow(ctx, query,
		uuid.New(), userID, p.Text, p.Completed, p.Started, p.CreatedAt, p.StartTime, p.EndTime))
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return created, nil
}

func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM study_plans WHERE user_id = $1 ORDER BY created_at DESC`
	return queryPlans(ctx, s.db, query, userID)
}

func (s *PlanService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*plan.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM study_plans WHERE id = $1 AND user_id = $2`

	p, err := scanPlan(s.db.QueryRow(ctx, query, planID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return p, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, req *plan.UpdatePlanRequest) (*plan.Plan, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + planColumns + ` FROM study_plans WHERE id = $1 AND user_id = $2 FOR UPDATE`
	p, err := scanPlan(tx.QueryRow(ctx, query, planID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}

	if err := req.Apply(p, time.Now()); err != nil {
		return nil, err
	}

	update := `
	UPDATE study_plans
	SET text = $3, completed = $4, started = $5, start_time = $6, end_time = $7
	WHERE id = $1 AND user_id = $2
	RETURNING ` + planColumns

	updated, err := scanPlan(tx.QueryRow(ctx, update, planID, userID, p.Text, p.Completed, p.Started, p.StartTime, p.EndTime))
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

func (s *PlanService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM study_plans WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
