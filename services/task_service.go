package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyTrackerAPI/internal/stats"
	"studyTrackerAPI/internal/task"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskNotifier is told about task changes so connected clients can refresh.
type TaskNotifier interface {
	NotifyTaskUpdate(update task.TaskUpdate)
}

type TaskService struct {
	db       *pgxpool.Pool
	loc      *time.Location
	notifier TaskNotifier
}

func NewTaskService(db *pgxpool.Pool, loc *time.Location, notifier TaskNotifier) *TaskService {
	return &TaskService{db: db, loc: loc, notifier: notifier}
}

const taskColumns = `id, user_id, name, duration, start_time, end_time, completed`

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Duration, &t.Start, &t.End, &t.Completed); err != nil {
		return nil, err
	}
	return t, nil
}

func queryTasks(ctx context.Context, q querier, query string, args ...any) ([]task.Task, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) notify(action string, userID uuid.UUID, t *task.Task) {
	if s.notifier != nil {
		s.notifier.NotifyTaskUpdate(task.TaskUpdate{Action: action, Task: t, SenderID: userID})
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *task.CreateTaskRequest) (*task.Task, error) {
	start, end, err := req.Validate(s.loc)
	if err != nil {
		return nil, err
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	query := `
	INSERT INTO study_tasks (id, user_id, name, duration, start_time, end_time, completed)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + taskColumns

	t, err := scanTask(s.db.QueryRow(ctx, query, uuid.New(), userID, req.Name, req.Duration, start, end, completed))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	action := task.ActionStarted
	if t.Completed {
		action = task.ActionCompleted
	}
	s.notify(action, userID, t)
	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM study_tasks WHERE user_id = $1 ORDER BY start_time DESC NULLS LAST`
	return queryTasks(ctx, s.db, query, userID)
}

// ListTodayTasks returns tasks that started today in the configured timezone.
func (s *TaskService) ListTodayTasks(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	today := stats.DayOf(time.Now(), s.loc)
	query := `
	SELECT ` + taskColumns + `
	FROM study_tasks
	WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
	ORDER BY start_time DESC`
	return queryTasks(ctx, s.db, query, userID, today.Time(s.loc), (today + 1).Time(s.loc))
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM study_tasks WHERE id = $1 AND user_id = $2`

	t, err := scanTask(s.db.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *task.UpdateTaskRequest) (*task.Task, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + taskColumns + ` FROM study_tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	t, err := scanTask(tx.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	wasCompleted := t.Completed
	if err := req.Apply(t, s.loc); err != nil {
		return nil, err
	}

	update := `
	UPDATE study_tasks
	SET name = $3, duration = $4, start_time = $5, end_time = $6, completed = $7
	WHERE id = $1 AND user_id = $2
	RETURNING ` + taskColumns

	updated, err := scanTask(tx.QueryRow(ctx, update, taskID, userID, t.Name, t.Duration, t.Start, t.End, t.Completed))
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	action := task.ActionUpdated
	if updated.Completed && !wasCompleted {
		action = task.ActionCompleted
	}
	s.notify(action, userID, updated)
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM study_tasks WHERE id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.notify(task.ActionDeleted, userID, &task.Task{ID: taskID, UserID: userID})
	return nil
}
