package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taskchat/tasks"
)

// TaskStore implements tasks.Store. Every statement carries the user id so
// a task owned by another user is indistinguishable from a missing one.
type TaskStore struct {
	db *sql.DB
}

var _ tasks.Store = (*TaskStore)(nil)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanTask(row rowScanner) (tasks.Task, error) {
	var t tasks.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func getTask(ctx context.Context, q queryRower, userID string, id int64) (tasks.Task, error) {
	row := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tasks.Task{}, tasks.ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("failed to load task %d: %w", id, err)
	}
	return t, nil
}

func (s *TaskStore) CreateTask(ctx context.Context, userID, title, description string) (tasks.Task, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at) VALUES (?, ?, ?, 0, ?, ?)`,
		userID, title, description, now, now,
	)
	if err != nil {
		return tasks.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return tasks.Task{}, fmt.Errorf("failed to read task id: %w", err)
	}

	return tasks.Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *TaskStore) ListTasks(ctx context.Context, userID string, status tasks.StatusFilter) ([]tasks.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}

	switch status {
	case tasks.StatusPending:
		query += ` AND completed = 0`
	case tasks.StatusCompleted:
		query += ` AND completed = 1`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	list := []tasks.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		list = append(list, t)
	}

	return list, rows.Err()
}

func (s *TaskStore) CompleteTask(ctx context.Context, userID string, id int64) (tasks.Task, error) {
	var out tasks.Task
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if t.Completed {
			out = t
			return nil
		}

		t.Completed = true
		t.UpdatedAt = time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET completed = 1, updated_at = ? WHERE id = ? AND user_id = ?`,
			t.UpdatedAt, id, userID,
		); err != nil {
			return fmt.Errorf("failed to complete task %d: %w", id, err)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *TaskStore) DeleteTask(ctx context.Context, userID string, id int64) (tasks.Task, error) {
	var out tasks.Task
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID); err != nil {
			return fmt.Errorf("failed to delete task %d: %w", id, err)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *TaskStore) UpdateTask(ctx context.Context, userID string, id int64, title, description *string) (tasks.Task, error) {
	var out tasks.Task
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if title != nil {
			t.Title = *title
		}
		if description != nil {
			t.Description = *description
		}
		t.UpdatedAt = time.Now().UTC()

		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
			t.Title, t.Description, t.UpdatedAt, id, userID,
		); err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *TaskStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
