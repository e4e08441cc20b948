package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	apperrors "github.com/dori/donelist/internal/errors"
	"github.com/dori/donelist/internal/model"
	"github.com/google/uuid"
)

const taskColumns = `id, task, done, created_at, updated_at`

// ListTasks returns every task in insertion order
func (db *DB) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tasks", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns a single task by ID
func (db *DB) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanSingle(row, id)
}

// CreateTask inserts a pending task. Blank text is rejected.
func (db *DB) CreateTask(ctx context.Context, text string) (*model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("task text is required", nil).
			WithContext("field", "task")
	}

	now := time.Now().UTC()
	task := &model.Task{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (id, task, done, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`, task.ID, task.Text, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return nil, apperrors.NewDatabaseError("insert task", err)
	}

	return task, nil
}

// UpdateTask applies a partial update and returns the stored result
func (db *DB) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.Text != nil {
		text := strings.TrimSpace(*patch.Text)
		if text == "" {
			return nil, apperrors.NewValidationError("task text is required", nil).
				WithContext("field", "task")
		}
		patch.Text = &text
	}

	var updated *model.Task
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
		current, err := scanSingle(row, id)
		if err != nil {
			return err
		}

		if patch.IsEmpty() {
			updated = current
			return nil
		}

		next := patch.Apply(*current)
		next.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx, `
			UPDATE tasks SET task = ?, done = ?, updated_at = ? WHERE id = ?
		`, next.Text, next.Done, next.UpdatedAt, id)
		if err != nil {
			return apperrors.NewDatabaseError("update task", err)
		}

		updated = &next
		return nil
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewDatabaseError("update task", err)
	}

	return updated, nil
}

// ToggleTask flips the done flag and returns the stored result. The write
// happens before the read so the row is locked for the whole transaction.
func (db *DB) ToggleTask(ctx context.Context, id string) (*model.Task, error) {
	var toggled *model.Task
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE tasks SET done = NOT done, updated_at = ? WHERE id = ?
		`, time.Now().UTC(), id)
		if err != nil {
			return apperrors.NewDatabaseError("toggle task", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return apperrors.NewDatabaseError("get rows affected", err)
		}
		if n == 0 {
			return apperrors.NewNotFoundError("task", id)
		}

		row := tx.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
		toggled, err = scanSingle(row, id)
		return err
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, apperrors.NewDatabaseError("toggle task", err)
	}

	return toggled, nil
}

// DeleteTask deletes a task by ID
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete task", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewDatabaseError("get rows affected", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError("task", id)
	}
	return nil
}

// DeleteDoneTasks removes every completed task and returns how many went
func (db *DB) DeleteDoneTasks(ctx context.Context) (int, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE done = 1`)
	if err != nil {
		return 0, apperrors.NewDatabaseError("delete completed tasks", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.NewDatabaseError("get rows affected", err)
	}
	return int(n), nil
}

// CountTasks returns completed and total counts
func (db *DB) CountTasks(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN done THEN 1 ELSE 0 END), 0) FROM tasks
	`).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return model.Stats{}, apperrors.NewDatabaseError("count tasks", err)
	}
	return stats, nil
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan task", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate tasks", err)
	}
	return tasks, nil
}

func scanSingle(s scanner, id string) (*model.Task, error) {
	t, err := scanTaskRow(s)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("task", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("scan task", err)
	}
	return t, nil
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	err := s.Scan(&t.ID, &t.Text, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
