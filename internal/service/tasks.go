// Package service holds the task operations shared by the TUI and the CLI.
package service

import (
	"context"
	"strings"

	apperrors "github.com/dori/donelist/internal/errors"
	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/model"
)

// Store is the persistence the service depends on. *db.DB satisfies it.
type Store interface {
	CreateTask(ctx context.Context, text string) (*model.Task, error)
	ToggleTask(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	DeleteDoneTasks(ctx context.Context) (int, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
}

// Outcome reports what a mutation did
type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeNotFound:
		return "not found"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is returned by mutations addressed by id. Task is the stored
// record after the change and is nil unless Outcome is OutcomeUpdated
// (and for deletes, where there is nothing left to return).
type Result struct {
	Outcome Outcome
	Task    *model.Task
}

// ClearResult is returned by ClearCompleted
type ClearResult struct {
	Removed   int
	Remaining []model.Task
}

// TaskService implements the task operations on top of a Store
type TaskService struct {
	store  Store
	logger *logging.Logger
}

// New creates a TaskService. A nil logger discards output.
func New(store Store, logger *logging.Logger) *TaskService {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &TaskService{
		store:  store,
		logger: logger.With("component", "service"),
	}
}

func validateAndTrimText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", apperrors.NewValidationError("task text is required", nil).
			WithContext("field", "task")
	}
	return trimmed, nil
}

// AddTask creates a pending task from text
func (s *TaskService) AddTask(ctx context.Context, text string) (*model.Task, error) {
	trimmed, err := validateAndTrimText(text)
	if err != nil {
		return nil, err
	}

	task, err := s.store.CreateTask(ctx, trimmed)
	if err != nil {
		s.logFailure("add task", "", err)
		return nil, err
	}

	s.logger.Debug("task added", "task_id", task.ID)
	return task, nil
}

// ToggleDone flips the done flag of the task with id in one store
// transaction
func (s *TaskService) ToggleDone(ctx context.Context, id string) (Result, error) {
	updated, err := s.store.ToggleTask(ctx, id)
	if err != nil {
		return s.failure("toggle task", id, err)
	}

	s.logger.Debug("task toggled", "task_id", id, "done", updated.Done)
	return Result{Outcome: OutcomeUpdated, Task: updated}, nil
}

// EditTask replaces the text of the task with id. Text is validated the
// same way as AddTask.
func (s *TaskService) EditTask(ctx context.Context, id, text string) (Result, error) {
	trimmed, err := validateAndTrimText(text)
	if err != nil {
		return Result{Outcome: OutcomeFailed}, err
	}

	updated, err := s.store.UpdateTask(ctx, id, model.TaskPatch{Text: &trimmed})
	if err != nil {
		return s.failure("edit task", id, err)
	}

	s.logger.Debug("task edited", "task_id", id)
	return Result{Outcome: OutcomeUpdated, Task: updated}, nil
}

// DeleteTask removes the task with id
func (s *TaskService) DeleteTask(ctx context.Context, id string) (Result, error) {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return s.failure("delete task", id, err)
	}

	s.logger.Debug("task deleted", "task_id", id)
	return Result{Outcome: OutcomeUpdated}, nil
}

// ClearCompleted deletes every done task and returns what is left
func (s *TaskService) ClearCompleted(ctx context.Context) (ClearResult, error) {
	removed, err := s.store.DeleteDoneTasks(ctx)
	if err != nil {
		s.logFailure("clear completed", "", err)
		return ClearResult{}, err
	}

	remaining, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logFailure("list after clear", "", err)
		return ClearResult{Removed: removed}, err
	}

	s.logger.Info("cleared completed tasks", "removed", removed, "remaining", len(remaining))
	return ClearResult{Removed: removed, Remaining: remaining}, nil
}

// ListTasks returns every task in insertion order
func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logFailure("list tasks", "", err)
		return nil, err
	}
	return tasks, nil
}

// failure maps a store error to a Result. A missing task is not an error.
func (s *TaskService) failure(op, id string, err error) (Result, error) {
	if apperrors.IsNotFound(err) {
		s.logger.Debug("task not found", "op", op, "task_id", id)
		return Result{Outcome: OutcomeNotFound}, nil
	}
	s.logFailure(op, id, err)
	return Result{Outcome: OutcomeFailed}, err
}

func (s *TaskService) logFailure(op, id string, err error) {
	if !apperrors.ShouldLogError(err) {
		return
	}
	args := []any{"op", op, "error", err}
	if id != "" {
		args = append(args, "task_id", id)
	}
	s.logger.Error("store operation failed", args...)
}
