package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "github.com/dori/donelist/internal/errors"
	"github.com/dori/donelist/internal/model"
)

// memStore is an in-memory Store. Setting fail makes every call return it.
type memStore struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int
	fail   error
	calls  int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) begin() error {
	m.calls++
	return m.fail
}

func (m *memStore) CreateTask(_ context.Context, text string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("task text is required", nil)
	}

	m.nextID++
	now := time.Now().UTC()
	task := model.Task{
		ID:        fmt.Sprintf("task-%04d", m.nextID),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks = append(m.tasks, task)
	return &task, nil
}

func (m *memStore) index(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *memStore) ToggleTask(_ context.Context, id string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	i := m.index(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("task", id)
	}
	m.tasks[i].Done = !m.tasks[i].Done
	m.tasks[i].UpdatedAt = time.Now().UTC()
	task := m.tasks[i]
	return &task, nil
}

func (m *memStore) UpdateTask(_ context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	i := m.index(id)
	if i < 0 {
		return nil, apperrors.NewNotFoundError("task", id)
	}
	m.tasks[i] = patch.Apply(m.tasks[i])
	m.tasks[i].UpdatedAt = time.Now().UTC()
	task := m.tasks[i]
	return &task, nil
}

func (m *memStore) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return err
	}

	i := m.index(id)
	if i < 0 {
		return apperrors.NewNotFoundError("task", id)
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	return nil
}

func (m *memStore) DeleteDoneTasks(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return 0, err
	}

	kept := m.tasks[:0]
	removed := 0
	for _, t := range m.tasks {
		if t.Done {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	m.tasks = kept
	return removed, nil
}

func (m *memStore) ListTasks(_ context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}

	out := make([]model.Task, len(m.tasks))
	copy(out, m.tasks)
	return out, nil
}
