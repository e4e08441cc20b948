package model

import (
	"time"
)

// Task represents a todo item
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"task"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskPatch holds a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Text *string
	Done *bool
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Text == nil && p.Done == nil
}

// Apply returns a copy of t with the patch applied
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	return t
}

// ShortID returns the first eight characters of the ID for display
func (t *Task) ShortID() string {
	if len(t.ID) <= 8 {
		return t.ID
	}
	return t.ID[:8]
}
