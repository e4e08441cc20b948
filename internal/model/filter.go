package model

import "fmt"

// Filter selects which tasks a list shows
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters returns every filter in display order
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted}
}

// ParseFilter converts a string to a Filter
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterPending, FilterCompleted:
		return Filter(s), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Matches reports whether a task is visible under the filter
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Next returns the filter that follows f when cycling
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Label returns the display name
func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// EmptyMessage is shown when no task matches the filter
func (f Filter) EmptyMessage() string {
	switch f {
	case FilterPending:
		return "No pending tasks."
	case FilterCompleted:
		return "No completed tasks."
	default:
		return "No tasks yet. Press 'a' to add one."
	}
}

// Apply returns the tasks matching f, preserving order. The result is never nil.
func (f Filter) Apply(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
