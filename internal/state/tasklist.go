// Package state holds the client-side task list the TUI renders.
package state

import "github.com/dori/donelist/internal/model"

// TaskList keeps the source list, the active filter and the filtered view
// derived from both. Every mutation builds fresh slices, so copies of a
// TaskList value taken earlier are never changed underneath.
type TaskList struct {
	tasks    []model.Task
	filter   model.Filter
	filtered []model.Task
}

// Snapshot is a detached copy of a TaskList's source list
type Snapshot struct {
	tasks []model.Task
}

// Len returns the number of tasks captured
func (s Snapshot) Len() int {
	return len(s.tasks)
}

// New returns an empty list showing every task
func New() TaskList {
	return TaskList{
		tasks:    []model.Task{},
		filter:   model.FilterAll,
		filtered: []model.Task{},
	}
}

// Set replaces the source list and re-derives the filtered view
func (l *TaskList) Set(tasks []model.Task) {
	l.tasks = cloneTasks(tasks)
	l.derive()
}

// SetFilter changes the active filter and re-derives the filtered view
func (l *TaskList) SetFilter(f model.Filter) {
	l.filter = f
	l.derive()
}

// Filter returns the active filter
func (l TaskList) Filter() model.Filter {
	if l.filter == "" {
		return model.FilterAll
	}
	return l.filter
}

// Tasks returns a copy of the source list
func (l TaskList) Tasks() []model.Task {
	return cloneTasks(l.tasks)
}

// Filtered returns the tasks visible under the active filter
func (l TaskList) Filtered() []model.Task {
	return cloneTasks(l.filtered)
}

// Len returns the number of visible tasks
func (l TaskList) Len() int {
	return len(l.filtered)
}

// At returns the visible task at index i
func (l TaskList) At(i int) (model.Task, bool) {
	if i < 0 || i >= len(l.filtered) {
		return model.Task{}, false
	}
	return l.filtered[i], true
}

// Stats counts the whole source list, not just the visible part
func (l TaskList) Stats() model.Stats {
	return model.StatsOf(l.tasks)
}

// Find returns the task with id
func (l TaskList) Find(id string) (model.Task, bool) {
	for _, t := range l.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Toggle flips the done flag of the task with id locally. It reports false
// and changes nothing when id is unknown.
func (l *TaskList) Toggle(id string) bool {
	next := cloneTasks(l.tasks)
	for i := range next {
		if next[i].ID == id {
			next[i].Done = !next[i].Done
			l.tasks = next
			l.derive()
			return true
		}
	}
	return false
}

// Snapshot captures the source list for a later Restore
func (l TaskList) Snapshot() Snapshot {
	return Snapshot{tasks: cloneTasks(l.tasks)}
}

// Restore reinstalls a snapshot verbatim. The filter is left as is.
func (l *TaskList) Restore(s Snapshot) {
	l.Set(s.tasks)
}

func (l *TaskList) derive() {
	l.filtered = l.Filter().Apply(l.tasks)
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out
}
