package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{in: "all", want: FilterAll},
		{in: "pending", want: FilterPending},
		{in: "completed", want: FilterCompleted},
		{in: "", want: FilterAll},
		{in: "done", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for i := 0; i < 3; i++ {
		f = f.Next()
		seen = append(seen, f)
	}
	assert.Equal(t, []Filter{FilterAll, FilterPending, FilterCompleted, FilterAll}, seen)
}

func TestFilterApply(t *testing.T) {
	tasks := []Task{
		{ID: "a", Text: "one", Done: false},
		{ID: "b", Text: "two", Done: true},
		{ID: "c", Text: "three", Done: false},
	}

	assert.Equal(t, tasks, FilterAll.Apply(tasks))
	assert.Equal(t, []Task{tasks[0], tasks[2]}, FilterPending.Apply(tasks))
	assert.Equal(t, []Task{tasks[1]}, FilterCompleted.Apply(tasks))

	empty := FilterCompleted.Apply(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStatsPercent(t *testing.T) {
	assert.Equal(t, 0.0, Stats{}.Percent())
	assert.Equal(t, 50.0, Stats{Completed: 1, Total: 2}.Percent())
	assert.Equal(t, 100.0, Stats{Completed: 3, Total: 3}.Percent())

	s := StatsOf([]Task{{Done: true}, {Done: false}, {Done: true}, {}})
	assert.Equal(t, Stats{Completed: 2, Total: 4}, s)
	assert.Equal(t, 2, s.Pending())
}

func TestTaskPatchApply(t *testing.T) {
	text := "new"
	done := true
	base := Task{ID: "x", Text: "old"}

	assert.True(t, TaskPatch{}.IsEmpty())
	assert.Equal(t, base, TaskPatch{}.Apply(base))

	got := TaskPatch{Text: &text, Done: &done}.Apply(base)
	assert.Equal(t, "new", got.Text)
	assert.True(t, got.Done)
	assert.Equal(t, "old", base.Text)
}

func TestShortID(t *testing.T) {
	task := Task{ID: "0123456789abcdef"}
	assert.Equal(t, "01234567", task.ShortID())
	short := Task{ID: "abc"}
	assert.Equal(t, "abc", short.ShortID())
}
