package service

import (
	"context"
	"testing"

	"github.com/dori/donelist/internal/model"
	"pgregory.net/rapid"
)

// =============================================================================
// Generators for property-based testing
// =============================================================================

func textGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ]{0,40}`)
}

func blankGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[ \t\n]{0,10}`)
}

// =============================================================================
// Add
// =============================================================================

func testAdd_BlankCreatesNothing_Properties(t *rapid.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	seed := rapid.SliceOfN(textGenerator(), 0, 5).Draw(t, "seed")
	for _, text := range seed {
		if _, err := svc.AddTask(ctx, text); err != nil {
			t.Fatalf("seed add failed: %v", err)
		}
	}

	if _, err := svc.AddTask(ctx, blankGenerator().Draw(t, "blank")); err == nil {
		t.Fatal("blank text must be rejected")
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != len(seed) {
		t.Fatalf("expected %d tasks, got %d", len(seed), len(tasks))
	}
}

func TestAdd_BlankCreatesNothing_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testAdd_BlankCreatesNothing_Properties)
}

func FuzzAdd_BlankCreatesNothing_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testAdd_BlankCreatesNothing_Properties))
}

func testAdd_AppendsExactlyOne_Properties(t *rapid.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	for _, text := range rapid.SliceOfN(textGenerator(), 0, 5).Draw(t, "seed") {
		if _, err := svc.AddTask(ctx, text); err != nil {
			t.Fatalf("seed add failed: %v", err)
		}
	}
	before, _ := svc.ListTasks(ctx)

	text := textGenerator().Draw(t, "text")
	task, err := svc.AddTask(ctx, text)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	after, _ := svc.ListTasks(ctx)
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
	}
	last := after[len(after)-1]
	if last.ID != task.ID || last.Done {
		t.Fatalf("new task must be appended pending, got %+v", last)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("existing task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestAdd_AppendsExactlyOne_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testAdd_AppendsExactlyOne_Properties)
}

func FuzzAdd_AppendsExactlyOne_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testAdd_AppendsExactlyOne_Properties))
}

// =============================================================================
// Toggle
// =============================================================================

func testToggle_TwiceRestores_Properties(t *rapid.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	task, err := svc.AddTask(ctx, textGenerator().Draw(t, "text"))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if rapid.Bool().Draw(t, "startDone") {
		if _, err := svc.ToggleDone(ctx, task.ID); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	before, _ := svc.ListTasks(ctx)

	for i := 0; i < 2; i++ {
		res, err := svc.ToggleDone(ctx, task.ID)
		if err != nil || res.Outcome != OutcomeUpdated {
			t.Fatalf("toggle %d: outcome=%v err=%v", i, res.Outcome, err)
		}
	}

	after, _ := svc.ListTasks(ctx)
	if after[0].Done != before[0].Done || after[0].Text != before[0].Text {
		t.Fatalf("double toggle changed task: %+v -> %+v", before[0], after[0])
	}
}

func TestToggle_TwiceRestores_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testToggle_TwiceRestores_Properties)
}

func FuzzToggle_TwiceRestores_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testToggle_TwiceRestores_Properties))
}

func testToggle_MissingIsNoop_Properties(t *rapid.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	for _, text := range rapid.SliceOfN(textGenerator(), 0, 5).Draw(t, "seed") {
		if _, err := svc.AddTask(ctx, text); err != nil {
			t.Fatalf("seed add failed: %v", err)
		}
	}
	before, _ := svc.ListTasks(ctx)

	// memStore ids look like task-0001, so this never matches
	missing := rapid.StringMatching(`[a-z]{8,16}`).Draw(t, "missing")
	res, err := svc.ToggleDone(ctx, missing)
	if err != nil || res.Outcome != OutcomeNotFound {
		t.Fatalf("expected NotFound, got outcome=%v err=%v", res.Outcome, err)
	}

	after, _ := svc.ListTasks(ctx)
	if len(after) != len(before) {
		t.Fatalf("list changed length: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("task %d changed", i)
		}
	}
}

func TestToggle_MissingIsNoop_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testToggle_MissingIsNoop_Properties)
}

func FuzzToggle_MissingIsNoop_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testToggle_MissingIsNoop_Properties))
}

// =============================================================================
// Clear completed
// =============================================================================

func testClear_RemovesExactlyDone_Properties(t *rapid.T) {
	svc := New(newMemStore(), nil)
	ctx := context.Background()

	n := rapid.IntRange(0, 10).Draw(t, "n")
	wantPending := []string{}
	wantRemoved := 0
	for i := 0; i < n; i++ {
		task, err := svc.AddTask(ctx, textGenerator().Draw(t, "text"))
		if err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if rapid.Bool().Draw(t, "done") {
			if _, err := svc.ToggleDone(ctx, task.ID); err != nil {
				t.Fatalf("toggle failed: %v", err)
			}
			wantRemoved++
			continue
		}
		wantPending = append(wantPending, task.ID)
	}

	res, err := svc.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if res.Removed != wantRemoved {
		t.Fatalf("removed %d, want %d", res.Removed, wantRemoved)
	}
	if len(res.Remaining) != len(wantPending) {
		t.Fatalf("remaining %d, want %d", len(res.Remaining), len(wantPending))
	}
	for i, task := range res.Remaining {
		if task.ID != wantPending[i] || task.Done {
			t.Fatalf("remaining[%d] = %+v, want pending %s", i, task, wantPending[i])
		}
	}
	if model.StatsOf(res.Remaining).Completed != 0 {
		t.Fatal("no completed task may survive a clear")
	}

	again, err := svc.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if again.Removed != 0 {
		t.Fatalf("second clear removed %d", again.Removed)
	}
}

func TestClear_RemovesExactlyDone_Properties(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testClear_RemovesExactlyDone_Properties)
}

func FuzzClear_RemovesExactlyDone_Properties(f *testing.F) {
	f.Fuzz(rapid.MakeFuzz(testClear_RemovesExactlyDone_Properties))
}
