package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	apperrors "github.com/dori/donelist/internal/errors"
	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/model"
	"github.com/dori/donelist/internal/service"
	"github.com/dori/donelist/internal/state"
	"github.com/dori/donelist/internal/ui/theme"
)

// TaskService is what the list needs from the service layer
type TaskService interface {
	AddTask(ctx context.Context, text string) (*model.Task, error)
	ToggleDone(ctx context.Context, id string) (service.Result, error)
	EditTask(ctx context.Context, id, text string) (service.Result, error)
	DeleteTask(ctx context.Context, id string) (service.Result, error)
	ClearCompleted(ctx context.Context) (service.ClearResult, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
}

// Notifier announces milestones outside the terminal
type Notifier interface {
	SendAllComplete(total int) error
	SendCleared(removed int) error
}

// ListMode represents the current interaction mode
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeAdd
	ListModeEdit
	ListModeConfirmDelete
	ListModeConfirmClear
)

const progressBarWidth = 20

// ListView shows the task list and drives every mutation through the service
type ListView struct {
	service  TaskService
	logger   *logging.Logger
	notifier Notifier
	keys     ListKeyMap
	width    int
	height   int

	list         state.TaskList
	cursor       int
	scrollOffset int // First visible task index

	mode      ListMode
	input     textinput.Model
	editingID string
	deleteID  string

	// adding is set while an add request is in flight
	adding  bool
	spinner spinner.Model

	statusMsg string
	errorMsg  string
}

// NewListView creates a new list view
func NewListView(svc TaskService, logger *logging.Logger, notifier Notifier) ListView {
	if logger == nil {
		logger = logging.NopLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "New task..."
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ListView{
		service:  svc,
		logger:   logger.With("component", "list"),
		notifier: notifier,
		keys:     DefaultListKeyMap(),
		list:     state.New(),
		input:    ti,
		spinner:  sp,
	}
}

// Init loads the tasks
func (v ListView) Init() tea.Cmd {
	return v.loadTasks
}

// IsInputMode returns true when the view is capturing keys for text input
// or a confirmation prompt
func (v ListView) IsInputMode() bool {
	return v.mode != ListModeNormal
}

// Mode returns the current interaction mode
func (v ListView) Mode() ListMode {
	return v.mode
}

// IsAdding reports whether an add request is in flight
func (v ListView) IsAdding() bool {
	return v.adding
}

// Tasks returns the client-side task list
func (v ListView) Tasks() state.TaskList {
	return v.list
}

// Cursor returns the index of the highlighted task in the filtered view
func (v ListView) Cursor() int {
	return v.cursor
}

// StatusMessage returns the current success notice
func (v ListView) StatusMessage() string {
	return v.statusMsg
}

// ErrorMessage returns the current failure notice
func (v ListView) ErrorMessage() string {
	return v.errorMsg
}

// Keys returns the list keybindings
func (v ListView) Keys() ListKeyMap {
	return v.keys
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// SetFilter changes the active filter
func (v ListView) SetFilter(f model.Filter) ListView {
	v.list.SetFilter(f)
	v.clampCursor()
	return v
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v ListView) visibleTaskCount() int {
	// filter tabs, notices, footer
	available := v.height - 6
	if v.mode == ListModeAdd || v.mode == ListModeEdit {
		available -= 4
	}
	if available < 1 {
		available = 1
	}
	return available
}

func (v *ListView) clampCursor() {
	if v.cursor >= v.list.Len() {
		v.cursor = max(0, v.list.Len()-1)
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureCursorVisible()
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := max(0, v.list.Len()-visible)
	v.scrollOffset = min(max(v.scrollOffset, 0), maxOffset)
}

func (v *ListView) fail(notice string, err error) {
	v.statusMsg = ""
	v.errorMsg = notice
	if err != nil {
		msg := apperrors.GetUserMessage(err)
		if msg != "" {
			v.errorMsg = fmt.Sprintf("%s: %s", notice, msg)
		}
		if apperrors.ShouldLogError(err) {
			v.logger.Error(notice, "error", err)
		}
	}
}

func (v *ListView) notify(status string) {
	v.errorMsg = ""
	v.statusMsg = status
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			v.fail("Could not load tasks", msg.err)
			return v, nil
		}
		v.list.Set(msg.tasks)
		v.clampCursor()
		return v, nil

	case taskAddedMsg:
		v.adding = false
		if msg.err != nil {
			v.fail("Could not add task", msg.err)
			return v, nil
		}
		v.input.Reset()
		v.notify("Task added")
		return v, v.loadTasks

	case taskToggledMsg:
		return v.handleToggled(msg)

	case taskEditedMsg:
		switch {
		case msg.err != nil:
			v.fail("Could not edit task", msg.err)
		case msg.result.Outcome == service.OutcomeNotFound:
			v.logger.Debug("edited task vanished, reloading")
		case msg.result.Outcome == service.OutcomeUpdated:
			v.notify("Task updated")
		}
		return v, v.loadTasks

	case taskDeletedMsg:
		switch {
		case msg.err != nil:
			v.fail("Could not delete task", msg.err)
		case msg.result.Outcome == service.OutcomeUpdated:
			v.notify("Task deleted")
		}
		return v, v.loadTasks

	case completedClearedMsg:
		if msg.err != nil {
			v.fail("Could not clear completed tasks", msg.err)
			return v, v.loadTasks
		}
		v.list.Set(msg.result.Remaining)
		v.clampCursor()
		v.notify(fmt.Sprintf("Cleared %d completed task(s)", msg.result.Removed))
		return v, v.sendCleared(msg.result.Removed)

	case spinner.TickMsg:
		if !v.adding {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		switch v.mode {
		case ListModeAdd:
			return v.handleAddMode(msg)
		case ListModeEdit:
			return v.handleEditMode(msg)
		case ListModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		case ListModeConfirmClear:
			return v.handleClearConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	// Let the text input consume cursor blinks and pastes
	if v.mode == ListModeAdd || v.mode == ListModeEdit {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	v.errorMsg = ""

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		v.ensureCursorVisible()

	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.list.Len()-1 {
			v.cursor++
		}
		v.ensureCursorVisible()

	case key.Matches(msg, v.keys.Top):
		v.cursor = 0
		v.ensureCursorVisible()

	case key.Matches(msg, v.keys.Bottom):
		v.cursor = max(0, v.list.Len()-1)
		v.ensureCursorVisible()

	case key.Matches(msg, v.keys.Add):
		if v.adding {
			v.fail("Still adding the previous task", nil)
			return v, nil
		}
		v.mode = ListModeAdd
		v.input.Placeholder = "New task..."
		v.input.Reset()
		return v, v.input.Focus()

	case key.Matches(msg, v.keys.Edit):
		task, ok := v.list.At(v.cursor)
		if !ok {
			return v, nil
		}
		v.mode = ListModeEdit
		v.editingID = task.ID
		v.input.Placeholder = "Task text..."
		v.input.SetValue(task.Text)
		v.input.CursorEnd()
		return v, v.input.Focus()

	case key.Matches(msg, v.keys.Toggle):
		task, ok := v.list.At(v.cursor)
		if !ok {
			return v, nil
		}
		snapshot := v.list.Snapshot()
		v.list.Toggle(task.ID)
		v.clampCursor()
		return v, v.toggleTask(task.ID, snapshot)

	case key.Matches(msg, v.keys.Delete):
		task, ok := v.list.At(v.cursor)
		if !ok {
			return v, nil
		}
		v.mode = ListModeConfirmDelete
		v.deleteID = task.ID

	case key.Matches(msg, v.keys.Clear):
		if v.list.Stats().Completed == 0 {
			v.notify("No completed tasks to clear")
			return v, nil
		}
		v.mode = ListModeConfirmClear

	case key.Matches(msg, v.keys.Reload):
		return v, v.loadTasks

	case key.Matches(msg, v.keys.FilterAll):
		return v.SetFilter(model.FilterAll), nil

	case key.Matches(msg, v.keys.FilterPending):
		return v.SetFilter(model.FilterPending), nil

	case key.Matches(msg, v.keys.FilterCompleted):
		return v.SetFilter(model.FilterCompleted), nil

	case key.Matches(msg, v.keys.FilterCycle):
		return v.SetFilter(v.list.Filter().Next()), nil
	}

	return v, nil
}

// handleAddMode handles keypresses when adding a task
func (v ListView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			v.fail("Task text cannot be empty", nil)
			return v, nil
		}
		if v.adding {
			v.fail("Still adding the previous task", nil)
			return v, nil
		}
		v.mode = ListModeNormal
		v.input.Blur()
		v.adding = true
		v.errorMsg = ""
		return v, tea.Batch(v.addTask(text), v.spinner.Tick)
	case msg.String() == "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.Reset()
		v.errorMsg = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleEditMode handles keypresses in edit mode
func (v ListView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Confirm):
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			v.fail("Task text cannot be empty", nil)
			return v, nil
		}
		id := v.editingID
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.Reset()
		v.editingID = ""
		v.errorMsg = ""
		return v, v.editTask(id, text)
	case msg.String() == "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.Reset()
		v.editingID = ""
		v.errorMsg = ""
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleDeleteConfirm handles the y/n prompt before deleting
func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Yes):
		id := v.deleteID
		v.mode = ListModeNormal
		v.deleteID = ""
		return v, v.deleteTask(id)
	case key.Matches(msg, v.keys.No):
		v.mode = ListModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// handleClearConfirm handles the y/n prompt before clearing completed tasks
func (v ListView) handleClearConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Yes):
		v.mode = ListModeNormal
		return v, v.clearCompleted
	case key.Matches(msg, v.keys.No):
		v.mode = ListModeNormal
	}
	return v, nil
}

// handleToggled reconciles an optimistic toggle with the service outcome
func (v ListView) handleToggled(msg taskToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.result.Outcome == service.OutcomeFailed {
		v.list.Restore(msg.snapshot)
		v.clampCursor()
		v.fail("Could not update task", msg.err)
		// The snapshot may predate other toggles that did reach the store
		return v, v.loadTasks
	}

	if msg.result.Outcome == service.OutcomeNotFound {
		v.logger.Debug("toggled task vanished, reloading", "task_id", msg.id)
		return v, v.loadTasks
	}

	stats := v.list.Stats()
	if msg.result.Task != nil && msg.result.Task.Done && stats.Total > 0 && stats.Pending() == 0 {
		return v, v.sendAllComplete(stats.Total)
	}
	return v, nil
}

// View renders the list
func (v ListView) View() string {
	styles := theme.Current.Styles

	var b strings.Builder

	b.WriteString(v.renderFilterTabs())
	b.WriteString("\n\n")

	if v.mode == ListModeAdd || v.mode == ListModeEdit {
		label := "Add task"
		if v.mode == ListModeEdit {
			label = "Edit task"
		}
		b.WriteString(styles.HelpDesc.Render(label))
		b.WriteString("\n")
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n\n")
	}

	filtered := v.list.Filtered()
	if len(filtered) == 0 {
		b.WriteString(styles.HelpDesc.Render(v.list.Filter().EmptyMessage()))
		b.WriteString("\n")
	} else {
		end := min(v.scrollOffset+v.visibleTaskCount(), len(filtered))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderTask(filtered[i], i == v.cursor))
			b.WriteString("\n")
		}
		if end < len(filtered) {
			b.WriteString(styles.HelpDesc.Render(fmt.Sprintf("  ... %d more", len(filtered)-end)))
			b.WriteString("\n")
		}
	}

	if notice := v.renderNotice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderProgress())

	return b.String()
}

func (v ListView) renderFilterTabs() string {
	styles := theme.Current.Styles

	var tabs []string
	for i, f := range model.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == v.list.Filter() {
			tabs = append(tabs, styles.FilterActive.Render(label))
		} else {
			tabs = append(tabs, styles.FilterInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (v ListView) renderNotice() string {
	styles := theme.Current.Styles

	switch {
	case v.mode == ListModeConfirmDelete:
		text := "this task"
		if task, ok := v.list.Find(v.deleteID); ok {
			text = fmt.Sprintf("%q", task.Text)
		}
		return styles.Confirm.Render(fmt.Sprintf("Delete %s? (y/n)", text))
	case v.mode == ListModeConfirmClear:
		return styles.Confirm.Render(fmt.Sprintf("Clear %d completed task(s)? (y/n)", v.list.Stats().Completed))
	case v.adding:
		return v.spinner.View() + styles.HelpDesc.Render(" Adding task...")
	case v.errorMsg != "":
		return styles.ErrorNotice.Render(v.errorMsg)
	case v.statusMsg != "":
		return styles.Notice.Render(v.statusMsg)
	}
	return ""
}

// renderProgress renders "Completed (x/y)", a bar and the task total
func (v ListView) renderProgress() string {
	styles := theme.Current.Styles
	stats := v.list.Stats()

	filled := int(stats.Percent() / 100 * progressBarWidth)
	bar := styles.ProgressFilled.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmpty.Render(strings.Repeat("░", progressBarWidth-filled))

	return fmt.Sprintf("%s %s %s\n%s",
		styles.HelpDesc.Render(fmt.Sprintf("Completed (%d/%d)", stats.Completed, stats.Total)),
		bar,
		styles.HelpDesc.Render(fmt.Sprintf("%3.0f%%", stats.Percent())),
		styles.HelpDesc.Render(fmt.Sprintf("%d tasks total", stats.Total)),
	)
}

func (v ListView) renderTask(task model.Task, isCursor bool) string {
	styles := theme.Current.Styles

	indicator := styles.IndicatorPending.Render("▌")
	checkbox := "[ ]"
	textStyle := styles.TaskNormal
	if task.Done {
		indicator = styles.IndicatorDone.Render("▌")
		checkbox = "[x]"
		textStyle = styles.TaskDone
	}

	pointer := "  "
	if isCursor {
		pointer = "> "
		textStyle = textStyle.Inherit(styles.TaskSelected)
	}

	text := task.Text
	if v.width > 12 {
		maxWidth := v.width - 10
		if lipgloss.Width(text) > maxWidth {
			text = truncate(text, maxWidth)
		}
	}

	return pointer + indicator + " " + checkbox + " " + textStyle.Render(text)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width || width < 2 {
		return s
	}
	return string(runes[:width-1]) + "…"
}

// Messages

type tasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type taskAddedMsg struct {
	task *model.Task
	err  error
}

type taskToggledMsg struct {
	id       string
	result   service.Result
	snapshot state.Snapshot
	err      error
}

type taskEditedMsg struct {
	result service.Result
	err    error
}

type taskDeletedMsg struct {
	result service.Result
	err    error
}

type completedClearedMsg struct {
	result service.ClearResult
	err    error
}

// Commands

func (v ListView) loadTasks() tea.Msg {
	tasks, err := v.service.ListTasks(context.Background())
	return tasksLoadedMsg{tasks: tasks, err: err}
}

func (v ListView) addTask(text string) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		task, err := svc.AddTask(context.Background(), text)
		return taskAddedMsg{task: task, err: err}
	}
}

func (v ListView) toggleTask(id string, snapshot state.Snapshot) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		res, err := svc.ToggleDone(context.Background(), id)
		return taskToggledMsg{id: id, result: res, snapshot: snapshot, err: err}
	}
}

func (v ListView) editTask(id, text string) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		res, err := svc.EditTask(context.Background(), id, text)
		return taskEditedMsg{result: res, err: err}
	}
}

func (v ListView) deleteTask(id string) tea.Cmd {
	svc := v.service
	return func() tea.Msg {
		res, err := svc.DeleteTask(context.Background(), id)
		return taskDeletedMsg{result: res, err: err}
	}
}

func (v ListView) clearCompleted() tea.Msg {
	res, err := v.service.ClearCompleted(context.Background())
	return completedClearedMsg{result: res, err: err}
}

func (v ListView) sendAllComplete(total int) tea.Cmd {
	if v.notifier == nil {
		return nil
	}
	n, logger := v.notifier, v.logger
	return func() tea.Msg {
		if err := n.SendAllComplete(total); err != nil {
			logger.Warn("notification failed", "error", err)
		}
		return nil
	}
}

func (v ListView) sendCleared(removed int) tea.Cmd {
	if v.notifier == nil {
		return nil
	}
	n, logger := v.notifier, v.logger
	return func() tea.Msg {
		if err := n.SendCleared(removed); err != nil {
			logger.Warn("notification failed", "error", err)
		}
		return nil
	}
}
