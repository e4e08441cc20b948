package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/donelist/internal/app"
	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/model"
	"github.com/dori/donelist/internal/ui/theme"
	"github.com/dori/donelist/internal/ui/views"
)

// RootModel is the main application model. It owns global keys, the header
// and the footer, and delegates everything else to the list view.
type RootModel struct {
	logger *logging.Logger
	keys   KeyMap
	help   help.Model
	width  int
	height int

	listView    views.ListView
	helpVisible bool

	statusMsg string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App, filter model.Filter) RootModel {
	list := views.NewListView(application.Service, application.Logger, application.Notifier)
	return newRootModel(list.SetFilter(filter), application.Logger)
}

func newRootModel(list views.ListView, logger *logging.Logger) RootModel {
	if logger == nil {
		logger = logging.NopLogger()
	}

	h := help.New()
	h.ShowAll = false

	keys := DefaultKeyMap()
	keys.List = list.Keys()

	return RootModel{
		logger:   logger.With("component", "root"),
		keys:     keys,
		help:     h,
		listView: list,
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.listView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.Debug("update", "msg", fmt.Sprintf("%T", msg))

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		m.listView = m.listView.SetSize(m.width, m.height-4)

	case tea.KeyMsg:
		m.statusMsg = ""
		isInputMode := m.listView.IsInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if !isInputMode {
			if key.Matches(msg, m.keys.Help) {
				m.helpVisible = !m.helpVisible
				m.help.ShowAll = m.helpVisible
				return m, nil
			}
			if m.helpVisible && msg.String() == "esc" {
				m.helpVisible = false
				m.help.ShowAll = false
				return m, nil
			}
		}
	}

	newListView, cmd := m.listView.Update(msg)
	m.listView = newListView.(views.ListView)
	return m, cmd
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content string
	if m.helpVisible {
		content = m.help.View(m.keys)
	} else {
		content = m.listView.View()
	}

	contentHeight := m.height - 4
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("donelist")

	subtle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	filterIndicator := subtle.Render(fmt.Sprintf("[%s]", m.listView.Tasks().Filter().Label()))
	themeIndicator := subtle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, filterIndicator)
	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(themeIndicator))

	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles

	var lines []string
	if m.statusMsg != "" {
		lines = append(lines, styles.Notice.Render(m.statusMsg))
	}

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpDesc.Render(" • ")

	switch m.listView.Mode() {
	case views.ListModeAdd, views.ListModeEdit:
		lines = append(lines, hint("enter", "save")+sep+hint("esc", "cancel"))
	case views.ListModeConfirmDelete, views.ListModeConfirmClear:
		lines = append(lines, hint("y", "confirm")+sep+hint("n/esc", "cancel"))
	default:
		if m.helpVisible {
			lines = append(lines, hint("?/esc", "close help"))
		} else {
			lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
		}
	}

	return strings.Join(lines, "\n")
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	next := theme.Next(theme.Current.Theme.Name)
	theme.SetTheme(next)
	m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
}
