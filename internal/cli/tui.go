package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/donelist/internal/model"
	"github.com/dori/donelist/internal/ui"
	"github.com/dori/donelist/internal/ui/theme"
	"github.com/spf13/cobra"
)

var (
	tuiFilter string
	tuiTheme  string
)

func init() {
	rootCmd.Flags().StringVar(&tuiFilter, "filter", "", "starting filter (all, pending, completed)")
	rootCmd.Flags().StringVar(&tuiTheme, "theme", "", fmt.Sprintf("theme (%s)", strings.Join(theme.Names(), ", ")))
}

func runTUI(cmd *cobra.Command, args []string) error {
	application, err := openApp(true)
	if err != nil {
		return err
	}
	defer application.Close()

	filterName := application.Config.TUI.Filter
	if tuiFilter != "" {
		filterName = tuiFilter
	}
	filter, err := model.ParseFilter(filterName)
	if err != nil {
		return err
	}

	themeName := application.Config.TUI.Theme
	if tuiTheme != "" {
		themeName = tuiTheme
	}
	t, ok := theme.ByName(themeName)
	if !ok {
		return fmt.Errorf("unknown theme %q (want %s)", themeName, strings.Join(theme.Names(), ", "))
	}
	theme.SetTheme(t)

	p := tea.NewProgram(
		ui.NewRootModel(application, filter),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
