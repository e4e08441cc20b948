package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dori/donelist/internal/app"
	apperrors "github.com/dori/donelist/internal/errors"
	"github.com/dori/donelist/internal/model"
	"github.com/dori/donelist/internal/service"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task between done and pending",
	Long: `Toggle a task between done and pending.
The id may be any unique prefix of the task id shown by "donelist list".`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <text...>",
	Short: "Replace the text of a task",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEdit,
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every completed task",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var (
	listFilter string
	clearYes   bool
)

func init() {
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "which tasks to show (all, pending, completed)")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(addCmd, listCmd, doneCmd, editCmd, rmCmd, clearCmd)
}

// withApp opens the application for a one-shot command
func withApp(fn func(a *app.App) error) error {
	application, err := openApp(false)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(application)
}

// userError turns validation failures into plain messages
func userError(err error) error {
	if apperrors.IsValidation(err) {
		return fmt.Errorf("%s", apperrors.GetUserMessage(err))
	}
	return err
}

func runAdd(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		task, err := a.Service.AddTask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", task.ShortID(), task.Text)
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := model.ParseFilter(listFilter)
	if err != nil {
		return err
	}

	return withApp(func(a *app.App) error {
		tasks, err := a.Service.ListTasks(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := a.DB.CountTasks(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		visible := filter.Apply(tasks)
		if len(visible) == 0 {
			fmt.Fprintln(out, emptyText(filter))
		}
		for _, task := range visible {
			printTask(out, task)
		}
		fmt.Fprintf(out, "\nCompleted (%d/%d) %.0f%% · %d tasks total\n",
			stats.Completed, stats.Total, stats.Percent(), stats.Total)
		return nil
	})
}

func runDone(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		id, err := resolveID(cmd.Context(), a.Service, args[0])
		if err != nil || id == "" {
			return noSuchTask(cmd, args[0], err)
		}

		res, err := a.Service.ToggleDone(cmd.Context(), id)
		if err != nil {
			return err
		}
		if res.Outcome == service.OutcomeNotFound {
			return noSuchTask(cmd, args[0], nil)
		}

		verb := "Reopened"
		if res.Task.Done {
			verb = "Completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", verb, res.Task.ShortID(), res.Task.Text)

		if res.Task.Done {
			notifyAllComplete(cmd.Context(), a)
		}
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		id, err := resolveID(cmd.Context(), a.Service, args[0])
		if err != nil || id == "" {
			return noSuchTask(cmd, args[0], err)
		}

		res, err := a.Service.EditTask(cmd.Context(), id, strings.Join(args[1:], " "))
		if err != nil {
			return userError(err)
		}
		if res.Outcome == service.OutcomeNotFound {
			return noSuchTask(cmd, args[0], nil)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", res.Task.ShortID(), res.Task.Text)
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		id, err := resolveID(cmd.Context(), a.Service, args[0])
		if err != nil || id == "" {
			return noSuchTask(cmd, args[0], err)
		}

		res, err := a.Service.DeleteTask(cmd.Context(), id)
		if err != nil {
			return err
		}
		if res.Outcome == service.OutcomeNotFound {
			return noSuchTask(cmd, args[0], nil)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app.App) error {
		stats, err := a.DB.CountTasks(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if stats.Completed == 0 {
			fmt.Fprintln(out, "No completed tasks to clear")
			return nil
		}

		if !clearYes && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Clear %d completed task(s)? [y/N] ", stats.Completed)) {
			fmt.Fprintln(out, "Aborted")
			return nil
		}

		res, err := a.Service.ClearCompleted(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared %d completed task(s), %d remaining\n", res.Removed, len(res.Remaining))

		if err := a.Notifier.SendCleared(res.Removed); err != nil {
			a.Logger.Warn("notification failed", "error", err)
		}
		return nil
	})
}

// resolveID maps a unique id prefix to a full id. It returns "" when nothing
// matches and an error when the prefix is blank or ambiguous.
func resolveID(ctx context.Context, svc *service.TaskService, prefix string) (string, error) {
	if strings.TrimSpace(prefix) == "" {
		return "", fmt.Errorf("task id is required")
	}

	tasks, err := svc.ListTasks(ctx)
	if err != nil {
		return "", err
	}
	return matchID(tasks, prefix)
}

func matchID(tasks []model.Task, prefix string) (string, error) {
	var matches []string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q is ambiguous (%d tasks match)", prefix, len(matches))
	}
}

// noSuchTask reports a missing task. A missing task is not a failure.
func noSuchTask(cmd *cobra.Command, id string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "No such task: %s\n", id)
	return nil
}

// notifyAllComplete sends a notification once no task is pending
func notifyAllComplete(ctx context.Context, a *app.App) {
	tasks, err := a.Service.ListTasks(ctx)
	if err != nil {
		a.Logger.Warn("could not check for remaining tasks", "error", err)
		return
	}

	stats := model.StatsOf(tasks)
	if stats.Total == 0 || stats.Pending() > 0 {
		return
	}
	if err := a.Notifier.SendAllComplete(stats.Total); err != nil {
		a.Logger.Warn("notification failed", "error", err)
	}
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printTask(out io.Writer, task model.Task) {
	mark := " "
	if task.Done {
		mark = "x"
	}
	fmt.Fprintf(out, "[%s] %s  %s\n", mark, task.ShortID(), task.Text)
}

func shortID(id string) string {
	t := model.Task{ID: id}
	return t.ShortID()
}

func emptyText(f model.Filter) string {
	switch f {
	case model.FilterPending:
		return "No pending tasks."
	case model.FilterCompleted:
		return "No completed tasks."
	default:
		return "No tasks yet."
	}
}
