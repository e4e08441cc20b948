package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/dori/donelist/internal/app"
	"github.com/dori/donelist/internal/config"
	"github.com/dori/donelist/internal/logging"
	"github.com/dori/donelist/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, stdin io.Reader, args ...string) (output string, err error) {
	// Flags are package globals and survive between runs
	cfgFile = ""
	listFilter = "all"
	clearYes = false
	viper.Reset()

	if stdin == nil {
		stdin = strings.NewReader("")
	}

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(stdin)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// setupTestEnvironment points data and config at temp directories
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("DONELIST_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "share"))
	t.Cleanup(viper.Reset)
	return dir
}

var addedRe = regexp.MustCompile(`Added (\S+): `)

func addTask(t *testing.T, text string) string {
	t.Helper()

	out, err := executeCommand(rootCmd, nil, "add", text)
	require.NoError(t, err)
	m := addedRe.FindStringSubmatch(out)
	require.Len(t, m, 2, "unexpected add output: %q", out)
	return m[1]
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "donelist", rootCmd.Use)

	expected := []string{"add", "list", "done", "edit", "rm", "clear", "version"}
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, names[name], "missing subcommand %q", name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "donelist v"+Version+"\n", out)
}

func TestAddAndList(t *testing.T) {
	setupTestEnvironment(t)

	id := addTask(t, "Buy milk")
	addTask(t, "Walk dog")

	out, err := executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] "+id+"  Buy milk")
	assert.Contains(t, out, "Walk dog")
	assert.Contains(t, out, "Completed (0/2) 0% · 2 tasks total")
}

func TestAddJoinsArguments(t *testing.T) {
	setupTestEnvironment(t)

	out, err := executeCommand(rootCmd, nil, "add", "  call", "the", "bank  ")
	require.NoError(t, err)
	assert.Contains(t, out, ": call the bank\n")
}

func TestAddRejectsBlankText(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, nil, "add", "   ")
	require.Error(t, err)

	out, err := executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet.")
	assert.Contains(t, out, "0 tasks total")
}

func TestDoneTogglesTask(t *testing.T) {
	setupTestEnvironment(t)
	id := addTask(t, "Buy milk")
	addTask(t, "Walk dog")

	out, err := executeCommand(rootCmd, nil, "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Completed "+id+": Buy milk")

	out, err = executeCommand(rootCmd, nil, "list", "--filter", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] "+id+"  Buy milk")
	assert.NotContains(t, out, "Walk dog")
	assert.Contains(t, out, "Completed (1/2) 50%")

	out, err = executeCommand(rootCmd, nil, "done", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Reopened "+id)
}

func TestDoneAcceptsPrefix(t *testing.T) {
	setupTestEnvironment(t)
	id := addTask(t, "Buy milk")

	out, err := executeCommand(rootCmd, nil, "done", id[:4])
	require.NoError(t, err)
	assert.Contains(t, out, "Completed "+id)
}

func TestMissingIDIsNotAnError(t *testing.T) {
	setupTestEnvironment(t)
	addTask(t, "Buy milk")

	for _, args := range [][]string{
		{"done", "zzzz"},
		{"edit", "zzzz", "new text"},
		{"rm", "zzzz"},
	} {
		out, err := executeCommand(rootCmd, nil, args...)
		require.NoError(t, err, "args %v", args)
		assert.Contains(t, out, "No such task: zzzz")
	}
}

func TestBlankIDIsRejected(t *testing.T) {
	setupTestEnvironment(t)
	addTask(t, "Buy milk")

	for _, args := range [][]string{
		{"rm", ""},
		{"done", "  "},
		{"edit", "", "new text"},
	} {
		_, err := executeCommand(rootCmd, nil, args...)
		require.Error(t, err, "args %q", args)
		assert.Contains(t, err.Error(), "task id is required")
	}

	out, err := executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] ")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "Completed (0/1)")
}

func TestMatchID(t *testing.T) {
	tasks := []model.Task{
		{ID: "abc123"},
		{ID: "abd456"},
		{ID: "abc"},
	}

	tests := []struct {
		name    string
		prefix  string
		want    string
		wantErr bool
	}{
		{name: "exact match wins over longer ids", prefix: "abc", want: "abc"},
		{name: "unique prefix", prefix: "abd", want: "abd456"},
		{name: "full id", prefix: "abc123", want: "abc123"},
		{name: "no match", prefix: "zzz", want: ""},
		{name: "ambiguous", prefix: "ab", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matchID(tasks, tt.prefix)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "ambiguous")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditCommand(t *testing.T) {
	setupTestEnvironment(t)
	id := addTask(t, "Buy milk")

	out, err := executeCommand(rootCmd, nil, "edit", id, "Buy", "oat", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated "+id+": Buy oat milk")

	_, err = executeCommand(rootCmd, nil, "edit", id, " ")
	require.Error(t, err)

	out, err = executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buy oat milk")
}

func TestRemoveCommand(t *testing.T) {
	setupTestEnvironment(t)
	id := addTask(t, "Buy milk")

	out, err := executeCommand(rootCmd, nil, "rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	out, err = executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet.")
}

func TestClearCommand(t *testing.T) {
	setupTestEnvironment(t)
	a := addTask(t, "Buy milk")
	b := addTask(t, "Walk dog")
	addTask(t, "Read book")

	out, err := executeCommand(rootCmd, nil, "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed tasks to clear")

	for _, id := range []string{a, b} {
		_, err := executeCommand(rootCmd, nil, "done", id)
		require.NoError(t, err)
	}

	out, err = executeCommand(rootCmd, strings.NewReader("n\n"), "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Clear 2 completed task(s)? [y/N]")
	assert.Contains(t, out, "Aborted")

	out, err = executeCommand(rootCmd, strings.NewReader("y\n"), "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 completed task(s), 1 remaining")

	out, err = executeCommand(rootCmd, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Read book")
	assert.Contains(t, out, "1 tasks total")
}

func TestClearYesSkipsPrompt(t *testing.T) {
	setupTestEnvironment(t)
	id := addTask(t, "Buy milk")
	_, err := executeCommand(rootCmd, nil, "done", id)
	require.NoError(t, err)

	out, err := executeCommand(rootCmd, nil, "clear", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "[y/N]")
	assert.Contains(t, out, "Cleared 1 completed task(s), 0 remaining")
}

func TestListRejectsUnknownFilter(t *testing.T) {
	setupTestEnvironment(t)

	_, err := executeCommand(rootCmd, nil, "list", "--filter", "someday")
	require.Error(t, err)
}

func TestInvalidConfigIsReported(t *testing.T) {
	setupTestEnvironment(t)
	t.Setenv("DONELIST_LOGGING_LEVEL", "LOUD")

	_, err := executeCommand(rootCmd, nil, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestNotifyAllCompleteLogsListFailure(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	a, err := app.New(cfg, app.Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.DB.Close())
	notifyAllComplete(context.Background(), a)

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, logging.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "could not check for remaining tasks")
}
