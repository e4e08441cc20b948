package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, dir string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, FileName))
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_WritesJSONFile(t *testing.T) {
	t.Setenv(DebugEnv, "")
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	require.NoError(t, err)

	logger.Info("task added", "task_id", "abc")
	require.NoError(t, logger.Close())

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	assert.Equal(t, "task added", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["task_id"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestLogLevelFiltering(t *testing.T) {
	t.Setenv(DebugEnv, "")
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelWarn)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown")
	require.NoError(t, logger.Close())

	entries := readEntries(t, dir)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestDebugEnvForcesDebug(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelError)
	require.NoError(t, err)
	logger.Debug("visible")
	require.NoError(t, logger.Close())

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0]["level"])
}

func TestWith(t *testing.T) {
	t.Setenv(DebugEnv, "")
	dir := t.TempDir()

	logger, err := NewLogger(dir, LevelInfo)
	require.NoError(t, err)

	child := logger.With("component", "service", 42, "ignored-non-string-key")
	child.Info("hello", "op", "toggle")
	assert.Same(t, logger, logger.With())
	require.NoError(t, logger.Close())

	entries := readEntries(t, dir)
	require.Len(t, entries, 1)
	assert.Equal(t, "service", entries[0]["component"])
	assert.Equal(t, "toggle", entries[0]["op"])
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Error("discarded")
	assert.NoError(t, logger.Close())
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("debug"))
	assert.True(t, IsValidLevel("ERROR"))
	assert.False(t, IsValidLevel("verbose"))
	assert.Len(t, ValidLevels(), 4)
}

func TestCloseTwice(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), LevelInfo)
	require.NoError(t, err)
	require.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}
