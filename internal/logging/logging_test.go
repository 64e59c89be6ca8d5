package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
}

func TestSetup_TextLevelFilter(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	closeFn, err := Setup(Options{Level: "warn", Stderr: &buf})
	require.NoError(t, err)
	defer closeFn()

	slog.Info("hidden")
	slog.Warn("child process exited unexpectedly", "exit_code", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "exit_code=7")
}

func TestSetup_JSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	closeFn, err := Setup(Options{Level: "debug", Format: "json", Stderr: &buf})
	require.NoError(t, err)
	defer closeFn()

	slog.Debug("spawning child process", "pid", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "spawning child process", rec["msg"])
	assert.Equal(t, float64(12), rec["pid"])
}

func TestSetup_File(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "logs", "wrapper.log")

	closeFn, err := Setup(Options{File: path})
	require.NoError(t, err)
	slog.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}

func TestSetup_Errors(t *testing.T) {
	restoreDefault(t)
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Options{Format: "xml"})
	assert.Error(t, err)
}
