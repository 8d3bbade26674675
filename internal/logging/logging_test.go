package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", zap.String("key", "users"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "users")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "error", Verbose: true, Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Info("user logged in", zap.String("user", "ana@example.com"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	assert.Equal(t, "user logged in", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "ana@example.com", rec["user"])
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selfcare.log")
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", File: path, Output: &buf})
	require.NoError(t, err)

	logger.Info("persisted", zap.String("key", "users"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"persisted"`)
	assert.Contains(t, buf.String(), "persisted", "console core still receives records")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
