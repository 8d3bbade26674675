package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: one_mood
description: "A single mood entry is stored"
setup:
  - action: register
    args: { name: Ana, email: ana@example.com, password: pw }
flow:
  - invoke: add_mood
    args: { emotion: calm, stress: 3 }
assertions:
  - type: final_state
    table: moods
    rows: 1
    where: { emotion: calm }
`

const failingScenario = `name: wrong_count
description: "Expects two entries after adding one"
setup:
  - action: register
    args: { name: Ana, email: ana@example.com, password: pw }
flow:
  - invoke: add_mood
    args: { emotion: sad, stress: 6 }
assertions:
  - type: final_state
    table: moods
    rows: 2
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCheck(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCheckCommandMissingArgs(t *testing.T) {
	_, err := runCheck(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestCheckCommandNonExistentDir(t *testing.T) {
	_, err := runCheck(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckCommandEmptyDir(t *testing.T) {
	out, err := runCheck(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")

	out, err = runCheck(t, "json", t.TempDir())
	require.NoError(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCheckCommandPassingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one_mood.yaml", passingScenario)

	out, err := runCheck(t, "text", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ one_mood")
	assert.Contains(t, out, "Check Summary: 1 passed, 0 failed, 1 total")
}

func TestCheckCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "wrong_count.yaml", failingScenario)

	out, err := runCheck(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "2 row(s) in moods")
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one_mood.yaml", passingScenario)
	writeScenario(t, dir, "wrong_count.yaml", failingScenario)

	out, err := runCheck(t, "json", dir)
	require.Error(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
		Error  *CLIError   `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeCheckFailed, resp.Error.Code)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
}

func TestCheckCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one_mood.yaml", passingScenario)
	writeScenario(t, dir, "wrong_count.yaml", failingScenario)

	out, err := runCheck(t, "text", dir, "--filter", "one_*")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 total")

	_, err = runCheck(t, "text", dir, "--filter", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestCheckCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: broken\nflow: []\n")

	out, err := runCheck(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestCheckCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one_mood.yaml", passingScenario)

	out, err := runCheck(t, "text", dir, "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "(golden updated)")

	goldenPath := filepath.Join(dir, "golden", "one_mood.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name": "one_mood"`)

	// Golden files are not picked up as scenarios.
	out, err = runCheck(t, "text", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0o644))
	out, err = runCheck(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestCheckCommandBundledScenarios(t *testing.T) {
	out, err := runCheck(t, "text", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ All scenarios passed")
}
