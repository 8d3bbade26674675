package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cliEnv runs commands in an isolated working directory against a
// throwaway SQLite database.
type cliEnv struct {
	t   *testing.T
	dir string
	db  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return &cliEnv{t: t, dir: dir, db: filepath.Join(dir, "selfcare.db")}
}

// runRaw executes the root command with args as given.
func (e *cliEnv) runRaw(stdin string, args ...string) (string, string, error) {
	e.t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// run executes args against the env's database.
func (e *cliEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	out, _, err := e.runRaw(stdin, append([]string{"--db", e.db}, args...)...)
	return out, err
}

// mustRun is run that fails the test on error.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, out)
	return out
}

type jsonResponse struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Error    *CLIError       `json:"error"`
	Warnings []string        `json:"warnings"`
}

// runJSON executes args with --format json and decodes the response.
func (e *cliEnv) runJSON(stdin string, args ...string) (jsonResponse, error) {
	e.t.Helper()
	out, err := e.run(stdin, append([]string{"--format", "json"}, args...)...)
	var resp jsonResponse
	require.NoError(e.t, json.Unmarshal([]byte(out), &resp), out)
	return resp, err
}

// data decodes a successful JSON response's payload into dst.
func (e *cliEnv) data(resp jsonResponse, dst any) {
	e.t.Helper()
	require.Equal(e.t, "ok", resp.Status, "error: %+v", resp.Error)
	require.NoError(e.t, json.Unmarshal(resp.Data, dst))
}

func (e *cliEnv) register() {
	e.t.Helper()
	e.mustRun("register", "--name", "Ana", "--email", "ana@example.com", "--password", "pw")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
