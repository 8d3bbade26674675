package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "selfcare", cmd.Use)
	assert.Contains(t, cmd.Long, "selfcare emergency")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"register"}, {"login"}, {"logout"}, {"whoami"},
		{"mood", "add"}, {"mood", "list"}, {"mood", "emotions"},
		{"test", "list"}, {"test", "take"}, {"test", "results"},
		{"techniques", "list"}, {"techniques", "show"},
		{"favorite"}, {"favorites"}, {"recommend"}, {"dashboard"},
		{"export"}, {"delete-all"}, {"emergency"}, {"check"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config", "db", "driver"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Empty(t, flag.DefValue, name)
	}
}

func TestMoodAddFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"mood", "add"})
	require.NoError(t, err)

	stressFlag := addCmd.Flags().Lookup("stress")
	require.NotNil(t, stressFlag)
	assert.Equal(t, "5", stressFlag.DefValue)

	require.NotNil(t, addCmd.Flags().Lookup("note"))
}

func TestDeleteAllFlags(t *testing.T) {
	cmd := NewRootCommand()
	deleteCmd, _, err := cmd.Find([]string{"delete-all"})
	require.NoError(t, err)

	yesFlag := deleteCmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
	assert.Equal(t, "false", yesFlag.DefValue)
}

func TestInvalidGlobalFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"format", []string{"--format", "xml", "emergency"}, `invalid format "xml"`},
		{"driver", []string{"--driver", "postgres", "emergency"}, `invalid driver "postgres"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			_, _, err := env.runRaw("", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
