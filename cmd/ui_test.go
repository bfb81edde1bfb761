package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(name string) *cobra.Command {
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestUICommandExists(t *testing.T) {
	uiCmd := findCommand("ui")
	require.NotNil(t, uiCmd, "ui command should be registered")
	assert.Equal(t, "ui", uiCmd.Use)
	assert.Contains(t, uiCmd.Short, "Interactive")
}

func TestUICommand_LogFileFlag(t *testing.T) {
	uiCmd := findCommand("ui")
	require.NotNil(t, uiCmd)

	flag := uiCmd.Flags().Lookup("log-file")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestUICommand_RejectsArgs(t *testing.T) {
	uiCmd := findCommand("ui")
	require.NotNil(t, uiCmd)

	assert.Error(t, uiCmd.Args(uiCmd, []string{"positions"}))
	assert.NoError(t, uiCmd.Args(uiCmd, nil))
}

func TestPageCommandsHaveSearchFlag(t *testing.T) {
	for _, name := range []string{"accounts", "instruments", "positions", "trades", "transactions"} {
		c := findCommand(name)
		require.NotNil(t, c, name)
		assert.NotNil(t, c.Flags().Lookup("search"), name)
		assert.NotNil(t, c.Flags().ShorthandLookup("q"), name)
	}
	assert.NotNil(t, findCommand("positions").Flags().Lookup("status"))
}
