package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Use(t *testing.T) {
	assert.Equal(t, "tui [topic]", tuiCmd.Use)
}

func TestTUICmd_Short(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_IsRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestTUICmd_ExportDirFlag(t *testing.T) {
	flag := tuiCmd.Flags().Lookup("export-dir")

	require.NotNil(t, flag)
	assert.Equal(t, ".", flag.DefValue)
}

func TestTUICmd_AcceptsAtMostOneArg(t *testing.T) {
	_, err := run(t, "tui", "KNN", "SVM")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg(s)")
}

func TestTUICmd_SessionsNotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := run(t, "tui")

	require.Error(t, err)
	assert.Equal(t, "learning sessions not configured", err.Error())
}
