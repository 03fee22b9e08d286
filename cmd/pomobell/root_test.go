package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/dto"
)

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "tray", "timer", "pomodoro", "reset", "status", "watch", "env", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestTimerFlagDefaults(t *testing.T) {
	interval, err := timerCmd.Flags().GetInt("interval")
	require.NoError(t, err)
	repetitions, err := timerCmd.Flags().GetInt("repetitions")
	require.NoError(t, err)

	assert.Equal(t, 25, interval)
	assert.Equal(t, 5, repetitions)
}

func TestResetRejectsUnknownRegime(t *testing.T) {
	assert.Error(t, resetCmd.Args(resetCmd, []string{"stopwatch"}))
	assert.NoError(t, resetCmd.Args(resetCmd, []string{"pomodoro"}))
	assert.NoError(t, resetCmd.Args(resetCmd, nil))
}

func TestPrintJSONNullStatus(t *testing.T) {
	var buf bytes.Buffer
	var status *dto.Status
	require.NoError(t, printJSON(&buf, status))
	assert.Equal(t, "null\n", buf.String())
}
