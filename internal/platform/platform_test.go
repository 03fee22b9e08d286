package platform

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackConfigDir(t *testing.T) {
	home := filepath.Join("home", "user")
	assert.Equal(t, filepath.Join(home, ".config"), fallbackConfigDir("linux", home))
	assert.Equal(t, filepath.Join(home, "Library", "Application Support"), fallbackConfigDir("darwin", home))
	assert.Equal(t, filepath.Join(home, "AppData", "Roaming"), fallbackConfigDir("windows", home))
}

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	port := portFromName("pomobell")
	assert.Equal(t, port, portFromName("pomobell"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSingleInstanceLockAndActivation(t *testing.T) {
	appName := fmt.Sprintf("pomobell-test-%d", time.Now().UnixNano())

	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	_, err = AcquireSingleInstance(appName)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	activated := make(chan struct{}, 1)
	go guard.Serve(func() { activated <- struct{}{} })

	require.NoError(t, SignalRunning(appName))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("activation not received")
	}

	require.NoError(t, guard.Release())
	assert.NoError(t, guard.Release())
}
