// Package storagetest holds behaviour checks shared by StatusStore implementations.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomobell/internal/dto"
	"pomobell/internal/storage"
)

// RunStatusStoreContract exercises store from an empty state.
func RunStatusStoreContract(t *testing.T, store storage.StatusStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNoStatus)
	})

	t.Run("Save and Load", func(t *testing.T) {
		status := &dto.Status{
			Type:            "pomodoro",
			StartTime:       1_700_000_000_000,
			Phase:           "break",
			CurrentPomodoro: 4,
			TotalPomodoros:  4,
			WorkMs:          1_500_000,
			BreakMs:         300_000,
			LongBreakMs:     900_000,
			NextPhaseTime:   1_700_006_900_000,
			Progress:        12.5,
			RemainingMs:     787_500,
		}
		require.NoError(t, store.Save(ctx, status))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, status, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		status := &dto.Status{Type: "timer", StartTime: 1, IntervalMs: 60_000, CurrentCycle: 2, TotalCycles: 3}
		require.NoError(t, store.Save(ctx, status))

		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "timer", loaded.Type)
		assert.Equal(t, 2, loaded.CurrentCycle)
		assert.Empty(t, loaded.Phase)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, storage.ErrNoStatus)
		assert.NoError(t, store.Clear(ctx))
	})
}
