package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"pomobell/internal/core/timekeeper"
	"pomobell/internal/dto"
)

// StatusKey is the key the last broadcast status is stored under.
const StatusKey = "timerStatus"

// ErrNoStatus is returned by Load when no status is stored.
var ErrNoStatus = errors.New("no status stored")

// StatusStore keeps the single last-known status snapshot.
type StatusStore interface {
	Save(ctx context.Context, status *dto.Status) error
	Load(ctx context.Context) (*dto.Status, error)
	Clear(ctx context.Context) error
}

// MemoryStatusStore is an in-process StatusStore. It keeps the encoded
// JSON so callers never share the stored value.
type MemoryStatusStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStatusStore returns an empty store.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{}
}

// Save replaces the stored status.
func (store *MemoryStatusStore) Save(_ context.Context, status *dto.Status) error {
	if status == nil {
		return fmt.Errorf("save status: status is nil")
	}
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	store.mu.Lock()
	store.data = data
	store.mu.Unlock()
	return nil
}

// Load returns the stored status or ErrNoStatus.
func (store *MemoryStatusStore) Load(_ context.Context) (*dto.Status, error) {
	store.mu.Lock()
	data := store.data
	store.mu.Unlock()
	if data == nil {
		return nil, ErrNoStatus
	}
	var status dto.Status
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &status, nil
}

// Clear removes the stored status.
func (store *MemoryStatusStore) Clear(_ context.Context) error {
	store.mu.Lock()
	store.data = nil
	store.mu.Unlock()
	return nil
}

// Persist mirrors events into store until ctx is done or events is closed.
// Active events are saved, absent events clear the store. Store errors are
// logged and do not stop the loop.
func Persist(ctx context.Context, store StatusStore, events <-chan timekeeper.Event, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := persistEvent(ctx, store, event); err != nil {
				logger.Warn("persist status", "type", event.Type, "error", err)
			}
		}
	}
}

func persistEvent(ctx context.Context, store StatusStore, event timekeeper.Event) error {
	if !event.Active() {
		return store.Clear(ctx)
	}
	return store.Save(ctx, dto.FromSnapshot(event.Status, event.At))
}
