// Package redisstore keeps the last status snapshot in Redis so other
// processes can read it while the scheduler runs.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"pomobell/internal/dto"
	"pomobell/internal/storage"
)

// DefaultPrefix is prepended to storage.StatusKey.
const DefaultPrefix = "pomobell:"

// Store implements storage.StatusStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration of the stored status.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Key returns the Redis key holding the status.
func (s *Store) Key() string {
	return s.prefix + storage.StatusKey
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Save writes the status as JSON. A zero TTL keeps it until cleared.
func (s *Store) Save(ctx context.Context, status *dto.Status) error {
	if status == nil {
		return fmt.Errorf("save status: status is nil")
	}
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load reads the status, returning storage.ErrNoStatus when the key is missing.
func (s *Store) Load(ctx context.Context) (*dto.Status, error) {
	val, err := s.client.Get(ctx, s.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, storage.ErrNoStatus
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var status dto.Status
	if err := json.Unmarshal(val, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return &status, nil
}

// Clear deletes the status key.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.Key()).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
