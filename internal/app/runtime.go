// Package app wires configuration, logging, metrics, the scheduler and the
// status store into a Runtime shared by the headless and desktop commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"pomobell/internal/config"
	"pomobell/internal/core/timekeeper"
	"pomobell/internal/logging"
	"pomobell/internal/metrics"
	"pomobell/internal/notify"
	"pomobell/internal/storage"
	"pomobell/internal/storage/redisstore"
)

// Name is used for the settings directory and the single-instance lock.
const Name = "pomobell"

// Runtime holds the long-lived components of a process.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Keeper  *timekeeper.TimeKeeper
	Store   storage.StatusStore
	Metrics http.Handler

	closeOnce sync.Once
	closers   []func() error
	cancel    context.CancelFunc
	persisted chan struct{}
}

// New builds a Runtime from cfg. The scheduler starts idle.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	logger := logging.New(cfg.Logging.LoggerConfig())
	return NewWithLogger(ctx, cfg, logger)
}

// NewWithLogger is New with a caller-provided logger.
func NewWithLogger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	recorder, metricsHandler, err := metrics.New(!cfg.Metrics.Disabled)
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	composer, err := notify.NewComposer(cfg.Locale)
	if err != nil {
		return nil, err
	}

	keeper, err := timekeeper.New(timekeeper.Config{
		TickInterval:  cfg.Scheduler.TickInterval,
		Logger:        logger,
		Metrics:       recorder,
		Composer:      composer,
		NotifyTimeout: cfg.Scheduler.NotifyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	store, closeStore, err := OpenStore(ctx, cfg.Redis, logger)
	if err != nil {
		keeper.Close()
		return nil, err
	}

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Keeper:  keeper,
		Store:   store,
		Metrics: metricsHandler,
		closers: []func() error{closeStore},
	}, nil
}

// OpenStore returns the Redis store when enabled, the in-memory one otherwise.
func OpenStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (storage.StatusStore, func() error, error) {
	if !cfg.Enabled {
		return storage.NewMemoryStatusStore(), func() error { return nil }, nil
	}

	store := redisstore.New(cfg.Addr, cfg.Password, cfg.DB,
		redisstore.WithPrefix(cfg.Prefix),
		redisstore.WithTTL(cfg.TTL),
	)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("open status store: %w", err)
	}
	logger.Info("status store connected", "addr", cfg.Addr, "key", store.Key())
	return store, store.Close, nil
}

// SetNotifier installs the notification backends. The log notifier is
// always included.
func (rt *Runtime) SetNotifier(notifiers ...notify.Notifier) {
	all := append(notify.Multi{notify.LogNotifier{Logger: rt.Logger}}, notifiers...)
	rt.Keeper.SetNotifier(all)
}

// StartPersistence mirrors broadcasts into the status store until Close.
// A stalled store skips intermediate snapshots but always sees the latest one.
func (rt *Runtime) StartPersistence(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	events := rt.Keeper.SubscribeLatest()
	rt.cancel = cancel
	rt.persisted = make(chan struct{})

	go func() {
		defer close(rt.persisted)
		storage.Persist(ctx, rt.Store, events, rt.Logger)
	}()
}

// Close stops the scheduler, waits for persistence and closes the store.
// A regime still running is torn down first, so the store is left empty.
func (rt *Runtime) Close() error {
	var errs []error
	rt.closeOnce.Do(func() {
		rt.Keeper.Close()
		if rt.persisted != nil {
			<-rt.persisted
			rt.cancel()
		}
		for _, closer := range rt.closers {
			if err := closer(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
