package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"pomobell/internal/api"
)

// Handler returns the HTTP API bound to this runtime.
func (rt *Runtime) Handler() http.Handler {
	opts := api.Options{
		Scheduler: rt.Keeper,
		Store:     rt.Store,
		Logger:    rt.Logger,
	}
	if !rt.Config.Metrics.Disabled {
		opts.Metrics = rt.Metrics
	}
	return api.NewHandler(opts)
}

// ListenAndServe serves the API on the configured address until ctx ends,
// then shuts down gracefully. Open event streams end with ctx.
func (rt *Runtime) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              rt.Config.Server.Addr,
		Handler:           rt.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serverErrors := make(chan error, 1)
	go func() {
		rt.Logger.Info("http server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		timeout := rt.Config.Server.ShutdownTimeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.Logger.Warn("graceful shutdown did not complete", "timeout", timeout, "error", err)
			if err := srv.Close(); err != nil {
				return err
			}
		}
		rt.Logger.Info("http server stopped")
		return nil
	}
}
