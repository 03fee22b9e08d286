// Package api exposes the scheduler over HTTP: commands as JSON POSTs,
// status reads, and a server-sent event stream of status broadcasts.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pomobell/internal/core/model"
	"pomobell/internal/core/schedule"
	"pomobell/internal/core/timekeeper"
	"pomobell/internal/dto"
	"pomobell/internal/storage"
)

// Error codes returned in dto.Error.
const (
	CodeInvalidRequest = "invalid_request"
	CodeInvalidConfig  = "invalid_config"
	CodeUnavailable    = "unavailable"
	CodeNoStatus       = "no_status"
	CodeInternal       = "internal"
)

const eventBuffer = 16

// Scheduler is the part of timekeeper.TimeKeeper the API drives.
type Scheduler interface {
	StartTimer(config model.TimerConfig) (schedule.Snapshot, error)
	StartPomodoro(config model.PomodoroConfig) (schedule.Snapshot, error)
	ResetTimer()
	ResetPomodoro()
	Status() schedule.Snapshot
	Subscribe(buffer int) <-chan timekeeper.Event
	Unsubscribe(events <-chan timekeeper.Event)
}

// Options configures NewHandler. Scheduler is required.
type Options struct {
	Scheduler Scheduler
	// Store backs GET /status/last; nil answers 404.
	Store storage.StatusStore
	// Metrics is mounted on GET /metrics when non-nil.
	Metrics http.Handler
	Logger  *slog.Logger
	Now     func() time.Time
}

// Server implements the HTTP handlers.
type Server struct {
	scheduler Scheduler
	store     storage.StatusStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler builds the chi router.
func NewHandler(opts Options) http.Handler {
	server := &Server{
		scheduler: opts.Scheduler,
		store:     opts.Store,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	if server.now == nil {
		server.now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/timer/start", server.StartTimer)
	r.Post("/pomodoro/start", server.StartPomodoro)
	r.Post("/timer/reset", server.ResetTimer)
	r.Post("/pomodoro/reset", server.ResetPomodoro)
	r.Get("/status", server.GetStatus)
	r.Get("/status/last", server.GetLastStatus)
	r.Get("/events", server.SubscribeEvents)
	r.Get("/health", server.GetHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}

// StartTimer handles POST /timer/start.
func (s *Server) StartTimer(w http.ResponseWriter, r *http.Request) {
	var body dto.TimerCommand
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	config, err := body.Config()
	if err != nil {
		s.writeCommandError(w, "StartTimer", err)
		return
	}
	snapshot, err := s.scheduler.StartTimer(config)
	if err != nil {
		s.writeCommandError(w, "StartTimer", err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromSnapshot(snapshot, s.now()))
}

// StartPomodoro handles POST /pomodoro/start.
func (s *Server) StartPomodoro(w http.ResponseWriter, r *http.Request) {
	var body dto.PomodoroCommand
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	config, err := body.Config()
	if err != nil {
		s.writeCommandError(w, "StartPomodoro", err)
		return
	}
	snapshot, err := s.scheduler.StartPomodoro(config)
	if err != nil {
		s.writeCommandError(w, "StartPomodoro", err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromSnapshot(snapshot, s.now()))
}

// ResetTimer handles POST /timer/reset.
func (s *Server) ResetTimer(w http.ResponseWriter, r *http.Request) {
	s.scheduler.ResetTimer()
	w.WriteHeader(http.StatusNoContent)
}

// ResetPomodoro handles POST /pomodoro/reset.
func (s *Server) ResetPomodoro(w http.ResponseWriter, r *http.Request) {
	s.scheduler.ResetPomodoro()
	w.WriteHeader(http.StatusNoContent)
}

// GetStatus handles GET /status. The body is null when nothing runs.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, dto.FromSnapshot(s.scheduler.Status(), s.now()))
}

// GetLastStatus handles GET /status/last from the status store.
func (s *Server) GetLastStatus(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, CodeNoStatus, storage.ErrNoStatus)
		return
	}
	status, err := s.store.Load(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNoStatus) {
			s.writeError(w, http.StatusNotFound, CodeNoStatus, err)
			return
		}
		s.logger.Error("GetLastStatus failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeCommandError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidConfig):
		s.logger.Warn(op+": invalid config", "error", err)
		s.writeError(w, http.StatusBadRequest, CodeInvalidConfig, err)
	case errors.Is(err, timekeeper.ErrClosed):
		s.writeError(w, http.StatusServiceUnavailable, CodeUnavailable, err)
	default:
		s.logger.Error(op+" failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, CodeInternal, err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code string, err error) {
	s.writeJSON(w, status, dto.Error{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
