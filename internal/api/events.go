package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"pomobell/internal/core/timekeeper"
	"pomobell/internal/dto"
)

// SubscribeEvents handles GET /events. After a ping the stream sends the
// current status when a regime is active, then every broadcast as
// "event: <type>" with a dto.Event payload.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events := s.scheduler.Subscribe(eventBuffer)
	defer s.scheduler.Unsubscribe(events)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	if snapshot := s.scheduler.Status(); snapshot != nil {
		s.writeEvent(w, dto.Event{
			Type:   string(timekeeper.EventTypeFor(snapshot.Regime())),
			Status: dto.FromSnapshot(snapshot, s.now()),
		})
	}
	flusher.Flush()

	s.logger.Debug("SSE client connected")
	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.writeEvent(w, dto.FromEvent(event))
			flusher.Flush()
		}
	}
}

func (s *Server) writeEvent(w http.ResponseWriter, event dto.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("SSE: marshal event", "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
}
