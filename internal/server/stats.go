package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"vinylvault/internal/catalog"
	"vinylvault/internal/models"
	"vinylvault/internal/repositories"
)

func (s *Server) summarize(session models.Session) (*catalog.Summary, error) {
	records, err := s.records.List(map[string]any{"limit": maxListRows})
	if err != nil {
		return nil, err
	}
	return catalog.Summarize(records, time.Now(), session), nil
}

// handleStats serves the dashboard aggregation. Spend figures appear only
// for admin sessions.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.summarize(SessionFrom(r.Context()))
	if err != nil {
		s.logger.Error("failed to aggregate stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleStatsStream serves the dashboard as a server-sent event stream: one
// summary immediately, then a fresh one after every collection change.
func (s *Server) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	changed := make(chan struct{}, 1)
	token := s.feed.Subscribe(repositories.RecordsTable, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer s.feed.Unsubscribe(token)

	session := SessionFrom(r.Context())

	for {
		summary, err := s.summarize(session)
		if err != nil {
			s.logger.Error("failed to aggregate stats", "error", err)
			return
		}

		payload, err := json.Marshal(summary)
		if err != nil {
			s.logger.Error("failed to encode stats", "error", err)
			return
		}

		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-changed:
		}
	}
}
