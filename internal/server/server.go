// package server contains middleware & handlers for the record catalog web service
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"vinylvault/internal/repositories"
	"vinylvault/internal/services"
	"vinylvault/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// maxListRows caps how much of the collection a single API call pulls.
const maxListRows = 5000

// Server wires the catalog API: record CRUD, the browsing endpoint, the cover
// resolver and the live dashboard.
type Server struct {
	config  *shared.Config
	records *repositories.RecordRepository
	feed    *repositories.ChangeFeed
	covers  services.CoverSource
	cache   *coverCache
	logger  *log.Logger
	router  *BasicRouter
}

// New creates a Server over the given repository and cover source and
// registers all routes.
func New(config *shared.Config, records *repositories.RecordRepository, feed *repositories.ChangeFeed, covers services.CoverSource, logger *log.Logger) *Server {
	s := &Server{
		config:  config,
		records: records,
		feed:    feed,
		covers:  covers,
		cache:   newCoverCache(),
		logger:  logger,
		router:  NewBasicRouter(),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestLogger, s.session)

	s.router.Handle(http.MethodGet, "/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle(http.MethodGet, "/api/records", http.HandlerFunc(s.handleListRecords))
	s.router.Handle(http.MethodPost, "/api/records", s.requireAdmin(s.handleCreateRecord))
	s.router.Handle(http.MethodPut, "/api/records/{id}", s.requireAdmin(s.handleUpdateRecord))
	s.router.Handle(http.MethodDelete, "/api/records/{id}", s.requireAdmin(s.handleDeleteRecord))
	s.router.Handle(http.MethodGet, "/api/cover", http.HandlerFunc(s.handleCover))
	s.router.Handle(http.MethodGet, "/api/stats", http.HandlerFunc(s.handleStats))
	s.router.Handle(http.MethodGet, "/api/stats/stream", http.HandlerFunc(s.handleStatsStream))
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving catalog API", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
