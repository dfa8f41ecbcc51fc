package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"vinylvault/internal/models"
	"vinylvault/internal/shared"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionFrom extracts the request session from a context. The zero session
// (anonymous, no admin rights) is returned when none was attached.
func SessionFrom(ctx context.Context) models.Session {
	if session, ok := ctx.Value(sessionKey).(models.Session); ok {
		return session
	}
	return models.Session{}
}

// session attaches a [models.Session] to the request context. A request
// presenting the configured admin bearer token gets an admin session;
// everything else stays anonymous. With no token configured, the write API
// is effectively disabled.
func (s *Server) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		admin := s.config.Server.AdminToken != "" && token != "" &&
			subtle.ConstantTimeCompare([]byte(token), []byte(s.config.Server.AdminToken)) == 1

		if admin {
			ctx := context.WithValue(r.Context(), sessionKey, models.AdminSession("admin"))
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}

// requireAdmin guards a handler behind an admin session.
func (s *Server) requireAdmin(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Admin {
			writeError(w, http.StatusUnauthorized, shared.ErrNotAuthenticated.Error())
			return
		}
		next(w, r)
	})
}

// requestLogger logs one line per request with method, path, status and timing.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush passes through so the SSE stream keeps working behind the logger.
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
