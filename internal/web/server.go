// Package web runs the bot's small HTTP sidecar: a health endpoint for
// uptime monitors and a root page that pings the leaderboard refresher.
// Hitting / from an uptime service doubles as a periodic refresh tick,
// the same trick the hosted bot relied on.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RefreshFunc updates the posted leaderboard. It is invoked on every
// root request.
type RefreshFunc func(ctx context.Context) error

// Server handles HTTP requests.
type Server struct {
	logger    *log.Logger
	refresh   RefreshFunc
	startedAt time.Time
}

// NewServer creates the sidecar server. refresh may be nil when the
// leaderboard poster is not configured.
func NewServer(logger *log.Logger, refresh RefreshFunc) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger:    logger,
		refresh:   refresh,
		startedAt: time.Now(),
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	refreshed := false
	if s.refresh != nil {
		if err := s.refresh(r.Context()); err != nil {
			s.logger.Warn("leaderboard refresh from web ping failed", "err", err)
		} else {
			refreshed = true
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "arcabloom is running (up %s)\n", time.Since(s.startedAt).Round(time.Second))
	if refreshed {
		fmt.Fprintln(w, "leaderboard refreshed")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
