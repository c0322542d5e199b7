// Package admin serves the operator HTTP API for starting, stopping and
// inspecting the game.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

// GameRunner is the game as the API drives it.
type GameRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status(ctx context.Context) (shuffle.Status, error)
}

// ResultLister exposes finished games.
type ResultLister interface {
	GetAll() map[string]*shuffle.Result
}

type Server struct {
	addr    string
	runner  GameRunner
	results ResultLister
}

func NewServer(addr string, runner GameRunner, results ResultLister) *Server {
	return &Server{
		addr:    addr,
		runner:  runner,
		results: results,
	}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/game", s.handleStatus)
		r.Post("/game/start", s.handleStart)
		r.Post("/game/stop", s.handleStop)
		r.Get("/results", s.handleResults)
	})

	return r
}

// Start serves the API until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.InfoContext(ctx, "admin api listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return fmt.Errorf("serving admin api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down admin api: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.runner.Status(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.runner.Start)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.runner.Stop)
}

func (s *Server) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	if err := fn(r.Context()); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.handleStatus(w, r)
}

// ResultEntry is one finished game in the results listing.
type ResultEntry struct {
	Id string `json:"id"`
	*shuffle.Result
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	entries := []ResultEntry{}
	if s.results != nil {
		for id, res := range s.results.GetAll() {
			entries = append(entries, ResultEntry{Id: id, Result: res})
		}
	}

	// Newest first.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EndedAt.Equal(entries[j].EndedAt) {
			return entries[i].Id < entries[j].Id
		}
		return entries[i].EndedAt.After(entries[j].EndedAt)
	})

	s.writeJSON(w, http.StatusOK, map[string]any{"results": entries})
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var stateErr *shuffle.StateError
	if errors.As(err, &stateErr) {
		s.writeError(w, http.StatusConflict, stateErr.Message)
		return
	}

	slog.ErrorContext(r.Context(), "admin request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encoding admin response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// requestLogger logs each request through slog once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.DebugContext(r.Context(), "admin request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
