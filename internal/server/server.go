// Package server exposes the spam engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rollingchair63/EntrepreNO/internal/observability"
	"github.com/rollingchair63/EntrepreNO/internal/spam"
)

const defaultMaxBody = 64 << 10

// Options configures a Server. Engine is required.
type Options struct {
	Engine       *spam.Engine
	Metrics      *observability.Metrics
	Logger       *slog.Logger
	Redact       bool
	MaxBodyBytes int64
}

// Server routes analysis requests to a shared engine.
type Server struct {
	engine  *spam.Engine
	metrics *observability.Metrics
	logger  *slog.Logger
	redact  bool
	maxBody int64
}

// New builds a Server, filling in defaults for the optional fields.
func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("server.New: engine is required")
	}
	s := &Server{
		engine:  opts.Engine,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		redact:  opts.Redact,
		maxBody: opts.MaxBodyBytes,
	}
	if s.metrics == nil {
		s.metrics = observability.NewMetrics()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	return s, nil
}

// Handler returns the routed handler with request IDs applied to every
// response, including 404s.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/analyze", s.analyze).Methods(http.MethodPost)
	v1.HandleFunc("/rules", s.rules).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return requestID(r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "rules", s.engine.RuleSet().Name)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server.Run: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Run: shutdown: %w", err)
	}
	return nil
}
