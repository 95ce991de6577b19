package invocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mpulaparthi/web-agent/pkg/telemetry"
)

const (
	// DefaultAddr is the address the hosting runtime expects.
	DefaultAddr = ":8080"

	DefaultRequestTimeout  = 15 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	maxRequestBytes = 1 << 20
)

// Server exposes a Handler over HTTP:
//
//	POST /invocations  run the agent on the JSON body
//	GET  /ping         health check
//	GET  /metrics      Prometheus metrics
type Server struct {
	handler         *Handler
	addr            string
	requestTimeout  time.Duration
	shutdownTimeout time.Duration
	router          chi.Router
	httpServer      *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithRequestTimeout bounds each invocation.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// NewServer creates a Server for handler.
func NewServer(handler *Handler, opts ...ServerOption) *Server {
	s := &Server{
		handler:         handler,
		addr:            DefaultAddr,
		requestTimeout:  DefaultRequestTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Post("/invocations", s.handleInvocation)
	router.Get("/ping", s.handlePing)
	router.Handle("/metrics", telemetry.Handler())
	s.router = router

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully, letting in-flight invocations finish within the shutdown
// timeout.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	serverErr := make(chan error, 1)
	go func() {
		invocationLog.Infof("Serving invocations on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		invocationLog.Infof("Shutting down invocation server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleInvocation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Failure(fmt.Errorf("failed to read request body: %w", err)))
		return
	}
	event, err := DecodeEvent(body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Failure(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	respondJSON(w, http.StatusOK, s.handler.Invoke(ctx, event))
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "Healthy"})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		invocationLog.Warnf("Failed to write response: %v", err)
	}
}
