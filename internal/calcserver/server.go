// Package calcserver exposes the stat engine over HTTP and websocket.
package calcserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/statcalc/internal/build"
	"github.com/udisondev/statcalc/internal/config"
)

const maxBodyBytes = 1 << 20

// Server serves the calculation API.
type Server struct {
	cfg      config.Server
	svc      *build.Service
	mux      *http.ServeMux
	upgrader websocket.Upgrader

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server for svc. Nothing listens until Run or Serve.
func New(cfg config.Server, svc *build.Service) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /api/calculate/batch", s.handleCalculateBatch)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/stats/{id}/chain", s.handleChain)
	s.mux.HandleFunc("GET /api/monograms", s.handleMonograms)
	s.mux.HandleFunc("GET /api/builds", s.handleListBuilds)
	s.mux.HandleFunc("GET /api/builds/{name}", s.handleGetBuild)
	s.mux.HandleFunc("PUT /api/builds/{name}", s.handlePutBuild)
	s.mux.HandleFunc("DELETE /api/builds/{name}", s.handleDeleteBuild)
	s.mux.HandleFunc("GET /api/builds/{name}/evaluate", s.handleEvaluateBuild)
	s.mux.HandleFunc("GET /api/schema/build", s.handleBuildSchema)
	if s.cfg.LiveEnabled {
		s.mux.HandleFunc("GET /ws/live", s.handleLive)
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Addr returns the bound address, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("stat server started", "address", ln.Addr(), "live", s.cfg.LiveEnabled)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	slog.Info("stat server stopped")
	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return 5 * time.Second
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes websocket upgrades through to the underlying writer.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
