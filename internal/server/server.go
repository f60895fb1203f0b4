// Package server serves the dashboard and its JSON API over HTTP, reloading
// the report when it changes on disk.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chmouel/go-wfc-report/internal/dashboard"
	"github.com/chmouel/go-wfc-report/internal/logging"
)

// ErrStopped is returned by Reload once Run has shut the server down.
var ErrStopped = errors.New("server stopped")

// Loader builds a fresh session from the report on disk.
type Loader func(ctx context.Context) (*dashboard.Session, error)

// Config holds configuration for the dashboard server.
type Config struct {
	Addr  string
	Title string
	// ReportPath is watched for changes when Watch is set.
	ReportPath string
	Watch      bool
	Load       Loader
	Logger     *slog.Logger
}

// Server serves one dashboard session at a time. A reload builds a new
// session and swaps it in; requests in flight keep the one they started with.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	current   atomic.Pointer[dashboard.Session]
	swapMu    sync.Mutex // serializes swaps with the shutdown close
	stopped   bool
	mux       *http.ServeMux
	metrics   *Metrics
	startTime time.Time
}

// New creates a server around an initial session.
func New(cfg Config, initial *dashboard.Session) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("server")
	}
	s := &Server{
		cfg:       cfg,
		logger:    logger,
		mux:       http.NewServeMux(),
		metrics:   NewMetrics(),
		startTime: time.Now(),
	}
	s.current.Store(initial)
	s.metrics.Update(initial)
	s.registerRoutes()
	return s
}

// Session returns the session currently served.
func (s *Server) Session() *dashboard.Session { return s.current.Load() }

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.mux }

// Reload rebuilds the session with the configured loader. On failure the
// previous session stays in place. A session loaded after ctx is cancelled
// or after Run has stopped is closed and never served.
func (s *Server) Reload(ctx context.Context) error {
	if s.cfg.Load == nil {
		return errors.New("no loader configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	next, err := s.cfg.Load(ctx)
	if err != nil {
		s.metrics.Reloaded(err)
		s.logger.Error("reloading report failed, keeping previous version", "error", err)
		return err
	}

	s.swapMu.Lock()
	if err := ctx.Err(); err != nil || s.stopped {
		s.swapMu.Unlock()
		next.Close()
		if err == nil {
			err = ErrStopped
		}
		s.logger.Debug("discarding reloaded report", "error", err)
		return err
	}
	old := s.current.Swap(next)
	s.swapMu.Unlock()

	s.metrics.Reloaded(nil)
	s.metrics.Update(next)
	if old != nil {
		old.Close()
	}
	s.logger.Info("report reloaded", "endpoints", len(next.Transformed()))
	return nil
}

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts down
// gracefully. ready, when set, receives the URL once the listener is up.
func (s *Server) Run(ctx context.Context, ready func(url string)) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}

	httpSrv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.ReportPath != "" {
		stop, err := s.watch(ctx)
		if err != nil {
			s.logger.Warn("could not watch report, live reload disabled", "path", s.cfg.ReportPath, "error", err)
		} else {
			defer stop()
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	url := "http://" + ln.Addr().String() + "/"
	s.logger.Info("serving dashboard", "url", url)
	if ready != nil {
		ready(url)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.swapMu.Lock()
	s.stopped = true
	if sess := s.current.Load(); sess != nil {
		sess.Close()
	}
	s.swapMu.Unlock()
	return nil
}
