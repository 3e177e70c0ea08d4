// Package server exposes the pipeline over HTTP.
//
// Routes:
//
//	POST   /api/cloud            run a cloud pass, optionally on a session
//	POST   /api/sessions         open an empty session
//	GET    /api/sessions/{id}    committed labels of a session
//	DELETE /api/sessions/{id}    tear a session down
//	POST   /api/stream           build and render a streamgraph
//	GET    /healthz              liveness
//	GET    /metrics              Prometheus exposition, when configured
//
// Passes on one session are serialized; different sessions run in
// parallel.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordstream/pkg/pipeline"
	"github.com/matzehuels/wordstream/pkg/session"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 4 << 20

// CleanupInterval is how often expired sessions are swept.
const CleanupInterval = 5 * time.Minute

// Config wires a Server.
type Config struct {
	Runner     *pipeline.Runner
	Sessions   session.Store
	SessionTTL time.Duration
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	Logger  *log.Logger
}

// Server handles the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	ttl      time.Duration
	metrics  http.Handler
	logger   *log.Logger
	locks    *keyedMutex
}

// New returns a server. Missing sessions, TTL and logger get defaults.
func New(cfg Config) *Server {
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	return &Server{
		runner:   cfg.Runner,
		sessions: cfg.Sessions,
		ttl:      cfg.SessionTTL,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		locks:    newKeyedMutex(),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/cloud", s.handleCloud)
		r.Post("/stream", s.handleStream)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to ten seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	go s.sweepSessions(ctx, CleanupInterval)
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweepSessions drops expired sessions every interval until ctx ends.
func (s *Server) sweepSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			}
		}
	}
}

// keyedMutex serializes work per key. Entries are dropped once no
// goroutine holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock acquires key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		if m.refs--; m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
