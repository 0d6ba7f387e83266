package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/app"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/remote"
)

// Factory creates the view and the actions of one session.
type Factory func() (app.View[remote.NodeID], events.Actions)

// Server accepts websocket sessions.
type Server struct {
	factory    Factory
	cfg        *config.Config
	upgrader   websocket.Upgrader
	registry   *prometheus.Registry
	appMetrics *app.Metrics
	metrics    *metrics
	logger     *slog.Logger
	nextID     atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithConfig applies server, metrics and tracing settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l.With("component", "stream")
		}
	}
}

// WithRegistry collects metrics into reg instead of a registry of the
// server's own.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithCheckOrigin sets the origin check of the websocket upgrade.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// NewServer creates a server whose sessions are built by factory.
func NewServer(factory Factory, opts ...Option) *Server {
	s := &Server{
		factory: factory,
		cfg:     config.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: slog.Default().With("component", "stream"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Metrics.Enabled {
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
		}
		s.appMetrics = app.NewMetrics(s.registry, s.cfg.Metrics.Namespace)
		s.metrics = newMetrics(s.registry, s.cfg.Metrics.Namespace)
	}
	return s
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	r.Get("/ws", s.HandleWebSocket)
	return r
}

// HandleWebSocket upgrades the request and runs a session until the client
// leaves.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.cfg.Server.ReadLimit)

	sess := s.newSession(conn, middleware.GetReqID(r.Context()))
	s.metrics.sessionOpened()
	defer s.metrics.sessionClosed()

	if err := sess.Run(r.Context()); err != nil {
		sess.logger.Warn("session ended", "error", err)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
