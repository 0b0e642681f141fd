// Package httpserver wires the viewer's routes and runs the HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	derrors "git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/server/handlers"
	smw "git.home.luguber.info/inful/postview/internal/server/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server serves the post viewer.
type Server struct {
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter

	pageHandlers       *handlers.PageHandlers
	apiHandlers        *handlers.APIHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New constructs the server and its handlers. Nothing listens until Start.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		opts:         opts,
		logger:       logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(logger),
	}

	s.pageHandlers = handlers.NewPageHandlers(opts.Catalog, opts.Resolver, opts.Renderer, opts.Title)
	s.apiHandlers = handlers.NewAPIHandlers(opts.Catalog, opts.Resolver, opts.Renderer)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Catalog, time.Now())

	s.mchain = smw.Chain(logger, s.errorAdapter, opts.Recorder)
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.pageHandlers.HandleIndex)
	mux.HandleFunc("GET /post/{id...}", s.pageHandlers.HandlePost)
	mux.HandleFunc("GET /api/posts", s.apiHandlers.HandleListPosts)
	mux.HandleFunc("GET /api/posts/{id...}", s.apiHandlers.HandleGetPost)
	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.HandleFunc("/", s.handleNotFound)
	return s.mchain(mux)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	err := derrors.NotFoundError("no such route").
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()
	s.errorAdapter.WriteErrorResponse(w, r, err)
}

// Start binds the listen address and serves in the background. Binding
// errors are returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return derrors.RuntimeError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http startup failed").
			WithContext("addr", s.opts.Addr).
			Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}(s.srv)

	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
