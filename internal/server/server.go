package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/handler"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	middlWre "github.com/Nzyazin/ledgerconsole/internal/core/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"
)

// Routes is a handler group mounted on the console router.
type Routes interface {
	RegisterRoutes(router *mux.Router)
}

// Closer releases a resource on shutdown, e.g. the credential database.
type Closer interface {
	Close() error
}

type Server struct {
	router     *mux.Router
	log        logger.Logger
	httpServer *http.Server
	closers    []Closer
}

type Option func(*Server)

func WithCloser(c Closer) Option {
	return func(s *Server) {
		s.closers = append(s.closers, c)
	}
}

func NewServer(log logger.Logger, routes []Routes, opts ...Option) *Server {
	server := &Server{
		log:    log,
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(server)
	}

	server.router.Use(loggingMiddleware(server.log))

	mw := middleware.New(middleware.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{Prefix: "console"}),
	})

	server.router.Use(func(next http.Handler) http.Handler {
		return std.Handler("", mw, next)
	})

	server.RegisterRoutes(routes)

	return server
}

func (s *Server) RegisterRoutes(routes []Routes) {
	s.router.Use(
		middlWre.WithErrorHandler(s.log),
		middlWre.Recovery(s.log),
	)
	for _, r := range routes {
		r.RegisterRoutes(s.router)
	}
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	s.router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

var (
	_ Routes = (*handler.SessionHandler)(nil)
	_ Routes = (*handler.WalletHandler)(nil)
	_ Routes = (*handler.DetailHandler)(nil)
	_ Routes = (*handler.StatusHandler)(nil)
)

func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
	}

	s.httpServer = srv

	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	var shutdownErr error

	go func() {
		if s.httpServer != nil {
			err := s.httpServer.Shutdown(ctx)
			if err != nil {
				s.log.Error("failed to shutdown HTTP server", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("HTTP server shutdown error: %w", err)
			}
		}

		for _, c := range s.closers {
			if err := c.Close(); err != nil {
				s.log.Error("failed to close resource", logger.ErrorField("error", err))
				shutdownErr = fmt.Errorf("resource shutdown error: %w", err)
			}
		}

		close(done)
	}()

	select {
	case <-done:
		return shutdownErr
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Server) RunTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       9 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 6 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	s.httpServer = srv
	return srv.ListenAndServeTLS(certFile, keyFile)
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info("HTTP request",
				logger.StringField("method", r.Method),
				logger.StringField("path", r.URL.Path),
				logger.StringField("remote_addr", r.RemoteAddr),
				logger.StringField("user_agent", r.UserAgent()),
			)
			next.ServeHTTP(w, r)
		})
	}
}
