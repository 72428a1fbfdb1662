// Package server exposes the graphize pipeline and live documents over HTTP.
//
// # Routes
//
//	GET  /healthz              liveness and build info
//	POST /api/v1/parse         body: document text → wire tree JSON
//	POST /api/v1/render        body: document text → svg, dot, json or layout
//	GET  /api/v1/tree          current live tree
//	PUT  /api/v1/tree          body: document text → replaces the live document
//	GET  /api/v1/tree/render   current live tree → svg, dot, json or layout
//	GET  /api/v1/events        Server-Sent Events stream of live tree updates
//
// Options come from the query string on top of the configured defaults:
// format (output format for render routes, input format for parse), input,
// direction, width, height, detailed, max_depth, max_label, root_label and
// refresh.
//
// # Errors
//
// Failures are answered with a JSON body {"code": ..., "message": ...}. Text
// that is neither JSON nor YAML yields 422 with code INVALID_CONTENT and the
// message "Not valid JSON/YAML content.". Drawing an empty document yields
// 204 No Content.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/graphize/pkg/httputil"
	"github.com/matzehuels/graphize/pkg/live"
	"github.com/matzehuels/graphize/pkg/pipeline"
	"github.com/matzehuels/graphize/pkg/pubsub"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// CacheHeader reports whether a response came from the pipeline cache.
const CacheHeader = "X-Graphize-Cache"

// shutdownTimeout bounds graceful shutdown; event streams are cut after it.
const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Runner executes the pipeline. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Document is the live document. Nil disables the /api/v1/tree routes.
	Document *live.Document

	// Publisher feeds /api/v1/events. Nil disables the route.
	Publisher pubsub.Publisher

	// Defaults holds option values applied before the query string.
	Defaults pipeline.Options

	// MaxBody limits request bodies in bytes. Zero means the default limit.
	MaxBody int64

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server and its routes.
func New(cfg Config) *Server {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{cfg: cfg, logger: logger.WithPrefix("http")}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/render", s.handleRender)

		r.Route("/tree", func(r chi.Router) {
			r.Use(s.requireDocument)
			r.Get("/", s.handleGetTree)
			r.Put("/", s.handlePutTree)
			r.Get("/render", s.handleRenderTree)
		})

		r.With(s.requirePublisher).Get("/events", s.handleEvents)
	})

	return r
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
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
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requireDocument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Document == nil {
			httputil.WriteError(w, errNoDocument)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requirePublisher(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Publisher == nil {
			httputil.WriteError(w, errNoEvents)
			return
		}
		next.ServeHTTP(w, r)
	})
}
