// Package server is the live preview server: it renders pages on request,
// keeps per-visitor preferences and pushes reloads when sources change.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/codekitchen-community/pages/internal/browser"
	"github.com/codekitchen-community/pages/internal/db"
	"github.com/codekitchen-community/pages/internal/site"
)

const (
	// RuntimePath serves the browser build of the page state controller.
	RuntimePath = "/_runtime/"
	// PreferencesPath receives preference changes from the browser.
	PreferencesPath = "/api/preferences"
)

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	Namespace  string // prefix for stored preference keys
	AllowAll   bool   // allow all CORS origins
	LiveReload bool   // inject the reload script and serve /livereload
}

// Server renders pages from a site.Generator over HTTP.
type Server struct {
	cfg        Config
	gen        *site.Generator
	db         *db.DB
	hub        *Hub
	logger     *slog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. database may be nil, in which case preferences are
// not persisted between requests.
func New(cfg Config, gen *site.Generator, database *db.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		gen:    gen,
		db:     database,
		logger: logger,
	}
	if cfg.LiveReload {
		s.hub = NewHub(logger)
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket must not sit behind the timeout middleware.
	if s.hub != nil {
		r.Get("/livereload", s.hub.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		if s.gen.Runtime != nil {
			r.Handle(RuntimePath+"{file}", s.gen.Runtime)
		}

		r.Route(PreferencesPath, func(r chi.Router) {
			r.Get("/", s.handleGetPreferences)
			r.Put("/{key}", s.handlePutPreference)
		})

		r.Get("/", s.handleIndex)
		r.Get("/pages", s.handleListPages)
		r.Get("/{page}", s.handlePage)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the live reload hub, or nil when live reload is off.
func (s *Server) Hub() *Hub { return s.hub }

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Start begins listening on the configured address. It returns nil after a
// graceful Shutdown.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("preview server listening", "addr", s.Addr())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listening on %s: %w", s.Addr(), err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and disconnects reload clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
