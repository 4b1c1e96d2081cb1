// Package server serves a portfolio site over HTTP, populating each HTML
// page from the data documents on every request.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/folio/internal/contact"
	"github.com/ziadkadry99/folio/internal/dom"
	"github.com/ziadkadry99/folio/internal/livereload"
	"github.com/ziadkadry99/folio/internal/loader"
	"github.com/ziadkadry99/folio/internal/page"
)

// Config holds server configuration.
type Config struct {
	Port     int
	SiteDir  string // directory containing the HTML pages and assets
	AllowAll bool   // allow all CORS origins (dev mode)
	// ProbeWait bounds how long a projects page waits for cover probes
	// before it is sent. Zero sends it immediately.
	ProbeWait time.Duration
}

// Server serves the site.
type Server struct {
	cfg        Config
	loader     *loader.Loader
	relay      *contact.Relay
	hub        *livereload.Hub
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// Option configures optional server features.
type Option func(*Server)

// WithContact enables POST /api/contact.
func WithContact(relay *contact.Relay) Option {
	return func(s *Server) { s.relay = relay }
}

// WithLiveReload injects the live reload client into every page and mounts
// its endpoints.
func WithLiveReload(hub *livereload.Hub) Option {
	return func(s *Server) { s.hub = hub }
}

// New creates a server that populates pages with ld.
func New(cfg Config, ld *loader.Loader, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		loader: ld,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
		corsOpts.AllowCredentials = false
	}
	r.Use(cors.Handler(corsOpts))

	// The live reload socket is long-lived and stays outside the timeout.
	if s.hub != nil {
		s.hub.RegisterRoutes(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// Health check
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		if s.relay != nil {
			contact.RegisterRoutes(r, s.relay)
		}

		files := http.FileServer(http.Dir(s.cfg.SiteDir))
		r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
			rel, ok := s.pagePath(r.URL.Path)
			if !ok {
				w.Header().Set("Cache-Control", "no-cache")
				files.ServeHTTP(w, r)
				return
			}
			s.servePage(w, r, rel)
		})
	})

	return r
}

// pagePath maps a request path to a page under the site directory. It
// reports false for anything that is not an HTML page.
func (s *Server) pagePath(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") {
		clean = path.Join(clean, "index.html")
	} else if info, err := os.Stat(filepath.Join(s.cfg.SiteDir, filepath.FromSlash(clean))); err == nil && info.IsDir() {
		clean = path.Join(clean, "index.html")
	}
	if path.Ext(clean) != ".html" {
		return "", false
	}
	return strings.TrimPrefix(clean, "/"), true
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, rel string) {
	f, err := os.Open(filepath.Join(s.cfg.SiteDir, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "could not read page", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		s.logger.Error("parsing page", zap.String("page", rel), zap.Error(err))
		http.Error(w, "could not parse page", http.StatusInternalServerError)
		return
	}

	pc := page.Resolve("/"+rel, r.URL.RawQuery)
	res := s.loader.Run(r.Context(), doc, rel, pc)
	if res.Probes != nil && s.cfg.ProbeWait > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ProbeWait)
		if err := res.Probes.Wait(ctx); err != nil {
			s.logger.Debug("sending page before all cover probes finished",
				zap.String("run_id", res.RunID), zap.Int("shown", res.Probes.Shown()))
		}
		cancel()
	}

	if s.hub != nil {
		if err := doc.AppendToBody(livereload.ScriptTag); err != nil {
			s.logger.Debug("injecting live reload", zap.Error(err))
		}
	}

	s.logger.Debug("page served",
		zap.String("page", rel),
		zap.String("run_id", res.RunID),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	if err := doc.Render(w); err != nil {
		s.logger.Warn("writing page", zap.String("page", rel), zap.Error(err))
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("folio server listening", zap.String("addr", addr), zap.String("site", s.cfg.SiteDir))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
