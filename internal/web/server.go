// Package web provides the HTTP server and handlers for the GPS report
// ingestion API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/uteam-club/uteam-sub004/internal/config"
	"github.com/uteam-club/uteam-sub004/internal/report"
)

// Server is the HTTP server for the ingestion service.
type Server struct {
	service *report.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance.
func NewServer(service *report.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes. The upload route runs outside
// the standard request timeout; handleIngest bounds itself by the
// configured upload timeout instead.
func (s *Server) setupRoutes() {
	timeout := s.cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/reports", s.handleIngest)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(timeout))

			// Report access and the edit path
			r.Get("/reports/{reportID}", s.handleGetReport)
			r.Put("/reports/{reportID}/canonical", s.handleBulkEdit)
			r.Post("/reports/{reportID}/reprocess", s.handleReprocess)
			r.Get("/reports/{reportID}/changelog", s.handleChangeLog)

			// Profile management
			r.Get("/profiles", s.handleListProfiles)
			r.Post("/profiles", s.handleCreateProfile)
			r.Get("/profiles/{profileID}", s.handleGetProfile)

			// Canonical metric registry and unit conversion
			r.Get("/metrics", s.handleListMetrics)
			r.Get("/units/convert", s.handleConvertUnits)
		})
	})

	s.router.Get("/healthz", s.handleHealth)
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
