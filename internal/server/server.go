// Package server provides the HTTP API for Lumina.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/luminahq/lumina/internal/config"
	"github.com/luminahq/lumina/internal/service"
	"go.uber.org/zap"
)

// Server is the HTTP server for the Lumina API.
type Server struct {
	service *service.ImageService
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *service.ImageService, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		service: svc,
		config:  cfg,
		logger:  logger,
	}
}

// Handler builds the router. Exposed so tests can exercise routing.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Batch uploads embed sequentially against the remote API, so the
	// request budget is generous.
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))
	// Permissive CORS so a browser frontend can call the API directly.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/upload/batch", s.handleUploadBatch)
		r.Post("/search", s.handleSearch)
		r.Get("/stats", s.handleStats)
		r.Delete("/images/{image_id}", s.handleDelete)
		r.Get("/health", s.handleHealth)
		r.Get("/telemetry", s.handleTelemetry)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
