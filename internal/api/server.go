// Package api provides the HTTP server for uploading documents and streaming
// extraction progress.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danteata/spiritammo/internal/logging"
	"github.com/danteata/spiritammo/internal/pipeline"
	"github.com/danteata/spiritammo/internal/store"
)

// Config holds server settings.
type Config struct {
	Port           int
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes bounds document uploads at 100 MiB.
const DefaultMaxUploadBytes = 100 << 20

// Server handles document uploads and progress streaming. The store is
// optional; without one, /api/extract refuses save requests.
type Server struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	store    *store.Store
	hub      *Hub
	logger   *slog.Logger
}

// NewServer creates a Server. hub must already be running.
func NewServer(cfg Config, p *pipeline.Pipeline, st *store.Store, hub *Hub, logger *slog.Logger) *Server {
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{cfg: cfg, pipeline: p, store: st, hub: hub, logger: logger}
}

// Routes returns the server's handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/extract", s.handleExtract)
	mux.Handle("/ws", s.hub)
	return mux
}

// Start runs the server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server starting", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           logging.Middleware(s.logger, s.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
