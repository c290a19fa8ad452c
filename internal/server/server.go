package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/artifact"
	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
	"github.com/Anas09876/FinDeIdentify/internal/pipeline"
	"github.com/Anas09876/FinDeIdentify/internal/store"
	"github.com/Anas09876/FinDeIdentify/internal/websocket"
)

// Server exposes the document pipeline over HTTP: upload, status polling,
// artifact fetch and removal.
type Server struct {
	config       *config.Config
	logger       *logger.Logger
	store        *store.Store
	artifacts    *artifact.Storage
	orchestrator *pipeline.Orchestrator
	wsHub        *websocket.Hub
	router       *mux.Router
	server       *http.Server
	limiter      *clientLimiter
}

// New creates a new server instance
func New(
	cfg *config.Config,
	log *logger.Logger,
	st *store.Store,
	artifacts *artifact.Storage,
	orch *pipeline.Orchestrator,
	wsHub *websocket.Hub,
) *Server {
	server := &Server{
		config:       cfg,
		logger:       log.WithComponent("server"),
		store:        st,
		artifacts:    artifacts,
		orchestrator: orch,
		wsHub:        wsHub,
		router:       mux.NewRouter(),
		limiter:      newClientLimiter(cfg.RateLimit),
	}

	server.setupRoutes()

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// WebSocket endpoint for progress events
	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	// Document API
	api := s.router.PathPrefix("/api/documents").Subrouter()
	api.Use(s.loggingMiddleware)

	upload := api.PathPrefix("/upload").Subrouter()
	upload.Use(s.rateLimitMiddleware)
	upload.HandleFunc("", s.handleUpload).Methods("POST")

	api.HandleFunc("/{id}", s.handleGetDocument).Methods("GET")
	api.HandleFunc("/{id}/file/{variant}", s.handleGetFile).Methods("GET")
	api.HandleFunc("/{id}", s.handleDeleteDocument).Methods("DELETE")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting FinDeIdentify server",
		zap.Int("port", s.config.Server.Port),
		zap.String("upload_dir", s.config.Storage.UploadDir),
		zap.Bool("websocket_enabled", s.config.WebSocket.Enabled),
	)

	if s.config.WebSocket.Enabled {
		go s.wsHub.Run()
	}

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping FinDeIdentify server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"name":"findeidentify",
		"version":"0.1.0",
		"documents":%d,
		"ws_clients":%d
	}`, len(s.store.List()), s.wsHub.ClientCount())
}

// handleWebSocket handles WebSocket connections for progress events
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
