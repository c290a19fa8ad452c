package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/artifact"
	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/detect"
	"github.com/Anas09876/FinDeIdentify/internal/extract"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
	"github.com/Anas09876/FinDeIdentify/internal/pipeline"
	"github.com/Anas09876/FinDeIdentify/internal/redact"
	"github.com/Anas09876/FinDeIdentify/internal/server"
	"github.com/Anas09876/FinDeIdentify/internal/store"
	"github.com/Anas09876/FinDeIdentify/internal/websocket"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("FinDeIdentify %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Perform health check and exit
	if *healthCheck {
		performHealthCheck()
		return
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting FinDeIdentify",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port),
	)

	// Wire components
	artifacts, err := artifact.NewStorage(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal("Failed to initialize artifact storage", zap.Error(err))
	}

	extractor, err := extract.New(cfg.Extraction, log.WithComponent("extract"))
	if err != nil {
		log.Fatal("Failed to initialize text extractor", zap.Error(err))
	}
	defer extractor.Close()

	detector, err := detect.New(cfg.Detection, log.WithComponent("detect"))
	if err != nil {
		log.Fatal("Failed to initialize PII detector", zap.Error(err))
	}

	renderer := redact.New(log.WithComponent("redact"))
	documents := store.New()
	wsHub := websocket.NewHub(cfg.WebSocket, log.WithComponent("websocket").Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.New(ctx, cfg.Pipeline.Workers,
		documents, artifacts, extractor, detector, renderer, wsHub,
		log.WithComponent("pipeline"))

	srv := server.New(cfg, log, documents, artifacts, orch, wsHub)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		serverErrors <- srv.Start()
	}()

	// Setup graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Give outstanding requests 30 seconds to complete
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		// Let in-flight pipeline runs land their terminal store writes.
		orch.Wait()

		log.Info("Server shutdown complete")
	}
}

// performHealthCheck performs a health check against the running server
func performHealthCheck() {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get("http://localhost:8080/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
