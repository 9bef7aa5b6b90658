package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"vidrelay/internal/api"
	"vidrelay/internal/config"
	"vidrelay/internal/download"
	"vidrelay/internal/history"
	"vidrelay/internal/relay"
	"vidrelay/internal/ui"
)

func main() {
	// Command line flags
	var port int
	var configPath string
	flag.IntVar(&port, "port", 0, "Port to run the server on (overrides config file)")
	flag.StringVar(&configPath, "config", "config.json", "Path to configuration file")
	flag.Parse()

	// A .env file next to the binary may carry the upstream URL so it
	// stays out of config.json.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override port from command line argument
	if port > 0 {
		cfg.Port = port
	}

	// Environment overrides
	if envPort := os.Getenv("VIDRELAY_PORT"); envPort != "" {
		if parsedPort, err := strconv.Atoi(envPort); err == nil && parsedPort > 0 {
			cfg.Port = parsedPort
		}
	}
	if upstream := os.Getenv("VIDRELAY_UPSTREAM_URL"); upstream != "" {
		cfg.UpstreamAPIURL = upstream
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging based on config
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.VerboseLogging {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if cfg.UpstreamAPIURL == "" {
		log.Warn("No upstream API URL configured (set VIDRELAY_UPSTREAM_URL or upstream_api_url in config.json)")
		log.Warn("Starting in settings-only mode; downloads will fail until an upstream is configured")
	}

	// History store
	store, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	store.SetOnChange(func() {
		log.Debug("Download history changed")
	})

	// Shared HTTP client; the only timeout in the pipeline.
	client := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}

	// Relay to the hidden upstream, and the orchestrator that talks to it
	// the same way the browser would.
	relayHandler := relay.NewHandler(cfg.UpstreamAPIURL, client)
	relayURL := fmt.Sprintf("http://127.0.0.1:%d/api/relay", cfg.Port)
	downloader := download.NewService(relayURL, client, store)

	// Handlers and routes
	apiHandler := api.NewHandler(cfg, store, downloader)
	uiHandler := ui.NewTemplateHandler(cfg)

	router := api.SetupRoutes(apiHandler, relayHandler, ui.Assets)
	router.HandleFunc("/", uiHandler.ServeIndex).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("Failed to start server on port %d: %v", cfg.Port, err)
	}

	log.Infof("VidRelay listening on http://localhost%s", addr)
	log.Infof("History database: %s", cfg.HistoryDBPath)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Infof("Received %s signal, shutting down gracefully...", sig)
	case err := <-serverErrChan:
		log.Errorf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Errorf("Error closing history store: %v", err)
	}

	log.Info("Shutdown complete")
}
