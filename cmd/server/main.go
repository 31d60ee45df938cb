/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the duty roster engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults < YAML file < flags)
  3. Initialize SQLite store
  4. Build calendar, roster, and service
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides config when set)
  -db      SQLite database path (default: guardias.db)
           Use ":memory:" for an in-memory database
  -config  YAML configuration file (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with the built-in 2026 roster
  ./server -db="./data/guardias.db"

  # Run with a custom roster and calendar
  ./server -config=./roster.yaml -port=3000

SEE ALSO:
  - config/config.go: Configuration shape and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"github.com/centinela/guardia-engine/api"
	"github.com/centinela/guardia-engine/config"
	"github.com/centinela/guardia-engine/roster"
	"github.com/centinela/guardia-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "guardias.db", "SQLite database path")
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	cal, err := cfg.BuildCalendar()
	if err != nil {
		logger.Fatal("failed to build calendar", zap.Error(err))
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	// Build service and router
	svc := roster.NewService(cal, cfg.BuildRoster(), store, store, store, logger)
	handler := api.NewHandler(svc)

	opts := api.RouterOptions{}
	if cfg.Server.RateLimit.Enabled {
		opts.RateLimitRPS = cfg.Server.RateLimit.RPS
		opts.RateLimitBurst = cfg.Server.RateLimit.Burst
	}
	router := api.NewRouter(handler, opts)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Int("year", cal.Year()),
			zap.Int("roster_size", len(cfg.Roster)),
			zap.String("db", *dbPath),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
