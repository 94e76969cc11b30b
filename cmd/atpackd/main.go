// atpackd - AtPack device description service
//
// This is the main entry point for the atpackd daemon. It loads AtPack
// archives (ZIP containers of CMSIS-Pack descriptors and ATDF device
// fragments), parses them into structured device models, and serves the
// resulting catalog over a REST API backed by SQLite.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/s-celles/atpack-go/migrations"

	"github.com/s-celles/atpack-go/internal/api"
	"github.com/s-celles/atpack-go/internal/atpack"
	"github.com/s-celles/atpack-go/internal/catalog"
	"github.com/s-celles/atpack-go/internal/infrastructure/config"
	"github.com/s-celles/atpack-go/internal/infrastructure/database"
	"github.com/s-celles/atpack-go/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting atpackd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise pack catalog
	packRepo := catalog.NewSQLiteRepository(db.DB)
	packCatalog := catalog.NewRegistry(packRepo)
	packCatalog.SetLogger(log)

	if refreshErr := packCatalog.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading pack catalog: %w", refreshErr)
	}
	log.Info("pack catalog initialised", "packs", packCatalog.Count())

	// Build the archive parser with configured limits
	parser := &atpack.Parser{
		Client:         &http.Client{Timeout: cfg.GetFetchTimeout()},
		MaxArchiveSize: cfg.MaxArchiveBytes(),
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Loader:  cfg.Loader,
		Logger:  log,
		Catalog: packCatalog,
		Parser:  parser,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify connections are healthy
	if err := healthCheck(ctx, db, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. Database

	log.Info("atpackd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ATPACK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ATPACK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure components are healthy.
func healthCheck(ctx context.Context, db *database.DB, server *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
