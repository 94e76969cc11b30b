package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	// Directory and file modes: the database holds nothing secret, but
	// parsed pack payloads are regenerable, so keep them owner-only and
	// let operators widen permissions deliberately.
	dirPermissions  = 0750
	filePermissions = 0600

	// openTimeout bounds the connectivity check in Open.
	openTimeout = 5 * time.Second

	msPerSecond = 1000
)

// DB is the pack store's SQLite handle. The catalog repository works on
// the embedded *sql.DB directly; this wrapper owns lifecycle (open,
// migrate, health check, close), not query plumbing.
type DB struct {
	*sql.DB
	path string
}

// Config mirrors the database section of config.yaml.
type Config struct {
	// Path to the SQLite file. Parent directories are created on open.
	Path string

	// WALMode enables write-ahead logging. Pack loads write a whole
	// payload row while API readers list and fetch concurrently, so WAL
	// is the expected setting.
	WALMode bool

	// BusyTimeout in seconds before a locked database errors out.
	BusyTimeout int
}

// Open connects to the SQLite file, creating it and its directory on
// first run, and verifies the connection with a ping.
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas ride on the DSN, see github.com/mattn/go-sqlite3.
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer is all SQLite gives us; a stored pack row can be tens of
	// megabytes of JSON, so don't queue writers behind a wide pool either.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{DB: sqlDB, path: cfg.Path}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// The file may not exist yet on a fresh run; the next open fixes it.
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // Intentional

	return db, nil
}

// Close releases the connection. Safe to call on a zero DB.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query to prove the connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
