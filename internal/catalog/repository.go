package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/s-celles/atpack-go/internal/atpack"
)

// PackSummary is the lightweight listing view of one stored pack.
type PackSummary struct {
	Name        string    `json:"name"`
	Vendor      string    `json:"vendor,omitempty"`
	Version     string    `json:"version,omitempty"`
	SourceFile  string    `json:"source_file,omitempty"`
	DeviceCount int       `json:"device_count"`
	LoadID      string    `json:"load_id"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Repository defines the interface for pack persistence operations.
// This abstraction allows for different implementations (SQLite, mock)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByName retrieves a pack by name.
	// Returns ErrPackNotFound if the pack does not exist.
	GetByName(ctx context.Context, name string) (*atpack.AtPack, error)

	// List retrieves summaries of all stored packs, ordered by name.
	List(ctx context.Context) ([]PackSummary, error)

	// Save stores a pack. An existing pack with the same name is
	// replaced.
	Save(ctx context.Context, pack *atpack.AtPack) error

	// Delete removes a pack by name.
	// Returns ErrPackNotFound if the pack does not exist.
	Delete(ctx context.Context, name string) error
}

// SQLiteRepository implements Repository using SQLite. The full parsed
// model is stored as a JSON document; the summary columns are denormalized
// for listing without unmarshalling every pack.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByName retrieves a pack by name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*atpack.AtPack, error) {
	query := `SELECT payload FROM packs WHERE name = ?`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackNotFound
		}
		return nil, fmt.Errorf("querying pack by name: %w", err)
	}

	var pack atpack.AtPack
	if err := json.Unmarshal(payload, &pack); err != nil {
		return nil, fmt.Errorf("unmarshalling pack %s: %w", name, err)
	}
	return &pack, nil
}

// List retrieves summaries of all stored packs.
func (r *SQLiteRepository) List(ctx context.Context) ([]PackSummary, error) {
	query := `
		SELECT name, vendor, version, source_file, device_count, load_id, loaded_at
		FROM packs
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing packs: %w", err)
	}
	defer rows.Close()

	var summaries []PackSummary
	for rows.Next() {
		var s PackSummary
		var loadedAt string
		if err := rows.Scan(&s.Name, &s.Vendor, &s.Version, &s.SourceFile,
			&s.DeviceCount, &s.LoadID, &loadedAt); err != nil {
			return nil, fmt.Errorf("scanning pack summary: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, loadedAt); err == nil {
			s.LoadedAt = t
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Save stores a pack, replacing any earlier pack with the same name.
func (r *SQLiteRepository) Save(ctx context.Context, pack *atpack.AtPack) error {
	if pack == nil || pack.Metadata.Name == "" {
		return ErrInvalidPack
	}

	payload, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshalling pack %s: %w", pack.Metadata.Name, err)
	}

	query := `
		INSERT INTO packs (name, vendor, version, source_file, device_count, load_id, loaded_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			vendor = excluded.vendor,
			version = excluded.version,
			source_file = excluded.source_file,
			device_count = excluded.device_count,
			load_id = excluded.load_id,
			loaded_at = excluded.loaded_at,
			payload = excluded.payload`

	_, err = r.db.ExecContext(ctx, query,
		pack.Metadata.Name, pack.Metadata.Vendor, pack.Version, pack.SourceFile,
		len(pack.Devices), pack.LoadID, pack.LoadedAt.UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return fmt.Errorf("saving pack %s: %w", pack.Metadata.Name, err)
	}
	return nil
}

// Delete removes a pack by name.
func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting pack %s: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrPackNotFound
	}
	return nil
}

// summarize builds the listing view of one pack.
func summarize(pack *atpack.AtPack) PackSummary {
	return PackSummary{
		Name:        pack.Metadata.Name,
		Vendor:      pack.Metadata.Vendor,
		Version:     pack.Version,
		SourceFile:  pack.SourceFile,
		DeviceCount: len(pack.Devices),
		LoadID:      pack.LoadID,
		LoadedAt:    pack.LoadedAt,
	}
}
