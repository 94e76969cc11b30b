package catalog

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/s-celles/atpack-go/internal/atpack"
)

// setupTestDB creates an in-memory SQLite database with the packs table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE packs (
			name TEXT PRIMARY KEY,
			vendor TEXT NOT NULL DEFAULT '',
			version TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			device_count INTEGER NOT NULL DEFAULT 0,
			load_id TEXT NOT NULL,
			loaded_at TEXT NOT NULL,
			payload BLOB NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func storedPack(name, loadID string) *atpack.AtPack {
	return &atpack.AtPack{
		LoadID:     loadID,
		SourceFile: name + ".atpack",
		LoadedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Metadata:   atpack.Metadata{Name: name, Vendor: "Microchip"},
		Version:    "3.1.264",
		Devices: []atpack.Device{
			{Name: "ATmega48", Family: "megaAVR"},
		},
	}
}

func TestSQLiteRepositorySaveAndGet(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, storedPack("ATmega_DFP", "load-1")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByName(ctx, "ATmega_DFP")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.LoadID != "load-1" || got.Metadata.Vendor != "Microchip" {
		t.Errorf("round trip lost fields: %+v", got.Metadata)
	}
	if len(got.Devices) != 1 || got.Devices[0].Name != "ATmega48" {
		t.Errorf("devices lost: %+v", got.Devices)
	}
}

func TestSQLiteRepositoryUpsert(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, storedPack("P", "load-1")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	replacement := storedPack("P", "load-2")
	replacement.Devices = append(replacement.Devices, atpack.Device{Name: "ATmega88"})
	if err := repo.Save(ctx, replacement); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	summaries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d rows, want 1 after upsert", len(summaries))
	}
	if summaries[0].LoadID != "load-2" || summaries[0].DeviceCount != 2 {
		t.Errorf("summary = %+v, want replacement values", summaries[0])
	}
}

func TestSQLiteRepositoryList(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha"} {
		if err := repo.Save(ctx, storedPack(name, "l")); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	summaries, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Name != "Alpha" {
		t.Errorf("summaries = %+v, want name order", summaries)
	}
	if summaries[0].LoadedAt.IsZero() {
		t.Error("loaded_at timestamp lost in round trip")
	}
}

func TestSQLiteRepositoryDelete(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Save(ctx, storedPack("P", "l")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Delete(ctx, "P"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByName(ctx, "P"); !errors.Is(err, ErrPackNotFound) {
		t.Errorf("got %v, want ErrPackNotFound", err)
	}
	if err := repo.Delete(ctx, "P"); !errors.Is(err, ErrPackNotFound) {
		t.Errorf("second delete: got %v, want ErrPackNotFound", err)
	}
}

func TestSQLiteRepositorySaveInvalid(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	if err := repo.Save(context.Background(), &atpack.AtPack{}); !errors.Is(err, ErrInvalidPack) {
		t.Errorf("got %v, want ErrInvalidPack", err)
	}
}
