// Package database owns the SQLite handle behind the pack store.
//
// It covers lifecycle only: opening the file (WAL mode, busy timeout,
// 0600 permissions), running schema migrations, health checks, and
// closing. Query plumbing lives with the callers, which use the
// embedded *sql.DB directly.
//
// Usage:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are forward-only and additive. The stored pack payloads
// are regenerable from their source archives, so recovery from a bad
// upgrade is re-loading packs, not rollback SQL:
//   - New columns must be NULLABLE or have DEFAULT values
//   - Never DROP or RENAME columns
//   - Migration files are named <version>_<name>.up.sql
package database
