// Package catalog stores parsed AtPacks and serves lookups over them.
//
// The Registry is the entry point: it wraps a Repository for persistence
// and keeps the full parsed models in memory, keyed by pack name. Storing
// a pack whose name is already present replaces the earlier pack; the
// catalog never holds two entries for the same name.
//
// Parsed packs are immutable, so the registry hands out the cached values
// directly without defensive copies.
package catalog
