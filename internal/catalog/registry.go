package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/s-celles/atpack-go/internal/atpack"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides pack management with caching and thread safety.
// It wraps a Repository and keeps every stored pack in memory for fast
// device lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by the mutating operations. Parsed packs are immutable, so cached
// values are handed out directly.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*atpack.AtPack // Cached packs by name
	cacheMu sync.RWMutex              // Protects cache
	logger  Logger
}

// NewRegistry creates a new pack registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*atpack.AtPack),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all packs from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	summaries, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("listing packs: %w", err)
	}

	cache := make(map[string]*atpack.AtPack, len(summaries))
	for _, s := range summaries {
		pack, err := r.repo.GetByName(ctx, s.Name)
		if err != nil {
			return fmt.Errorf("loading pack %s: %w", s.Name, err)
		}
		cache[s.Name] = pack
	}

	r.cacheMu.Lock()
	r.cache = cache
	r.cacheMu.Unlock()

	r.logger.Info("pack cache refreshed", "count", len(cache))
	return nil
}

// Store persists a pack and caches it. An existing pack with the same
// name is replaced; the catalog never holds two entries for one name.
func (r *Registry) Store(ctx context.Context, pack *atpack.AtPack) error {
	if pack == nil || pack.Metadata.Name == "" {
		return ErrInvalidPack
	}

	if err := r.repo.Save(ctx, pack); err != nil {
		return err
	}

	r.cacheMu.Lock()
	_, replaced := r.cache[pack.Metadata.Name]
	r.cache[pack.Metadata.Name] = pack
	r.cacheMu.Unlock()

	r.logger.Info("pack stored",
		"name", pack.Metadata.Name,
		"devices", len(pack.Devices),
		"replaced", replaced)
	return nil
}

// Get retrieves a pack by name.
// Returns ErrPackNotFound if the pack does not exist.
func (r *Registry) Get(ctx context.Context, name string) (*atpack.AtPack, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[name]
	r.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	// Fall back to the repository (might be a pack not yet cached).
	pack, err := r.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[name] = pack
	r.cacheMu.Unlock()

	return pack, nil
}

// GetDevice retrieves one device from a stored pack.
// Returns ErrPackNotFound or ErrDeviceNotFound accordingly. The device
// name comparison is case-insensitive; vendors are inconsistent about
// casing in ordering codes and tooling.
func (r *Registry) GetDevice(ctx context.Context, packName, deviceName string) (*atpack.Device, error) {
	pack, err := r.Get(ctx, packName)
	if err != nil {
		return nil, err
	}
	for i := range pack.Devices {
		if strings.EqualFold(pack.Devices[i].Name, deviceName) {
			return &pack.Devices[i], nil
		}
	}
	return nil, ErrDeviceNotFound
}

// List returns summaries of all cached packs, ordered by name.
func (r *Registry) List(ctx context.Context) ([]PackSummary, error) {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()

	if len(r.cache) > 0 {
		summaries := make([]PackSummary, 0, len(r.cache))
		for _, pack := range r.cache {
			summaries = append(summaries, summarize(pack))
		}
		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
		return summaries, nil
	}

	return r.repo.List(ctx)
}

// Delete removes a pack by name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	if err := r.repo.Delete(ctx, name); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, name)
	r.cacheMu.Unlock()

	r.logger.Info("pack deleted", "name", name)
	return nil
}

// Count returns the number of cached packs.
func (r *Registry) Count() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
