package recipes

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mealplanner/internal/nutrition"
	"mealplanner/internal/shared/metrics"
	"mealplanner/internal/shared/telemetry"
)

// Snapshot is an immutable view of the catalog. Readers must not modify it.
type Snapshot struct {
	Recipes  []Recipe
	Bounds   nutrition.Bounds
	Version  uint64
	LoadedAt time.Time
}

// Source loads the full catalog.
type Source interface {
	ListAll(ctx context.Context) ([]Recipe, error)
}

// Catalog holds the current snapshot and swaps it wholesale on reload.
type Catalog struct {
	source  Source
	current atomic.Pointer[Snapshot]
	version atomic.Uint64
	reload  sync.Mutex
	pending chan struct{}
}

// NewCatalog constructs a Catalog holding an empty snapshot.
func NewCatalog(source Source) *Catalog {
	c := &Catalog{source: source, pending: make(chan struct{}, 1)}
	c.current.Store(&Snapshot{LoadedAt: time.Now().UTC()})
	return c
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Reload reads the whole catalog and publishes it as a new snapshot.
func (c *Catalog) Reload(ctx context.Context) error {
	c.reload.Lock()
	defer c.reload.Unlock()

	jobID := uuid.NewString()
	start := time.Now()
	recipes, err := c.source.ListAll(ctx)
	if err != nil {
		metrics.IncCatalogReloadFailed()
		telemetry.Error("catalog.reload_failed", map[string]any{
			"job_id": jobID,
			"error":  err.Error(),
		})
		return fmt.Errorf("load catalog: %w", err)
	}

	snap := &Snapshot{
		Recipes:  recipes,
		Bounds:   ComputeBounds(recipes),
		Version:  c.version.Add(1),
		LoadedAt: time.Now().UTC(),
	}
	c.current.Store(snap)
	metrics.IncCatalogReload()
	telemetry.Info("catalog.reload", map[string]any{
		"job_id":      jobID,
		"count":       len(recipes),
		"version":     snap.Version,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
	return nil
}

// ReloadAsync requests a reload without waiting for it. Requests made while one
// is already pending are coalesced.
func (c *Catalog) ReloadAsync() {
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// Run serves ReloadAsync requests until ctx is done.
func (c *Catalog) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.pending:
			_ = c.Reload(ctx)
		}
	}
}
