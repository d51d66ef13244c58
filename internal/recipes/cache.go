package recipes

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mealplanner/internal/shared/metrics"
	"mealplanner/internal/shared/telemetry"
)

// DefaultCacheTTL is the sliding expiration of cached query results.
const DefaultCacheTTL = 30 * time.Minute

const cacheKeyPrefix = "FilteredRecipes"

// Cache stores unpaginated query results. Every hit restarts the entry's TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]Recipe, bool, error)
	Set(ctx context.Context, key string, recipes []Recipe) error
}

// MemoryCache is an in-process Cache with sliding expiration.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	recipes    []Recipe
	lastAccess time.Time
}

// NewMemoryCache constructs a MemoryCache. A nil now uses time.Now.
func NewMemoryCache(ttl time.Duration, now func() time.Time) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{entries: make(map[string]*memoryEntry), ttl: ttl, now: now}
}

// Get returns the entry for key and restarts its expiration window.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]Recipe, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if now.Sub(entry.lastAccess) > c.ttl {
		delete(c.entries, key)
		return nil, false, nil
	}
	entry.lastAccess = now
	return entry.recipes, true, nil
}

// Set stores recipes under key and drops expired entries.
func (c *MemoryCache) Set(ctx context.Context, key string, recipes []Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.Sub(e.lastAccess) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = &memoryEntry{recipes: recipes, lastAccess: now}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// QueryCache serves paginated query results from a Cache.
type QueryCache struct {
	Store Cache
}

// CacheKey builds a key from the filter's populated fields in a fixed order.
// List fields are normalized and sorted so permutations share a key. The
// catalog version scopes entries to one snapshot.
func CacheKey(version uint64, filter QueryFilter, pageSize int) string {
	var b strings.Builder
	b.WriteString(cacheKeyPrefix)
	b.WriteString("_v")
	b.WriteString(strconv.FormatUint(version, 10))
	writeList := func(name string, values []string) {
		terms := normalizeTerms(values)
		if len(terms) == 0 {
			return
		}
		sort.Strings(terms)
		b.WriteString("|" + name + "=")
		b.WriteString(strings.Join(terms, ","))
	}
	b.WriteString("|pct=")
	if filter.MatchPercent != nil {
		b.WriteString(strconv.FormatFloat(*filter.MatchPercent, 'f', -1, 64))
	}
	writeList("kw", filter.Keywords)
	writeList("inc", filter.Ingredients)
	writeList("exc", filter.ExcludeIngredients)
	b.WriteString("|size=")
	b.WriteString(strconv.Itoa(pageSize))
	return b.String()
}

// Get returns the requested page of a cached result. found is false when the
// entry is missing or pageSize exceeds MaxPageSize.
func (q *QueryCache) Get(ctx context.Context, version uint64, filter QueryFilter, page, pageSize int) (PagedResult, bool) {
	if q == nil || q.Store == nil || pageSize > MaxPageSize {
		return PagedResult{}, false
	}
	recipes, ok, err := q.Store.Get(ctx, CacheKey(version, filter, pageSize))
	if err != nil {
		telemetry.Warn("cache.get_failed", map[string]any{"error": err.Error()})
		return PagedResult{}, false
	}
	if !ok {
		metrics.IncCacheMiss()
		return PagedResult{}, false
	}
	metrics.IncCacheHit()
	return Paginate(recipes, page, pageSize), true
}

// Put stores the unpaginated result. Store failures are logged, not returned.
func (q *QueryCache) Put(ctx context.Context, version uint64, filter QueryFilter, pageSize int, recipes []Recipe) {
	if q == nil || q.Store == nil {
		return
	}
	if err := q.Store.Set(ctx, CacheKey(version, filter, pageSize), recipes); err != nil {
		telemetry.Warn("cache.set_failed", map[string]any{"error": err.Error()})
	}
}

// Paginate slices one page out of recipes. Pages start at 1.
func Paginate(recipes []Recipe, page, pageSize int) PagedResult {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(recipes)
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	return PagedResult{
		Recipes:    ToResults(recipes[start:end]),
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
