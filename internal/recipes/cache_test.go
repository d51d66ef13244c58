package recipes

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestMemoryCacheSlidingExpiration(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(30*time.Minute, clock.Now)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", sampleRecipes()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	clock.Advance(20 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	// The hit above restarted the window.
	clock.Advance(20 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit after sliding renewal")
	}
	clock.Advance(31 * time.Minute)
	if _, ok, _ := cache.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after idle expiry")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be removed")
	}
}

func TestMemoryCacheSetSweepsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewMemoryCache(time.Minute, clock.Now)
	ctx := context.Background()

	_ = cache.Set(ctx, "old", nil)
	clock.Advance(2 * time.Minute)
	_ = cache.Set(ctx, "new", nil)
	if cache.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", cache.Len())
	}
}

func TestQueryCachePutThenGet(t *testing.T) {
	q := &QueryCache{Store: NewMemoryCache(0, nil)}
	ctx := context.Background()
	filter := QueryFilter{Keywords: []string{"vegan"}, MatchPercent: percentOf(55)}
	list := sampleRecipes()

	q.Put(ctx, 3, filter, 2, list)
	got, found := q.Get(ctx, 3, filter, 1, 2)
	if !found {
		t.Fatalf("expected cache hit")
	}
	if got.TotalItems != len(list) {
		t.Fatalf("expected TotalItems %d, got %d", len(list), got.TotalItems)
	}
	if got.TotalPages != 2 || len(got.Recipes) != 2 || got.Page != 1 {
		t.Fatalf("unexpected page: %+v", got)
	}

	if _, found := q.Get(ctx, 4, filter, 1, 2); found {
		t.Fatalf("expected miss for a newer catalog version")
	}
}

func TestQueryCacheRejectsLargePages(t *testing.T) {
	q := &QueryCache{Store: NewMemoryCache(0, nil)}
	ctx := context.Background()
	q.Put(ctx, 1, QueryFilter{}, 150, sampleRecipes())
	if got, found := q.Get(ctx, 1, QueryFilter{}, 1, 150); found || got.TotalItems != 0 {
		t.Fatalf("expected rejection for pageSize 150")
	}
}

func TestCacheKeyIgnoresListOrder(t *testing.T) {
	a := QueryFilter{
		Keywords:           []string{"Vegan", "soup"},
		Ingredients:        []string{"tomato", "onion"},
		ExcludeIngredients: []string{"nuts"},
		MatchPercent:       percentOf(55),
	}
	b := QueryFilter{
		Keywords:           []string{"soup", "vegan"},
		Ingredients:        []string{"onion", "tomato", "onion"},
		ExcludeIngredients: []string{"Nuts"},
		MatchPercent:       percentOf(55),
	}
	if CacheKey(1, a, 10) != CacheKey(1, b, 10) {
		t.Fatalf("keys differ:\n%s\n%s", CacheKey(1, a, 10), CacheKey(1, b, 10))
	}
	if CacheKey(1, a, 10) == CacheKey(1, a, 20) {
		t.Fatalf("page size must be part of the key")
	}
	moved := QueryFilter{Ingredients: a.Keywords, Keywords: a.Ingredients, MatchPercent: percentOf(55)}
	if CacheKey(1, moved, 10) == CacheKey(1, QueryFilter{Keywords: a.Keywords, Ingredients: a.Ingredients, MatchPercent: percentOf(55)}, 10) {
		t.Fatalf("fields must not collide")
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantLen   int
		wantPages int
		wantPage  int
	}{
		{name: "first page", page: 1, pageSize: 2, wantLen: 2, wantPages: 2, wantPage: 1},
		{name: "last partial page", page: 2, pageSize: 2, wantLen: 1, wantPages: 2, wantPage: 2},
		{name: "past the end", page: 5, pageSize: 2, wantLen: 0, wantPages: 2, wantPage: 5},
		{name: "page below one", page: 0, pageSize: 10, wantLen: 3, wantPages: 1, wantPage: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(sampleRecipes(), tt.page, tt.pageSize)
			if len(got.Recipes) != tt.wantLen || got.TotalPages != tt.wantPages || got.Page != tt.wantPage {
				t.Fatalf("unexpected result: %+v", got)
			}
			if got.TotalItems != 3 {
				t.Fatalf("expected 3 total items, got %d", got.TotalItems)
			}
		})
	}
}

func percentOf(v float64) *float64 {
	return &v
}
