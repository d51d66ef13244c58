package recipes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores recipes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[int]Recipe
	nextID int
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[int]Recipe), nextID: 1}
}

// ListAll returns every recipe ordered by id.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Recipe, 0, len(r.byID))
	for _, recipe := range r.byID {
		out = append(out, recipe)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetByID returns a recipe by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int) (Recipe, error) {
	if err := ctx.Err(); err != nil {
		return Recipe{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.byID[id]
	if !ok {
		return Recipe{}, ErrNotFound
	}
	return recipe, nil
}

// Create assigns ids and stores the recipes.
func (r *MemoryRepo) Create(ctx context.Context, recipes []Recipe) ([]Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		recipe.ID = r.nextID
		r.nextID++
		recipe.CreatedAt = now
		recipe.UpdatedAt = now
		r.byID[recipe.ID] = recipe
		out = append(out, recipe)
	}
	return out, nil
}

// Update replaces an existing recipe.
func (r *MemoryRepo) Update(ctx context.Context, recipe Recipe) (Recipe, error) {
	if err := ctx.Err(); err != nil {
		return Recipe{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[recipe.ID]
	if !ok {
		return Recipe{}, ErrNotFound
	}
	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now().UTC()
	r.byID[recipe.ID] = recipe
	return recipe, nil
}

// Delete removes a recipe and returns it.
func (r *MemoryRepo) Delete(ctx context.Context, id int) (Recipe, error) {
	if err := ctx.Err(); err != nil {
		return Recipe{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.byID[id]
	if !ok {
		return Recipe{}, ErrNotFound
	}
	delete(r.byID, id)
	return recipe, nil
}

// MatchRawIngredients scans free-text ingredient lines with the given patterns.
func (r *MemoryRepo) MatchRawIngredients(ctx context.Context, patterns []string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		c, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0)
	for id, recipe := range r.byID {
		for _, c := range compiled {
			if c.matchesAny(recipe.IngredientsRaw) {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Ints(ids)
	return ids, nil
}

var _ Repo = (*MemoryRepo)(nil)
