package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[string][]HistoryEntry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{entries: make(map[string][]HistoryEntry)}
}

func (r *MemoryRepo) RecentRecipeIDs(ctx context.Context, userID string, limit int) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.entries[userID]
	out := make([]int, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i].RecipeID)
	}
	return out, nil
}

func (r *MemoryRepo) AppendRecipeIDs(ctx context.Context, userID string, recipeIDs []int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range recipeIDs {
		r.nextID++
		r.entries[userID] = append(r.entries[userID], HistoryEntry{
			ID:        r.nextID,
			UserID:    userID,
			RecipeID:  id,
			CreatedAt: now,
		})
	}
	return nil
}
