package recipes

import "context"

// Repo defines persistence operations for the recipe catalog.
type Repo interface {
	ListAll(ctx context.Context) ([]Recipe, error)
	GetByID(ctx context.Context, id int) (Recipe, error)
	// Create stores recipes and returns them with assigned ids.
	Create(ctx context.Context, recipes []Recipe) ([]Recipe, error)
	Update(ctx context.Context, recipe Recipe) (Recipe, error)
	Delete(ctx context.Context, id int) (Recipe, error)
	// MatchRawIngredients returns ids of recipes with at least one free-text
	// ingredient line matching any of the patterns.
	MatchRawIngredients(ctx context.Context, patterns []string) ([]int, error)
}
