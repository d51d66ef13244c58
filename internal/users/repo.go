package users

import (
	"context"
	"errors"
)

var ErrInvalidInput = errors.New("invalid history input")

// Repo stores the recipes each user has been served, newest last.
type Repo interface {
	// RecentRecipeIDs returns up to limit recipe ids, most recent first.
	RecentRecipeIDs(ctx context.Context, userID string, limit int) ([]int, error)
	AppendRecipeIDs(ctx context.Context, userID string, recipeIDs []int) error
}
