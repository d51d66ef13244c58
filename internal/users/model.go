package users

import "time"

// HistoryEntry records one recipe served to a user.
type HistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	RecipeID  int       `json:"recipeId"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryUpdate is the body accepted by the recipe history endpoint.
type HistoryUpdate struct {
	RecipeIDs []int `json:"recipeIds"`
}
