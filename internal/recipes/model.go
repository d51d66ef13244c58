package recipes

import "time"

// Recipe is a catalog entry. Nutrient fields hold recipe totals; the MinMax
// companions hold per-serving values scaled into [0,1] against the catalog.
type Recipe struct {
	ID              int
	Name            string
	CookTime        string
	PrepTime        string
	TotalTime       string
	Category        string
	Keywords        []string
	IngredientParts []string
	IngredientsRaw  []string
	Instructions    []string
	Servings        int
	Yield           string

	Calories     float64
	Fat          float64
	SaturatedFat float64
	Cholesterol  float64
	Sodium       float64
	Carbohydrate float64
	Fiber        float64
	Sugar        float64
	Protein      float64

	CaloriesMinMax     float64
	FatMinMax          float64
	SaturatedFatMinMax float64
	CholesterolMinMax  float64
	SodiumMinMax       float64
	CarbohydrateMinMax float64
	FiberMinMax        float64
	SugarMinMax        float64
	ProteinMinMax      float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// QueryFilter describes a filtered catalog query.
type QueryFilter struct {
	Keywords           []string
	Ingredients        []string
	ExcludeIngredients []string
	// MatchPercent is the share of a recipe's ingredient lines the query must
	// cover. Nil means the configured default; zero keeps every recipe.
	MatchPercent *float64
}

// PagedResult is one page of a query result.
type PagedResult struct {
	Recipes    []RecipeResult `json:"recipes"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalItems int            `json:"totalItems"`
	TotalPages int            `json:"totalPages"`
}
