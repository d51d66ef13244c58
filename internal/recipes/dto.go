package recipes

import (
	"fmt"
	"math"
	"strings"
)

// RecipeInput is the client payload for creating a recipe.
type RecipeInput struct {
	Name                     string   `json:"name"`
	CookTime                 string   `json:"cookTime,omitempty"`
	PrepTime                 string   `json:"prepTime,omitempty"`
	TotalTime                string   `json:"totalTime,omitempty"`
	RecipeCategory           string   `json:"recipeCategory"`
	Keywords                 []string `json:"keywords"`
	RecipeIngredientParts    []string `json:"recipeIngredientParts"`
	TotalCalories            float64  `json:"totalCalories"`
	TotalFatContent          float64  `json:"totalFatContent"`
	TotalSaturatedFatContent float64  `json:"totalSaturatedFatContent"`
	TotalCholesterolContent  float64  `json:"totalCholesterolContent"`
	TotalSodiumContent       float64  `json:"totalSodiumContent"`
	TotalCarbohydrateContent float64  `json:"totalCarbohydrateContent"`
	TotalFiberContent        float64  `json:"totalFiberContent"`
	TotalSugarContent        float64  `json:"totalSugarContent"`
	TotalProteinContent      float64  `json:"totalProteinContent"`
	RecipeServings           int      `json:"recipeServings"`
	RecipeYield              string   `json:"recipeYield,omitempty"`
	RecipeInstructions       []string `json:"recipeInstructions"`
	IngredientsRaw           []string `json:"ingredientsRaw"`
}

// RecipeUpdate replaces the recipe identified by RecipeID.
type RecipeUpdate struct {
	RecipeID int `json:"recipeId"`
	RecipeInput
}

// RecipeResult is the client-facing view of a recipe.
type RecipeResult struct {
	RecipeID int `json:"recipeId"`
	RecipeInput
}

// Validate checks the fields every stored recipe needs.
func (in RecipeInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.RecipeServings < 0 {
		return fmt.Errorf("%w: recipeServings must not be negative", ErrInvalidInput)
	}
	for _, v := range []float64{
		in.TotalCalories, in.TotalFatContent, in.TotalSaturatedFatContent,
		in.TotalCholesterolContent, in.TotalSodiumContent, in.TotalCarbohydrateContent,
		in.TotalFiberContent, in.TotalSugarContent, in.TotalProteinContent,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: nutrient totals must be finite and non-negative", ErrInvalidInput)
		}
	}
	return nil
}

// ToRecipe converts the payload into an unnormalized catalog entry.
func (in RecipeInput) ToRecipe() Recipe {
	return Recipe{
		Name:            strings.TrimSpace(in.Name),
		CookTime:        in.CookTime,
		PrepTime:        in.PrepTime,
		TotalTime:       in.TotalTime,
		Category:        in.RecipeCategory,
		Keywords:        cloneStrings(in.Keywords),
		IngredientParts: cloneStrings(in.RecipeIngredientParts),
		IngredientsRaw:  cloneStrings(in.IngredientsRaw),
		Instructions:    cloneStrings(in.RecipeInstructions),
		Servings:        in.RecipeServings,
		Yield:           in.RecipeYield,
		Calories:        in.TotalCalories,
		Fat:             in.TotalFatContent,
		SaturatedFat:    in.TotalSaturatedFatContent,
		Cholesterol:     in.TotalCholesterolContent,
		Sodium:          in.TotalSodiumContent,
		Carbohydrate:    in.TotalCarbohydrateContent,
		Fiber:           in.TotalFiberContent,
		Sugar:           in.TotalSugarContent,
		Protein:         in.TotalProteinContent,
	}
}

// ToResult converts a catalog entry into its client-facing view.
func ToResult(r Recipe) RecipeResult {
	return RecipeResult{
		RecipeID: r.ID,
		RecipeInput: RecipeInput{
			Name:                     r.Name,
			CookTime:                 r.CookTime,
			PrepTime:                 r.PrepTime,
			TotalTime:                r.TotalTime,
			RecipeCategory:           r.Category,
			Keywords:                 nonNil(r.Keywords),
			RecipeIngredientParts:    nonNil(r.IngredientParts),
			TotalCalories:            r.Calories,
			TotalFatContent:          r.Fat,
			TotalSaturatedFatContent: r.SaturatedFat,
			TotalCholesterolContent:  r.Cholesterol,
			TotalSodiumContent:       r.Sodium,
			TotalCarbohydrateContent: r.Carbohydrate,
			TotalFiberContent:        r.Fiber,
			TotalSugarContent:        r.Sugar,
			TotalProteinContent:      r.Protein,
			RecipeServings:           r.Servings,
			RecipeYield:              r.Yield,
			RecipeInstructions:       nonNil(r.Instructions),
			IngredientsRaw:           nonNil(r.IngredientsRaw),
		},
	}
}

// ToResults converts a slice of catalog entries.
func ToResults(recipes []Recipe) []RecipeResult {
	out := make([]RecipeResult, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ToResult(r))
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
