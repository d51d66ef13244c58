package mealplan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealplanner/internal/nutrition"
	"mealplanner/internal/recipes"
	"mealplanner/internal/shared/metrics"
)

// SnapshotSource exposes the current recipe catalog.
type SnapshotSource interface {
	Snapshot() *recipes.Snapshot
}

// HistorySource returns the recipes a user was served most recently.
type HistorySource interface {
	RecentRecipeIDs(ctx context.Context, userID string) ([]int, error)
}

type Service struct {
	Catalog SnapshotSource
	History HistorySource
	Matcher *Matcher
}

func NewService(catalog SnapshotSource, history HistorySource, matcher *Matcher) *Service {
	return &Service{Catalog: catalog, History: history, Matcher: matcher}
}

// Generate picks one recipe per meal, in request order. Each pick is matched
// against the meal's share of what the earlier picks left of the daily goal.
// An empty userID yields an empty plan.
func (s *Service) Generate(ctx context.Context, userID string, req Request) ([]Result, error) {
	if s == nil || s.Catalog == nil || s.History == nil || s.Matcher == nil {
		return nil, errors.New("meal plan service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return []Result{}, nil
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	snap := s.Catalog.Snapshot()
	recent, err := s.History.RecentRecipeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recipe history: %w", err)
	}
	candidates := recipes.ExcludeIDs(snap.Recipes, recent)
	candidates = recipes.FilterByKeywords(candidates, req.Preferences)

	remaining := nutrition.DefaultGoal()
	if req.Goals != nil {
		remaining = *req.Goals
	}

	meals := make(Meals, len(req.Meals))
	copy(meals, req.Meals)
	shares := make([]*nutrition.Percentages, len(meals))
	for i := range meals {
		shares[i] = &meals[i].Percentages
	}
	nutrition.Redistribute(shares)

	results := make([]Result, 0, len(meals))
	for _, meal := range meals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pool := recipes.FilterByMustInclude(candidates, meal.MustInclude)
		pool = recipes.FilterByMustExclude(pool, meal.MustExclude)

		target := nutrition.NormalizeGoal(nutrition.RawMealGoal(remaining, meal.Percentages), snap.Bounds)
		recipe, ok := s.Matcher.FindOptimal(pool, target)
		if !ok {
			metrics.IncMealsUnmatched()
			results = append(results, Result{Meal: meal.Name})
			continue
		}
		for _, n := range targeted {
			remaining.Subtract(n, recipe.PerServing(n))
		}
		view := recipes.ToResult(recipe)
		results = append(results, Result{Meal: meal.Name, Recipe: &view})
	}

	metrics.IncMealPlansGenerated()
	metrics.ObserveMealPlanDurationMs(metrics.SinceMillis(start))
	return results, nil
}
