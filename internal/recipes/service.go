package recipes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"mealplanner/internal/nutrition"
	"mealplanner/internal/shared/telemetry"
)

// Service owns the recipe catalog: queries run against the in-memory snapshot,
// mutations go to the Repo and trigger a background reload.
type Service struct {
	Repo           Repo
	Catalog        *Catalog
	Cache          *QueryCache
	Matcher        IngredientMatcher
	DefaultPercent float64
}

// NewService constructs a Service with the default match percentage.
func NewService(repo Repo, catalog *Catalog, cache *QueryCache, matcher IngredientMatcher) *Service {
	return &Service{
		Repo:           repo,
		Catalog:        catalog,
		Cache:          cache,
		Matcher:        matcher,
		DefaultPercent: DefaultMatchPercent,
	}
}

func (s *Service) configured() error {
	if s == nil || s.Repo == nil || s.Catalog == nil {
		return errors.New("recipes service not configured")
	}
	return nil
}

// GetFilteredRecipes returns one page of the catalog narrowed by filter. ok is
// false when pageSize exceeds MaxPageSize.
func (s *Service) GetFilteredRecipes(ctx context.Context, filter QueryFilter, page, pageSize int) (PagedResult, bool, error) {
	if err := s.configured(); err != nil {
		return PagedResult{}, false, err
	}
	if pageSize > MaxPageSize {
		return PagedResult{}, false, nil
	}
	if filter.MatchPercent == nil {
		percent := s.DefaultPercent
		filter.MatchPercent = &percent
	}

	snap := s.Catalog.Snapshot()
	if cached, found := s.Cache.Get(ctx, snap.Version, filter, page, pageSize); found {
		return cached, true, nil
	}

	filtered, err := s.applyFilter(ctx, snap.Recipes, filter)
	if err != nil {
		return PagedResult{}, false, err
	}
	s.Cache.Put(ctx, snap.Version, filter, pageSize, filtered)
	return Paginate(filtered, page, pageSize), true, nil
}

// applyFilter runs the keyword filter, the ingredient match, then exclusions.
func (s *Service) applyFilter(ctx context.Context, recipes []Recipe, filter QueryFilter) ([]Recipe, error) {
	out := FilterByKeywords(recipes, filter.Keywords)
	if len(normalizeTerms(filter.Ingredients)) > 0 {
		if s.Matcher.Mode == MatchFuzzy {
			narrowed, err := s.prefilterByPatterns(ctx, out, filter.Ingredients)
			if err != nil {
				return nil, err
			}
			out = narrowed
		}
		matched, err := s.Matcher.Filter(ctx, out, filter.Ingredients, *filter.MatchPercent)
		if err != nil {
			return nil, err
		}
		out = matched
	}
	return FilterByMustExclude(out, filter.ExcludeIngredients), nil
}

// prefilterByPatterns keeps only recipes the store reports as matching at
// least one ingredient pattern.
func (s *Service) prefilterByPatterns(ctx context.Context, recipes []Recipe, ingredients []string) ([]Recipe, error) {
	patterns := IngredientPatterns(ingredients)
	list := make([]string, 0, len(patterns))
	for _, p := range patterns {
		list = append(list, p)
	}
	sort.Strings(list)
	ids, err := s.Repo.MatchRawIngredients(ctx, list)
	if err != nil {
		return nil, fmt.Errorf("match raw ingredients: %w", err)
	}
	keep := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]Recipe, 0, len(ids))
	for _, r := range recipes {
		if _, ok := keep[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListRecipes returns one page of the unfiltered catalog.
func (s *Service) ListRecipes(ctx context.Context, page, pageSize int) (PagedResult, bool, error) {
	if err := s.configured(); err != nil {
		return PagedResult{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return PagedResult{}, false, err
	}
	if pageSize > MaxPageSize {
		return PagedResult{}, false, nil
	}
	return Paginate(s.Catalog.Snapshot().Recipes, page, pageSize), true, nil
}

// GetRecipe returns a recipe from the store. found is false for unknown ids.
func (s *Service) GetRecipe(ctx context.Context, id int) (RecipeResult, bool, error) {
	if err := s.configured(); err != nil {
		return RecipeResult{}, false, err
	}
	recipe, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RecipeResult{}, false, nil
		}
		return RecipeResult{}, false, err
	}
	return ToResult(recipe), true, nil
}

// CreateRecipes normalizes and stores new recipes. Normalization uses the
// current catalog bounds widened by the incoming batch.
func (s *Service) CreateRecipes(ctx context.Context, inputs []RecipeInput) ([]RecipeResult, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one recipe is required", ErrInvalidInput)
	}
	batch := make([]Recipe, 0, len(inputs))
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		batch = append(batch, in.ToRecipe())
	}
	current, err := s.catalogBounds(ctx)
	if err != nil {
		return nil, err
	}
	bounds := current.Merge(ComputeBounds(batch))
	for i := range batch {
		Normalize(&batch[i], bounds)
	}

	created, err := s.Repo.Create(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("create recipes: %w", err)
	}
	s.Catalog.ReloadAsync()
	telemetry.Info("recipes.created", map[string]any{"count": len(created)})
	return ToResults(created), nil
}

// UpdateRecipe replaces a recipe and recomputes its normalized values. found is
// false when the recipe does not exist.
func (s *Service) UpdateRecipe(ctx context.Context, update RecipeUpdate) (RecipeResult, bool, error) {
	if err := s.configured(); err != nil {
		return RecipeResult{}, false, err
	}
	if err := update.Validate(); err != nil {
		return RecipeResult{}, false, err
	}
	recipe := update.ToRecipe()
	recipe.ID = update.RecipeID
	current, err := s.catalogBounds(ctx)
	if err != nil {
		return RecipeResult{}, false, err
	}
	Normalize(&recipe, current.Merge(ComputeBounds([]Recipe{recipe})))

	updated, err := s.Repo.Update(ctx, recipe)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RecipeResult{}, false, nil
		}
		return RecipeResult{}, false, fmt.Errorf("update recipe %d: %w", update.RecipeID, err)
	}
	s.Catalog.ReloadAsync()
	return ToResult(updated), true, nil
}

// catalogBounds returns the bounds of the loaded catalog. A catalog that was
// never loaded is reloaded first so new entries are not scaled against an
// empty snapshot.
func (s *Service) catalogBounds(ctx context.Context) (nutrition.Bounds, error) {
	snap := s.Catalog.Snapshot()
	if snap.Version == 0 {
		if err := s.Catalog.Reload(ctx); err != nil {
			return nutrition.Bounds{}, err
		}
		snap = s.Catalog.Snapshot()
	}
	return snap.Bounds, nil
}

// DeleteRecipe removes a recipe. found is false when the recipe does not exist.
func (s *Service) DeleteRecipe(ctx context.Context, id int) (RecipeResult, bool, error) {
	if err := s.configured(); err != nil {
		return RecipeResult{}, false, err
	}
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RecipeResult{}, false, nil
		}
		return RecipeResult{}, false, fmt.Errorf("delete recipe %d: %w", id, err)
	}
	s.Catalog.ReloadAsync()
	return ToResult(deleted), true, nil
}

// UniqueKeywords returns the sorted distinct keywords in the catalog.
func (s *Service) UniqueKeywords(ctx context.Context) ([]string, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	return distinct(s.Catalog.Snapshot().Recipes, func(r Recipe) []string { return r.Keywords }), nil
}

// UniqueIngredients returns the sorted distinct ingredient parts in the catalog.
func (s *Service) UniqueIngredients(ctx context.Context) ([]string, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	return distinct(s.Catalog.Snapshot().Recipes, func(r Recipe) []string { return r.IngredientParts }), nil
}

func distinct(recipes []Recipe, values func(Recipe) []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range recipes {
		for _, v := range values(r) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
