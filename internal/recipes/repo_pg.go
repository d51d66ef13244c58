package recipes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const recipeColumns = `recipe_id, name, cook_time, prep_time, total_time, category,
       keywords, ingredient_parts, ingredients_raw, instructions, servings, yield,
       calories, fat, saturated_fat, cholesterol, sodium, carbohydrate, fiber, sugar, protein,
       calories_minmax, fat_minmax, saturated_fat_minmax, cholesterol_minmax, sodium_minmax,
       carbohydrate_minmax, fiber_minmax, sugar_minmax, protein_minmax,
       created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// ListAll returns every recipe ordered by id.
func (r *PGRepo) ListAll(ctx context.Context) ([]Recipe, error) {
	query := `
SELECT ` + recipeColumns + `
FROM recipes
ORDER BY recipe_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a recipe by id.
func (r *PGRepo) GetByID(ctx context.Context, id int) (Recipe, error) {
	query := `
SELECT ` + recipeColumns + `
FROM recipes
WHERE recipe_id = $1
LIMIT 1`
	recipe, err := scanRecipe(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, err
	}
	return recipe, nil
}

// Create inserts recipes in one transaction.
func (r *PGRepo) Create(ctx context.Context, recipes []Recipe) ([]Recipe, error) {
	const query = `
INSERT INTO recipes (
	name, cook_time, prep_time, total_time, category,
	keywords, ingredient_parts, ingredients_raw, instructions, servings, yield,
	calories, fat, saturated_fat, cholesterol, sodium, carbohydrate, fiber, sugar, protein,
	calories_minmax, fat_minmax, saturated_fat_minmax, cholesterol_minmax, sodium_minmax,
	carbohydrate_minmax, fiber_minmax, sugar_minmax, protein_minmax,
	created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
        $21, $22, $23, $24, $25, $26, $27, $28, $29, now(), now())
RETURNING recipe_id, created_at, updated_at`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	out := make([]Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		args, err := recipeArgs(recipe)
		if err != nil {
			return nil, err
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
			return nil, fmt.Errorf("insert recipe %q: %w", recipe.Name, err)
		}
		out = append(out, recipe)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces an existing recipe.
func (r *PGRepo) Update(ctx context.Context, recipe Recipe) (Recipe, error) {
	const query = `
UPDATE recipes SET
  name = $1, cook_time = $2, prep_time = $3, total_time = $4, category = $5,
  keywords = $6, ingredient_parts = $7, ingredients_raw = $8, instructions = $9, servings = $10, yield = $11,
  calories = $12, fat = $13, saturated_fat = $14, cholesterol = $15, sodium = $16,
  carbohydrate = $17, fiber = $18, sugar = $19, protein = $20,
  calories_minmax = $21, fat_minmax = $22, saturated_fat_minmax = $23, cholesterol_minmax = $24,
  sodium_minmax = $25, carbohydrate_minmax = $26, fiber_minmax = $27, sugar_minmax = $28, protein_minmax = $29,
  updated_at = now()
WHERE recipe_id = $30
RETURNING created_at, updated_at`
	args, err := recipeArgs(recipe)
	if err != nil {
		return Recipe{}, err
	}
	args = append(args, recipe.ID)
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, err
	}
	return recipe, nil
}

// Delete removes a recipe and returns it.
func (r *PGRepo) Delete(ctx context.Context, id int) (Recipe, error) {
	query := `
DELETE FROM recipes
WHERE recipe_id = $1
RETURNING ` + recipeColumns
	recipe, err := scanRecipe(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipe{}, ErrNotFound
		}
		return Recipe{}, err
	}
	return recipe, nil
}

// MatchRawIngredients runs the patterns in Postgres with case-insensitive matching.
func (r *PGRepo) MatchRawIngredients(ctx context.Context, patterns []string) ([]int, error) {
	if len(patterns) == 0 {
		return []int{}, nil
	}
	const query = `
SELECT recipe_id
FROM recipes
WHERE EXISTS (
  SELECT 1 FROM jsonb_array_elements_text(ingredients_raw) AS line
  WHERE line ~* $1
)
ORDER BY recipe_id`
	converted := make([]string, 0, len(patterns))
	for _, p := range patterns {
		converted = append(converted, PostgresPattern(p))
	}
	rows, err := r.DB.QueryContext(ctx, query, AnyOf(converted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func recipeArgs(recipe Recipe) ([]any, error) {
	keywords, err := marshalList(recipe.Keywords)
	if err != nil {
		return nil, err
	}
	parts, err := marshalList(recipe.IngredientParts)
	if err != nil {
		return nil, err
	}
	raw, err := marshalList(recipe.IngredientsRaw)
	if err != nil {
		return nil, err
	}
	instructions, err := marshalList(recipe.Instructions)
	if err != nil {
		return nil, err
	}
	return []any{
		recipe.Name,
		nullableString(recipe.CookTime),
		nullableString(recipe.PrepTime),
		nullableString(recipe.TotalTime),
		nullableString(recipe.Category),
		keywords,
		parts,
		raw,
		instructions,
		recipe.Servings,
		nullableString(recipe.Yield),
		recipe.Calories,
		recipe.Fat,
		recipe.SaturatedFat,
		recipe.Cholesterol,
		recipe.Sodium,
		recipe.Carbohydrate,
		recipe.Fiber,
		recipe.Sugar,
		recipe.Protein,
		recipe.CaloriesMinMax,
		recipe.FatMinMax,
		recipe.SaturatedFatMinMax,
		recipe.CholesterolMinMax,
		recipe.SodiumMinMax,
		recipe.CarbohydrateMinMax,
		recipe.FiberMinMax,
		recipe.SugarMinMax,
		recipe.ProteinMinMax,
	}, nil
}

func scanRecipe(row rowScanner) (Recipe, error) {
	var recipe Recipe
	var cookTime, prepTime, totalTime, category, yield sql.NullString
	var keywords, parts, raw, instructions sql.NullString
	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&cookTime,
		&prepTime,
		&totalTime,
		&category,
		&keywords,
		&parts,
		&raw,
		&instructions,
		&recipe.Servings,
		&yield,
		&recipe.Calories,
		&recipe.Fat,
		&recipe.SaturatedFat,
		&recipe.Cholesterol,
		&recipe.Sodium,
		&recipe.Carbohydrate,
		&recipe.Fiber,
		&recipe.Sugar,
		&recipe.Protein,
		&recipe.CaloriesMinMax,
		&recipe.FatMinMax,
		&recipe.SaturatedFatMinMax,
		&recipe.CholesterolMinMax,
		&recipe.SodiumMinMax,
		&recipe.CarbohydrateMinMax,
		&recipe.FiberMinMax,
		&recipe.SugarMinMax,
		&recipe.ProteinMinMax,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return Recipe{}, err
	}
	recipe.CookTime = cookTime.String
	recipe.PrepTime = prepTime.String
	recipe.TotalTime = totalTime.String
	recipe.Category = category.String
	recipe.Yield = yield.String
	if recipe.Keywords, err = unmarshalList(keywords); err != nil {
		return Recipe{}, err
	}
	if recipe.IngredientParts, err = unmarshalList(parts); err != nil {
		return Recipe{}, err
	}
	if recipe.IngredientsRaw, err = unmarshalList(raw); err != nil {
		return Recipe{}, err
	}
	if recipe.Instructions, err = unmarshalList(instructions); err != nil {
		return Recipe{}, err
	}
	return recipe, nil
}

func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(value sql.NullString) ([]string, error) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(value.String), &out); err != nil {
		return nil, fmt.Errorf("decode list column: %w", err)
	}
	return out, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
