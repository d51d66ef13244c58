package recipes

import "mealplanner/internal/nutrition"

type nutrientField struct {
	nutrient   nutrition.Nutrient
	raw        func(*Recipe) *float64
	normalized func(*Recipe) *float64
}

var nutrientFields = [nutrition.Count]nutrientField{
	{nutrition.Calories, func(r *Recipe) *float64 { return &r.Calories }, func(r *Recipe) *float64 { return &r.CaloriesMinMax }},
	{nutrition.Fat, func(r *Recipe) *float64 { return &r.Fat }, func(r *Recipe) *float64 { return &r.FatMinMax }},
	{nutrition.SaturatedFat, func(r *Recipe) *float64 { return &r.SaturatedFat }, func(r *Recipe) *float64 { return &r.SaturatedFatMinMax }},
	{nutrition.Cholesterol, func(r *Recipe) *float64 { return &r.Cholesterol }, func(r *Recipe) *float64 { return &r.CholesterolMinMax }},
	{nutrition.Sodium, func(r *Recipe) *float64 { return &r.Sodium }, func(r *Recipe) *float64 { return &r.SodiumMinMax }},
	{nutrition.Carbohydrate, func(r *Recipe) *float64 { return &r.Carbohydrate }, func(r *Recipe) *float64 { return &r.CarbohydrateMinMax }},
	{nutrition.Fiber, func(r *Recipe) *float64 { return &r.Fiber }, func(r *Recipe) *float64 { return &r.FiberMinMax }},
	{nutrition.Sugar, func(r *Recipe) *float64 { return &r.Sugar }, func(r *Recipe) *float64 { return &r.SugarMinMax }},
	{nutrition.Protein, func(r *Recipe) *float64 { return &r.Protein }, func(r *Recipe) *float64 { return &r.ProteinMinMax }},
}

// Raw returns the recipe total for n.
func (r *Recipe) Raw(n nutrition.Nutrient) float64 {
	return *nutrientFields[n].raw(r)
}

// Normalized returns the precomputed [0,1] value for n.
func (r *Recipe) Normalized(n nutrition.Nutrient) float64 {
	return *nutrientFields[n].normalized(r)
}

// PerServing returns the total for n divided by the serving count.
func (r *Recipe) PerServing(n nutrition.Nutrient) float64 {
	return nutrition.PerServing(r.Raw(n), r.Servings)
}

// SetRaw overwrites the recipe total for n.
func (r *Recipe) SetRaw(n nutrition.Nutrient, value float64) {
	*nutrientFields[n].raw(r) = value
}

// ComputeBounds scans recipes for per-serving min and max of every nutrient.
func ComputeBounds(recipes []Recipe) nutrition.Bounds {
	var b nutrition.Bounds
	for i := range recipes {
		for _, f := range nutrientFields {
			b.Observe(f.nutrient, recipes[i].PerServing(f.nutrient))
		}
	}
	return b
}

// Normalize fills every MinMax field of r from b.
func Normalize(r *Recipe, b nutrition.Bounds) {
	for _, f := range nutrientFields {
		*f.normalized(r) = b.Scale(f.nutrient, *f.raw(r), r.Servings)
	}
}
