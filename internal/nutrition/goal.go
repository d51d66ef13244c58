package nutrition

import "encoding/json"

// Goal holds nutrient targets. Defaults describe a 2000 kcal daily profile.
type Goal struct {
	Calories     float64 `json:"targetCalories"`
	Fiber        float64 `json:"targetFiberContent"`
	Fat          float64 `json:"targetFatContent"`
	SaturatedFat float64 `json:"targetSaturatedFatContent"`
	Sugar        float64 `json:"targetSugarContent"`
	Protein      float64 `json:"targetProteinContent"`
	Carbohydrate float64 `json:"targetCarbohydrateContent"`
	Cholesterol  float64 `json:"targetCholesterolContent"`
}

// DefaultGoal returns the 2000 kcal/day profile (grams, cholesterol in mg).
func DefaultGoal() Goal {
	return Goal{
		Calories:     2000,
		Fiber:        27.5,
		Fat:          33,
		SaturatedFat: 22,
		Sugar:        25,
		Protein:      48,
		Carbohydrate: 135,
		Cholesterol:  300,
	}
}

// UnmarshalJSON decodes over DefaultGoal, so targets missing from the
// payload keep their default value.
func (g *Goal) UnmarshalJSON(data []byte) error {
	type plain Goal
	decoded := plain(DefaultGoal())
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*g = Goal(decoded)
	return nil
}

// Percentages holds the share of the remaining daily goal a meal should consume,
// one fraction per targeted nutrient (0.3 means 30%).
type Percentages struct {
	Calories     float64 `json:"targetCalorieProcent"`
	Fiber        float64 `json:"targetFiberProcent"`
	Fat          float64 `json:"targetFatProcent"`
	SaturatedFat float64 `json:"targetSaturatedFatProcent"`
	Sugar        float64 `json:"targetSugarProcent"`
	Protein      float64 `json:"targetProteinProcent"`
	Carbohydrate float64 `json:"targetCarbohydrateProcent"`
	Cholesterol  float64 `json:"targetCholesterolProcent"`
}

type targetField struct {
	nutrient Nutrient
	target   func(*Goal) *float64
	percent  func(*Percentages) *float64
}

// targetFields maps each targeted nutrient to its goal and percentage fields.
// Sodium is tracked on recipes but carries no target.
var targetFields = []targetField{
	{Calories, func(g *Goal) *float64 { return &g.Calories }, func(p *Percentages) *float64 { return &p.Calories }},
	{Fiber, func(g *Goal) *float64 { return &g.Fiber }, func(p *Percentages) *float64 { return &p.Fiber }},
	{Fat, func(g *Goal) *float64 { return &g.Fat }, func(p *Percentages) *float64 { return &p.Fat }},
	{SaturatedFat, func(g *Goal) *float64 { return &g.SaturatedFat }, func(p *Percentages) *float64 { return &p.SaturatedFat }},
	{Sugar, func(g *Goal) *float64 { return &g.Sugar }, func(p *Percentages) *float64 { return &p.Sugar }},
	{Protein, func(g *Goal) *float64 { return &g.Protein }, func(p *Percentages) *float64 { return &p.Protein }},
	{Carbohydrate, func(g *Goal) *float64 { return &g.Carbohydrate }, func(p *Percentages) *float64 { return &p.Carbohydrate }},
	{Cholesterol, func(g *Goal) *float64 { return &g.Cholesterol }, func(p *Percentages) *float64 { return &p.Cholesterol }},
}

// Targeted returns the nutrients a Goal carries targets for.
func Targeted() []Nutrient {
	out := make([]Nutrient, 0, len(targetFields))
	for _, f := range targetFields {
		out = append(out, f.nutrient)
	}
	return out
}

// Target returns the goal value for n. ok is false for nutrients without a target.
func (g Goal) Target(n Nutrient) (value float64, ok bool) {
	for _, f := range targetFields {
		if f.nutrient == n {
			return *f.target(&g), true
		}
	}
	return 0, false
}

// Subtract lowers the target for n by amount. Nutrients without a target are ignored.
func (g *Goal) Subtract(n Nutrient, amount float64) {
	for _, f := range targetFields {
		if f.nutrient == n {
			*f.target(g) -= amount
			return
		}
	}
}

// Percent returns the share for n. ok is false for nutrients without a target.
func (p Percentages) Percent(n Nutrient) (value float64, ok bool) {
	for _, f := range targetFields {
		if f.nutrient == n {
			return *f.percent(&p), true
		}
	}
	return 0, false
}

// RawMealGoal scales each daily target by the meal's share of it.
func RawMealGoal(daily Goal, share Percentages) Goal {
	var out Goal
	for _, f := range targetFields {
		*f.target(&out) = *f.target(&daily) * *f.percent(&share)
	}
	return out
}

// NormalizeGoal rescales every target into catalog min-max space, treating the
// goal as a single serving.
func NormalizeGoal(raw Goal, b Bounds) Goal {
	var out Goal
	for _, f := range targetFields {
		*f.target(&out) = b.Scale(f.nutrient, *f.target(&raw), 1)
	}
	return out
}
