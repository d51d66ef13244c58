package mealplan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mealplanner/internal/nutrition"
	"mealplanner/internal/recipes"
)

// Characteristic describes one meal: hard ingredient constraints plus the
// share of the remaining daily goal it should consume.
type Characteristic struct {
	MustInclude []string `json:"mustInclude,omitempty"`
	MustExclude []string `json:"mustExclude,omitempty"`
	nutrition.Percentages
}

// Meal is a named Characteristic.
type Meal struct {
	Name string `json:"name"`
	Characteristic
}

// Meals is an ordered list of meals. It decodes from a JSON object keyed by
// meal name, keeping key order, or from an array of Meal.
type Meals []Meal

func (m *Meals) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []Meal
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*m = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("meals must be an object or an array")
	}

	var out Meals
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("meal name must be a string")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate meal %q", name)
		}
		seen[name] = struct{}{}

		var c Characteristic
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("meal %q: %w", name, err)
		}
		out = append(out, Meal{Name: name, Characteristic: c})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

func (m Meals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, meal := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(meal.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(meal.Characteristic)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Request asks for one recipe per meal. A nil Goals uses nutrition.DefaultGoal.
type Request struct {
	Preferences []string        `json:"preferences,omitempty"`
	Goals       *nutrition.Goal `json:"goals,omitempty"`
	Meals       Meals           `json:"meals"`
}

// Result is the recipe picked for a meal. Recipe is nil when no candidate
// survived the meal's filters.
type Result struct {
	Meal   string                `json:"meal"`
	Recipe *recipes.RecipeResult `json:"recipe"`
}
