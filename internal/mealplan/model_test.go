package mealplan

import (
	"encoding/json"
	"testing"

	"mealplanner/internal/nutrition"
)

func TestMealsDecodeKeepsObjectOrder(t *testing.T) {
	body := `{
		"preferences": ["vegan"],
		"meals": {
			"dinner": {"mustInclude": ["rice"], "targetCalorieProcent": 0.5},
			"breakfast": {"mustExclude": ["egg"], "targetCalorieProcent": 0.2},
			"lunch": {"targetCalorieProcent": 0.3}
		}
	}`
	var req Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []string{"dinner", "breakfast", "lunch"}
	if len(req.Meals) != len(want) {
		t.Fatalf("expected %d meals, got %d", len(want), len(req.Meals))
	}
	for i, name := range want {
		if req.Meals[i].Name != name {
			t.Fatalf("meal %d: expected %s, got %s", i, name, req.Meals[i].Name)
		}
	}
	if req.Meals[0].MustInclude[0] != "rice" || req.Meals[0].Calories != 0.5 {
		t.Fatalf("dinner decoded wrong: %+v", req.Meals[0])
	}
	if req.Meals[1].MustExclude[0] != "egg" {
		t.Fatalf("breakfast decoded wrong: %+v", req.Meals[1])
	}
	if req.Goals != nil {
		t.Fatalf("expected nil goals")
	}

	encoded, err := json.Marshal(req.Meals)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var again Meals
	if err := json.Unmarshal(encoded, &again); err != nil {
		t.Fatalf("Unmarshal again: %v", err)
	}
	for i, name := range want {
		if again[i].Name != name {
			t.Fatalf("order lost after encode: %s", encoded)
		}
	}
}

func TestRequestDecodePartialGoalKeepsDefaults(t *testing.T) {
	body := `{"goals":{"targetCalories":1800},"meals":{"dinner":{"targetCalorieProcent":1}}}`
	var req Request
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Goals == nil {
		t.Fatalf("expected goals")
	}
	want := nutrition.DefaultGoal()
	want.Calories = 1800
	if *req.Goals != want {
		t.Fatalf("expected %+v, got %+v", want, *req.Goals)
	}
	if req.Goals.Protein != 48 || req.Goals.Fiber != 27.5 {
		t.Fatalf("expected default protein and fiber, got %+v", *req.Goals)
	}
}

func TestMealsDecodeArrayForm(t *testing.T) {
	var meals Meals
	if err := json.Unmarshal([]byte(`[{"name":"lunch","targetProteinProcent":0.4}]`), &meals); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(meals) != 1 || meals[0].Name != "lunch" || meals[0].Protein != 0.4 {
		t.Fatalf("unexpected meals: %+v", meals)
	}
}

func TestMealsDecodeRejectsDuplicates(t *testing.T) {
	var meals Meals
	if err := json.Unmarshal([]byte(`{"lunch":{},"lunch":{}}`), &meals); err == nil {
		t.Fatalf("expected duplicate meal error")
	}
	if err := json.Unmarshal([]byte(`"lunch"`), &meals); err == nil {
		t.Fatalf("expected shape error")
	}
}
