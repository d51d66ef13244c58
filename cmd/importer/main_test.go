package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"mealplanner/internal/recipes"
	localstore "mealplanner/internal/shared/storage/object/local"
)

type fakeCreator struct {
	got []recipes.RecipeInput
	err error
}

func (f *fakeCreator) CreateRecipes(ctx context.Context, inputs []recipes.RecipeInput) ([]recipes.RecipeResult, error) {
	_ = ctx
	if f.err != nil {
		return nil, f.err
	}
	f.got = inputs
	out := make([]recipes.RecipeResult, len(inputs))
	for i := range inputs {
		out[i] = recipes.RecipeResult{RecipeID: 10 + i}
	}
	return out, nil
}

type fakeCatalog struct {
	reloads int
	err     error
}

func (f *fakeCatalog) Reload(ctx context.Context) error {
	_ = ctx
	f.reloads++
	return f.err
}

func TestRunImportCreatesRecipes(t *testing.T) {
	store := localstore.New(t.TempDir())
	body := `[{"name":"Tomato Soup","recipeServings":2},{"name":"Pasta","recipeServings":4}]`
	if _, err := store.Put(context.Background(), "datasets/recipes.json", "application/json", strings.NewReader(body)); err != nil {
		t.Fatalf("put dataset: %v", err)
	}

	creator := &fakeCreator{}
	catalog := &fakeCatalog{}
	report, err := runImport(context.Background(), store, catalog, creator, "datasets/recipes.json")
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	if len(creator.got) != 2 || creator.got[0].Name != "Tomato Soup" {
		t.Fatalf("unexpected inputs: %+v", creator.got)
	}
	if report.Imported != 2 || report.FirstID != 10 || report.LastID != 11 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.RunID == "" {
		t.Fatalf("expected run id")
	}
	if catalog.reloads != 1 {
		t.Fatalf("expected one catalog load, got %d", catalog.reloads)
	}
}

func TestRunImportMissingDataset(t *testing.T) {
	store := localstore.New(t.TempDir())
	if _, err := runImport(context.Background(), store, &fakeCatalog{}, &fakeCreator{}, "missing.json"); err == nil {
		t.Fatalf("expected error for missing dataset")
	}
}

func TestRunImportCreateError(t *testing.T) {
	store := localstore.New(t.TempDir())
	_, _ = store.Put(context.Background(), "d.json", "application/json", strings.NewReader(`[{"name":"x"}]`))

	boom := errors.New("boom")
	_, err := runImport(context.Background(), store, &fakeCatalog{}, &fakeCreator{err: boom}, "d.json")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped create error, got %v", err)
	}
}

func TestRunImportFailsWhenCatalogCannotLoad(t *testing.T) {
	store := localstore.New(t.TempDir())
	_, _ = store.Put(context.Background(), "d.json", "application/json", strings.NewReader(`[{"name":"x"}]`))

	boom := errors.New("db down")
	creator := &fakeCreator{}
	_, err := runImport(context.Background(), store, &fakeCatalog{err: boom}, creator, "d.json")
	if !errors.Is(err, boom) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if creator.got != nil {
		t.Fatalf("nothing should be created when the catalog fails to load")
	}
}

func TestRunImportScalesAgainstStoredCatalog(t *testing.T) {
	ctx := context.Background()
	repo := recipes.NewMemoryRepo()
	if _, err := repo.Create(ctx, []recipes.Recipe{
		{Name: "Plain Water", Servings: 1, Calories: 0},
		{Name: "Feast", Servings: 1, Calories: 2000},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	catalog := recipes.NewCatalog(repo)
	svc := recipes.NewService(repo, catalog, &recipes.QueryCache{Store: recipes.NewMemoryCache(time.Minute, nil)}, recipes.IngredientMatcher{Mode: recipes.MatchFast})

	store := localstore.New(t.TempDir())
	body := `[{"name":"Snack","recipeServings":1,"totalCalories":100}]`
	if _, err := store.Put(ctx, "datasets/snack.json", "application/json", strings.NewReader(body)); err != nil {
		t.Fatalf("put dataset: %v", err)
	}

	report, err := runImport(ctx, store, catalog, svc, "datasets/snack.json")
	if err != nil {
		t.Fatalf("run import: %v", err)
	}
	stored, err := repo.GetByID(ctx, report.FirstID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if math.Abs(stored.CaloriesMinMax-0.05) > 1e-9 {
		t.Fatalf("expected 0.05, got %v", stored.CaloriesMinMax)
	}
}

func TestDecodeDataset(t *testing.T) {
	cases := []struct {
		name string
		body string
		ok   bool
	}{
		{name: "array", body: `[{"name":"a"}]`, ok: true},
		{name: "empty array", body: `[]`},
		{name: "object", body: `{"name":"a"}`},
		{name: "garbage", body: `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeDataset(strings.NewReader(tc.body))
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestWriteImportReport(t *testing.T) {
	store := localstore.New(t.TempDir())
	report := importReport{RunID: "run-1", Dataset: "datasets/recipes.json", Imported: 3}

	key, err := writeImportReport(context.Background(), store, report)
	if err != nil {
		t.Fatalf("write report: %v", err)
	}
	if key != "reports/run-1-datasets_recipes.json.report.json" {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer rc.Close()
	raw, _ := io.ReadAll(rc)

	var got importReport
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&got); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if got.Imported != 3 || got.Dataset != report.Dataset {
		t.Fatalf("unexpected report: %+v", got)
	}
}
