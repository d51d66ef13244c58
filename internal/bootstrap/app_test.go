package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/recipes"
	"mealplanner/internal/shared/auth"
	"mealplanner/internal/shared/config"
	"mealplanner/internal/users"
)

func devConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Env:           "dev",
		LocalStoreDir: t.TempDir(),
		MatcherTopK:   1,
		MatcherSeed:   7,
		HistoryWindow: 5,
		FilterWorkers: 2,
	}
}

func TestBuildDevUsesMemoryRepositories(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := Build(devConfig(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()

	if app.DB != nil || app.Redis != nil {
		t.Fatalf("expected no external connections")
	}
	if _, ok := app.RecipesRepo.(*recipes.MemoryRepo); !ok {
		t.Fatalf("expected memory recipe repo, got %T", app.RecipesRepo)
	}
	if _, ok := app.HistoryRepo.(*users.MemoryRepo); !ok {
		t.Fatalf("expected memory history repo, got %T", app.HistoryRepo)
	}
	if app.Refresher != nil {
		t.Fatalf("expected no refresher without a schedule")
	}
	if app.Router == nil {
		t.Fatalf("expected router")
	}
}

func TestBuildProductionRequiresDatabase(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "production"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestBuildS3RequiresBucket(t *testing.T) {
	cfg := devConfig(t)
	cfg.ObjectStoreType = "s3"
	if _, err := Build(cfg); err == nil {
		t.Fatalf("expected error without S3_BUCKET")
	}
}

func TestMealPlanEndToEnd(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	cfg := devConfig(t)
	cfg.CatalogRefreshSpec = "@every 1h"
	app, err := Build(cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer app.Close()
	if app.Refresher == nil {
		t.Fatalf("expected refresher")
	}

	ctx := context.Background()
	_, err = app.RecipesService.CreateRecipes(ctx, []recipes.RecipeInput{
		{Name: "Chicken Bowl", Keywords: []string{"Dinner"}, RecipeIngredientParts: []string{"chicken", "rice"}, TotalCalories: 1200, RecipeServings: 2},
		{Name: "Tomato Soup", Keywords: []string{"Soup"}, RecipeIngredientParts: []string{"tomato"}, TotalCalories: 200, RecipeServings: 1},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := app.Catalog.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	token, err := auth.SignJWT(auth.Claims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	body := `{"goals":{"targetCalories":600},"meals":{"lunch":{"mustInclude":["chicken"],"targetCalorieProcent":1}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/mealplans", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var plan []struct {
		Meal   string `json:"meal"`
		Recipe *struct {
			Name string `json:"name"`
		} `json:"recipe"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plan) != 1 || plan[0].Recipe == nil || plan[0].Recipe.Name != "Chicken Bowl" {
		t.Fatalf("unexpected plan: %s", resp.Body.String())
	}

	health := httptest.NewRecorder()
	app.Router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if health.Code != http.StatusOK {
		t.Fatalf("expected healthy, got %d", health.Code)
	}
}
