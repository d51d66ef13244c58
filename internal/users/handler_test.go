package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/auth"
	"mealplanner/internal/shared/server/middleware"
)

func newHistoryRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Auth())
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{UserID: userID})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return "Bearer " + token
}

func TestAppendHistoryHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	repo := NewMemoryRepo()
	router := newHistoryRouter(NewService(repo, 5))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me/recipe-history", bytes.NewBufferString(`{"recipeIds":[11,12]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "user-1"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.Code, resp.Body.String())
	}
	ids, err := repo.RecentRecipeIDs(context.Background(), "user-1", 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(ids) != 2 || ids[0] != 12 || ids[1] != 11 {
		t.Fatalf("unexpected history: %v", ids)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/me/recipe-history", nil)
	req.Header.Set("Authorization", bearer(t, "user-1"))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		RecipeIDs []int `json:"recipeIds"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.RecipeIDs) != 2 || body.RecipeIDs[0] != 12 {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestAppendHistoryHandlerRequiresUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newHistoryRouter(NewService(NewMemoryRepo(), 5))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me/recipe-history", bytes.NewBufferString(`{"recipeIds":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAppendHistoryHandlerRejectsEmptyList(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := newHistoryRouter(NewService(NewMemoryRepo(), 5))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me/recipe-history", bytes.NewBufferString(`{"recipeIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, "user-1"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
