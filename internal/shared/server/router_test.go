package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/config"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
}

func newTestRouter(checks map[string]func(context.Context) error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Config:   config.Config{Env: "test"},
		Handlers: []RouteRegistrar{pingRoutes{}, nil},
		Checks:   checks,
	})
}

func TestHealthReportsChecks(t *testing.T) {
	cases := []struct {
		name   string
		checks map[string]func(context.Context) error
		status int
		ok     bool
	}{
		{name: "no checks", status: http.StatusOK, ok: true},
		{
			name:   "passing",
			checks: map[string]func(context.Context) error{"database": func(context.Context) error { return nil }},
			status: http.StatusOK,
			ok:     true,
		},
		{
			name:   "failing",
			checks: map[string]func(context.Context) error{"redis": func(context.Context) error { return errors.New("down") }},
			status: http.StatusServiceUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.checks)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			var body struct {
				OK     bool              `json:"ok"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.OK != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, body.OK)
			}
			if len(body.Checks) != len(tc.checks) {
				t.Fatalf("expected %d checks, got %v", len(tc.checks), body.Checks)
			}
		})
	}
}

func TestRouterMountsHandlers(t *testing.T) {
	r := newTestRouter(nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestMeRequiresUser(t *testing.T) {
	r := newTestRouter(nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
