package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "ENV", "MATCHER_TOP_K", "INGREDIENT_MATCH_MODE", "HISTORY_WINDOW", "CACHE_SLIDING_TTL", "DEFAULT_INGREDIENT_MATCH_PERCENT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.MatcherTopK != 5 {
		t.Fatalf("expected top k 5, got %d", cfg.MatcherTopK)
	}
	if cfg.IngredientMatchMode != "fast" {
		t.Fatalf("expected fast match mode, got %q", cfg.IngredientMatchMode)
	}
	if cfg.HistoryWindow != 5 {
		t.Fatalf("expected history window 5, got %d", cfg.HistoryWindow)
	}
	if cfg.CacheSlidingTTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", cfg.CacheSlidingTTL)
	}
	if cfg.DefaultIngredientMatch != 55 {
		t.Fatalf("expected 55 percent, got %v", cfg.DefaultIngredientMatch)
	}
}

func TestLoadOverridesAndInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("MATCHER_TOP_K", "20")
	t.Setenv("HISTORY_WINDOW", "not-a-number")
	t.Setenv("CACHE_SLIDING_TTL", "5m")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.MatcherTopK != 20 {
		t.Fatalf("expected top k 20, got %d", cfg.MatcherTopK)
	}
	if cfg.HistoryWindow != 5 {
		t.Fatalf("expected invalid history window to fall back to 5, got %d", cfg.HistoryWindow)
	}
	if cfg.CacheSlidingTTL != 5*time.Minute {
		t.Fatalf("expected 5m ttl, got %s", cfg.CacheSlidingTTL)
	}
	if cfg.CatalogRefreshSpec != "" {
		t.Fatalf("expected empty refresh spec to disable refresh, got %q", cfg.CatalogRefreshSpec)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigin)
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_URL=redis://from-file:6379\nPORT=9999\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_URL", "")
	os.Unsetenv("REDIS_URL")

	cfg := Load()
	if cfg.Port != "7070" {
		t.Fatalf("expected existing PORT to win, got %q", cfg.Port)
	}
	if cfg.RedisURL != "redis://from-file:6379" {
		t.Fatalf("expected REDIS_URL from .env, got %q", cfg.RedisURL)
	}
}
