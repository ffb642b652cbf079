package config

import (
	"os"
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CATALOG_ADMIN_PASSPHRASE", "open-sesame")
}

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != AppEnvDev {
		t.Fatalf("expected App.Env dev, got %q", cfg.App.Env)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatalf("expected dev environment flags, got IsDev=%v IsProd=%v", cfg.App.IsDev(), cfg.App.IsProd())
	}
	if cfg.DB.Path != "database.sqlite" {
		t.Fatalf("unexpected DB path %q", cfg.DB.Path)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("redis mirror should be disabled without a URL")
	}
	if cfg.Uploads.MaxVideoMB != 500 {
		t.Fatalf("unexpected video cap %d", cfg.Uploads.MaxVideoMB)
	}
	if cfg.Uploads.PublicRoute != "/uploads" {
		t.Fatalf("unexpected public route %q", cfg.Uploads.PublicRoute)
	}
	if cfg.Sheets.FetchTimeout != 30*time.Second {
		t.Fatalf("unexpected fetch timeout %v", cfg.Sheets.FetchTimeout)
	}
	if cfg.Cart.TTL != 24*time.Hour {
		t.Fatalf("unexpected cart ttl %v", cfg.Cart.TTL)
	}
	if cfg.Orders.StartID != 1000 {
		t.Fatalf("unexpected order start id %d", cfg.Orders.StartID)
	}
	if cfg.Orders.HistoryCap != 50 {
		t.Fatalf("unexpected history cap %d", cfg.Orders.HistoryCap)
	}
	if cfg.AutoSync.Interval != 5*time.Minute {
		t.Fatalf("unexpected auto-sync interval %v", cfg.AutoSync.Interval)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("CATALOG_APP_ENV", "prod")
	t.Setenv("CATALOG_DB_PATH", "/data/catalog.sqlite")
	t.Setenv("CATALOG_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CATALOG_CART_TTL", "1h")
	t.Setenv("CATALOG_ORDERS_START_ID", "5000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected prod environment, got %q", cfg.App.Env)
	}
	if cfg.DB.Path != "/data/catalog.sqlite" {
		t.Fatalf("unexpected DB path %q", cfg.DB.Path)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("redis mirror should be enabled with a URL")
	}
	if cfg.Cart.TTL != time.Hour {
		t.Fatalf("unexpected cart ttl %v", cfg.Cart.TTL)
	}
	if cfg.Orders.StartID != 5000 {
		t.Fatalf("unexpected order start id %d", cfg.Orders.StartID)
	}
}

func TestLoad_MissingAdminPassphrase(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv("CATALOG_ADMIN_PASSPHRASE"); err != nil {
		t.Fatalf("failed to unset passphrase: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail without an admin passphrase")
	}
}

func TestRedisEnabledIgnoresWhitespace(t *testing.T) {
	cfg := RedisConfig{URL: "   "}
	if cfg.Enabled() {
		t.Fatal("whitespace-only URL should not enable redis")
	}
}
