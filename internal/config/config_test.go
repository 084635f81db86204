package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"APP_ENV", "HTTP_PORT", "BACKEND_URL", "BACKEND_TIMEOUT", "NOTICE_BACKEND",
	"REDIS_ADDR", "NOTICE_KEY", "NOTICE_BUFFER", "RATE_LIMIT_PER_MIN", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.HTTPPort != "8090" || cfg.BackendURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.BackendTimeout != 0 {
		t.Fatalf("expected no backend timeout by default, got %s", cfg.BackendTimeout)
	}
	if cfg.RedisNotices() || cfg.NoticeBuffer != 64 || cfg.NoticeKey != "attendance:notices" {
		t.Fatalf("unexpected notice defaults %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
	if cfg.Production() {
		t.Fatal("dev config reported as production")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("BACKEND_URL", "http://face:8000/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("NOTICE_BACKEND", "redis")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if !cfg.Production() || !cfg.RedisNotices() {
		t.Fatalf("expected prod + redis, got %+v", cfg)
	}
	if cfg.BackendTimeout != 5*time.Second || cfg.RateLimitPerMin != 30 {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_TIMEOUT", "soon")
	t.Setenv("NOTICE_BUFFER", "many")

	cfg := Load()
	if cfg.BackendTimeout != 0 || cfg.NoticeBuffer != 64 {
		t.Fatalf("expected fallbacks, got %+v", cfg)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("HTTP_PORT")
	dir, _ := os.Getwd()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_PORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := Load().HTTPPort; got != "9999" {
		t.Fatalf("expected port from .env, got %q", got)
	}
}
