package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg := Load()

	if cfg.Port != "8090" || cfg.DBDriver != "sqlite" {
		t.Fatalf("unexpected defaults: port=%q driver=%q", cfg.Port, cfg.DBDriver)
	}
	if cfg.JWTExpiry != 168*time.Hour {
		t.Fatalf("JWTExpiry = %v", cfg.JWTExpiry)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("MigrateOnStart should default to true")
	}
	if cfg.ExportsEnabled() {
		t.Fatalf("exports should be disabled without a bucket")
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatalf("unexpected environment flags for %q", cfg.AppEnv)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("RATE_LIMIT_CLAIMS", "3")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("S3_BUCKET", "exports")

	cfg := Load()

	if cfg.Port != "9000" || cfg.JWTExpiry != 2*time.Hour || cfg.RateLimitClaims != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.MigrateOnStart || !cfg.ExportsEnabled() {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("BAD_INT", "many")
	t.Setenv("BAD_DURATION", "soon")
	t.Setenv("BAD_BOOL", "maybe")

	if got := envInt("BAD_INT", 7); got != 7 {
		t.Fatalf("envInt = %d", got)
	}
	if got := envDuration("BAD_DURATION", time.Minute); got != time.Minute {
		t.Fatalf("envDuration = %v", got)
	}
	if got := envBool("BAD_BOOL", true); !got {
		t.Fatalf("envBool = %v", got)
	}
}
