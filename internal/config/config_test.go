package config

import (
	"strings"
	"testing"
)

// clearEnv unsets every variable the loader reads so tests see defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr: got %q, want %q", cfg.Addr(), "0.0.0.0:8080")
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.S3Bucket != "dish-images" {
		t.Errorf("S3Bucket: got %q, want %q", cfg.S3Bucket, "dish-images")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "9000")
	}
	if !strings.Contains(cfg.DSN(), "db.internal") {
		t.Errorf("DSN should carry the host override, got %q", cfg.DSN())
	}
	if !strings.Contains(cfg.DSN(), "s3cret") {
		t.Errorf("DSN should carry the password, got %q", cfg.DSN())
	}
}

func TestLoadProductionRequiresPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("production with the default password should fail to load")
	}

	t.Setenv("POSTGRES_PASSWORD", "real-password")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("production config should not report IsDev")
	}
}
