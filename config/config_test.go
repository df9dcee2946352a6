package config

import (
	"testing"
)

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected LoadConfig to fail without JWT_SECRET")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.PublicGroupName != "free" {
		t.Errorf("PublicGroupName = %q, want free", cfg.PublicGroupName)
	}
	if cfg.JWTExpirationHours <= 0 {
		t.Errorf("JWTExpirationHours = %d, want positive default", cfg.JWTExpirationHours)
	}
	if cfg.ThumbnailMaxSize <= 0 {
		t.Errorf("ThumbnailMaxSize = %d, want positive default", cfg.ThumbnailMaxSize)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("PUBLIC_GROUP_NAME", "livre")
	t.Setenv("THUMBNAIL_MAX_SIZE", "256")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.PublicGroupName != "livre" {
		t.Errorf("PublicGroupName = %q, want livre", cfg.PublicGroupName)
	}
	if cfg.ThumbnailMaxSize != 256 {
		t.Errorf("ThumbnailMaxSize = %d, want 256", cfg.ThumbnailMaxSize)
	}
}

func TestGetEnvIntOrDefaultIgnoresInvalid(t *testing.T) {
	t.Setenv("SOME_TEST_INT", "not-a-number")
	if got := getEnvIntOrDefault("SOME_TEST_INT", 42); got != 42 {
		t.Errorf("got %d, want default 42", got)
	}
	t.Setenv("SOME_TEST_INT", "-5")
	if got := getEnvIntOrDefault("SOME_TEST_INT", 42); got != 42 {
		t.Errorf("got %d for negative input, want default 42", got)
	}
}
