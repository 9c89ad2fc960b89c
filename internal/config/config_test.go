package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "")
	t.Setenv("AUTH_BCRYPT_COST", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TokenTTLHours != 24 {
		t.Fatalf("expected default token ttl 24, got %d", cfg.TokenTTLHours)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost 10, got %d", cfg.BcryptCost)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "12")
	t.Setenv("AUTH_BCRYPT_COST", "12")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("expected secret from env, got %q", cfg.JWTSecret)
	}
	if cfg.TokenTTLHours != 12 || cfg.BcryptCost != 12 {
		t.Fatalf("expected ttl and cost 12, got %d and %d", cfg.TokenTTLHours, cfg.BcryptCost)
	}
}

func TestReadIntIgnoresGarbage(t *testing.T) {
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "not-a-number")

	cfg := Load()
	if cfg.TokenTTLHours != 24 {
		t.Fatalf("expected fallback 24, got %d", cfg.TokenTTLHours)
	}
}
