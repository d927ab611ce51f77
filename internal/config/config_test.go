package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "GIN_MODE", "GEMINI_API_KEY", "MAPS_API_KEY",
		"DATABASE_URL", "ENABLE_DB", "GEMINI_TIMEOUT", "MAPS_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.GeminiTimeout != 15*time.Second {
		t.Errorf("GeminiTimeout = %s, want 15s", cfg.GeminiTimeout)
	}
	if cfg.MapsTimeout != 10*time.Second {
		t.Errorf("MapsTimeout = %s, want 10s", cfg.MapsTimeout)
	}
	if cfg.EnableDB {
		t.Error("EnableDB should default to false")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENABLE_DB", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadParsesTimeouts(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GeminiTimeout != 30*time.Second {
		t.Errorf("GeminiTimeout = %s, want 30s", cfg.GeminiTimeout)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAPS_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable MAPS_TIMEOUT")
	}
}
