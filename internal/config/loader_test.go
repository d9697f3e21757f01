package config

import (
	"errors"
	"testing"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SPLITBILLS_GEMINI_API_KEY", "test-key")
	t.Setenv("SPLITBILLS_ADDR", ":9999")
	t.Setenv("SPLITBILLS_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q, want test-key", cfg.GeminiAPIKey)
	}
	if cfg.GeminiModel == "" {
		t.Error("GeminiModel default missing")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("SPLITBILLS_GEMINI_API_KEY", "")

	_, err := Load()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
	}
}
