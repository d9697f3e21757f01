package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SPLITBILLS_CONFIG is set
//  3. env (prefix SPLITBILLS_)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("SPLITBILLS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// SPLITBILLS_GEMINI_API_KEY -> gemini_api_key, and so on. Underscores
	// are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SPLITBILLS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SPLITBILLS_"))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.GeminiAPIKey == "":
		return nil, fmt.Errorf("%w: gemini_api_key is required (set SPLITBILLS_GEMINI_API_KEY)", ErrInvalidConfig)
	case cfg.AssistantTimeoutSeconds <= 0:
		return nil, fmt.Errorf("%w: assistant_timeout_seconds must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
