// Package config defines service configuration and its loading rules.
package config

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// GeminiAPIKey authenticates against the Gemini API. Required; the
	// process refuses to start without it.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel selects the model for extraction and interpretation.
	GeminiModel string `koanf:"gemini_model"`

	// AssistantTimeoutSeconds bounds a single Gemini call. The session keeps
	// accepting manual edits while a call is outstanding; a timed-out result
	// simply never reaches the merge gate.
	AssistantTimeoutSeconds int `koanf:"assistant_timeout_seconds"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:                    ":8080",
		LogLevel:                "info",
		GeminiModel:             "gemini-3-pro-preview",
		AssistantTimeoutSeconds: 60,
	}
}
