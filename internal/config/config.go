// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all runtime settings for the reminiscence chat service.
type Config struct {
	BindAddr         string        `env:"APP_BIND_ADDR" envDefault:":8080"`
	ShutdownTimeout  time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
	MetricsNamespace string        `env:"APP_METRICS_NAMESPACE" envDefault:"dasom"`
	AllowAnyOrigin   bool          `env:"APP_ALLOW_ANY_ORIGIN" envDefault:"false"`

	MaxHistory     int           `env:"MAX_CONVERSATION_HISTORY" envDefault:"4"`
	MaxSentences   int           `env:"RESPONSE_MAX_SENTENCES" envDefault:"3"`
	StreamDelay    time.Duration `env:"STREAMING_DELAY" envDefault:"100ms"`
	MaxInputLength int           `env:"MAX_INPUT_LENGTH" envDefault:"500"`
	RetentionDays  int           `env:"MEMORY_RETENTION_DAYS" envDefault:"30"`
	// SystemPrompt overrides the built-in reminiscence prompt when set.
	SystemPrompt string `env:"SYSTEM_PROMPT"`

	MemoryDir   string `env:"MEMORY_DIR" envDefault:"memory_data"`
	DatabaseURL string `env:"DATABASE_URL"`

	BrainMode   string  `env:"BRAIN_ADAPTER_MODE" envDefault:"auto"`
	APIBaseURL  string  `env:"MODEL_API_BASE_URL"`
	APIKey      string  `env:"MODEL_API_KEY"`
	Model       string  `env:"MODEL_NAME" envDefault:"gpt-4o-mini"`
	MaxTokens   int     `env:"MODEL_MAX_TOKENS" envDefault:"500"`
	Temperature float64 `env:"MODEL_TEMPERATURE" envDefault:"0.7"`
	TopP        float64 `env:"MODEL_TOP_P" envDefault:"0.8"`
}

// Load reads environment variables, applies defaults and validates.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MaxHistory < 1 {
		return fmt.Errorf("MAX_CONVERSATION_HISTORY must be at least 1, got %d", c.MaxHistory)
	}
	if c.MaxSentences < 1 {
		return fmt.Errorf("RESPONSE_MAX_SENTENCES must be at least 1, got %d", c.MaxSentences)
	}
	if c.MaxInputLength < 1 {
		return fmt.Errorf("MAX_INPUT_LENGTH must be at least 1, got %d", c.MaxInputLength)
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("MEMORY_RETENTION_DAYS must be at least 1, got %d", c.RetentionDays)
	}
	if c.StreamDelay < 0 {
		return fmt.Errorf("STREAMING_DELAY must not be negative, got %s", c.StreamDelay)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("MODEL_TEMPERATURE must be in [0,2], got %v", c.Temperature)
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("MODEL_TOP_P must be in [0,1], got %v", c.TopP)
	}
	return nil
}
