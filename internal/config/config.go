// Package config loads the visualizer's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type (
	// Config is the full runtime configuration shared by paint-web and paint-cli.
	Config struct {
		HTTP    HTTP
		Log     Log
		Gemini  Gemini
		Image   Image
		Session Session
		Metrics Metrics
	}

	HTTP struct {
		// Host defaults to loopback; the UI can open native dialogs on this machine.
		Host            string        `env:"PAINT_HOST" envDefault:"127.0.0.1"`
		Port            int           `env:"PAINT_PORT" envDefault:"8080"`
		ShutdownTimeout time.Duration `env:"PAINT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}

	Log struct {
		Level string `env:"PAINT_LOG_LEVEL" envDefault:"info"`
	}

	Gemini struct {
		Model   string `env:"GEMINI_IMAGE_MODEL"`
		BaseURL string `env:"GEMINI_BASE_URL"`
		// Timeout bounds a single repaint call.
		Timeout time.Duration `env:"PAINT_REQUEST_TIMEOUT" envDefault:"120s"`
		// SkipValidation skips the API key check at startup.
		SkipValidation bool `env:"PAINT_SKIP_KEY_VALIDATION" envDefault:"false"`
	}

	Image struct {
		MaxUploadBytes int64 `env:"PAINT_MAX_UPLOAD_BYTES" envDefault:"20971520"`
		// MaxDimension downscales larger uploads before they are sent to the model.
		// Zero disables downscaling.
		MaxDimension int `env:"PAINT_MAX_IMAGE_DIMENSION" envDefault:"2048"`
	}

	Session struct {
		HistoryLimit  int           `env:"PAINT_HISTORY_LIMIT" envDefault:"0"`
		IdleTTL       time.Duration `env:"PAINT_SESSION_IDLE_TTL" envDefault:"2h"`
		SweepInterval time.Duration `env:"PAINT_SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	}

	Metrics struct {
		// Enabled writes EMF metric lines to stdout.
		Enabled bool `env:"PAINT_METRICS" envDefault:"false"`
	}
)

// New parses the configuration from the process environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// Load reads a .env file when one exists at path, then parses the environment.
// Variables already set in the environment win over the file.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				return nil, fmt.Errorf("config error: loading %s: %w", path, err)
			}
		}
	}
	return New()
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("PAINT_PORT out of range: %d", c.HTTP.Port))
	}
	if c.Gemini.Timeout <= 0 {
		errs = append(errs, errors.New("PAINT_REQUEST_TIMEOUT must be positive"))
	}
	if c.Image.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("PAINT_MAX_UPLOAD_BYTES must be positive"))
	}
	if c.Image.MaxDimension < 0 {
		errs = append(errs, errors.New("PAINT_MAX_IMAGE_DIMENSION must not be negative"))
	}
	if c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		errs = append(errs, errors.New("session TTL and sweep interval must be positive"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("PAINT_LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level))
	}
	return errors.Join(errs...)
}
