package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-driven application settings
type Config struct {
	Port         string `envconfig:"PORT" default:"8080"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"crew_timesheet.db"`
	UseHTTPS     bool   `envconfig:"USE_HTTPS" default:"false"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	// OpenID Connect settings for the login flow
	OIDCIssuerURL    string `envconfig:"OIDC_ISSUER_URL"`
	OIDCClientID     string `envconfig:"OIDC_CLIENT_ID"`
	OIDCClientSecret string `envconfig:"OIDC_CLIENT_SECRET"`
	OIDCCallbackURL  string `envconfig:"OIDC_CALLBACK_URL"`

	// AuthDisabled skips the login requirement (local development only)
	AuthDisabled bool `envconfig:"AUTH_DISABLED" default:"false"`
}

// Load reads configuration from an optional .env file plus the environment
func Load() (*Config, error) {
	// Missing .env is fine: production sets real environment variables
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if !cfg.AuthDisabled {
		if cfg.OIDCIssuerURL == "" || cfg.OIDCClientID == "" || cfg.OIDCClientSecret == "" || cfg.OIDCCallbackURL == "" {
			return nil, fmt.Errorf("OIDC settings are required unless AUTH_DISABLED=true")
		}
	}

	return &cfg, nil
}
