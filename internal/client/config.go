package client

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client.
type Config struct {
	BaseURL        string        `envconfig:"ATRIUM_BASE_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"ATRIUM_REQUEST_TIMEOUT" default:"10s"`
	TokenFile      string        `envconfig:"ATRIUM_TOKEN_FILE"`
}

// LoadConfig reads client configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TokenPath returns the credential file location, defaulting to the user
// config directory when ATRIUM_TOKEN_FILE is not set.
func (c *Config) TokenPath() (string, error) {
	if c.TokenFile != "" {
		return c.TokenFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "atrium", "token"), nil
}
