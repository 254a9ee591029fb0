package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBackendURL is used when nothing else names a backend
const DefaultBackendURL = "http://localhost:8001"

// Config is the client configuration
type Config struct {
	BackendURL      string        `yaml:"backend_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// Env reads environment variables
type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		BackendURL:      DefaultBackendURL,
		Timeout:         DefaultTimeout,
		RefreshInterval: DefaultRefreshInterval,
	}
}

// LoadConfig reads path (a missing file is fine) and applies the process
// environment on top.
func LoadConfig(path string) (Config, error) {
	return LoadConfigFromEnv(path, osEnv{})
}

// LoadConfigFromEnv is LoadConfig with an explicit environment.
// Precedence: env > file > defaults.
func LoadConfigFromEnv(path string, env Env) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			LogDebug("No config file at %s, using defaults", path)
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if raw := env.Getenv("MSGR_BACKEND_URL"); raw != "" {
		cfg.BackendURL = raw
	}
	if raw := env.Getenv("MSGR_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid MSGR_TIMEOUT_SECONDS")
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend URL and durations
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q", c.BackendURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive")
	}
	return nil
}

// SaveConfig writes cfg to path as YAML
func SaveConfig(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
