package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIBaseURL is where the PIP backend listens by default.
	DefaultAPIBaseURL = "http://localhost:8000"
	// DefaultStatusFilter is the initial positions status filter.
	DefaultStatusFilter = "all"
	// DefaultLogLevel is the slog level name used when none is configured.
	DefaultLogLevel = "warn"
	// DefaultTimeoutSeconds bounds every API request.
	DefaultTimeoutSeconds = 30
)

// Environment overrides.
const (
	EnvAPIURL  = "PIP_API_URL"
	EnvAccount = "PIP_ACCOUNT"
)

// Config holds the CLI configuration.
type Config struct {
	APIBaseURL     string `yaml:"api_base_url" json:"api_base_url"`
	DefaultAccount string `yaml:"default_account" json:"default_account"`
	StatusFilter   string `yaml:"status_filter" json:"status_filter"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     DefaultAPIBaseURL,
		StatusFilter:   DefaultStatusFilter,
		LogLevel:       DefaultLogLevel,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/pipview, or ~/.config/pipview.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pipview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pipview")
}

// ConfigPath returns the path of the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Load reads the config at path. A missing file yields the defaults and
// keys absent from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Validate checks the enumerated keys with the same rules as Set. Load
// does not validate; callers that act on the values do.
func (c *Config) Validate() error {
	if err := setters["status_filter"](c, c.StatusFilter); err != nil {
		return err
	}
	return setters["log_level"](c, c.LogLevel)
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.APIBaseURL == "" {
		c.APIBaseURL = d.APIBaseURL
	}
	if c.StatusFilter == "" {
		c.StatusFilter = d.StatusFilter
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = d.TimeoutSeconds
	}
}

// Save writes cfg to path with owner-only permissions, creating the
// directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the .env file at path into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides the base URL and default account from the
// environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvAccount); ok {
		c.DefaultAccount = v
	}
}

// setters maps yaml keys to field assignments for Set.
var setters = map[string]func(c *Config, v string) error{
	"api_base_url": func(c *Config, v string) error {
		c.APIBaseURL = v
		return nil
	},
	"default_account": func(c *Config, v string) error {
		c.DefaultAccount = v
		return nil
	},
	"status_filter": func(c *Config, v string) error {
		switch v {
		case "all", "open", "closed":
			c.StatusFilter = v
			return nil
		}
		return fmt.Errorf("invalid status_filter %q: must be all, open or closed", v)
	},
	"log_level": func(c *Config, v string) error {
		switch v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
			return nil
		}
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", v)
	},
	"timeout_seconds": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid timeout_seconds %q: must be a positive integer", v)
		}
		c.TimeoutSeconds = n
		return nil
	},
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns value to the field named by key.
func (c *Config) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	return set(c, value)
}
