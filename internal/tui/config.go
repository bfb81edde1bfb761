package tui

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pipfolio/pipview/internal/config"
)

// UIConfig holds TUI-specific configuration separate from CLI config.
type UIConfig struct {
	// StartTab is the 1-based tab shown on launch. The last active tab is
	// saved here on quit.
	StartTab int `yaml:"start_tab,omitempty"`
	// RefreshSeconds re-fetches the active page periodically; zero
	// disables it.
	RefreshSeconds int `yaml:"refresh_seconds,omitempty"`
}

// ConfigPath returns the path to the TUI config file.
func ConfigPath() string {
	return filepath.Join(config.ConfigDir(), "ui.yaml")
}

// LoadConfig loads the TUI config at path. A missing file is an empty
// config.
func LoadConfig(path string) (*UIConfig, error) {
	cfg := &UIConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the TUI config to path.
func SaveConfig(path string, cfg *UIConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
