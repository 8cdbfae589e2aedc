// Package config provides configuration file support for zfs-snappers.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/migmedia/zfs-snappers/pkg/errclass"
)

// DefaultPath is where the config file is looked up when --config is not given.
const DefaultPath = "/etc/zfs-snappers/config.yaml"

// Config represents the zfs-snappers configuration. Command-line flags
// override values loaded from the file.
type Config struct {
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Logging   LoggingConfig   `yaml:"logging"`
	Webhooks  WebhooksConfig  `yaml:"webhooks"`
	LockPath  string          `yaml:"lock_path"`
}

// SnapshotsConfig configures snapshot creation and retention defaults.
type SnapshotsConfig struct {
	Keep       int    `yaml:"keep"`
	Prefix     string `yaml:"prefix"`
	MinSizeKiB int64  `yaml:"min_size_kib"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text
}

// WebhooksConfig configures HTTP event notifications.
type WebhooksConfig struct {
	Enabled bool         `yaml:"enabled"`
	Hooks   []HookConfig `yaml:"hooks"`
}

// HookConfig is a single webhook endpoint.
type HookConfig struct {
	URL     string   `yaml:"url"`
	Secret  string   `yaml:"secret"`
	Events  []string `yaml:"events"`
	Timeout string   `yaml:"timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Snapshots: SnapshotsConfig{
			Keep:       8,
			Prefix:     "zfs-snappers",
			MinSizeKiB: 0,
		},
		Logging: LoggingConfig{
			Level:  "error",
			Format: "json",
		},
	}
}

// Load loads configuration from the given path, or from DefaultPath when
// path is empty. A missing file at the default location is fine and
// yields the defaults; a missing file named explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("read config %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errclass.ErrConfigInvalid.WithMessagef("parse config %s: %v", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that would otherwise surface deep in a run.
func (c *Config) Validate() error {
	if c.Snapshots.Keep < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("snapshots.keep must not be negative: %d", c.Snapshots.Keep)
	}
	if c.Snapshots.MinSizeKiB < 0 {
		return errclass.ErrConfigInvalid.WithMessagef("snapshots.min_size_kib must not be negative: %d", c.Snapshots.MinSizeKiB)
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		return errclass.ErrConfigInvalid.WithMessagef("logging.format must be json or text: %s", c.Logging.Format)
	}
	return nil
}

// Save writes configuration to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
