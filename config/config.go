// Package config loads the bucket collector's TOML configuration.
//
// A base file is read first. When COLLECTOR_ENV is set, an overlay named
// <base>.<env>.toml next to it is merged on top. Finalize then applies
// defaults, COLLECTOR_* environment overrides and validation, in that order.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
	"github.com/input-output-hk/catalyst-forge-libs/collector/logging"
)

const (
	// DefaultConfigFile is the configuration file name used when none is given.
	DefaultConfigFile = "collector.toml"

	// EnvCollectorEnv specifies the environment name for configuration overlays.
	EnvCollectorEnv = "COLLECTOR_ENV"

	// EnvLogLevel overrides logging.level.
	EnvLogLevel = "COLLECTOR_LOG_LEVEL"

	// EnvLogFormat overrides logging.format.
	EnvLogFormat = "COLLECTOR_LOG_FORMAT"
)

// Config represents the root collector configuration.
type Config struct {
	Storage     StorageConfig     `toml:"storage"`
	Credentials CredentialsConfig `toml:"credentials"`
	Download    DownloadConfig    `toml:"download"`
	Logging     logging.Config    `toml:"logging"`
}

// Load reads path from filesystem and applies any environment-specific overlay.
func Load(filesystem fs.Filesystem, path string) (*Config, error) {
	cfg, err := load(filesystem, path)
	if err != nil {
		return nil, err
	}

	overlay, err := overlayPath(filesystem, path)
	if err != nil {
		return nil, err
	}
	if overlay != "" {
		o, err := load(filesystem, overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// Parse decodes a single TOML document without overlays.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Storage.Finalize(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Credentials.Finalize(); err != nil {
		return fmt.Errorf("credentials: %w", err)
	}
	if err := c.Download.Finalize(); err != nil {
		return fmt.Errorf("download: %w", err)
	}
	env := &logging.Env{Level: EnvLogLevel, Format: EnvLogFormat}
	if err := c.Logging.Finalize(env, os.Getenv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Storage.Merge(&overlay.Storage)
	c.Credentials.Merge(&overlay.Credentials)
	c.Download.Merge(&overlay.Download)
	c.Logging.Merge(&overlay.Logging)
}

// Options converts the finalized configuration into client options.
func (c *Config) Options() []collectortypes.Option {
	return []collectortypes.Option{
		c.Storage.apply,
		c.Download.apply,
	}
}

func load(filesystem fs.Filesystem, path string) (*Config, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// overlayPath returns config.<env>.toml for config.toml when it exists.
func overlayPath(filesystem fs.Filesystem, base string) (string, error) {
	env := os.Getenv(EnvCollectorEnv)
	if env == "" {
		return "", nil
	}

	path := fmt.Sprintf("%s.%s.toml", strings.TrimSuffix(base, ".toml"), env)
	ok, err := filesystem.Exists(path)
	if err != nil {
		return "", fmt.Errorf("stat overlay %s: %w", path, err)
	}
	if !ok {
		return "", nil
	}
	return path, nil
}
