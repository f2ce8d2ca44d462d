package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
)

const (
	EnvStorageProvider = "COLLECTOR_PROVIDER"
	EnvStorageRegion   = "COLLECTOR_REGION"
	EnvStorageEndpoint = "COLLECTOR_ENDPOINT"
	EnvStorageTimeout  = "COLLECTOR_TIMEOUT"
)

// StorageConfig selects and tunes the object-storage backend.
type StorageConfig struct {
	// Provider is "aws" or "minio".
	// Default: "aws"
	Provider string `toml:"provider"`

	// Region defaults to us-east-1.
	Region string `toml:"region"`

	// Endpoint overrides the service endpoint (LocalStack, MinIO, ...).
	Endpoint       string `toml:"endpoint"`
	ForcePathStyle bool   `toml:"force_path_style"`

	// UseSSL is only read by the minio provider.
	// Default: true
	UseSSL *bool `toml:"use_ssl"`

	// MaxRetries is handed to the SDK retryer. Zero keeps the SDK default.
	MaxRetries int `toml:"max_retries"`

	// Timeout is the HTTP client timeout, e.g. "30s". Empty disables it.
	Timeout string `toml:"timeout"`

	timeoutVal time.Duration
}

// TimeoutDuration returns the parsed timeout.
func (c *StorageConfig) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.ForcePathStyle {
		c.ForcePathStyle = true
	}
	if overlay.UseSSL != nil {
		v := *overlay.UseSSL
		c.UseSSL = &v
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = string(collectortypes.ProviderAWS)
	}
	if c.Region == "" {
		c.Region = collectortypes.DefaultRegion
	}
	if c.UseSSL == nil {
		v := true
		c.UseSSL = &v
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvStorageRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvStorageEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvStorageTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *StorageConfig) validate() error {
	switch collectortypes.ProviderKind(c.Provider) {
	case collectortypes.ProviderAWS:
	case collectortypes.ProviderMinIO:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for provider %q", c.Provider)
		}
	default:
		return fmt.Errorf("invalid provider: %s (must be aws or minio)", c.Provider)
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}

	c.timeoutVal = 0
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("timeout must not be negative")
		}
		c.timeoutVal = d
	}
	return nil
}

func (c *StorageConfig) apply(cfg *collectortypes.ClientConfig) {
	cfg.Provider = collectortypes.ProviderKind(c.Provider)
	cfg.Region = c.Region
	cfg.Endpoint = c.Endpoint
	cfg.ForcePathStyle = c.ForcePathStyle
	if c.UseSSL != nil {
		cfg.UseSSL = *c.UseSSL
	}
	cfg.MaxRetries = c.MaxRetries
	cfg.Timeout = c.timeoutVal
}

func parseBool(name, v string) (bool, error) {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
