package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
)

const (
	EnvDownloadBucket      = "COLLECTOR_BUCKET"
	EnvDownloadDestination = "COLLECTOR_DESTINATION"
	EnvDownloadPageSize    = "COLLECTOR_PAGE_SIZE"
	EnvDownloadSinglePage  = "COLLECTOR_SINGLE_PAGE"
)

// DownloadConfig controls what is downloaded and where it is written.
type DownloadConfig struct {
	// Bucket is the bucket to download. The CLI -bucket flag takes precedence.
	Bucket string `toml:"bucket"`

	// Destination is the local directory objects are written under.
	// Default: "."
	Destination string `toml:"destination"`

	// PageSize is the number of keys requested per listing page (1-1000).
	// Default: 1000
	PageSize int32 `toml:"page_size"`

	// SinglePage limits the download pass to the first listing page.
	SinglePage bool `toml:"single_page"`

	// CreateDirs creates missing parent directories for keys containing '/'.
	// Default: true
	CreateDirs *bool `toml:"create_dirs"`
}

// Finalize applies defaults, loads environment overrides, and validates the download configuration.
func (c *DownloadConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *DownloadConfig) Merge(overlay *DownloadConfig) {
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Destination != "" {
		c.Destination = overlay.Destination
	}
	if overlay.PageSize != 0 {
		c.PageSize = overlay.PageSize
	}
	if overlay.SinglePage {
		c.SinglePage = true
	}
	if overlay.CreateDirs != nil {
		v := *overlay.CreateDirs
		c.CreateDirs = &v
	}
}

func (c *DownloadConfig) loadDefaults() {
	if c.Destination == "" {
		c.Destination = "."
	}
	if c.PageSize == 0 {
		c.PageSize = collectortypes.DefaultPageSize
	}
	if c.CreateDirs == nil {
		v := true
		c.CreateDirs = &v
	}
}

func (c *DownloadConfig) loadEnv() error {
	if v := os.Getenv(EnvDownloadBucket); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv(EnvDownloadDestination); v != "" {
		c.Destination = v
	}
	if v := os.Getenv(EnvDownloadPageSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDownloadPageSize, err)
		}
		c.PageSize = int32(n)
	}
	if v := os.Getenv(EnvDownloadSinglePage); v != "" {
		b, err := parseBool(EnvDownloadSinglePage, v)
		if err != nil {
			return err
		}
		c.SinglePage = b
	}
	return nil
}

func (c *DownloadConfig) validate() error {
	if c.PageSize < 1 || c.PageSize > collectortypes.DefaultPageSize {
		return fmt.Errorf("page_size must be between 1 and %d, got %d", collectortypes.DefaultPageSize, c.PageSize)
	}
	return nil
}

func (c *DownloadConfig) apply(cfg *collectortypes.ClientConfig) {
	cfg.PageSize = c.PageSize
	cfg.SinglePage = c.SinglePage
	if c.CreateDirs != nil {
		cfg.CreateDirs = *c.CreateDirs
	}
}
