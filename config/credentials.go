package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/collector/credentials"
)

const (
	EnvCredentialsSource = "COLLECTOR_CREDENTIALS_SOURCE"
	EnvCredentialsSecret = "COLLECTOR_SECRET_ID"
)

// Credential source names.
const (
	SourceAuto           = "auto"
	SourceStatic         = "static"
	SourceEnv            = "env"
	SourceSecretsManager = "secretsmanager"
)

// CredentialsConfig selects where the collector's access keys come from.
// Secret values may be set here but are never logged.
type CredentialsConfig struct {
	// Source is auto, static, env or secretsmanager.
	// auto tries static keys (when set), then the environment, then the
	// secret (when secret_id is set).
	// Default: "auto"
	Source string `toml:"source"`

	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	SessionToken    string `toml:"session_token"`

	// SecretID names an AWS Secrets Manager secret holding a JSON credential document.
	SecretID string `toml:"secret_id"`

	// SecretRegion defaults to the storage region.
	SecretRegion   string `toml:"secret_region"`
	SecretEndpoint string `toml:"secret_endpoint"`
}

// Finalize applies defaults, loads environment overrides, and validates the credentials configuration.
func (c *CredentialsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *CredentialsConfig) Merge(overlay *CredentialsConfig) {
	if overlay.Source != "" {
		c.Source = overlay.Source
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
	if overlay.SessionToken != "" {
		c.SessionToken = overlay.SessionToken
	}
	if overlay.SecretID != "" {
		c.SecretID = overlay.SecretID
	}
	if overlay.SecretRegion != "" {
		c.SecretRegion = overlay.SecretRegion
	}
	if overlay.SecretEndpoint != "" {
		c.SecretEndpoint = overlay.SecretEndpoint
	}
}

func (c *CredentialsConfig) loadDefaults() {
	if c.Source == "" {
		c.Source = SourceAuto
	}
}

func (c *CredentialsConfig) loadEnv() {
	if v := os.Getenv(EnvCredentialsSource); v != "" {
		c.Source = v
	}
	if v := os.Getenv(EnvCredentialsSecret); v != "" {
		c.SecretID = v
	}
}

func (c *CredentialsConfig) validate() error {
	switch c.Source {
	case SourceAuto, SourceEnv:
	case SourceStatic:
		if c.AccessKeyID == "" || c.SecretAccessKey == "" {
			return fmt.Errorf("access_key_id and secret_access_key required for static source")
		}
	case SourceSecretsManager:
		if c.SecretID == "" {
			return fmt.Errorf("secret_id required for secretsmanager source")
		}
	default:
		return fmt.Errorf("invalid source: %s (must be auto, static, env, or secretsmanager)", c.Source)
	}
	return nil
}

func (c *CredentialsConfig) hasStatic() bool {
	return c.AccessKeyID != "" || c.SecretAccessKey != ""
}

// CredentialSource builds the credential source described by the configuration.
// Secrets Manager is reached in the storage region unless secret_region is set.
func (c *Config) CredentialSource(ctx context.Context, logger *slog.Logger) (credentials.Source, error) {
	cc := &c.Credentials

	static := func() credentials.Source {
		return credentials.NewStatic(cc.AccessKeyID, cc.SecretAccessKey, cc.SessionToken)
	}
	secret := func() (credentials.Source, error) {
		region := cc.SecretRegion
		if region == "" {
			region = c.Storage.Region
		}
		opts := []credentials.SecretsManagerOption{
			credentials.WithRegion(region),
			credentials.WithLogger(logger),
		}
		if cc.SecretEndpoint != "" {
			opts = append(opts, credentials.WithEndpoint(cc.SecretEndpoint))
		}
		src, err := credentials.NewSecretsManager(ctx, cc.SecretID, opts...)
		if err != nil {
			return nil, fmt.Errorf("secrets manager source: %w", err)
		}
		return src, nil
	}

	switch cc.Source {
	case SourceStatic:
		return static(), nil
	case SourceEnv:
		return credentials.NewEnv(), nil
	case SourceSecretsManager:
		return secret()
	}

	var sources []credentials.Source
	if cc.hasStatic() {
		sources = append(sources, static())
	}
	sources = append(sources, credentials.NewEnv())
	if cc.SecretID != "" {
		src, err := secret()
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return credentials.NewChain(sources...), nil
}
