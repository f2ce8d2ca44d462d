package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/credentials"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/collector/logging"
)

const baseConfig = `
[storage]
provider = "aws"
region = "eu-west-1"
max_retries = 5
timeout = "45s"

[credentials]
source = "static"
access_key_id = "AKIABASE"
secret_access_key = "base-secret"

[download]
bucket = "logs-2023"
destination = "/tmp/out"

[logging]
level = "debug"
format = "json"
`

const devOverlay = `
[storage]
endpoint = "http://localhost:4566"
force_path_style = true

[download]
page_size = 2
create_dirs = false
`

func writeFiles(t *testing.T, files map[string]string) *billy.FS {
	t.Helper()
	fsys := billy.NewInMemoryFS()
	for name, data := range files {
		require.NoError(t, fsys.WriteFile(name, []byte(data), 0o644))
	}
	return fsys
}

func TestLoad(t *testing.T) {
	fsys := writeFiles(t, map[string]string{"/etc/collector.toml": baseConfig})

	cfg, err := Load(fsys, "/etc/collector.toml")
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Storage.Region)
	assert.Equal(t, 5, cfg.Storage.MaxRetries)
	assert.Equal(t, "static", cfg.Credentials.Source)
	assert.Equal(t, "logs-2023", cfg.Download.Bucket)
	assert.Equal(t, logging.LevelDebug, cfg.Logging.Level)
	assert.Nil(t, cfg.Download.CreateDirs)
}

func TestLoad_Overlay(t *testing.T) {
	t.Setenv(EnvCollectorEnv, "dev")
	fsys := writeFiles(t, map[string]string{
		"/etc/collector.toml":     baseConfig,
		"/etc/collector.dev.toml": devOverlay,
	})

	cfg, err := Load(fsys, "/etc/collector.toml")
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Storage.Region, "base value kept")
	assert.Equal(t, "http://localhost:4566", cfg.Storage.Endpoint)
	assert.True(t, cfg.Storage.ForcePathStyle)
	assert.Equal(t, int32(2), cfg.Download.PageSize)
	require.NotNil(t, cfg.Download.CreateDirs)
	assert.False(t, *cfg.Download.CreateDirs)
}

func TestLoad_MissingOverlayIgnored(t *testing.T) {
	t.Setenv(EnvCollectorEnv, "prod")
	fsys := writeFiles(t, map[string]string{"/etc/collector.toml": baseConfig})

	cfg, err := Load(fsys, "/etc/collector.toml")
	require.NoError(t, err)
	assert.Empty(t, cfg.Storage.Endpoint)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(billy.NewInMemoryFS(), "/nope.toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})

	t.Run("bad toml", func(t *testing.T) {
		fsys := writeFiles(t, map[string]string{"/bad.toml": "[storage\nregion="})
		_, err := Load(fsys, "/bad.toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})

	t.Run("bad overlay", func(t *testing.T) {
		t.Setenv(EnvCollectorEnv, "dev")
		fsys := writeFiles(t, map[string]string{
			"/c.toml":     baseConfig,
			"/c.dev.toml": "[download]\npage_size = \"many\"",
		})
		_, err := Load(fsys, "/c.toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load overlay")
	})
}

func TestFinalize_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, "aws", cfg.Storage.Provider)
	assert.Equal(t, collectortypes.DefaultRegion, cfg.Storage.Region)
	require.NotNil(t, cfg.Storage.UseSSL)
	assert.True(t, *cfg.Storage.UseSSL)
	assert.Zero(t, cfg.Storage.TimeoutDuration())
	assert.Equal(t, SourceAuto, cfg.Credentials.Source)
	assert.Equal(t, ".", cfg.Download.Destination)
	assert.Equal(t, int32(collectortypes.DefaultPageSize), cfg.Download.PageSize)
	require.NotNil(t, cfg.Download.CreateDirs)
	assert.True(t, *cfg.Download.CreateDirs)
	assert.Equal(t, logging.LevelInfo, cfg.Logging.Level)
}

func TestFinalize_EnvOverrides(t *testing.T) {
	t.Setenv(EnvStorageProvider, "minio")
	t.Setenv(EnvStorageEndpoint, "localhost:9000")
	t.Setenv(EnvStorageTimeout, "10s")
	t.Setenv(EnvDownloadBucket, "from-env")
	t.Setenv(EnvDownloadPageSize, "50")
	t.Setenv(EnvDownloadSinglePage, "true")
	t.Setenv(EnvCredentialsSource, "env")
	t.Setenv(EnvLogFormat, "json")

	cfg := &Config{}
	require.NoError(t, cfg.Finalize())

	assert.Equal(t, "minio", cfg.Storage.Provider)
	assert.Equal(t, 10*time.Second, cfg.Storage.TimeoutDuration())
	assert.Equal(t, "from-env", cfg.Download.Bucket)
	assert.Equal(t, int32(50), cfg.Download.PageSize)
	assert.True(t, cfg.Download.SinglePage)
	assert.Equal(t, SourceEnv, cfg.Credentials.Source)
	assert.Equal(t, logging.FormatJSON, cfg.Logging.Format)
}

func TestFinalize_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown provider",
			cfg:     &Config{Storage: StorageConfig{Provider: "gcs"}},
			wantErr: "storage: invalid provider",
		},
		{
			name:    "minio without endpoint",
			cfg:     &Config{Storage: StorageConfig{Provider: "minio"}},
			wantErr: "endpoint required",
		},
		{
			name:    "bad timeout",
			cfg:     &Config{Storage: StorageConfig{Timeout: "soon"}},
			wantErr: "invalid timeout",
		},
		{
			name:    "negative retries",
			cfg:     &Config{Storage: StorageConfig{MaxRetries: -1}},
			wantErr: "max_retries",
		},
		{
			name:    "static without keys",
			cfg:     &Config{Credentials: CredentialsConfig{Source: SourceStatic}},
			wantErr: "credentials: access_key_id",
		},
		{
			name:    "secretsmanager without id",
			cfg:     &Config{Credentials: CredentialsConfig{Source: SourceSecretsManager}},
			wantErr: "secret_id required",
		},
		{
			name:    "unknown credential source",
			cfg:     &Config{Credentials: CredentialsConfig{Source: "vault"}},
			wantErr: "invalid source",
		},
		{
			name:    "page size too large",
			cfg:     &Config{Download: DownloadConfig{PageSize: 5000}},
			wantErr: "download: page_size",
		},
		{
			name:    "page size env not a number",
			cfg:     &Config{},
			env:     map[string]string{EnvDownloadPageSize: "lots"},
			wantErr: EnvDownloadPageSize,
		},
		{
			name:    "single page env not a bool",
			cfg:     &Config{},
			env:     map[string]string{EnvDownloadSinglePage: "maybe"},
			wantErr: EnvDownloadSinglePage,
		},
		{
			name:    "bad log level",
			cfg:     &Config{Logging: logging.Config{Level: "chatty"}},
			wantErr: "logging: invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			err := tt.cfg.Finalize()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	fsys := writeFiles(t, map[string]string{"/c.toml": baseConfig})
	cfg, err := Load(fsys, "/c.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.Finalize())

	var cc collectortypes.ClientConfig
	for _, opt := range cfg.Options() {
		opt(&cc)
	}

	assert.Equal(t, collectortypes.ProviderAWS, cc.Provider)
	assert.Equal(t, "eu-west-1", cc.Region)
	assert.Equal(t, 5, cc.MaxRetries)
	assert.Equal(t, 45*time.Second, cc.Timeout)
	assert.True(t, cc.UseSSL)
	assert.Equal(t, int32(1000), cc.PageSize)
	assert.True(t, cc.CreateDirs)
	assert.False(t, cc.SinglePage)
}

func TestCredentialSource(t *testing.T) {
	ctx := context.Background()

	t.Run("static", func(t *testing.T) {
		cfg := &Config{Credentials: CredentialsConfig{
			Source:          SourceStatic,
			AccessKeyID:     "id",
			SecretAccessKey: "secret",
		}}
		require.NoError(t, cfg.Finalize())

		src, err := cfg.CredentialSource(ctx, nil)
		require.NoError(t, err)
		assert.IsType(t, &credentials.Static{}, src)

		creds, err := src.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "id", creds.AccessKeyID)
	})

	t.Run("env", func(t *testing.T) {
		cfg := &Config{Credentials: CredentialsConfig{Source: SourceEnv}}
		require.NoError(t, cfg.Finalize())

		src, err := cfg.CredentialSource(ctx, nil)
		require.NoError(t, err)
		assert.IsType(t, &credentials.Env{}, src)
	})

	t.Run("auto falls back to environment", func(t *testing.T) {
		t.Setenv(credentials.EnvAccessKeyID, "env-id")
		t.Setenv(credentials.EnvSecretAccessKey, "env-secret")

		cfg := &Config{}
		require.NoError(t, cfg.Finalize())

		src, err := cfg.CredentialSource(ctx, nil)
		require.NoError(t, err)
		assert.IsType(t, &credentials.Chain{}, src)

		creds, err := src.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "env-id", creds.AccessKeyID)
	})

	t.Run("auto prefers static keys", func(t *testing.T) {
		t.Setenv(credentials.EnvAccessKeyID, "env-id")
		t.Setenv(credentials.EnvSecretAccessKey, "env-secret")

		cfg := &Config{Credentials: CredentialsConfig{AccessKeyID: "file-id", SecretAccessKey: "file-secret"}}
		require.NoError(t, cfg.Finalize())

		src, err := cfg.CredentialSource(ctx, nil)
		require.NoError(t, err)
		creds, err := src.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "file-id", creds.AccessKeyID)
	})
}
