package collector

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/credentials"
	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider/awss3"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider/minio"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/validation"
	"github.com/input-output-hk/catalyst-forge-libs/collector/logging"
)

// Client lists and downloads bucket contents through a storage provider.
type Client struct {
	// provider is the storage backend every request goes through
	provider provider.Provider

	// config holds the resolved client options
	config collectortypes.ClientConfig

	// mu protects concurrent access to client configuration
	mu sync.RWMutex

	// fs is the filesystem downloaded objects are written to
	fs fs.Filesystem

	logger *slog.Logger
}

func newClientConfig(opts []collectortypes.Option) collectortypes.ClientConfig {
	cfg := collectortypes.ClientConfig{
		Provider:   collectortypes.ProviderAWS,
		Region:     collectortypes.DefaultRegion,
		UseSSL:     true,
		PageSize:   collectortypes.DefaultPageSize,
		CreateDirs: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New creates a client. Credentials are retrieved from source exactly once;
// missing or malformed credentials fail construction with an error wrapping
// errors.ErrInvalidCredentials.
//
// Example:
//
//	client, err := collector.New(ctx, credentials.NewEnv(),
//	    collector.WithRegion("us-west-2"),
//	    collector.WithMaxRetries(3),
//	)
func New(ctx context.Context, source credentials.Source, opts ...collectortypes.Option) (*Client, error) {
	const op = "new"

	if source == nil {
		return nil, errors.NewError(op, errors.ErrInvalidCredentials).
			WithMessage("credential source is nil")
	}

	cfg := newClientConfig(opts)
	if err := validation.ValidatePageSize(op, cfg.PageSize); err != nil {
		return nil, err
	}

	creds, err := source.Retrieve(ctx)
	if err == nil {
		err = creds.Validate()
	}
	if err != nil {
		return nil, errors.NewError(op, err).WithMessage("retrieve credentials")
	}

	p, err := openProvider(ctx, &cfg, creds)
	if err != nil {
		return nil, err
	}

	c := newClient(p, cfg)
	c.logger.DebugContext(ctx, "collector client created",
		"provider", p.Name(),
		"region", cfg.Region,
		"endpoint", cfg.Endpoint)
	return c, nil
}

// NewWithProvider creates a client over an existing provider.
// This is primarily used for testing with mocked providers.
func NewWithProvider(p provider.Provider, opts ...collectortypes.Option) *Client {
	return newClient(p, newClientConfig(opts))
}

func newClient(p provider.Provider, cfg collectortypes.ClientConfig) *Client {
	filesystem := cfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewBaseOSFS()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = collectortypes.DefaultPageSize
	}

	return &Client{
		provider: p,
		config:   cfg,
		fs:       filesystem,
		logger:   logger,
	}
}

func openProvider(
	ctx context.Context,
	cfg *collectortypes.ClientConfig,
	creds credentials.Credentials,
) (provider.Provider, error) {
	switch cfg.Provider {
	case collectortypes.ProviderAWS, "":
		p, err := awss3.New(ctx, awss3.Config{
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			ForcePathStyle:  cfg.ForcePathStyle,
			MaxRetries:      cfg.MaxRetries,
			Timeout:         cfg.Timeout,
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
			SessionToken:    creds.SessionToken,
			AWSConfig:       cfg.CustomAWSConfig,
			HTTPClient:      cfg.CustomHTTPClient,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	case collectortypes.ProviderMinIO:
		p, err := minio.New(minio.Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			UseSSL:          cfg.UseSSL,
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
			SessionToken:    creds.SessionToken,
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.NewError("new", errors.ErrInvalidInput).
			WithCode(errors.CodeInvalidConfig).
			WithMessage(fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}

// SetFilesystem sets the filesystem downloads are written to.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}

// Close releases the provider.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.provider.Close(); err != nil {
		return errors.NewError("close", err)
	}
	return nil
}
