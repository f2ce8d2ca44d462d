package collector

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// WithProvider selects the storage backend. Default is ProviderAWS.
func WithProvider(kind collectortypes.ProviderKind) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Provider = kind
	}
}

// WithRegion sets the region. Default is us-east-1.
func WithRegion(region string) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Region = region
	}
}

// WithEndpoint sets a custom endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
// The minio provider requires it.
func WithEndpoint(endpoint string) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces the use of path-style URLs instead of virtual-hosted style.
func WithForcePathStyle(forcePathStyle bool) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithUseSSL toggles TLS for the minio provider. Default is true.
func WithUseSSL(useSSL bool) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.UseSSL = useSSL
	}
}

// WithMaxRetries sets the SDK's maximum attempts per request.
// Zero keeps the SDK default.
func WithMaxRetries(maxRetries int) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithTimeout sets the HTTP client timeout for the AWS provider.
// Default is no timeout (0).
func WithTimeout(timeout time.Duration) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// Credentials from the credential source still take precedence.
func WithAWSConfig(config *aws.Config) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}

// WithHTTPClient allows providing a custom HTTP client for the AWS provider.
func WithHTTPClient(client *http.Client) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithPageSize sets the number of keys requested per listing page (1-1000).
func WithPageSize(size int32) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.PageSize = size
	}
}

// WithSinglePageListing limits DownloadFiles to the first listing page.
// Buckets holding more keys than the page size are only partly downloaded.
func WithSinglePageListing() collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.SinglePage = true
	}
}

// WithCreateDirs controls whether missing parent directories of a key's
// local path are created. Default is true. When false, a key implying a
// missing directory fails with errors.ErrDestinationMissing.
func WithCreateDirs(create bool) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.CreateDirs = create
	}
}

// WithFilesystem sets a custom filesystem implementation for downloads.
// If not specified, defaults to the OS filesystem.
func WithFilesystem(filesystem fs.Filesystem) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Filesystem = filesystem
	}
}

// WithLogger configures the client with a logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Logger = logger
	}
}

// WithProgress sets a progress tracker notified for every downloaded object.
func WithProgress(tracker collectortypes.ProgressTracker) collectortypes.Option {
	return func(c *collectortypes.ClientConfig) {
		c.Progress = tracker
	}
}
