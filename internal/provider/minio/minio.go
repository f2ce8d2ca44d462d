// Package minio implements the storage provider on minio-go for S3-compatible endpoints.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// Name is the provider name reported in logs.
const Name = "minio"

// defaultPageSize mirrors the S3 listing default.
const defaultPageSize = 1000

// Config configures the MinIO provider.
type Config struct {
	// Endpoint is host[:port]; a scheme prefix is accepted and sets UseSSL.
	Endpoint string
	Region   string
	UseSSL   bool

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Provider lists and fetches objects through the MinIO client.
type Provider struct {
	api API
}

var _ provider.Provider = (*Provider)(nil)

// New creates a provider connected to cfg.Endpoint with static V4 credentials.
func New(cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return nil, collectorerrors.NewError("client initialization", collectorerrors.ErrInvalidInput).
			WithCode(collectorerrors.CodeInvalidConfig).
			WithMessage("minio endpoint cannot be empty")
	}

	endpoint, secure, err := parseEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, collectorerrors.NewError("client initialization", err).WithCode(collectorerrors.CodeInvalidConfig)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, collectorerrors.NewError("client initialization", err).WithCode(collectorerrors.CodeInvalidConfig)
	}

	return &Provider{api: &clientAPI{client: client}}, nil
}

// NewWithAPI creates a provider over a custom API implementation.
// This is primarily used for testing.
func NewWithAPI(api API) *Provider {
	return &Provider{api: api}
}

func parseEndpoint(raw string, useSSL bool) (string, bool, error) {
	if !strings.Contains(raw, "://") {
		return raw, useSSL, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("endpoint %q has no host", raw)
	}
	return u.Host, u.Scheme == "https", nil
}

// Name implements provider.Provider.
func (p *Provider) Name() string {
	return Name
}

// ListBuckets implements provider.Provider.
func (p *Provider) ListBuckets(ctx context.Context) ([]provider.Bucket, error) {
	infos, err := p.api.ListBuckets(ctx)
	if err != nil {
		return nil, convertMinioError(err)
	}

	buckets := make([]provider.Bucket, 0, len(infos))
	for _, b := range infos {
		buckets = append(buckets, provider.Bucket{Name: b.Name, CreationDate: b.CreationDate})
	}
	return buckets, nil
}

// ListObjects implements provider.Provider.
//
// minio-go streams listings over a channel. A page is emulated by reading
// MaxKeys entries and then cancelling; the last key read becomes the
// continuation token and is passed back as StartAfter.
func (p *Provider) ListObjects(ctx context.Context, bucket string, in provider.ListInput) (*provider.ListPage, error) {
	limit := int(in.MaxKeys)
	if limit <= 0 {
		limit = defaultPageSize
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := p.api.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Recursive:  true,
		StartAfter: in.ContinuationToken,
		MaxKeys:    limit,
	})

	page := &provider.ListPage{}
	for info := range ch {
		if info.Err != nil {
			return nil, convertMinioError(info.Err)
		}
		if len(page.Objects) == limit {
			page.IsTruncated = true
			break
		}
		page.Objects = append(page.Objects, provider.ObjectSummary{
			Key:          info.Key,
			Size:         info.Size,
			ETag:         strings.Trim(info.ETag, `"`),
			LastModified: info.LastModified,
		})
	}

	if page.IsTruncated {
		page.NextContinuationToken = page.Objects[len(page.Objects)-1].Key
	}
	return page, nil
}

// GetObject implements provider.Provider.
func (p *Provider) GetObject(ctx context.Context, bucket, key string) (*provider.Object, error) {
	body, info, err := p.api.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, convertMinioError(err)
	}

	return &provider.Object{
		Body:        body,
		Size:        info.Size,
		ContentType: info.ContentType,
		ETag:        strings.Trim(info.ETag, `"`),
	}, nil
}

// Close implements provider.Provider.
func (p *Provider) Close() error {
	return nil
}

// convertMinioError tags MinIO error responses with collector sentinels.
func convertMinioError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchBucket":
		return collectorerrors.Mark(err, collectorerrors.ErrBucketNotFound)
	case "NoSuchKey":
		return collectorerrors.Mark(err, collectorerrors.ErrObjectNotFound)
	case "AccessDenied":
		return collectorerrors.Mark(err, collectorerrors.ErrAccessDenied)
	case "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return collectorerrors.Mark(err, collectorerrors.ErrInvalidCredentials)
	}
	return err
}
