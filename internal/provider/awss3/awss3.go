// Package awss3 implements the storage provider on the AWS SDK S3 client.
package awss3

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// Name is the provider name reported in logs.
const Name = "aws"

// Config configures the AWS provider.
type Config struct {
	Region         string
	Endpoint       string
	ForcePathStyle bool
	MaxRetries     int
	Timeout        time.Duration

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// AWSConfig replaces the loaded SDK configuration when set.
	AWSConfig *aws.Config
	// HTTPClient replaces the SDK HTTP client when set.
	HTTPClient *http.Client
}

// Provider lists and fetches objects through the S3 API.
type Provider struct {
	api S3API
}

var _ provider.Provider = (*Provider)(nil)

// New creates a provider from static credentials and endpoint options.
// The region falls back to us-east-1 when neither cfg nor the environment set one.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	var awsCfg aws.Config
	if cfg.AWSConfig != nil {
		awsCfg = *cfg.AWSConfig
		if cfg.AccessKeyID != "" {
			awsCfg.Credentials = awscreds.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)
		}
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AccessKeyID != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				awscreds.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
			))
		}

		var err error
		awsCfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, collectorerrors.NewError("client initialization", err).WithCode(collectorerrors.CodeInvalidConfig)
		}
	}

	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	if cfg.MaxRetries > 0 {
		awsCfg.RetryMaxAttempts = cfg.MaxRetries
	}

	var s3Opts []func(*s3.Options)

	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil && cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient != nil {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Provider{api: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

// NewWithAPI creates a provider with a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api S3API) *Provider {
	return &Provider{api: api}
}

// Name implements provider.Provider.
func (p *Provider) Name() string {
	return Name
}

// ListBuckets implements provider.Provider. It follows continuation tokens
// until the account's full bucket list has been read.
func (p *Provider) ListBuckets(ctx context.Context) ([]provider.Bucket, error) {
	var buckets []provider.Bucket
	input := &s3.ListBucketsInput{}

	for {
		out, err := p.api.ListBuckets(ctx, input)
		if err != nil {
			return nil, convertAWSError(err)
		}

		for _, b := range out.Buckets {
			buckets = append(buckets, provider.Bucket{
				Name:         aws.ToString(b.Name),
				CreationDate: aws.ToTime(b.CreationDate),
			})
		}

		token := aws.ToString(out.ContinuationToken)
		if token == "" || token == aws.ToString(input.ContinuationToken) {
			return buckets, nil
		}
		input = &s3.ListBucketsInput{ContinuationToken: aws.String(token)}
	}
}

// ListObjects implements provider.Provider.
func (p *Provider) ListObjects(ctx context.Context, bucket string, in provider.ListInput) (*provider.ListPage, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}
	if in.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(in.MaxKeys)
	}

	out, err := p.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, convertAWSError(err)
	}

	page := &provider.ListPage{
		Objects:               make([]provider.ObjectSummary, 0, len(out.Contents)),
		NextContinuationToken: aws.ToString(out.NextContinuationToken),
		IsTruncated:           aws.ToBool(out.IsTruncated),
	}
	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, provider.ObjectSummary{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         strings.Trim(aws.ToString(obj.ETag), `"`),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	if !page.IsTruncated {
		page.NextContinuationToken = ""
	}

	return page, nil
}

// GetObject implements provider.Provider.
func (p *Provider) GetObject(ctx context.Context, bucket, key string) (*provider.Object, error) {
	out, err := p.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, convertAWSError(err)
	}

	return &provider.Object{
		Body:        out.Body,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

// Close implements provider.Provider. The SDK client holds no resources to release.
func (p *Provider) Close() error {
	return nil
}

// convertAWSError tags AWS SDK errors with collector sentinels.
func convertAWSError(err error) error {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return collectorerrors.Mark(err, collectorerrors.ErrBucketNotFound)
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return collectorerrors.Mark(err, collectorerrors.ErrObjectNotFound)
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "NoSuchBucket"):
		return collectorerrors.Mark(err, collectorerrors.ErrBucketNotFound)
	case strings.Contains(errMsg, "NoSuchKey"):
		return collectorerrors.Mark(err, collectorerrors.ErrObjectNotFound)
	case strings.Contains(errMsg, "AccessDenied"):
		return collectorerrors.Mark(err, collectorerrors.ErrAccessDenied)
	case strings.Contains(errMsg, "InvalidAccessKeyId"), strings.Contains(errMsg, "SignatureDoesNotMatch"):
		return collectorerrors.Mark(err, collectorerrors.ErrInvalidCredentials)
	}

	return err
}
