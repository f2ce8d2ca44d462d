package testutil

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"github.com/aws/smithy-go"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// StoredObject is an object held by a provider built with ProviderBuilder.
type StoredObject struct {
	Key         string
	Data        []byte
	ContentType string
}

// Obj is shorthand for a StoredObject with string content.
func Obj(key, data string) StoredObject {
	return StoredObject{Key: key, Data: []byte(data)}
}

type storedBucket struct {
	name    string
	objects []StoredObject
}

// ProviderBuilder provides a fluent interface for building MockProvider
// instances backed by in-memory buckets.
type ProviderBuilder struct {
	buckets        []*storedBucket
	listBucketsErr error
	listObjectsErr map[string]error
	getObjectErr   map[string]error
	serverPageSize int
}

// NewProviderBuilder creates a new ProviderBuilder.
func NewProviderBuilder() *ProviderBuilder {
	return &ProviderBuilder{
		listObjectsErr: map[string]error{},
		getObjectErr:   map[string]error{},
	}
}

// WithBucket adds a bucket holding objects in the given order.
func (b *ProviderBuilder) WithBucket(name string, objects ...StoredObject) *ProviderBuilder {
	b.buckets = append(b.buckets, &storedBucket{name: name, objects: objects})
	return b
}

// WithListBucketsError makes ListBuckets fail with err.
func (b *ProviderBuilder) WithListBucketsError(err error) *ProviderBuilder {
	b.listBucketsErr = err
	return b
}

// WithListObjectsError makes ListObjects on bucket fail with err.
func (b *ProviderBuilder) WithListObjectsError(bucket string, err error) *ProviderBuilder {
	b.listObjectsErr[bucket] = err
	return b
}

// WithGetObjectError makes GetObject for key fail with err.
func (b *ProviderBuilder) WithGetObjectError(key string, err error) *ProviderBuilder {
	b.getObjectErr[key] = err
	return b
}

// WithServerPageSize caps every listing page at n objects regardless of MaxKeys.
func (b *ProviderBuilder) WithServerPageSize(n int) *ProviderBuilder {
	b.serverPageSize = n
	return b
}

// NoSuchBucket returns the API error a provider reports for a missing bucket.
func NoSuchBucket() error {
	return collectorerrors.Mark(
		&smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"},
		collectorerrors.ErrBucketNotFound,
	)
}

// Build returns the configured MockProvider.
func (b *ProviderBuilder) Build() *MockProvider {
	return &MockProvider{
		ListBucketsFunc: b.listBuckets,
		ListObjectsFunc: b.listObjects,
		GetObjectFunc:   b.getObject,
	}
}

func (b *ProviderBuilder) find(name string) *storedBucket {
	for _, sb := range b.buckets {
		if sb.name == name {
			return sb
		}
	}
	return nil
}

func (b *ProviderBuilder) listBuckets(context.Context) ([]provider.Bucket, error) {
	if b.listBucketsErr != nil {
		return nil, b.listBucketsErr
	}
	out := make([]provider.Bucket, 0, len(b.buckets))
	for _, sb := range b.buckets {
		out = append(out, provider.Bucket{Name: sb.name})
	}
	return out, nil
}

func (b *ProviderBuilder) listObjects(_ context.Context, bucket string, in provider.ListInput) (*provider.ListPage, error) {
	if err := b.listObjectsErr[bucket]; err != nil {
		return nil, err
	}
	sb := b.find(bucket)
	if sb == nil {
		return nil, NoSuchBucket()
	}

	start := 0
	if in.ContinuationToken != "" {
		n, err := strconv.Atoi(in.ContinuationToken)
		if err != nil {
			return nil, &smithy.GenericAPIError{Code: "InvalidArgument", Message: "bad continuation token"}
		}
		start = n
	}

	limit := int(in.MaxKeys)
	if limit <= 0 {
		limit = 1000
	}
	if b.serverPageSize > 0 && b.serverPageSize < limit {
		limit = b.serverPageSize
	}

	end := min(start+limit, len(sb.objects))
	page := &provider.ListPage{}
	for _, obj := range sb.objects[start:end] {
		page.Objects = append(page.Objects, provider.ObjectSummary{
			Key:  obj.Key,
			Size: int64(len(obj.Data)),
			ETag: CalculateETag(obj.Data),
		})
	}
	if end < len(sb.objects) {
		page.IsTruncated = true
		page.NextContinuationToken = strconv.Itoa(end)
	}
	return page, nil
}

func (b *ProviderBuilder) getObject(_ context.Context, bucket, key string) (*provider.Object, error) {
	if err := b.getObjectErr[key]; err != nil {
		return nil, err
	}
	sb := b.find(bucket)
	if sb == nil {
		return nil, NoSuchBucket()
	}
	for _, obj := range sb.objects {
		if obj.Key == key {
			return &provider.Object{
				Body:        io.NopCloser(bytes.NewReader(obj.Data)),
				Size:        int64(len(obj.Data)),
				ContentType: obj.ContentType,
				ETag:        CalculateETag(obj.Data),
			}, nil
		}
	}
	return nil, collectorerrors.Mark(
		&smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."},
		collectorerrors.ErrObjectNotFound,
	)
}
