// Package testutil provides test utilities and mocks for collector operations.
// This package is internal and should only be used for testing within the collector module.
package testutil

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// MockS3Client is a mock implementation of the awss3.S3API interface for testing.
// It allows customization of each S3 operation through function fields.
type MockS3Client struct {
	ListBucketsFunc   func(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObjectFunc     func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ListBuckets mocks the S3 ListBuckets operation.
func (m *MockS3Client) ListBuckets(
	ctx context.Context,
	params *s3.ListBucketsInput,
	optFns ...func(*s3.Options),
) (*s3.ListBucketsOutput, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx, params, optFns...)
	}
	return &s3.ListBucketsOutput{}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

// MockMinioAPI is a mock implementation of the minio provider API.
type MockMinioAPI struct {
	ListBucketsFunc func(context.Context) ([]minio.BucketInfo, error)
	ListObjectsFunc func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo
	GetObjectFunc   func(context.Context, string, string) (io.ReadCloser, minio.ObjectInfo, error)
}

// ListBuckets mocks the MinIO ListBuckets operation.
func (m *MockMinioAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx)
	}
	return nil, nil
}

// ListObjects mocks the MinIO ListObjects operation. The default is a closed channel.
func (m *MockMinioAPI) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	if m.ListObjectsFunc != nil {
		return m.ListObjectsFunc(ctx, bucket, opts)
	}
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

// GetObject mocks the MinIO GetObject operation.
func (m *MockMinioAPI) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, minio.ObjectInfo, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, bucket, key)
	}
	return io.NopCloser(eofReader{}), minio.ObjectInfo{Key: key}, nil
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

// MockProvider is a mock implementation of provider.Provider.
// It records every call so tests can assert how many requests an operation made.
type MockProvider struct {
	NameValue       string
	ListBucketsFunc func(context.Context) ([]provider.Bucket, error)
	ListObjectsFunc func(context.Context, string, provider.ListInput) (*provider.ListPage, error)
	GetObjectFunc   func(context.Context, string, string) (*provider.Object, error)
	CloseFunc       func() error

	ListBucketsCalls int
	ListObjectsCalls []provider.ListInput
	GetObjectKeys    []string
	Closed           bool
}

var _ provider.Provider = (*MockProvider)(nil)

// Name returns NameValue or "mock".
func (m *MockProvider) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// ListBuckets mocks provider.Provider.ListBuckets.
func (m *MockProvider) ListBuckets(ctx context.Context) ([]provider.Bucket, error) {
	m.ListBucketsCalls++
	if m.ListBucketsFunc != nil {
		return m.ListBucketsFunc(ctx)
	}
	return nil, nil
}

// ListObjects mocks provider.Provider.ListObjects.
func (m *MockProvider) ListObjects(ctx context.Context, bucket string, in provider.ListInput) (*provider.ListPage, error) {
	m.ListObjectsCalls = append(m.ListObjectsCalls, in)
	if m.ListObjectsFunc != nil {
		return m.ListObjectsFunc(ctx, bucket, in)
	}
	return &provider.ListPage{}, nil
}

// GetObject mocks provider.Provider.GetObject.
func (m *MockProvider) GetObject(ctx context.Context, bucket, key string) (*provider.Object, error) {
	m.GetObjectKeys = append(m.GetObjectKeys, key)
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, bucket, key)
	}
	return &provider.Object{Body: io.NopCloser(eofReader{})}, nil
}

// Close mocks provider.Provider.Close.
func (m *MockProvider) Close() error {
	m.Closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// TotalCalls returns the number of provider requests made so far.
func (m *MockProvider) TotalCalls() int {
	return m.ListBucketsCalls + len(m.ListObjectsCalls) + len(m.GetObjectKeys)
}
