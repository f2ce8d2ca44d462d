package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/testutil"
)

// listingOf serves keys after opts.StartAfter, honouring cancellation.
func listingOf(keys ...string) func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return func(ctx context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo)
		go func() {
			defer close(ch)
			for _, k := range keys {
				if opts.StartAfter != "" && k <= opts.StartAfter {
					continue
				}
				select {
				case ch <- minio.ObjectInfo{Key: k, Size: int64(len(k)), ETag: `"` + k + `"`}:
				case <-ctx.Done():
					return
				}
			}
		}()
		return ch
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		wantErr  bool
	}{
		{"host and port", "localhost:9000", false},
		{"http scheme", "http://localhost:9000", false},
		{"https scheme", "https://play.min.io", false},
		{"empty", "", true},
		{"scheme without host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(Config{Endpoint: tt.endpoint, AccessKeyID: "a", SecretAccessKey: "b"})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, collectorerrors.CodeInvalidConfig, collectorerrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Name, p.Name())
		})
	}
}

func TestParseEndpoint(t *testing.T) {
	host, secure, err := parseEndpoint("https://s3.example.com", false)
	require.NoError(t, err)
	assert.Equal(t, "s3.example.com", host)
	assert.True(t, secure)

	host, secure, err = parseEndpoint("minio:9000", true)
	require.NoError(t, err)
	assert.Equal(t, "minio:9000", host)
	assert.True(t, secure)
}

func TestProvider_ListBuckets(t *testing.T) {
	mock := &testutil.MockMinioAPI{
		ListBucketsFunc: func(context.Context) ([]minio.BucketInfo, error) {
			return []minio.BucketInfo{{Name: "logs-2023"}, {Name: "empty-bucket"}}, nil
		},
	}

	buckets, err := NewWithAPI(mock).ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "logs-2023", buckets[0].Name)
}

func TestProvider_ListObjects(t *testing.T) {
	p := NewWithAPI(&testutil.MockMinioAPI{ListObjectsFunc: listingOf("a", "b", "c")})
	ctx := context.Background()

	first, err := p.ListObjects(ctx, "b", provider.ListInput{MaxKeys: 2})
	require.NoError(t, err)
	require.Len(t, first.Objects, 2)
	assert.True(t, first.IsTruncated)
	assert.Equal(t, "b", first.NextContinuationToken)
	assert.Equal(t, "a", first.Objects[0].ETag)

	second, err := p.ListObjects(ctx, "b", provider.ListInput{MaxKeys: 2, ContinuationToken: first.NextContinuationToken})
	require.NoError(t, err)
	require.Len(t, second.Objects, 1)
	assert.Equal(t, "c", second.Objects[0].Key)
	assert.False(t, second.IsTruncated)
	assert.Empty(t, second.NextContinuationToken)

	exact, err := p.ListObjects(ctx, "b", provider.ListInput{MaxKeys: 3})
	require.NoError(t, err)
	assert.Len(t, exact.Objects, 3)
	assert.False(t, exact.IsTruncated)
}

func TestProvider_ListObjects_Error(t *testing.T) {
	mock := &testutil.MockMinioAPI{
		ListObjectsFunc: func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, 1)
			ch <- minio.ObjectInfo{Err: minio.ErrorResponse{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}}
			close(ch)
			return ch
		},
	}

	_, err := NewWithAPI(mock).ListObjects(context.Background(), "ghost", provider.ListInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, collectorerrors.ErrBucketNotFound)
	assert.Contains(t, err.Error(), "The specified bucket does not exist")
}

func TestProvider_GetObject(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &testutil.MockMinioAPI{
			GetObjectFunc: func(_ context.Context, _, key string) (io.ReadCloser, minio.ObjectInfo, error) {
				return io.NopCloser(strings.NewReader("data")), minio.ObjectInfo{
					Key: key, Size: 4, ContentType: "text/plain", ETag: `"abc"`,
				}, nil
			},
		}

		obj, err := NewWithAPI(mock).GetObject(context.Background(), "b", "a.txt")
		require.NoError(t, err)
		assert.Equal(t, int64(4), obj.Size)
		assert.Equal(t, "text/plain", obj.ContentType)
		assert.Equal(t, "abc", obj.ETag)
	})

	t.Run("errors are tagged", func(t *testing.T) {
		tests := []struct {
			code string
			want error
		}{
			{"NoSuchKey", collectorerrors.ErrObjectNotFound},
			{"AccessDenied", collectorerrors.ErrAccessDenied},
			{"InvalidAccessKeyId", collectorerrors.ErrInvalidCredentials},
		}
		for _, tt := range tests {
			mock := &testutil.MockMinioAPI{
				GetObjectFunc: func(context.Context, string, string) (io.ReadCloser, minio.ObjectInfo, error) {
					return nil, minio.ObjectInfo{}, minio.ErrorResponse{Code: tt.code, Message: tt.code}
				},
			}
			_, err := NewWithAPI(mock).GetObject(context.Background(), "b", "k")
			assert.ErrorIs(t, err, tt.want, tt.code)
		}
	})

	t.Run("unknown error passes through", func(t *testing.T) {
		boom := errors.New("boom")
		mock := &testutil.MockMinioAPI{
			GetObjectFunc: func(context.Context, string, string) (io.ReadCloser, minio.ObjectInfo, error) {
				return nil, minio.ObjectInfo{}, boom
			},
		}
		_, err := NewWithAPI(mock).GetObject(context.Background(), "b", "k")
		assert.Same(t, boom, err)
	})
}
