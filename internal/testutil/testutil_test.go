package testutil

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

func TestProviderBuilder(t *testing.T) {
	ctx := context.Background()

	t.Run("lists buckets in insertion order", func(t *testing.T) {
		p := NewProviderBuilder().WithBucket("b").WithBucket("a").Build()

		buckets, err := p.ListBuckets(ctx)
		require.NoError(t, err)
		require.Len(t, buckets, 2)
		assert.Equal(t, "b", buckets[0].Name)
		assert.Equal(t, "a", buckets[1].Name)
		assert.Equal(t, 1, p.ListBucketsCalls)
	})

	t.Run("paginates with server page size", func(t *testing.T) {
		p := NewProviderBuilder().
			WithBucket("b", Obj("1", "x"), Obj("2", "y"), Obj("3", "z")).
			WithServerPageSize(2).
			Build()

		first, err := p.ListObjects(ctx, "b", provider.ListInput{})
		require.NoError(t, err)
		assert.Len(t, first.Objects, 2)
		assert.True(t, first.IsTruncated)

		second, err := p.ListObjects(ctx, "b", provider.ListInput{ContinuationToken: first.NextContinuationToken})
		require.NoError(t, err)
		require.Len(t, second.Objects, 1)
		assert.Equal(t, "3", second.Objects[0].Key)
		assert.False(t, second.IsTruncated)
		assert.Empty(t, second.NextContinuationToken)
		assert.Len(t, p.ListObjectsCalls, 2)
	})

	t.Run("missing bucket", func(t *testing.T) {
		p := NewProviderBuilder().Build()
		_, err := p.ListObjects(ctx, "ghost", provider.ListInput{})
		assert.ErrorIs(t, err, collectorerrors.ErrBucketNotFound)
	})

	t.Run("get object", func(t *testing.T) {
		p := NewProviderBuilder().WithBucket("b", Obj("a.txt", "hello")).Build()

		obj, err := p.GetObject(ctx, "b", "a.txt")
		require.NoError(t, err)
		data, err := io.ReadAll(obj.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
		assert.Equal(t, int64(5), obj.Size)

		_, err = p.GetObject(ctx, "b", "nope")
		assert.ErrorIs(t, err, collectorerrors.ErrObjectNotFound)
		assert.Equal(t, []string{"a.txt", "nope"}, p.GetObjectKeys)
	})

	t.Run("injected errors", func(t *testing.T) {
		boom := errors.New("boom")
		p := NewProviderBuilder().
			WithBucket("b", Obj("k", "v")).
			WithListBucketsError(boom).
			WithListObjectsError("b", boom).
			WithGetObjectError("k", boom).
			Build()

		_, err := p.ListBuckets(ctx)
		assert.ErrorIs(t, err, boom)
		_, err = p.ListObjects(ctx, "b", provider.ListInput{})
		assert.ErrorIs(t, err, boom)
		_, err = p.GetObject(ctx, "b", "k")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, p.TotalCalls())
	})
}

func TestMockProviderDefaults(t *testing.T) {
	p := &MockProvider{}
	assert.Equal(t, "mock", p.Name())

	page, err := p.ListObjects(context.Background(), "b", provider.ListInput{})
	require.NoError(t, err)
	assert.Empty(t, page.Objects)

	require.NoError(t, p.Close())
	assert.True(t, p.Closed)
}

func TestMockProgressTracker(t *testing.T) {
	tracker := &MockProgressTracker{}
	tracker.Update(5, 10)
	tracker.Update(10, 10)
	tracker.Complete()
	tracker.Error(errors.New("x"))

	assert.True(t, tracker.UpdateCalled)
	assert.Len(t, tracker.Updates, 2)
	assert.Equal(t, int64(10), tracker.BytesTransferred)
	assert.Equal(t, 1, tracker.CompleteCalls)
	assert.True(t, tracker.ErrorCalled)
}

func TestHelpers(t *testing.T) {
	assert.Len(t, GenerateRandomData(32), 32)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", CalculateETag([]byte("hello")))

	out := CreateListObjectsV2Output(nil, "tok")
	assert.True(t, *out.IsTruncated)
	assert.Equal(t, "tok", *out.NextContinuationToken)

	get := CreateGetObjectOutput([]byte("abc"), "")
	assert.Nil(t, get.ContentType)
	assert.Equal(t, int64(3), *get.ContentLength)
}
