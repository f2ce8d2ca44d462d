// Package provider defines the object-storage contract the collector drives.
//
// A provider exposes three calls: enumerate buckets, list one page of objects
// in a bucket, and open an object for reading. Authentication, transport and
// SDK-level retries belong to the provider.
package provider

import (
	"context"
	"io"
	"time"
)

// Provider abstracts the storage backend.
type Provider interface {
	// Name identifies the backend in logs.
	Name() string

	// ListBuckets returns every bucket visible to the credentials, in provider order.
	ListBuckets(ctx context.Context) ([]Bucket, error)

	// ListObjects returns a single page of objects.
	// Use NextContinuationToken from ListPage for subsequent pages.
	ListObjects(ctx context.Context, bucket string, in ListInput) (*ListPage, error)

	// GetObject opens an object for reading. The caller must close Body.
	GetObject(ctx context.Context, bucket, key string) (*Object, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Bucket describes a bucket returned by ListBuckets.
type Bucket struct {
	Name         string
	CreationDate time.Time
}

// ListInput configures a ListObjects call.
type ListInput struct {
	// ContinuationToken resumes listing from a previous ListPage.
	// Empty string starts from the beginning.
	ContinuationToken string

	// MaxKeys limits the number of objects returned per page.
	// Zero uses provider default (typically 1000).
	MaxKeys int32
}

// ListPage contains one page of objects.
type ListPage struct {
	Objects []ObjectSummary

	// NextContinuationToken is used to retrieve the next page.
	// Empty string indicates no more pages.
	NextContinuationToken string

	// IsTruncated indicates whether more results are available.
	IsTruncated bool
}

// ObjectSummary contains basic metadata returned from listing.
type ObjectSummary struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Object is an open object body with its metadata.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ETag        string
}
