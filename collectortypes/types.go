// Package collectortypes provides shared type definitions for the bucket collector.
package collectortypes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/fs"
)

// ProviderKind selects the object-storage backend.
type ProviderKind string

const (
	// ProviderAWS uses the AWS SDK S3 client.
	ProviderAWS ProviderKind = "aws"

	// ProviderMinIO uses the MinIO client against an S3-compatible endpoint.
	ProviderMinIO ProviderKind = "minio"
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

// DefaultPageSize is the maximum number of keys requested per listing page.
const DefaultPageSize = 1000

// Failure describes a caught provider error. It is carried inside results
// instead of being returned as a Go error.
type Failure struct {
	// Code classifies the failure.
	Code errors.ErrorCode
	// Bucket is the bucket the failing call addressed, if any.
	Bucket string
	// Message is the human-readable message for the failure.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// BucketList is the result of enumerating buckets.
type BucketList struct {
	// Names holds bucket names in provider order. Empty on failure.
	Names []string
	// Failure is set when enumeration failed.
	Failure *Failure
}

// OK reports whether enumeration succeeded.
func (l *BucketList) OK() bool {
	return l.Failure == nil
}

// Contains reports whether name is one of the listed buckets.
// A failed listing contains nothing.
func (l *BucketList) Contains(name string) bool {
	if l.Failure != nil {
		return false
	}
	for _, n := range l.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Message renders the list or the failure message.
func (l *BucketList) Message() string {
	if l.Failure != nil {
		return l.Failure.Message
	}
	return fmt.Sprint(l.Names)
}

// ContentsState is the outcome of a contents check.
type ContentsState int

const (
	// ContentsHasFiles means the first listing page returned at least one object.
	ContentsHasFiles ContentsState = iota
	// ContentsEmpty means the bucket has no objects.
	ContentsEmpty
	// ContentsFailed means the listing request failed.
	ContentsFailed
)

// String returns the state name.
func (s ContentsState) String() string {
	switch s {
	case ContentsHasFiles:
		return "has_files"
	case ContentsEmpty:
		return "empty"
	case ContentsFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ContentsResult is the result of checking whether a bucket has objects.
type ContentsResult struct {
	Bucket  string
	State   ContentsState
	Failure *Failure
}

// HasFiles reports whether the bucket has objects to process.
func (r *ContentsResult) HasFiles() bool {
	return r.State == ContentsHasFiles
}

// Message renders the console message for the result.
func (r *ContentsResult) Message() string {
	switch r.State {
	case ContentsHasFiles:
		return fmt.Sprintf("The bucket '%s' has files to process.", r.Bucket)
	case ContentsEmpty:
		return fmt.Sprintf("The bucket '%s' is empty. No files to process.", r.Bucket)
	default:
		if r.Failure != nil {
			return r.Failure.Message
		}
		return ListingFailureMessage(r.Bucket, "unknown error")
	}
}

// DownloadState is the outcome of a download pass.
type DownloadState int

const (
	// DownloadCompleted means every listed object was written locally.
	DownloadCompleted DownloadState = iota
	// DownloadEmpty means the listing returned no objects.
	DownloadEmpty
	// DownloadFailed means the listing failed or an object could not be written.
	DownloadFailed
)

// String returns the state name.
func (s DownloadState) String() string {
	switch s {
	case DownloadCompleted:
		return "completed"
	case DownloadEmpty:
		return "empty"
	case DownloadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ObjectDownload records a single object written to local disk.
type ObjectDownload struct {
	Key         string
	Path        string
	Size        int64
	ContentType string
	ETag        string
	Duration    time.Duration
}

// DownloadResult is the result of downloading every object in a bucket.
type DownloadResult struct {
	Bucket      string
	Destination string
	State       DownloadState
	// Keys holds downloaded keys in listing order.
	Keys    []string
	Objects []ObjectDownload
	Failure *Failure
	// Duration is the wall time of the whole pass.
	Duration time.Duration
}

// TotalBytes returns the number of bytes written across all objects.
func (r *DownloadResult) TotalBytes() int64 {
	var total int64
	for _, o := range r.Objects {
		total += o.Size
	}
	return total
}

// Message renders the console message for the result.
func (r *DownloadResult) Message() string {
	switch r.State {
	case DownloadCompleted:
		return fmt.Sprint(r.Keys)
	case DownloadEmpty:
		return fmt.Sprintf("The bucket '%s' is empty. No files to download.", r.Bucket)
	default:
		if r.Failure != nil {
			return r.Failure.Message
		}
		return ListingFailureMessage(r.Bucket, "unknown error")
	}
}

// OutcomeKind is the orchestrated result of a bucket download.
type OutcomeKind int

const (
	// OutcomeNotFound means the bucket is not in the account's bucket list.
	OutcomeNotFound OutcomeKind = iota
	// OutcomeEmpty means the bucket had nothing to download.
	OutcomeEmpty
	// OutcomeDownloaded means objects were downloaded.
	OutcomeDownloaded
	// OutcomeFailed means the contents check or listing failed.
	OutcomeFailed
)

// String returns the kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeEmpty:
		return "empty"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of orchestrating existence, contents and download.
type Outcome struct {
	Kind   OutcomeKind
	Bucket string
	// Keys holds downloaded keys when Kind is OutcomeDownloaded.
	Keys []string
	// Download is the download pass, if one ran.
	Download *DownloadResult
	// Failure is set when Kind is OutcomeFailed.
	Failure *Failure
}

// Message renders the console line for the outcome.
func (o *Outcome) Message() string {
	switch o.Kind {
	case OutcomeNotFound:
		return fmt.Sprintf("The specified bucket '%s' does not exist.", o.Bucket)
	case OutcomeDownloaded:
		return fmt.Sprintf("Downloaded files from '%s': %v", o.Bucket, o.Keys)
	default:
		return fmt.Sprintf("No files to download from '%s'.", o.Bucket)
	}
}

// ListingFailureMessage formats the message used when listing objects fails.
func ListingFailureMessage(bucket, detail string) string {
	return fmt.Sprintf("An error occurred: %s. The bucket '%s' may not have 'Contents.'", detail, bucket)
}

// BucketsFailureMessage formats the message used when enumerating buckets fails.
func BucketsFailureMessage(detail string) string {
	return fmt.Sprintf("An error occurred: %s. Unable to list S3 buckets.", detail)
}

// ProgressTracker tracks the progress of object downloads.
type ProgressTracker interface {
	// Update is called with the number of bytes transferred so far and the total size.
	Update(bytesTransferred, totalBytes int64)

	// Complete is called when the object has been written.
	Complete()

	// Error is called when a download fails.
	Error(err error)
}

// ClientConfig holds configuration for the collector client.
type ClientConfig struct {
	Provider         ProviderKind
	Region           string
	Endpoint         string
	ForcePathStyle   bool
	UseSSL           bool
	MaxRetries       int
	Timeout          time.Duration
	CustomAWSConfig  *aws.Config
	CustomHTTPClient *http.Client
	PageSize         int32
	SinglePage       bool
	CreateDirs       bool
	Filesystem       fs.Filesystem
	Logger           *slog.Logger
	Progress         ProgressTracker
}

// Option is a functional option for configuring the collector client.
type Option func(*ClientConfig)
