package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/collector/collectortypes"
	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/operations/download"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/operations/list"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/validation"
)

// ListBuckets returns the names of every bucket visible to the account, in
// provider order. A provider error is caught and carried in the result's
// Failure.
func (c *Client) ListBuckets(ctx context.Context) *collectortypes.BucketList {
	return c.listBuckets(ctx, c.logger)
}

func (c *Client) listBuckets(ctx context.Context, logger *slog.Logger) *collectortypes.BucketList {
	buckets, err := c.provider.ListBuckets(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list buckets", "provider", c.provider.Name(), "error", err)
		return &collectortypes.BucketList{
			Names:   []string{},
			Failure: newFailure("", err, collectortypes.BucketsFailureMessage(err.Error())),
		}
	}

	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	logger.DebugContext(ctx, "listed buckets", "count", len(names))
	return &collectortypes.BucketList{Names: names}
}

// BucketExists reports whether bucket appears in the account's bucket list.
// It is false when the list cannot be retrieved.
func (c *Client) BucketExists(ctx context.Context, bucket string) bool {
	return c.bucketExists(ctx, c.logger, bucket)
}

func (c *Client) bucketExists(ctx context.Context, logger *slog.Logger, bucket string) bool {
	if err := validation.ValidateBucketName("bucketExists", bucket); err != nil {
		logger.WarnContext(ctx, "bucket name rejected", "error", err)
		return false
	}

	buckets := c.listBuckets(ctx, logger)
	if !buckets.OK() {
		logger.WarnContext(ctx, "bucket existence unknown, treating as missing",
			"bucket", bucket,
			"error", buckets.Failure.Message)
		return false
	}
	return buckets.Contains(bucket)
}

// CheckContents issues a single listing request and reports whether the
// bucket holds at least one object. A provider error is caught and carried
// in the result's Failure.
func (c *Client) CheckContents(ctx context.Context, bucket string) *collectortypes.ContentsResult {
	return c.checkContents(ctx, c.logger, bucket)
}

func (c *Client) checkContents(ctx context.Context, logger *slog.Logger, bucket string) *collectortypes.ContentsResult {
	result := &collectortypes.ContentsResult{Bucket: bucket}

	if err := validation.ValidateBucketName("checkContents", bucket); err != nil {
		result.State = collectortypes.ContentsFailed
		result.Failure = newFailure(bucket, err, collectortypes.ListingFailureMessage(bucket, err.Error()))
		return result
	}

	page, err := list.New(c.provider).List(ctx, &list.Config{
		Bucket:   bucket,
		PageSize: c.config.PageSize,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to list objects", "bucket", bucket, "error", err)
		result.State = collectortypes.ContentsFailed
		result.Failure = newFailure(bucket, errors.NewBucketError("checkContents", bucket, err),
			collectortypes.ListingFailureMessage(bucket, err.Error()))
		return result
	}

	if len(page.Objects) == 0 {
		result.State = collectortypes.ContentsEmpty
	} else {
		result.State = collectortypes.ContentsHasFiles
	}
	logger.DebugContext(ctx, "checked bucket contents",
		"bucket", bucket,
		"state", result.State.String(),
		"count", len(page.Objects))
	return result
}

// DownloadFiles lists the bucket and writes each object to destination/key,
// one at a time in listing order. An empty destination means the current
// directory.
//
// A listing failure is caught and carried in the result. A failure fetching
// or writing an object stops the pass: files already written are kept and
// the partial result is returned together with an *errors.Error naming the
// bucket and key.
//
// Example:
//
//	result, err := client.DownloadFiles(ctx, "logs-2023", "/tmp/out")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Message())
func (c *Client) DownloadFiles(ctx context.Context, bucket, destination string) (*collectortypes.DownloadResult, error) {
	return c.downloadFiles(ctx, c.logger, bucket, destination)
}

func (c *Client) downloadFiles(
	ctx context.Context,
	logger *slog.Logger,
	bucket, destination string,
) (*collectortypes.DownloadResult, error) {
	const op = "downloadFiles"

	if err := validation.ValidateBucketName(op, bucket); err != nil {
		return nil, err
	}
	if destination == "" {
		destination = "."
	}

	startTime := time.Now()
	result := &collectortypes.DownloadResult{
		Bucket:      bucket,
		Destination: destination,
		Keys:        []string{},
	}

	objects, pages, err := c.listForDownload(ctx, bucket)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list objects", "bucket", bucket, "pages", pages, "error", err)
		result.State = collectortypes.DownloadFailed
		result.Failure = newFailure(bucket, errors.NewBucketError(op, bucket, err),
			collectortypes.ListingFailureMessage(bucket, err.Error()))
		result.Duration = time.Since(startTime)
		return result, nil
	}

	if len(objects) == 0 {
		result.State = collectortypes.DownloadEmpty
		result.Duration = time.Since(startTime)
		logger.InfoContext(ctx, "bucket is empty", "bucket", bucket)
		return result, nil
	}

	logger.InfoContext(ctx, "downloading objects",
		"bucket", bucket,
		"destination", destination,
		"count", len(objects),
		"pages", pages)

	downloader := download.New(c.provider, c.filesystem())
	dlConfig := &download.Config{
		ProgressTracker: c.config.Progress,
		CreateDirs:      c.config.CreateDirs,
	}

	for _, obj := range objects {
		localPath := download.LocalPath(destination, obj.Key)

		od, err := downloader.DownloadFile(ctx, bucket, obj.Key, localPath, dlConfig)
		if err != nil {
			opErr := errors.NewObjectError(op, bucket, obj.Key, err)
			result.State = collectortypes.DownloadFailed
			result.Failure = &collectortypes.Failure{
				Code:    opErr.Code,
				Bucket:  bucket,
				Message: opErr.Error(),
				Err:     opErr,
			}
			result.Duration = time.Since(startTime)
			logger.ErrorContext(ctx, "failed to download object",
				"bucket", bucket,
				"key", obj.Key,
				"path", localPath,
				"downloaded", len(result.Keys),
				"error", err)
			return result, opErr
		}

		result.Keys = append(result.Keys, obj.Key)
		result.Objects = append(result.Objects, *od)
		logger.DebugContext(ctx, "downloaded object",
			"bucket", bucket,
			"key", obj.Key,
			"path", localPath,
			"size", od.Size,
			"content_type", od.ContentType)
	}

	result.State = collectortypes.DownloadCompleted
	result.Duration = time.Since(startTime)
	logger.InfoContext(ctx, "download complete",
		"bucket", bucket,
		"count", len(result.Keys),
		"bytes", result.TotalBytes(),
		"duration", result.Duration)
	return result, nil
}

// listForDownload returns the objects to download and the number of listing
// pages fetched.
func (c *Client) listForDownload(ctx context.Context, bucket string) ([]provider.ObjectSummary, int, error) {
	lister := list.New(c.provider)
	cfg := &list.Config{Bucket: bucket, PageSize: c.config.PageSize}

	if c.config.SinglePage {
		page, err := lister.List(ctx, cfg)
		if err != nil {
			return nil, 0, err
		}
		return page.Objects, 1, nil
	}

	paginator := lister.ListWithPaginator(cfg)
	objects, err := paginator.Collect(ctx)
	return objects, paginator.Pages(), err
}

// DownloadFromBucket checks that bucket exists and has content, then
// downloads it into destination. Nothing is printed; pass the outcome to
// Report for the console line.
//
// The returned error is non-nil only when an individual object could not be
// fetched or written.
func (c *Client) DownloadFromBucket(ctx context.Context, bucket, destination string) (*collectortypes.Outcome, error) {
	logger := c.logger.With("run_id", uuid.NewString())
	outcome := &collectortypes.Outcome{Bucket: bucket}

	logger.InfoContext(ctx, "starting bucket download", "bucket", bucket, "destination", destination)

	if !c.bucketExists(ctx, logger, bucket) {
		outcome.Kind = collectortypes.OutcomeNotFound
		logger.InfoContext(ctx, "bucket does not exist", "bucket", bucket)
		return outcome, nil
	}

	contents := c.checkContents(ctx, logger, bucket)
	switch contents.State {
	case collectortypes.ContentsEmpty:
		outcome.Kind = collectortypes.OutcomeEmpty
		logger.InfoContext(ctx, "nothing to download", "bucket", bucket)
		return outcome, nil
	case collectortypes.ContentsFailed:
		outcome.Kind = collectortypes.OutcomeFailed
		outcome.Failure = contents.Failure
		return outcome, nil
	}

	result, err := c.downloadFiles(ctx, logger, bucket, destination)
	outcome.Download = result
	if err != nil {
		outcome.Kind = collectortypes.OutcomeFailed
		if result != nil {
			outcome.Keys = result.Keys
			outcome.Failure = result.Failure
		}
		return outcome, err
	}

	switch result.State {
	case collectortypes.DownloadCompleted:
		outcome.Kind = collectortypes.OutcomeDownloaded
		outcome.Keys = result.Keys
	case collectortypes.DownloadEmpty:
		outcome.Kind = collectortypes.OutcomeEmpty
	default:
		outcome.Kind = collectortypes.OutcomeFailed
		outcome.Failure = result.Failure
	}

	logger.InfoContext(ctx, "bucket download finished",
		"bucket", bucket,
		"outcome", outcome.Kind.String(),
		"count", len(outcome.Keys))
	return outcome, nil
}

func newFailure(bucket string, err error, message string) *collectortypes.Failure {
	return &collectortypes.Failure{
		Code:    errors.CodeOf(err),
		Bucket:  bucket,
		Message: message,
		Err:     err,
	}
}
