// Package validation provides input checks shared by collector operations.
//
// Bucket names and object keys are opaque to the collector: only emptiness
// is rejected, and keys are never rewritten before being joined onto a
// local destination.
package validation

import (
	"github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

// MaxPageSize is the largest page size S3 honors for a single listing request.
const MaxPageSize = 1000

// ValidateBucketName rejects an empty bucket name.
func ValidateBucketName(op, bucket string) error {
	if bucket == "" {
		return errors.NewError(op, errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	return nil
}

// ValidateObjectKey rejects an empty object key.
func ValidateObjectKey(op, bucket, key string) error {
	if key == "" {
		return errors.NewError(op, errors.ErrInvalidInput).
			WithBucket(bucket).
			WithMessage("object key cannot be empty")
	}
	return nil
}

// ValidatePageSize rejects page sizes outside 1..MaxPageSize.
func ValidatePageSize(op string, size int32) error {
	if size < 1 || size > MaxPageSize {
		return errors.NewError(op, errors.ErrInvalidInput).
			WithMessage("page size must be between 1 and 1000")
	}
	return nil
}
