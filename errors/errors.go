// Package errors provides error types and classification for bucket collector operations.
package errors

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"net"
	"strings"

	"github.com/aws/smithy-go"
)

// Error represents a collector operation error with context about the operation that failed.
// It wraps the underlying provider error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "listBuckets", "downloadFiles")
	Op string

	// Bucket is the bucket name (if applicable)
	Bucket string

	// Key is the object key (if applicable)
	Key string

	// Code classifies the failure
	Code ErrorCode

	// Err is the underlying error from the provider or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("collector.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("collector.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("collector.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("collector.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// WithCode overrides the classified code.
func (e *Error) WithCode(code ErrorCode) *Error {
	e.Code = code
	return e
}

// NewError creates a new Error with the given operation and underlying error.
// The code is derived from err via Classify.
func NewError(op string, err error) *Error {
	return &Error{
		Op:   op,
		Code: Classify(err),
		Err:  err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return NewError(op, err).WithBucket(bucket)
}

// NewObjectError creates a new Error with bucket and key context.
func NewObjectError(op, bucket, key string, err error) *Error {
	return NewError(op, err).WithBucket(bucket).WithKey(key)
}

// Sentinel errors for common collector failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("collector: bucket not found")

	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("collector: object not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("collector: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("collector: invalid input")

	// ErrInvalidCredentials indicates that the credentials are missing or malformed
	ErrInvalidCredentials = errors.New("collector: invalid credentials")

	// ErrDestinationMissing indicates that the local destination directory does not exist
	ErrDestinationMissing = errors.New("collector: destination directory missing")

	// ErrTimeout indicates that the operation timed out
	ErrTimeout = errors.New("collector: operation timeout")

	// ErrConnection indicates a connection error
	ErrConnection = errors.New("collector: connection error")
)

// marked attaches a sentinel to an error without changing its message.
type marked struct {
	sentinel error
	err      error
}

func (m *marked) Error() string   { return m.err.Error() }
func (m *marked) Unwrap() []error { return []error{m.sentinel, m.err} }

// Mark returns err tagged with sentinel so errors.Is(result, sentinel) holds.
// The message is unchanged so provider detail reaches the user verbatim.
func Mark(err, sentinel error) error {
	if err == nil || errors.Is(err, sentinel) {
		return err
	}
	return &marked{sentinel: sentinel, err: err}
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsAccessDenied checks if an error indicates that access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidCredentials checks if an error indicates that credentials were rejected.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

// IsTimeout checks if an error indicates a timeout or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

// CodeOf returns the code carried by err if it wraps an *Error,
// otherwise the result of Classify.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return Classify(err)
}

// Classify maps an arbitrary error onto an ErrorCode.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrBucketNotFound), errors.Is(err, ErrObjectNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return CodeUnauthorized
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrDestinationMissing):
		return CodeFilesystem
	case IsTimeout(err):
		return CodeTimeout
	case errors.Is(err, ErrConnection):
		return CodeNetwork
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return classifyAPICode(apiErr.ErrorCode())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetwork
	}

	var pathErr *iofs.PathError
	if errors.As(err, &pathErr) {
		return CodeFilesystem
	}

	return CodeUnknown
}

func classifyAPICode(code string) ErrorCode {
	switch code {
	case "NoSuchBucket", "NoSuchKey", "NotFound", "ResourceNotFoundException":
		return CodeNotFound
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken",
		"UnrecognizedClientException", "InvalidClientTokenId":
		return CodeUnauthorized
	case "AccessDenied", "AccessDeniedException", "AllAccessDisabled":
		return CodeForbidden
	case "InvalidBucketName", "InvalidArgument", "InvalidParameterException", "ValidationException":
		return CodeInvalidInput
	case "RequestTimeout", "RequestTimeoutException":
		return CodeTimeout
	}

	if strings.Contains(strings.ToLower(code), "throttl") {
		return CodeNetwork
	}
	return CodeUnknown
}
