package credentials

import "errors"

var (
	// ErrSecretNotFound is returned when the configured secret does not exist
	// in AWS Secrets Manager.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret exists but contains no value.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the AWS credentials used to reach
	// Secrets Manager lack permission to read the secret.
	ErrAccessDenied = errors.New("access denied to secret")
)
