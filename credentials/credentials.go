// Package credentials supplies the access keys the collector authenticates with.
//
// A Source is asked once, when the client is constructed. Sources never log or
// format secret material; Credentials.String redacts it.
package credentials

import (
	"context"
	"fmt"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

// Credentials is an access key pair with an optional session token.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Validate reports ErrInvalidCredentials when either key is missing.
func (c Credentials) Validate() error {
	switch {
	case c.AccessKeyID == "":
		return fmt.Errorf("%w: access key id is empty", collectorerrors.ErrInvalidCredentials)
	case c.SecretAccessKey == "":
		return fmt.Errorf("%w: secret access key is empty", collectorerrors.ErrInvalidCredentials)
	}
	return nil
}

// String returns a redacted form safe for logs.
func (c Credentials) String() string {
	id := c.AccessKeyID
	if len(id) > 4 {
		id = id[:4] + "****"
	}
	return fmt.Sprintf("Credentials{AccessKeyID: %s, SecretAccessKey: [redacted]}", id)
}

// GoString keeps %#v from printing secrets.
func (c Credentials) GoString() string {
	return c.String()
}

// Source retrieves credentials.
type Source interface {
	Retrieve(ctx context.Context) (Credentials, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Credentials, error)

// Retrieve implements Source.
func (f SourceFunc) Retrieve(ctx context.Context) (Credentials, error) {
	return f(ctx)
}
