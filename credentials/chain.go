package credentials

import (
	"context"
	"errors"
	"fmt"

	collectorerrors "github.com/input-output-hk/catalyst-forge-libs/collector/errors"
)

// Chain tries sources in order and returns the first valid credentials.
type Chain struct {
	sources []Source
}

// NewChain creates a Chain over sources.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Retrieve implements Source. When every source fails the joined errors are
// returned, wrapped in ErrInvalidCredentials.
func (c *Chain) Retrieve(ctx context.Context) (Credentials, error) {
	if len(c.sources) == 0 {
		return Credentials{}, fmt.Errorf("%w: no credential sources configured", collectorerrors.ErrInvalidCredentials)
	}

	var errs []error
	for _, src := range c.sources {
		creds, err := src.Retrieve(ctx)
		if err == nil {
			err = creds.Validate()
		}
		if err == nil {
			return creds, nil
		}
		if ctx.Err() != nil {
			return Credentials{}, ctx.Err()
		}
		errs = append(errs, err)
	}

	joined := errors.Join(errs...)
	if errors.Is(joined, collectorerrors.ErrInvalidCredentials) {
		return Credentials{}, joined
	}
	return Credentials{}, fmt.Errorf("%w: %w", collectorerrors.ErrInvalidCredentials, joined)
}
