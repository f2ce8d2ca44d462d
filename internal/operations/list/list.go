package list

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-libs/collector/internal/provider"
)

// MaxPageSize is the largest page S3 returns for one request.
const MaxPageSize = 1000

// Lister lists objects through a provider.
type Lister struct {
	client provider.Provider
}

// New creates a new Lister.
func New(client provider.Provider) *Lister {
	return &Lister{client: client}
}

// Config holds configuration for list operations.
type Config struct {
	Bucket   string
	PageSize int32
}

// Result represents one page of a list operation.
type Result struct {
	Objects           []provider.ObjectSummary
	IsTruncated       bool
	ContinuationToken string
}

// List performs a single page listing. Provider errors are returned unwrapped
// so callers can report the provider's own message.
func (l *Lister) List(ctx context.Context, config *Config) (*Result, error) {
	page, err := l.client.ListObjects(ctx, config.Bucket, provider.ListInput{
		MaxKeys: pageSize(config),
	})
	if err != nil {
		return nil, err
	}
	return convertPage(page), nil
}

// ListWithPaginator creates a paginator for multi-page listing.
func (l *Lister) ListWithPaginator(config *Config) *Paginator {
	return &Paginator{
		client:    l.client,
		bucket:    config.Bucket,
		pageSize:  pageSize(config),
		firstPage: true,
	}
}

// Paginator walks continuation tokens one page at a time.
type Paginator struct {
	client            provider.Provider
	bucket            string
	pageSize          int32
	continuationToken string
	hasMorePages      bool
	firstPage         bool
	pages             int
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.hasMorePages
}

// Pages returns the number of pages fetched so far.
func (p *Paginator) Pages() int {
	return p.pages
}

// Collect fetches every remaining page and returns all objects in listing
// order. On error the objects gathered so far are returned alongside it.
func (p *Paginator) Collect(ctx context.Context) ([]provider.ObjectSummary, error) {
	var objects []provider.ObjectSummary

	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return objects, err
		}
		objects = append(objects, page.Objects...)
	}

	return objects, nil
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*Result, error) {
	input := provider.ListInput{MaxKeys: p.pageSize}
	if !p.firstPage {
		input.ContinuationToken = p.continuationToken
	}

	page, err := p.client.ListObjects(ctx, p.bucket, input)
	if err != nil {
		return nil, err
	}

	p.firstPage = false
	p.pages++

	// A truncated page without a new token cannot be continued.
	next := page.NextContinuationToken
	p.hasMorePages = page.IsTruncated && next != "" && next != p.continuationToken
	p.continuationToken = next

	return convertPage(page), nil
}

func convertPage(page *provider.ListPage) *Result {
	return &Result{
		Objects:           page.Objects,
		IsTruncated:       page.IsTruncated,
		ContinuationToken: page.NextContinuationToken,
	}
}

func pageSize(config *Config) int32 {
	if config.PageSize > 0 && config.PageSize <= MaxPageSize {
		return config.PageSize
	}
	return MaxPageSize
}
