package shopify

import (
	"context"
	"fmt"

	"feedgen/internal/logger"
)

// FetchOptions bounds a full catalog fetch. MaxPages guards against an
// upstream that keeps advertising a next page; MaxRecords of 0 means
// no record cap.
type FetchOptions struct {
	PageSize   int
	MaxRecords int
	MaxPages   int
}

const (
	defaultPageSize = 50
	defaultMaxPages = 200
)

// Fetcher retrieves the complete product catalog by following the
// cursor pagination of the products collection.
type Fetcher struct {
	client *Client
	logger *logger.Logger
}

func NewFetcher(client *Client, logger *logger.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// FetchAll returns every product reachable from the first page, in
// upstream order, until the collection is exhausted or an option cap
// is hit. Any transport failure discards what was already fetched and
// returns the error: callers get the whole catalog or nothing.
func (f *Fetcher) FetchAll(ctx context.Context, opts FetchOptions) ([]Product, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var all []Product
	pageURL := ""

	for page := 0; page < maxPages; page++ {
		resp, err := f.client.GetProducts(ctx, pageSize, pageURL)
		if err != nil {
			f.logger.Error("Product fetch aborted on page %d: %v", page+1, err)
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}

		all = append(all, resp.Products...)

		if opts.MaxRecords > 0 && len(all) >= opts.MaxRecords {
			all = all[:opts.MaxRecords]
			break
		}

		if resp.NextURL == "" {
			break
		}
		pageURL = resp.NextURL
	}

	f.logger.Debug("Fetched %d products", len(all))
	return all, nil
}
