package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultPageSize = 100
	maxAttempts     = 3
	defaultBackoff  = 500 * time.Millisecond
)

// FetcherOpts contains tunables for the paginated fetch.
type FetcherOpts struct {
	PageSize  int           // Items per page request (default: 100, Spotify's cap)
	RateLimit float64       // Requests per second (default: 5)
	Backoff   time.Duration // Base delay for transient-failure retries (default: 500ms)
}

// Fetcher assembles a playlist's complete ordered track listing by driving
// pagination over a [services.CatalogClient].
type Fetcher struct {
	catalog  services.CatalogClient
	limiter  *rate.Limiter
	logger   *log.Logger
	pageSize int
	backoff  time.Duration
}

// NewFetcher creates a Fetcher over the given catalog client.
func NewFetcher(catalog services.CatalogClient, logger *log.Logger, opts FetcherOpts) *Fetcher {
	if opts.PageSize <= 0 || opts.PageSize > defaultPageSize {
		opts.PageSize = defaultPageSize
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Fetcher{
		catalog:  catalog,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
		logger:   logger,
		pageSize: opts.PageSize,
		backoff:  opts.Backoff,
	}
}

// Fetch retrieves playlist metadata and every raw track entry in playlist
// order. Pagination stops when a page comes back short or the declared
// total is reached, whichever happens first. Duplicate tracks are retained;
// order is exactly as returned by the catalog.
func (f *Fetcher) Fetch(ctx context.Context, playlistID string) (*models.PlaylistMeta, []services.PlaylistItem, error) {
	meta, err := f.fetchMeta(ctx, playlistID)
	if err != nil {
		return nil, nil, err
	}

	var items []services.PlaylistItem
	for offset := 0; ; offset += f.pageSize {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("fetch aborted: %w", ctx.Err())
		default:
		}

		page, err := f.fetchPage(ctx, playlistID, offset)
		if err != nil {
			return nil, nil, err
		}

		items = append(items, page.Items...)

		if len(page.Items) < f.pageSize || len(items) >= meta.TrackCount {
			break
		}
	}

	return meta, items, nil
}

func (f *Fetcher) fetchMeta(ctx context.Context, playlistID string) (*models.PlaylistMeta, error) {
	var meta *models.PlaylistMeta
	err := f.withRetry(ctx, playlistID, 0, func() error {
		var err error
		meta, err = f.catalog.PlaylistMetadata(ctx, playlistID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, playlistID string, offset int) (*services.PlaylistPage, error) {
	var page *services.PlaylistPage
	err := f.withRetry(ctx, playlistID, offset, func() error {
		var err error
		page, err = f.catalog.PlaylistPage(ctx, playlistID, offset, f.pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// withRetry runs one page request under the retry policy: transient
// upstream failures back off exponentially up to maxAttempts, rate-limit
// responses wait out the server's Retry-After hint without consuming the
// budget, and every other failure surfaces immediately.
func (f *Fetcher) withRetry(ctx context.Context, playlistID string, offset int, fn func() error) error {
	attempts := 0
	for {
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("fetch aborted: %w", err)
		}

		err := fn()
		if err == nil {
			return nil
		}

		switch {
		case errors.Is(err, shared.ErrRateLimited):
			wait := time.Second
			var apiErr *shared.APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait = time.Duration(apiErr.RetryAfter) * time.Second
			}
			f.logger.Warn("rate limited, honoring retry-after",
				"playlist", playlistID, "offset", offset, "wait", wait)
			if err := sleepContext(ctx, wait); err != nil {
				return fmt.Errorf("fetch aborted: %w", err)
			}

		case errors.Is(err, shared.ErrUpstream):
			attempts++
			if attempts >= maxAttempts {
				return err
			}
			wait := f.backoff << (attempts - 1)
			f.logger.Warn("transient upstream failure, retrying",
				"playlist", playlistID, "offset", offset, "attempt", attempts, "wait", wait)
			if err := sleepContext(ctx, wait); err != nil {
				return fmt.Errorf("fetch aborted: %w", err)
			}

		default:
			// Auth failures, bad identifiers, and cancellation are not retryable.
			return err
		}
	}
}

// sleepContext blocks for the given duration or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
