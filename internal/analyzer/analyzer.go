// package analyzer orchestrates playlist analysis runs
package analyzer

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
	"github.com/desertthunder/statify/internal/shared"
)

// Opts contains configuration for an analysis engine.
type Opts struct {
	BucketWidth int         // Histogram bucket width (default: 10)
	Fetch       FetcherOpts // Pagination and retry tunables
}

// Engine runs the full pipeline: fetch, normalize, aggregate. Each Analyze
// call is independent and shares no mutable state with other calls, so one
// engine may serve concurrent runs for different playlists.
type Engine struct {
	fetcher     *Fetcher
	logger      *log.Logger
	bucketWidth int
}

// NewEngine creates an analysis engine over the given catalog client.
func NewEngine(catalog services.CatalogClient, logger *log.Logger, opts Opts) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.BucketWidth <= 0 || opts.BucketWidth > maxScore {
		opts.BucketWidth = defaultBucketWidth
	}

	return &Engine{
		fetcher:     NewFetcher(catalog, logger, opts.Fetch),
		logger:      logger,
		bucketWidth: opts.BucketWidth,
	}
}

// Analyze fetches the playlist and computes a fresh AnalysisResult.
// The result is complete or the run fails; an aborted fetch never surfaces
// as a truncated success.
func (e *Engine) Analyze(ctx context.Context, progress chan<- ProgressUpdate, playlistID string) (*models.AnalysisResult, error) {
	e.sendProgress(progress, fetchMetadataUpdate(playlistID))

	meta, items, err := e.fetcher.Fetch(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, foundPlaylistUpdate(meta))
	e.sendProgress(progress, fetchTracksUpdate(len(items), meta.TrackCount))

	records, skipped := Normalize(items)
	for _, skip := range skipped {
		e.logger.Debug("skipped unavailable track", "playlist", playlistID,
			"position", skip.Position, "reason", skip.Reason)
	}
	e.sendProgress(progress, normalizeUpdate(len(records), len(skipped)))

	e.sendProgress(progress, aggregateUpdate())

	return &models.AnalysisResult{
		Playlist: *meta,
		Tracks:   records,
		Buckets:  Histogram(records, e.bucketWidth),
		Artists:  RankArtists(records),
		Stats:    Stats(records),
		Skipped:  skipped,
	}, nil
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
