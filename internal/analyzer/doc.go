// Package analyzer implements the playlist retrieval and aggregation
// pipeline.
//
// The core abstraction is [Engine], which orchestrates one analysis run:
// paginated fetch, normalization, and aggregation. Operations emit progress
// updates via channels for non-blocking status reporting to the CLI layer.
//
// # Fetch
//
// [Fetcher] drives sequential offset pagination over a
// [services.CatalogClient]. Each page request passes through a rate limiter
// and a bounded retry loop: transient upstream failures back off
// exponentially up to three attempts, while rate-limit responses honor the
// server's Retry-After hint exactly and are not charged against the retry
// budget. Auth and not-found failures surface immediately. Cancelling the
// context between pages aborts the run with an error; a partial fetch is
// never presented as a complete result.
//
// # Normalize
//
// Raw playlist items become flat [models.TrackRecord] rows. Removed or
// unavailable tracks (null/empty track objects) become skip markers rather
// than errors, and positions keep their original ordinal so gaps are
// expected. All missing-field policy (popularity defaulting to 0) lives
// here and nowhere else.
//
// # Aggregate
//
// Pure functions compute the popularity histogram, the full artist ranking,
// and summary statistics. Identical input always yields identical output;
// ranking ties break by ascending artist name.
package analyzer
