// package models defines the data model for playlist analysis runs
package models

// PlaylistMeta represents playlist header details from the catalog service.
// Created once at fetch start and never mutated afterwards.
type PlaylistMeta struct {
	ID          string
	Name        string
	Owner       string
	Description string
	TrackCount  int // Declared total from the catalog, not the normalized row count
}

// TrackRecord is one flat, analysis-ready playlist row.
type TrackRecord struct {
	ID         string
	Name       string
	Artists    []string // Original credit order, never sorted
	Album      string
	Popularity int // 0..100 inclusive
	DurationMS int
	Position   int // 0-based ordinal in the raw playlist, gaps possible after skips
}

// SkippedTrack marks a raw playlist entry that could not be normalized,
// typically a removed or unavailable track. Skips are counted, not errors.
type SkippedTrack struct {
	Position int
	Reason   string
}

// PopularityBucket is one half-open interval [Lo, Hi) of the popularity
// histogram. The final bucket of a partition is closed at 100.
type PopularityBucket struct {
	Lo    int
	Hi    int
	Count int
}

// Contains reports whether the given popularity score falls in this bucket,
// treating Hi == 100 as inclusive.
func (b PopularityBucket) Contains(score int) bool {
	if b.Hi == 100 {
		return score >= b.Lo && score <= b.Hi
	}
	return score >= b.Lo && score < b.Hi
}

// ArtistAggregate is the occurrence count for a single credited artist name.
// A track credits an artist at most once, regardless of duplicate credits.
type ArtistAggregate struct {
	Name  string
	Count int
}

// SummaryStats holds descriptive popularity statistics over the normalized rows.
type SummaryStats struct {
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// AnalysisResult is the complete output of one analysis run. It is
// recomputed fresh per invocation and shares no state with other runs.
type AnalysisResult struct {
	Playlist PlaylistMeta
	Tracks   []TrackRecord
	Buckets  []PopularityBucket
	Artists  []ArtistAggregate // Full ranking: count desc, name asc
	Stats    SummaryStats
	Skipped  []SkippedTrack
}

// TopArtists returns the first n entries of the full ranking, or the whole
// ranking when n <= 0 or exceeds its length. Truncation is a presentation
// policy; the underlying ranking is always complete.
func (r *AnalysisResult) TopArtists(n int) []ArtistAggregate {
	if n <= 0 || n >= len(r.Artists) {
		return r.Artists
	}
	return r.Artists[:n]
}
