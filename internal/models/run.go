package models

import "time"

// AnalysisRun is the persisted record of one completed analysis, kept as
// local history. It stores summary numbers only; full results are
// recomputed on demand, never cached.
type AnalysisRun struct {
	ID             string
	Sequence       int
	PlaylistID     string
	PlaylistName   string
	Owner          string
	TrackCount     int // Normalized rows analyzed, not the declared total
	SkippedCount   int
	MeanPopularity float64
	ExportPath     string // Tracks CSV path when the run was exported, empty otherwise
	CreatedAt      time.Time
}
