package analyzer

import (
	"fmt"

	"github.com/desertthunder/statify/internal/models"
)

// ProgressUpdate represents a progress event during an analysis run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchMetadata Phase = iota
	FetchTracks
	NormalizeTracks
	Aggregate
)

func (p Phase) String() string {
	switch p {
	case FetchMetadata:
		return "fetch_metadata"
	case FetchTracks:
		return "fetch_tracks"
	case NormalizeTracks:
		return "normalize_tracks"
	case Aggregate:
		return "aggregate"
	default:
		return ""
	}
}

func fetchMetadataUpdate(id string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", id),
	}
}

func foundPlaylistUpdate(meta *models.PlaylistMeta) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchMetadata,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", meta.Name, meta.TrackCount),
		Data:    meta,
	}
}

func fetchTracksUpdate(fetched, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    fetched,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching tracks...", fetched, total),
	}
}

func normalizeUpdate(kept, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   NormalizeTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalized %d tracks (%d skipped)", kept, skipped),
	}
}

func aggregateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Aggregate,
		Step:    1,
		Total:   1,
		Message: "Computing popularity distribution and artist ranking...",
	}
}
