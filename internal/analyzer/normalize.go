package analyzer

import (
	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
)

// Normalize maps raw playlist items into flat TrackRecords, yielding skip
// markers for removed/unavailable tracks. Positions are the original
// ordinals in the raw sequence, so a skip leaves a gap rather than
// renumbering later rows.
func Normalize(items []services.PlaylistItem) ([]models.TrackRecord, []models.SkippedTrack) {
	records := make([]models.TrackRecord, 0, len(items))
	var skipped []models.SkippedTrack

	for i, item := range items {
		record, skip := normalizeItem(item, i)
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		records = append(records, record)
	}

	return records, skipped
}

// normalizeItem converts one raw entry at the given ordinal, or returns a
// skip marker. All missing/null field policy lives here: a nil or empty
// track object is a removed track (known upstream condition), and an
// out-of-range popularity score is clamped into [0,100], which also covers
// the documented omitted-popularity case for local tracks.
func normalizeItem(item services.PlaylistItem, position int) (models.TrackRecord, *models.SkippedTrack) {
	track := item.Track
	if track == nil {
		return models.TrackRecord{}, &models.SkippedTrack{
			Position: position,
			Reason:   "null track object",
		}
	}
	if track.ID == "" && track.Name == "" {
		return models.TrackRecord{}, &models.SkippedTrack{
			Position: position,
			Reason:   "empty track object",
		}
	}

	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist.Name != "" {
			artists = append(artists, artist.Name)
		}
	}

	return models.TrackRecord{
		ID:         track.ID,
		Name:       track.Name,
		Artists:    artists,
		Album:      track.Album.Name,
		Popularity: clampScore(track.Popularity),
		DurationMS: track.DurationMS,
		Position:   position,
	}, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
