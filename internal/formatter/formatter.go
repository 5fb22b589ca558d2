// package formatter serializes analysis results to CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/statify/internal/models"
)

// ArtistDelimiter joins co-credited artist names in the artists column.
const ArtistDelimiter = "; "

// TrackColumns is the fixed CSV column order for track rows.
var TrackColumns = []string{"position", "name", "artists", "album", "popularity", "duration_ms"}

// ExportToCSV serializes the ordered track sequence to CSV. Output is
// deterministic: identical input produces byte-identical output. Artists
// keep their original credit order; fields containing delimiters or quotes
// are escaped per RFC 4180 by the csv writer.
func ExportToCSV(result *models.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(TrackColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range result.Tracks {
		record := []string{
			strconv.Itoa(track.Position),
			track.Name,
			strings.Join(track.Artists, ArtistDelimiter),
			track.Album,
			strconv.Itoa(track.Popularity),
			strconv.Itoa(track.DurationMS),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// MetadataToCSV serializes the playlist header as a two-row CSV sidecar.
func MetadataToCSV(meta models.PlaylistMeta) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := [][]string{
		{"id", "name", "owner", "declared_tracks", "description"},
		{meta.ID, meta.Name, meta.Owner, strconv.Itoa(meta.TrackCount), meta.Description},
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// CSVExportResult contains the paths written by [WriteCSVExport].
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport writes the track table and a playlist metadata sidecar
// next to each other using the given base path (without extension).
func WriteCSVExport(result *models.AnalysisResult, basePath string) (*CSVExportResult, error) {
	tracks, err := ExportToCSV(result)
	if err != nil {
		return nil, err
	}
	meta, err := MetadataToCSV(result.Playlist)
	if err != nil {
		return nil, err
	}

	out := &CSVExportResult{
		TracksFile:   basePath + "_tracks.csv",
		MetadataFile: basePath + "_metadata.csv",
	}

	if err := os.WriteFile(out.TracksFile, tracks, 0644); err != nil {
		return nil, fmt.Errorf("failed to write tracks file: %w", err)
	}
	if err := os.WriteFile(out.MetadataFile, meta, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return out, nil
}
