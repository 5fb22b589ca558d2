package formatter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/desertthunder/statify/internal/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Playlist: models.PlaylistMeta{
			ID:          "pl1",
			Name:        "Mix, with commas",
			Owner:       `The "Owner"`,
			TrackCount:  4,
			Description: "line one\nline two",
		},
		Tracks: []models.TrackRecord{
			{ID: "t1", Name: "Plain Song", Artists: []string{"Solo"}, Album: "Album", Popularity: 55, DurationMS: 201000, Position: 0},
			{ID: "t2", Name: `He said "go", twice`, Artists: []string{"X", "Y"}, Album: "Quoted; Album", Popularity: 0, DurationMS: 95000, Position: 1},
			{ID: "t3", Name: "Führe mich", Artists: []string{"A, B Quartet"}, Album: "Umlauts", Popularity: 100, DurationMS: 333000, Position: 3},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("Round Trip Recovers Fields Exactly", func(t *testing.T) {
		result := sampleResult()

		data, err := ExportToCSV(result)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("exported CSV failed to re-parse: %v", err)
		}

		if !reflect.DeepEqual(rows[0], TrackColumns) {
			t.Errorf("unexpected header: %v", rows[0])
		}
		if len(rows) != len(result.Tracks)+1 {
			t.Fatalf("expected %d rows, got %d", len(result.Tracks)+1, len(rows))
		}

		for i, track := range result.Tracks {
			row := rows[i+1]

			position, _ := strconv.Atoi(row[0])
			popularity, _ := strconv.Atoi(row[4])
			duration, _ := strconv.Atoi(row[5])

			got := models.TrackRecord{
				ID:         track.ID, // Not a CSV column
				Name:       row[1],
				Artists:    strings.Split(row[2], ArtistDelimiter),
				Album:      row[3],
				Popularity: popularity,
				DurationMS: duration,
				Position:   position,
			}
			if !reflect.DeepEqual(got, track) {
				t.Errorf("row %d round-trip mismatch:\n got %+v\nwant %+v", i, got, track)
			}
		}
	})

	t.Run("Identical Input Produces Byte Identical Output", func(t *testing.T) {
		first, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("export is not deterministic")
		}
	})

	t.Run("Artist Join Preserves Credit Order", func(t *testing.T) {
		result := &models.AnalysisResult{
			Tracks: []models.TrackRecord{
				{Name: "Song", Artists: []string{"Zed", "Alpha"}, Position: 0},
			},
		}

		data, err := ExportToCSV(result)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "Zed; Alpha") {
			t.Errorf("artists were reordered: %s", data)
		}
	})

	t.Run("Empty Track List Writes Header Only", func(t *testing.T) {
		data, err := ExportToCSV(&models.AnalysisResult{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("failed to re-parse: %v", err)
		}
		if len(rows) != 1 {
			t.Errorf("expected header only, got %d rows", len(rows))
		}
	})
}

func TestMetadataToCSV(t *testing.T) {
	t.Run("Escapes Quoted Fields", func(t *testing.T) {
		data, err := MetadataToCSV(sampleResult().Playlist)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("failed to re-parse: %v", err)
		}
		if rows[1][1] != "Mix, with commas" || rows[1][2] != `The "Owner"` {
			t.Errorf("metadata fields corrupted: %v", rows[1])
		}
	})
}

func TestWriteCSVExport(t *testing.T) {
	t.Run("Writes Tracks And Metadata Files", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "mix")

		files, err := WriteCSVExport(sampleResult(), base)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, path := range []string{files.TracksFile, files.MetadataFile} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected file %s to exist: %v", path, err)
			}
		}
		if files.TracksFile != base+"_tracks.csv" {
			t.Errorf("unexpected tracks path %s", files.TracksFile)
		}
	})

	t.Run("Fails On Unwritable Directory", func(t *testing.T) {
		_, err := WriteCSVExport(sampleResult(), filepath.Join(t.TempDir(), "missing", "mix"))
		if err == nil {
			t.Error("expected an error for a missing directory")
		}
	})
}
