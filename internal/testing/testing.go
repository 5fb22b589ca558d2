// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/services"
)

// MockCatalog is a test double for [services.CatalogClient] with
// overridable behavior per method.
type MockCatalog struct {
	MetaFn func(ctx context.Context, playlistID string) (*models.PlaylistMeta, error)
	PageFn func(ctx context.Context, playlistID string, offset, limit int) (*services.PlaylistPage, error)
}

func (m *MockCatalog) PlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMeta, error) {
	if m.MetaFn == nil {
		return &models.PlaylistMeta{ID: playlistID}, nil
	}
	return m.MetaFn(ctx, playlistID)
}

func (m *MockCatalog) PlaylistPage(ctx context.Context, playlistID string, offset, limit int) (*services.PlaylistPage, error) {
	if m.PageFn == nil {
		return &services.PlaylistPage{}, nil
	}
	return m.PageFn(ctx, playlistID, offset, limit)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// Tracks builds a TrackRecord slice from (name, popularity, artists...)
// tuples for compact test setup.
type TrackSpec struct {
	Name       string
	Popularity int
	Artists    []string
}

func Tracks(specs ...TrackSpec) []models.TrackRecord {
	tracks := make([]models.TrackRecord, len(specs))
	for i, spec := range specs {
		tracks[i] = models.TrackRecord{
			ID:         spec.Name,
			Name:       spec.Name,
			Artists:    spec.Artists,
			Popularity: spec.Popularity,
			Position:   i,
		}
	}
	return tracks
}
