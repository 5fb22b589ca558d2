// package services defines interfaces for the remote catalog and its auth capability
package services

import (
	"context"

	"github.com/desertthunder/statify/internal/models"
)

// TokenProvider supplies a valid bearer credential for catalog requests,
// refreshing when expired. The zero-cost read path must be safe for
// concurrent use; at most one refresh is in flight at a time.
type TokenProvider interface {
	// Token returns the current valid access token, obtaining one if none is held.
	Token(ctx context.Context) (string, error)

	// Refresh discards any held token and obtains a fresh one.
	// Returns an auth error when the session cannot be renewed.
	Refresh(ctx context.Context) (string, error)
}

// CatalogClient fetches playlist data from the remote catalog one page at a time.
type CatalogClient interface {
	// PlaylistMetadata retrieves playlist header details by ID.
	PlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMeta, error)

	// PlaylistPage retrieves one page of playlist items starting at offset.
	PlaylistPage(ctx context.Context, playlistID string, offset, limit int) (*PlaylistPage, error)
}

// PlaylistPage is one raw page of playlist items plus its continuation
// state. Pages are transient; the analyzer discards them after
// normalization.
type PlaylistPage struct {
	Items  []PlaylistItem `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
	Next   *string        `json:"next"`
}

// PlaylistItem is a raw track entry within a playlist page. Track is nil or
// empty for removed/unavailable tracks, a known upstream condition.
type PlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}
