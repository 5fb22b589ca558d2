// Spotify API implementation of [CatalogClient]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
//
// Popularity is absent for some track types (locally uploaded tracks); the
// zero value stands in for the missing field.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	Explicit   bool            `json:"explicit"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// SpotifyPlaylist represents a Spotify playlist header.
type SpotifyPlaylist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Owner       Owner          `json:"owner"`
	Public      bool           `json:"public"`
	Tracks      playlistTracks `json:"tracks"`
	URI         string         `json:"uri"`
}

// SpotifyClient implements [CatalogClient] for the Spotify Web API.
//
// The client performs exactly one request per call with a single token
// refresh on 401; retry policy lives with the caller.
type SpotifyClient struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewSpotifyClient creates a Spotify catalog client backed by the given
// token provider. A nil httpClient falls back to [http.DefaultClient].
func NewSpotifyClient(tokens TokenProvider, httpClient *http.Client) *SpotifyClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SpotifyClient{
		baseURL:    spotifyBaseURL,
		tokens:     tokens,
		httpClient: httpClient,
	}
}

// NewSpotifyClientAt is like [NewSpotifyClient] with an overridden base URL,
// used by tests to point at a local server.
func NewSpotifyClientAt(baseURL string, tokens TokenProvider, httpClient *http.Client) *SpotifyClient {
	c := NewSpotifyClient(tokens, httpClient)
	c.baseURL = baseURL
	return c
}

// PlaylistMetadata retrieves playlist header details by ID.
func (c *SpotifyClient) PlaylistMetadata(ctx context.Context, playlistID string) (*models.PlaylistMeta, error) {
	endpoint := fmt.Sprintf("/playlists/%s?fields=id,name,description,owner,tracks(total)", playlistID)

	var playlist SpotifyPlaylist
	if err := c.doRequest(ctx, endpoint, playlistID, 0, &playlist); err != nil {
		return nil, err
	}

	owner := playlist.Owner.DisplayName
	if owner == "" {
		owner = playlist.Owner.ID
	}

	return &models.PlaylistMeta{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Owner:       owner,
		Description: playlist.Description,
		TrackCount:  playlist.Tracks.Total,
	}, nil
}

// PlaylistPage retrieves one page of playlist items starting at offset.
func (c *SpotifyClient) PlaylistPage(ctx context.Context, playlistID string, offset, limit int) (*PlaylistPage, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, limit, offset)

	var page PlaylistPage
	if err := c.doRequest(ctx, endpoint, playlistID, offset, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// doRequest performs one authenticated GET against the Spotify API,
// retrying exactly once with a refreshed token on 401.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint, playlistID string, offset int, result any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	status, err := c.getJSON(ctx, endpoint, token, playlistID, offset, result)
	if err != nil || status != http.StatusUnauthorized {
		return err
	}

	token, err = c.tokens.Refresh(ctx)
	if err != nil {
		return &shared.APIError{
			Kind:       shared.ErrAuthFailed,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     http.StatusUnauthorized,
			Detail:     err.Error(),
		}
	}

	status, err = c.getJSON(ctx, endpoint, token, playlistID, offset, result)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		// A fresh token was still rejected; the session is unusable.
		return &shared.APIError{
			Kind:       shared.ErrAuthFailed,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     status,
		}
	}
	return nil
}

// getJSON issues the request and decodes a 2xx body into result. A 401
// returns (401, nil) so the caller can refresh; every other failure comes
// back as a [shared.APIError].
func (c *SpotifyClient) getJSON(ctx context.Context, endpoint, token, playlistID string, offset int, result any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, &shared.APIError{
			Kind:       shared.ErrUpstream,
			PlaylistID: playlistID,
			Offset:     offset,
			Detail:     err.Error(),
		}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, &shared.APIError{
			Kind:       shared.ErrAuthFailed,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		return resp.StatusCode, &shared.APIError{
			Kind:       shared.ErrPlaylistNotFound,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, &shared.APIError{
			Kind:       shared.ErrRateLimited,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return resp.StatusCode, &shared.APIError{
			Kind:       shared.ErrUpstream,
			PlaylistID: playlistID,
			Offset:     offset,
			Status:     resp.StatusCode,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, &shared.APIError{
				Kind:       shared.ErrUpstream,
				PlaylistID: playlistID,
				Offset:     offset,
				Status:     resp.StatusCode,
				Detail:     fmt.Sprintf("failed to decode response: %v", err),
			}
		}
	}

	return resp.StatusCode, nil
}

// parseRetryAfter converts a Retry-After header value into seconds,
// defaulting to 1 when the header is missing or malformed.
func parseRetryAfter(value string) int {
	if value == "" {
		return 1
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 1
	}
	return seconds
}
