package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/statify/internal/shared"
)

// fakeTokens is a local TokenProvider double. The shared test package
// cannot be used here since it imports services.
type fakeTokens struct {
	accessToken  string
	refreshedTo  string
	refreshErr   error
	refreshCalls int
}

func (f *fakeTokens) Token(ctx context.Context) (string, error) {
	return f.accessToken, nil
}

func (f *fakeTokens) Refresh(ctx context.Context) (string, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	if f.refreshedTo != "" {
		return f.refreshedTo, nil
	}
	return f.accessToken, nil
}

type errTransport struct{ err error }

func (e errTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, e.err
}

func testClient(t *testing.T, handler http.HandlerFunc) *SpotifyClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewSpotifyClientAt(server.URL, &fakeTokens{accessToken: "test_token"}, nil)
}

func TestSpotifyClient(t *testing.T) {
	t.Run("PlaylistMetadata", func(t *testing.T) {
		t.Run("Maps Playlist Header Fields", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test_token" {
					t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
				}
				if r.URL.Path != "/playlists/pl123" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(SpotifyPlaylist{
					ID:          "pl123",
					Name:        "Morning Mix",
					Description: "coffee songs",
					Owner:       Owner{ID: "user1", DisplayName: "User One"},
					Tracks:      playlistTracks{Total: 37},
				})
			})

			meta, err := client.PlaylistMetadata(context.Background(), "pl123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if meta.ID != "pl123" || meta.Name != "Morning Mix" || meta.Owner != "User One" {
				t.Errorf("unexpected metadata: %+v", meta)
			}
			if meta.TrackCount != 37 {
				t.Errorf("expected declared total 37, got %d", meta.TrackCount)
			}
		})

		t.Run("Falls Back To Owner ID", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(SpotifyPlaylist{ID: "pl", Owner: Owner{ID: "user1"}})
			})

			meta, err := client.PlaylistMetadata(context.Background(), "pl")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if meta.Owner != "user1" {
				t.Errorf("expected owner fallback to ID, got %q", meta.Owner)
			}
		})
	})

	t.Run("PlaylistPage", func(t *testing.T) {
		t.Run("Requests Limit And Offset", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("limit") != "100" || q.Get("offset") != "200" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				json.NewEncoder(w).Encode(PlaylistPage{
					Items: []PlaylistItem{{Track: &SpotifyTrack{ID: "t1", Name: "Song"}}},
					Total: 201, Limit: 100, Offset: 200,
				})
			})

			page, err := client.PlaylistPage(context.Background(), "pl", 200, 100)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(page.Items) != 1 || page.Items[0].Track.ID != "t1" {
				t.Errorf("unexpected page: %+v", page)
			}
		})

		t.Run("Clamps Limit To API Maximum", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("limit"); got != "100" {
					t.Errorf("expected limit clamped to 100, got %s", got)
				}
				json.NewEncoder(w).Encode(PlaylistPage{})
			})

			if _, err := client.PlaylistPage(context.Background(), "pl", 0, 500); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Decodes Null Track Entries", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"items":[{"added_at":"2024-01-01","track":null}],"total":1}`)
			})

			page, err := client.PlaylistPage(context.Background(), "pl", 0, 100)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if page.Items[0].Track != nil {
				t.Error("expected nil track to survive decoding")
			}
		})
	})

	t.Run("Error Mapping", func(t *testing.T) {
		t.Run("404 Is Not Found", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			_, err := client.PlaylistMetadata(context.Background(), "missing")
			if !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Fatalf("expected not-found error, got %v", err)
			}

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatal("expected a structured APIError")
			}
			if apiErr.PlaylistID != "missing" || apiErr.Status != 404 {
				t.Errorf("missing error context: %+v", apiErr)
			}
		})

		t.Run("429 Carries Retry After", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(http.StatusTooManyRequests)
			})

			_, err := client.PlaylistPage(context.Background(), "pl", 300, 100)
			if !errors.Is(err, shared.ErrRateLimited) {
				t.Fatalf("expected rate-limited error, got %v", err)
			}

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatal("expected a structured APIError")
			}
			if apiErr.RetryAfter != 7 {
				t.Errorf("expected retry-after 7, got %d", apiErr.RetryAfter)
			}
			if apiErr.Offset != 300 {
				t.Errorf("expected offset 300, got %d", apiErr.Offset)
			}
		})

		t.Run("5xx Is Upstream", func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			})

			_, err := client.PlaylistPage(context.Background(), "pl", 0, 100)
			if !errors.Is(err, shared.ErrUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
		})

		t.Run("Network Failure Is Upstream", func(t *testing.T) {
			client := NewSpotifyClientAt("http://example.invalid", &fakeTokens{accessToken: "t"}, &http.Client{
				Transport: errTransport{err: errors.New("connection refused")},
			})

			_, err := client.PlaylistMetadata(context.Background(), "pl")
			if !errors.Is(err, shared.ErrUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
		})
	})

	t.Run("Token Refresh", func(t *testing.T) {
		t.Run("Retries Once With A Fresh Token On 401", func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if r.Header.Get("Authorization") == "Bearer stale" {
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				json.NewEncoder(w).Encode(SpotifyPlaylist{ID: "pl", Name: "Mix"})
			}))
			defer server.Close()

			tokens := &fakeTokens{accessToken: "stale", refreshedTo: "fresh"}
			client := NewSpotifyClientAt(server.URL, tokens, nil)

			meta, err := client.PlaylistMetadata(context.Background(), "pl")
			if err != nil {
				t.Fatalf("expected refresh to recover, got %v", err)
			}
			if meta.Name != "Mix" {
				t.Errorf("unexpected metadata: %+v", meta)
			}
			if requests != 2 {
				t.Errorf("expected 2 requests, got %d", requests)
			}
			if tokens.refreshCalls != 1 {
				t.Errorf("expected a single refresh, got %d", tokens.refreshCalls)
			}
		})

		t.Run("Unrefreshable Session Is An Auth Error", func(t *testing.T) {
			client := NewSpotifyClientAt(
				testServerURL(t, func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusUnauthorized)
				}),
				&fakeTokens{accessToken: "stale", refreshErr: shared.ErrRefreshFailed},
				nil,
			)

			_, err := client.PlaylistMetadata(context.Background(), "pl")
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected auth error, got %v", err)
			}
		})
	})
}

func testServerURL(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL
}

func TestTokenProviders(t *testing.T) {
	t.Run("Static Provider Returns Its Token", func(t *testing.T) {
		provider := &StaticTokenProvider{AccessToken: "abc"}

		token, err := provider.Token(context.Background())
		if err != nil || token != "abc" {
			t.Errorf("expected token abc, got %q (%v)", token, err)
		}
	})

	t.Run("Static Provider Cannot Refresh", func(t *testing.T) {
		provider := &StaticTokenProvider{AccessToken: "abc"}

		if _, err := provider.Refresh(context.Background()); !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected refresh failure, got %v", err)
		}
	})

	t.Run("Empty Static Provider Is Not Authenticated", func(t *testing.T) {
		provider := &StaticTokenProvider{}

		if _, err := provider.Token(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not-authenticated error, got %v", err)
		}
	})

	t.Run("Client Credentials Require Both Values", func(t *testing.T) {
		if _, err := NewClientCredentialsProvider("", "secret"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
		if _, err := NewClientCredentialsProvider("id", ""); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
		if _, err := NewClientCredentialsProvider("id", "secret"); err != nil {
			t.Errorf("expected provider, got %v", err)
		}
	})
}
