// Package services defines the capabilities the analysis pipeline consumes:
// [TokenProvider] for bearer credentials and [CatalogClient] for paginated
// playlist reads. It implements both for the Spotify Web API.
//
// # Token Providers
//
// [ClientCredentialsProvider] wraps the OAuth2 client-credentials grant via
// [golang.org/x/oauth2/clientcredentials]. Token reuse and refresh are
// delegated to the oauth2 token source, which serializes refreshes
// internally: concurrent callers observe either the old valid token or
// block until the new one is ready.
//
// [StaticTokenProvider] holds a caller-supplied token and cannot refresh.
// Useful for tests and one-off runs with a pasted token.
//
// # Catalog Client
//
// [SpotifyClient] is a thin fetcher: one HTTP request per call, no retries.
// Retry and backoff policy belongs to the analyzer's fetch loop. Failures
// are [shared.APIError] values tagged with a kind sentinel:
//   - [shared.ErrAuthFailed] : 401/403 after a refresh attempt
//   - [shared.ErrPlaylistNotFound] : 404
//   - [shared.ErrRateLimited] : 429, carrying the Retry-After hint
//   - [shared.ErrUpstream] : 5xx and network failures
package services
