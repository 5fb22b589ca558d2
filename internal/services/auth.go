package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/statify/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsProvider implements [TokenProvider] using the OAuth2
// client-credentials grant, which covers public playlist reads.
//
// The wrapped [oauth2.TokenSource] caches the token and serializes its own
// refresh, so Token is safe for concurrent use.
type ClientCredentialsProvider struct {
	mu     sync.Mutex
	conf   *clientcredentials.Config
	source oauth2.TokenSource
}

// NewClientCredentialsProvider creates a provider from a Spotify application's
// client ID and secret.
func NewClientCredentialsProvider(clientID, clientSecret string) (*ClientCredentialsProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	return &ClientCredentialsProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
	}, nil
}

// Token returns the current access token, fetching or refreshing through the
// underlying token source as needed.
func (p *ClientCredentialsProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	if p.source == nil {
		p.source = p.conf.TokenSource(ctx)
	}
	source := p.source
	p.mu.Unlock()

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token.AccessToken, nil
}

// Refresh discards the cached token source and obtains a fresh token.
func (p *ClientCredentialsProvider) Refresh(ctx context.Context) (string, error) {
	p.mu.Lock()
	p.source = p.conf.TokenSource(ctx)
	source := p.source
	p.mu.Unlock()

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	return token.AccessToken, nil
}

// StaticTokenProvider implements [TokenProvider] with a fixed access token.
// Refresh always fails since there is no session to renew.
type StaticTokenProvider struct {
	AccessToken string
}

func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	if p.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token set", shared.ErrNotAuthenticated)
	}
	return p.AccessToken, nil
}

func (p *StaticTokenProvider) Refresh(ctx context.Context) (string, error) {
	return "", fmt.Errorf("%w: static token cannot be refreshed", shared.ErrRefreshFailed)
}
