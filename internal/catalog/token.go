package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when the Spotify client id or secret is
// not configured.
var ErrMissingCredentials = errors.New("missing Spotify client id or client secret")

// TokenProvider owns the process-wide access-token cache. Token retrieval is
// expiry-checked get-or-refresh: a cached token is reused until it expires,
// then refreshed on demand. Safe for concurrent use.
type TokenProvider struct {
	source oauth2.TokenSource
}

// NewClientCredentialsProvider builds a provider using the Spotify
// client-credentials grant
func NewClientCredentialsProvider(clientID, clientSecret string) (*TokenProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return NewTokenProvider(cfg.TokenSource(context.Background())), nil
}

// NewTokenProvider wraps an arbitrary token source. The source is reused
// through an expiry-checked cache so concurrent callers share one token.
func NewTokenProvider(source oauth2.TokenSource) *TokenProvider {
	return &TokenProvider{source: oauth2.ReuseTokenSource(nil, source)}
}

// Token returns a valid access token, refreshing it when the cached one has
// expired. Unavailability is fatal for the search phase only; mood inference
// proceeds independently.
func (p *TokenProvider) Token() (*oauth2.Token, error) {
	tok, err := p.source.Token()
	if err != nil {
		return nil, fmt.Errorf("fetching access token: %w", err)
	}
	return tok, nil
}

// HTTPClient returns an http.Client that injects the bearer token into every
// request, refreshing as needed
func (p *TokenProvider) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, p.source)
}
