// Package directory integrates the external identity provider (Auth0
// management API). The engine consumes it only as an opaque user-record
// source; directory failures never influence permission decisions.
package directory

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider supplies bearer tokens for management API calls.
// Implementations are expected to cache and refresh tokens themselves so
// callers can request one per outgoing request.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentialsProvider obtains management API tokens via the OAuth2
// client-credentials flow. The underlying token source is expiry-aware: it
// reuses the cached token until it expires and fetches a new one afterwards.
type ClientCredentialsProvider struct {
	source oauth2.TokenSource
}

// ClientCredentialsConfig holds the identity-provider credentials
type ClientCredentialsConfig struct {
	Domain       string // Provider domain (e.g., "tenant.auth0.com")
	ClientID     string
	ClientSecret string
	Audience     string // Management API audience (e.g., "https://tenant.auth0.com/api/v2/")
}

// NewClientCredentialsProvider creates a token provider for the given credentials
func NewClientCredentialsProvider(cfg *ClientCredentialsConfig) *ClientCredentialsProvider {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://%s/oauth/token", cfg.Domain),
		EndpointParams: url.Values{
			"audience": {cfg.Audience},
		},
	}

	return &ClientCredentialsProvider{
		source: cc.TokenSource(context.Background()),
	}
}

// Token returns a valid bearer token, refreshing if the cached one expired
func (p *ClientCredentialsProvider) Token(ctx context.Context) (string, error) {
	token, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to obtain management API token: %w", err)
	}
	return token.AccessToken, nil
}

// StaticTokenProvider returns a fixed token. Used in tests and local
// development against a stubbed directory.
type StaticTokenProvider struct {
	AccessToken string
}

// Token returns the fixed token
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.AccessToken, nil
}
