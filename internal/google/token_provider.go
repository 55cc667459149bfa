package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs.
// This abstraction allows different token sources: the on-disk credential
// store for the STDIO transport, or the OAuth token store populated by the
// HTTP middleware.
type TokenProvider interface {
	// GetTokenForAccount retrieves an OAuth token for the specified account
	GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error)

	// HasTokenForAccount checks if a token exists for the specified account
	HasTokenForAccount(account string) bool
}

// FileTokenProvider provides tokens from the on-disk credential store
// (for STDIO transport)
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForAccount retrieves a token from the credential store for the
// specified account, refreshing and persisting it when expired
func (p *FileTokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	return DefaultCredentialStore().Resolve(ctx, account)
}

// HasTokenForAccount checks if a credential file exists for the specified account
func (p *FileTokenProvider) HasTokenForAccount(account string) bool {
	return HasTokenForAccount(account)
}

// providerTokenSource adapts a TokenProvider to the oauth2.TokenSource
// interface so expired tokens are re-resolved through the provider.
type providerTokenSource struct {
	ctx      context.Context
	provider TokenProvider
	account  string
}

func (s providerTokenSource) Token() (*oauth2.Token, error) {
	return s.provider.GetTokenForAccount(s.ctx, s.account)
}

// GetHTTPClientForProvider returns an HTTP client whose OAuth tokens come
// from the given provider. The provider is consulted again whenever the
// cached token expires.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func GetHTTPClientForProvider(ctx context.Context, account string, provider TokenProvider) (*http.Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	// Resolve up front so a missing credential fails here rather than on
	// the first API call
	tok, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	ts := oauth2.ReuseTokenSource(tok, providerTokenSource{ctx: ctx, provider: provider, account: account})
	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client, nil
}
