package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// AuthMetricsRecorder records the outcome of token lookups. Implemented by
// instrumentation.Metrics; declared here so the store does not depend on the
// metrics stack.
type AuthMetricsRecorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
}

// TokenProvider implements google.TokenProvider using the OAuth store
// This allows Google API clients to use tokens from OAuth authentication
type TokenProvider struct {
	store   *Store
	metrics AuthMetricsRecorder
}

// NewTokenProvider creates a new OAuth-based token provider
func NewTokenProvider(store *Store) *TokenProvider {
	return &TokenProvider{
		store: store,
	}
}

// NewTokenProviderWithMetrics creates a token provider that records lookup
// outcomes to the given metrics recorder
func NewTokenProviderWithMetrics(store *Store, metrics AuthMetricsRecorder) *TokenProvider {
	return &TokenProvider{
		store:   store,
		metrics: metrics,
	}
}

// GetTokenForAccount retrieves a Google OAuth token from the store
// First checks if there's an authenticated user in the context (from OAuth middleware)
// Falls back to looking up by account name for backward compatibility
func (p *TokenProvider) GetTokenForAccount(ctx context.Context, account string) (*oauth2.Token, error) {
	// First, check if there's an authenticated user in the context
	// This is set by the OAuth middleware after validating the Bearer token
	if userInfo, ok := GetUserFromContext(ctx); ok && userInfo != nil && userInfo.Email != "" {
		// User is authenticated via OAuth, use their email to look up the Google token
		token, err := p.store.GetGoogleToken(userInfo.Email)
		if err == nil {
			p.recordAuth(ctx, "success")
			return token, nil
		}
		// If token not found by email, try the account name as fallback
	}

	// Fall back to account name lookup (for STDIO transport or if context lookup failed)
	token, err := p.store.GetGoogleToken(account)
	if err != nil {
		p.recordAuth(ctx, "failure")
		return nil, fmt.Errorf("no Google OAuth token found for account %s. Please authenticate with Google through your MCP client", account)
	}
	p.recordAuth(ctx, "success")
	return token, nil
}

// HasTokenForAccount checks if a token exists in the store for the specified account
// First checks if there's an authenticated user in the context
func (p *TokenProvider) HasTokenForAccount(account string) bool {
	// Note: This method doesn't have access to context, so it can only check by account name
	// This is fine because it's only used during server initialization
	_, err := p.store.GetGoogleToken(account)
	return err == nil
}

// SaveToken stores a Google OAuth token for the given account
func (p *TokenProvider) SaveToken(_ context.Context, account string, token *oauth2.Token) error {
	return p.store.SaveGoogleToken(account, token)
}

// GetToken retrieves the stored Google OAuth token for the given account
// without any context-based user resolution
func (p *TokenProvider) GetToken(_ context.Context, account string) (*oauth2.Token, error) {
	return p.store.GetGoogleToken(account)
}

func (p *TokenProvider) recordAuth(ctx context.Context, result string) {
	if p.metrics != nil {
		p.metrics.RecordOAuthAuth(ctx, result)
	}
}
