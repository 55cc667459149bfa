package chat

import (
	"context"
	"fmt"

	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Chat service for a single account
type Client struct {
	svc     *chat.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Chat client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	svc, err := chat.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chat service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Chat client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Chat client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithService wraps an existing Chat service. Tests use this to
// point the client at a stub backend.
func NewClientWithService(svc *chat.Service, account string) *Client {
	return &Client{
		svc:     svc,
		account: account,
	}
}
