package forms

import (
	"context"
	"fmt"

	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Forms API service for a single account
type Client struct {
	formsService *forms.Service
	account      string // The account this client is associated with
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

// NewClientForAccountWithProvider creates a new Forms client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	formsSvc, err := forms.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Forms service: %w", err)
	}

	return &Client{
		formsService: formsSvc,
		account:      account,
	}, nil
}

// NewClientForAccount creates a new Forms client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Forms client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithService wraps an existing Forms service. Tests use this to
// point the client at a stub backend.
func NewClientWithService(formsSvc *forms.Service, account string) *Client {
	return &Client{
		formsService: formsSvc,
		account:      account,
	}
}

// CreateForm creates a new form. Forms can only be created with a title; the
// optional documentTitle names the file in Drive. Everything else is added
// through batchUpdate afterwards.
func (c *Client) CreateForm(ctx context.Context, title, documentTitle string) (*forms.Form, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	form := &forms.Form{
		Info: &forms.Info{Title: title},
	}
	if documentTitle != "" {
		form.Info.DocumentTitle = documentTitle
	}

	created, err := c.formsService.Forms.Create(form).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	return created, nil
}

// GetForm retrieves a form with its items and settings
func (c *Client) GetForm(ctx context.Context, formID string) (*forms.Form, error) {
	if formID == "" {
		return nil, fmt.Errorf("formID is required")
	}

	form, err := c.formsService.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form %s: %w", formID, err)
	}

	return form, nil
}
