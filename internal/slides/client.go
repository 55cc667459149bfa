package slides

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	slides "google.golang.org/api/slides/v1"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Slides API service for a single account. A Drive
// service rides along because presentations are created through the Drive
// API.
type Client struct {
	slidesService *slides.Service
	driveService  *drive.Service
	account       string // The account this client is associated with
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

// NewClientForAccountWithProvider creates a new Slides client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	slidesSvc, err := slides.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Slides service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		slidesService: slidesSvc,
		driveService:  driveSvc,
		account:       account,
	}, nil
}

// NewClientForAccount creates a new Slides client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Slides client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithServices wraps existing Slides and Drive services. Tests use
// this to point the client at a stub backend.
func NewClientWithServices(slidesSvc *slides.Service, driveSvc *drive.Service, account string) *Client {
	return &Client{
		slidesService: slidesSvc,
		driveService:  driveSvc,
		account:       account,
	}
}

// CreatePresentation creates an empty Google Slides presentation, optionally
// inside a parent folder. Creation goes through the Drive API so the
// presentation can be placed on a shared drive.
func (c *Client) CreatePresentation(ctx context.Context, title, parentID, driveID string) (*CreatedPresentation, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	file := &drive.File{
		Name:     title,
		MimeType: "application/vnd.google-apps.presentation",
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	call := c.driveService.Files.Create(file).
		Context(ctx).
		Fields("id, name, webViewLink")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create presentation: %w", err)
	}

	return &CreatedPresentation{
		ID:    created.Id,
		Title: created.Name,
		Link:  created.WebViewLink,
	}, nil
}

// GetPresentation retrieves a presentation with its slides and their page
// elements
func (c *Client) GetPresentation(ctx context.Context, presentationID string) (*slides.Presentation, error) {
	if presentationID == "" {
		return nil, fmt.Errorf("presentationID is required")
	}

	presentation, err := c.slidesService.Presentations.Get(presentationID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get presentation %s: %w", presentationID, err)
	}

	return presentation, nil
}
