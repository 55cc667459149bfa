package docs

import (
	"context"
	"fmt"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Docs API service for a single account. A Drive
// service rides along because documents are created through the Drive API.
type Client struct {
	docsService  *docs.Service
	driveService *drive.Service
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

// NewClientForAccountWithProvider creates a new Docs client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	docsSvc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		docsService:  docsSvc,
		driveService: driveSvc,
		account:      account,
	}, nil
}

// NewClientForAccount creates a new Docs client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Docs client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithServices wraps existing Docs and Drive services. Tests use
// this to point the client at a stub backend.
func NewClientWithServices(docsSvc *docs.Service, driveSvc *drive.Service, account string) *Client {
	return &Client{
		docsService:  docsSvc,
		driveService: driveSvc,
		account:      account,
	}
}

// CreateDocument creates an empty Google Doc, optionally inside a parent
// folder. Creation goes through the Drive API so the document can be placed
// on a shared drive.
func (c *Client) CreateDocument(ctx context.Context, title, parentID, driveID string) (*CreatedDocument, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	file := &drive.File{
		Name:     title,
		MimeType: "application/vnd.google-apps.document",
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
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	return &CreatedDocument{
		ID:    created.Id,
		Title: created.Name,
		Link:  created.WebViewLink,
	}, nil
}

// GetDocument retrieves a Google Doc by ID. All tabs are fetched so that
// multi-tab documents come back with their full content under doc.Tabs;
// legacy single-body documents keep their content under doc.Body.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).
		Context(ctx).
		IncludeTabsContent(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return doc, nil
}
