package sheets

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Sheets API service for a single account. A Drive
// service rides along because spreadsheets are created through the Drive API.
type Client struct {
	sheetsService *sheets.Service
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

// NewClientForAccountWithProvider creates a new Sheets client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		sheetsService: sheetsSvc,
		driveService:  driveSvc,
		account:       account,
	}, nil
}

// NewClientForAccount creates a new Sheets client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Sheets client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithServices wraps existing Sheets and Drive services. Tests use
// this to point the client at a stub backend.
func NewClientWithServices(sheetsSvc *sheets.Service, driveSvc *drive.Service, account string) *Client {
	return &Client{
		sheetsService: sheetsSvc,
		driveService:  driveSvc,
		account:       account,
	}
}

// CreateSpreadsheet creates an empty Google Sheet, optionally inside a
// parent folder. Creation goes through the Drive API so the spreadsheet can
// be placed on a shared drive.
func (c *Client) CreateSpreadsheet(ctx context.Context, title, parentID, driveID string) (*CreatedSpreadsheet, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	file := &drive.File{
		Name:     title,
		MimeType: "application/vnd.google-apps.spreadsheet",
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
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return &CreatedSpreadsheet{
		ID:    created.Id,
		Title: created.Name,
		Link:  created.WebViewLink,
	}, nil
}

// GetSpreadsheet retrieves spreadsheet metadata: the title plus the
// properties of every sheet tab. Cell data is not included.
func (c *Client) GetSpreadsheet(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	spreadsheet, err := c.sheetsService.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	return spreadsheet, nil
}
