package drive_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/drive"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getDriveClient retrieves or creates a Drive client for the specified account
func getDriveClient(ctx context.Context, account string, sc *server.ServerContext) (*drive.Client, error) {
	client := sc.DriveClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !drive.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = drive.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
		}
		sc.SetDriveClientForAccount(account, client)
	}
	return client, nil
}

// fileIcon returns the listing icon for a file: folders get 📁, everything else 📄
func fileIcon(mimeType string) string {
	if mimeType == drive.FolderMimeType {
		return "📁"
	}
	return "📄"
}

// orNA substitutes N/A for values Drive did not send
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// fmtTime renders a Drive timestamp, or N/A when Drive sent none
func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

// fmtTimePtr renders an optional Drive timestamp
func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}

// RegisterDriveTools registers all Google Drive-related tools with the MCP server
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Listing, search, metadata and revisions (read-only)
	if err := registerListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register list tools: %w", err)
	}

	// Upload, download, export and file manipulation
	if err := registerFileTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register file tools: %w", err)
	}

	// Folder creation
	if err := registerFolderTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register folder tools: %w", err)
	}

	// Permission/sharing management
	if err := registerShareTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register share tools: %w", err)
	}

	// Trash handling
	if err := registerTrashTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register trash tools: %w", err)
	}

	return nil
}
