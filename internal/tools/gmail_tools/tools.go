package gmail_tools

import (
	"context"
	"errors"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getGmailClient retrieves or creates a Gmail client for the specified account
func getGmailClient(ctx context.Context, account string, sc *server.ServerContext) (*gmail.Client, error) {
	client := sc.GmailClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !gmail.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = gmail.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Gmail client for account %s: %w", account, err)
		}
		sc.SetGmailClientForAccount(account, client)
	}
	return client, nil
}

// RegisterGmailTools registers all Gmail-related tools with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Message search/read and label state changes
	if err := registerMessageTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register message tools: %w", err)
	}

	// Send, reply, forward, attachments out
	if err := registerComposeTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register compose tools: %w", err)
	}

	// Label management
	if err := registerLabelTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register label tools: %w", err)
	}

	// Thread listing and reading (read-only)
	if err := registerThreadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register thread tools: %w", err)
	}

	// Draft lifecycle
	if err := registerDraftTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register draft tools: %w", err)
	}

	// Attachment listing and download (read-only)
	if err := registerAttachmentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register attachment tools: %w", err)
	}

	// Batch modify/delete over ID lists
	if err := registerBatchTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register batch tools: %w", err)
	}

	// Filter management
	if err := registerFilterTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register filter tools: %w", err)
	}

	// Unsubscribe helpers
	if err := registerUnsubscribeTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register unsubscribe tools: %w", err)
	}

	return nil
}
