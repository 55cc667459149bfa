package docs_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/docs"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getDocsClient retrieves or creates a Docs client for the specified account
func getDocsClient(ctx context.Context, account string, sc *server.ServerContext) (*docs.Client, error) {
	client := sc.DocsClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !docs.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = docs.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Docs client for account %s: %w", account, err)
		}
		sc.SetDocsClientForAccount(account, client)
	}
	return client, nil
}

// documentIDFromArgs extracts the document_id argument common to every tool
func documentIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["document_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("document_id is required")
	}
	return id, nil
}

// requiredInt extracts a required whole-number argument
func requiredInt(args map[string]interface{}, key string) (int64, *mcp.CallToolResult) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, mcp.NewToolResultError(key + " is required")
	}
	return int64(v), nil
}

// orNA substitutes N/A for values the API did not send
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RegisterDocsTools registers all Google Docs-related tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Creation and reading
	if err := registerDocumentTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register document tools: %w", err)
	}

	// Text editing and character formatting
	if err := registerTextTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register text tools: %w", err)
	}

	// Tables, images, lists and document structure
	if err := registerStructureTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register structure tools: %w", err)
	}

	return nil
}
