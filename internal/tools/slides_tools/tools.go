package slides_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/slides"
)

// getSlidesClient retrieves or creates a Slides client for the specified account
func getSlidesClient(ctx context.Context, account string, sc *server.ServerContext) (*slides.Client, error) {
	client := sc.SlidesClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !slides.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = slides.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Slides client for account %s: %w", account, err)
		}
		sc.SetSlidesClientForAccount(account, client)
	}
	return client, nil
}

// presentationIDFromArgs extracts the presentation_id argument common to
// most tools
func presentationIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["presentation_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("presentation_id is required")
	}
	return id, nil
}

// slideIDFromArgs extracts the slide_id argument shared by the per-slide
// tools
func slideIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["slide_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("slide_id is required")
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

// numberOrDefault returns a numeric argument, falling back to def when the
// argument is absent. Element positions and sizes all work this way.
func numberOrDefault(args map[string]interface{}, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

// orNA substitutes N/A for values the API did not send
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RegisterSlidesTools registers all Google Slides-related tools with the MCP server
func RegisterSlidesTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Creation and whole-presentation reads
	if err := registerPresentationTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register presentation tools: %w", err)
	}

	// Slide management and speaker notes
	if err := registerSlideTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register slide tools: %w", err)
	}

	// Text boxes, images, shapes and text edits
	if err := registerContentTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register content tools: %w", err)
	}

	return nil
}
