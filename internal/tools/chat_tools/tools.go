package chat_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/chat"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getChatClient retrieves or creates a Chat client for the specified account
func getChatClient(ctx context.Context, account string, sc *server.ServerContext) (*chat.Client, error) {
	client := sc.ChatClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !chat.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = chat.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Chat client for account %s: %w", account, err)
		}
		sc.SetChatClientForAccount(account, client)
	}
	return client, nil
}

// spaceIDFromArgs extracts the space_id argument shared by the space-scoped
// tools
func spaceIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["space_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("space_id is required")
	}
	return id, nil
}

// messageIDFromArgs extracts the message_id argument shared by the
// message-scoped tools
func messageIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["message_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("message_id is required")
	}
	return id, nil
}

// intOrDefault returns a whole-number argument, falling back to def when
// the argument is absent
func intOrDefault(args map[string]interface{}, key string, def int64) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return def
}

// orDefault substitutes def for values the API did not send
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// RegisterChatTools registers all Google Chat-related tools with the MCP server
func RegisterChatTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Space listing, creation and settings
	if err := registerSpaceTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register space tools: %w", err)
	}

	// Sending, reading, editing and deleting messages
	if err := registerMessageTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register message tools: %w", err)
	}

	// Space membership
	if err := registerMemberTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register member tools: %w", err)
	}

	// Emoji reactions
	if err := registerReactionTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register reaction tools: %w", err)
	}

	return nil
}
