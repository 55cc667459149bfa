package forms_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/forms"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getFormsClient retrieves or creates a Forms client for the specified account
func getFormsClient(ctx context.Context, account string, sc *server.ServerContext) (*forms.Client, error) {
	client := sc.FormsClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !forms.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = forms.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Forms client for account %s: %w", account, err)
		}
		sc.SetFormsClientForAccount(account, client)
	}
	return client, nil
}

// formIDFromArgs extracts the form_id argument common to all tools
func formIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["form_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("form_id is required")
	}
	return id, nil
}

// questionTextFromArgs extracts the question_text argument shared by the
// question tools
func questionTextFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	text, ok := args["question_text"].(string)
	if !ok || text == "" {
		return "", mcp.NewToolResultError("question_text is required")
	}
	return text, nil
}

// requiredInt extracts a required whole-number argument
func requiredInt(args map[string]interface{}, key string) (int64, *mcp.CallToolResult) {
	v, ok := args[key].(float64)
	if !ok {
		return 0, mcp.NewToolResultError(key + " is required")
	}
	return int64(v), nil
}

// intOrDefault returns a whole-number argument, falling back to def when
// the argument is absent
func intOrDefault(args map[string]interface{}, key string, def int64) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return def
}

// boolOrDefault returns a boolean argument, falling back to def when the
// argument is absent
func boolOrDefault(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
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

// RegisterFormsTools registers all Google Forms-related tools with the MCP server
func RegisterFormsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Form creation, inspection and settings
	if err := registerFormTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register form tools: %w", err)
	}

	// Question insertion
	if err := registerQuestionTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register question tools: %w", err)
	}

	// Response reading
	if err := registerResponseTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register response tools: %w", err)
	}

	return nil
}
