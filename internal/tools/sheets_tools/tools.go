package sheets_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/sheets"
)

// getSheetsClient retrieves or creates a Sheets client for the specified account
func getSheetsClient(ctx context.Context, account string, sc *server.ServerContext) (*sheets.Client, error) {
	client := sc.SheetsClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !sheets.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = sheets.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Sheets client for account %s: %w", account, err)
		}
		sc.SetSheetsClientForAccount(account, client)
	}
	return client, nil
}

// spreadsheetIDFromArgs extracts the spreadsheet_id argument common to most
// tools
func spreadsheetIDFromArgs(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id, ok := args["spreadsheet_id"].(string)
	if !ok || id == "" {
		return "", mcp.NewToolResultError("spreadsheet_id is required")
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

// cellRangeFromArgs assembles the sheet_id, start_row, end_row, start_col
// and end_col arguments shared by the range-based tools
func cellRangeFromArgs(args map[string]interface{}) (sheets.CellRange, *mcp.CallToolResult) {
	var rng sheets.CellRange
	var errResult *mcp.CallToolResult

	if rng.SheetID, errResult = requiredInt(args, "sheet_id"); errResult != nil {
		return rng, errResult
	}
	if rng.StartRow, errResult = requiredInt(args, "start_row"); errResult != nil {
		return rng, errResult
	}
	if rng.EndRow, errResult = requiredInt(args, "end_row"); errResult != nil {
		return rng, errResult
	}
	if rng.StartCol, errResult = requiredInt(args, "start_col"); errResult != nil {
		return rng, errResult
	}
	if rng.EndCol, errResult = requiredInt(args, "end_col"); errResult != nil {
		return rng, errResult
	}
	return rng, nil
}

// rowsFromArgs decodes the JSON-encoded values argument into rows of cells.
// Malformed JSON comes back as a ❌ text result without reaching the API.
func rowsFromArgs(args map[string]interface{}) ([][]interface{}, *mcp.CallToolResult) {
	raw, ok := args["values"].(string)
	if !ok || raw == "" {
		return nil, mcp.NewToolResultError("values is required")
	}

	var rows [][]interface{}
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, mcp.NewToolResultText("❌ Error: values must be valid JSON array")
	}
	return rows, nil
}

// orNA substitutes N/A for values the API did not send
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RegisterSheetsTools registers all Google Sheets-related tools with the MCP server
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Creation, cell data and metadata
	if err := registerDataTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register data tools: %w", err)
	}

	// Sheet tab management
	if err := registerTabTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register tab tools: %w", err)
	}

	// Row and column dimensions
	if err := registerDimensionTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register dimension tools: %w", err)
	}

	// Cell formatting, merges and borders
	if err := registerFormatTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register format tools: %w", err)
	}

	// Validation, charts, filters and range operations
	if err := registerEditTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register edit tools: %w", err)
	}

	return nil
}
