package sheets_tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive_v3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheets_v4 "google.golang.org/api/sheets/v4"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/sheets"
)

// readOnlySheetsTools are registered in every mode
var readOnlySheetsTools = []string{
	"sheets_read",
	"sheets_get_metadata",
}

// writeSheetsTools are only registered when the server allows mutations
var writeSheetsTools = []string{
	"sheets_create",
	"sheets_write",
	"sheets_append",
	"sheets_clear",
	"sheets_create_sheet_tab",
	"sheets_delete_sheet_tab",
	"sheets_rename_sheet_tab",
	"sheets_duplicate_sheet_tab",
	"sheets_move_sheet_tab",
	"sheets_hide_sheet_tab",
	"sheets_copy_to_spreadsheet",
	"sheets_insert_rows",
	"sheets_insert_columns",
	"sheets_delete_rows",
	"sheets_delete_columns",
	"sheets_resize_rows",
	"sheets_resize_columns",
	"sheets_auto_resize_columns",
	"sheets_hide_rows",
	"sheets_hide_columns",
	"sheets_freeze_rows_columns",
	"sheets_format_cells",
	"sheets_merge_cells",
	"sheets_unmerge_cells",
	"sheets_add_borders",
	"sheets_set_number_format",
	"sheets_add_conditional_format",
	"sheets_add_note",
	"sheets_add_data_validation",
	"sheets_copy_paste",
	"sheets_find_replace",
	"sheets_sort_range",
	"sheets_create_named_range",
	"sheets_protect_range",
	"sheets_create_chart",
	"sheets_create_filter",
}

// newToolServer builds an MCP server whose default-account Sheets client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sheetsSvc, err := sheets_v4.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	driveSvc, err := drive_v3.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)
	sc.SetSheetsClientForAccount("default", sheets.NewClientWithServices(sheetsSvc, driveSvc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterSheetsTools(s, sc, false); err != nil {
		t.Fatalf("RegisterSheetsTools() error = %v", err)
	}
	return s
}

// captureBatchServer returns a tool server whose backend records batchUpdate
// bodies and replies with an empty response
func captureBatchServer(t *testing.T, captured *[]byte) *mcpserver.MCPServer {
	t.Helper()
	return newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*captured = body
		respondJSON(t, w, map[string]any{"spreadsheetId": "s1"})
	})
}

// decodeBatch parses a captured batchUpdate body
func decodeBatch(t *testing.T, body []byte) *sheets_v4.BatchUpdateSpreadsheetRequest {
	t.Helper()
	var req sheets_v4.BatchUpdateSpreadsheetRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to decode batchUpdate body: %v", err)
	}
	return &req
}

// callTool invokes a registered tool over JSON-RPC and returns the text of
// the first content item along with the isError flag
func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	req, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp := s.HandleMessage(context.Background(), req)
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var parsed struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if parsed.Error != nil {
		t.Fatalf("rpc error calling %s: %s", name, parsed.Error.Message)
	}
	if len(parsed.Result.Content) == 0 {
		t.Fatalf("no content in %s result", name)
	}
	return parsed.Result.Content[0].Text, parsed.Result.IsError
}

func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

// listToolNames returns the names of all registered tools
func listToolNames(t *testing.T, s *mcpserver.MCPServer) []string {
	t.Helper()

	resp := s.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))

	names := make([]string, len(parsed.Result.Tools))
	for i, tool := range parsed.Result.Tools {
		names[i] = tool.Name
	}
	return names
}

func TestRegisterSheetsTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterSheetsTools(s, sc, false))

	expected := append([]string{}, readOnlySheetsTools...)
	expected = append(expected, writeSheetsTools...)
	assert.ElementsMatch(t, expected, listToolNames(t, s))
}

func TestRegisterSheetsToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterSheetsTools(s, sc, true))

	assert.ElementsMatch(t, readOnlySheetsTools, listToolNames(t, s))
}

func TestCellRangeFromArgs(t *testing.T) {
	rng, errResult := cellRangeFromArgs(map[string]interface{}{
		"sheet_id":  0.0,
		"start_row": 1.0,
		"end_row":   5.0,
		"start_col": 2.0,
		"end_col":   4.0,
	})
	require.Nil(t, errResult)
	assert.Equal(t, sheets.CellRange{SheetID: 0, StartRow: 1, EndRow: 5, StartCol: 2, EndCol: 4}, rng)

	_, errResult = cellRangeFromArgs(map[string]interface{}{
		"sheet_id": 0.0,
		"end_row":  5.0,
	})
	require.NotNil(t, errResult)
	require.Len(t, errResult.Content, 1)
	assert.Equal(t, "start_row is required", errResult.Content[0].(mcp.TextContent).Text)
}

func TestRequiredInt(t *testing.T) {
	got, errResult := requiredInt(map[string]interface{}{"sheet_id": 5.0}, "sheet_id")
	require.Nil(t, errResult)
	assert.Equal(t, int64(5), got)

	_, errResult = requiredInt(map[string]interface{}{}, "sheet_id")
	require.NotNil(t, errResult)
	require.Len(t, errResult.Content, 1)
	assert.Equal(t, "sheet_id is required", errResult.Content[0].(mcp.TextContent).Text)
}
