package docs_tools

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
	docs_v1 "google.golang.org/api/docs/v1"
	drive_v3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/docs"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// readOnlyDocsTools are registered in every mode
var readOnlyDocsTools = []string{
	"docs_read",
}

// writeDocsTools are only registered when the server allows mutations
var writeDocsTools = []string{
	"docs_create",
	"docs_append_text",
	"docs_insert_text",
	"docs_replace_text",
	"docs_format_text",
	"docs_add_hyperlink",
	"docs_delete_content",
	"docs_insert_table",
	"docs_update_table_cell",
	"docs_insert_image",
	"docs_create_bulleted_list",
	"docs_create_numbered_list",
	"docs_set_heading_style",
	"docs_add_page_break",
	"docs_add_bookmark",
}

// newToolServer builds an MCP server whose default-account Docs client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	docsSvc, err := docs_v1.NewService(context.Background(),
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
	sc.SetDocsClientForAccount("default", docs.NewClientWithServices(docsSvc, driveSvc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterDocsTools(s, sc, false); err != nil {
		t.Fatalf("RegisterDocsTools() error = %v", err)
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
		respondJSON(t, w, map[string]any{"documentId": "doc1"})
	})
}

// decodeBatch parses a captured batchUpdate body
func decodeBatch(t *testing.T, body []byte) *docs_v1.BatchUpdateDocumentRequest {
	t.Helper()
	var req docs_v1.BatchUpdateDocumentRequest
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

func TestRegisterDocsTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterDocsTools(s, sc, false))

	expected := append([]string{}, readOnlyDocsTools...)
	expected = append(expected, writeDocsTools...)
	assert.ElementsMatch(t, expected, listToolNames(t, s))
}

func TestRegisterDocsToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterDocsTools(s, sc, true))

	assert.ElementsMatch(t, readOnlyDocsTools, listToolNames(t, s))
}

func TestRequiredInt(t *testing.T) {
	got, errResult := requiredInt(map[string]interface{}{"index": 5.0}, "index")
	require.Nil(t, errResult)
	assert.Equal(t, int64(5), got)

	_, errResult = requiredInt(map[string]interface{}{}, "index")
	require.NotNil(t, errResult)
	require.Len(t, errResult.Content, 1)
	assert.Equal(t, "index is required", errResult.Content[0].(mcp.TextContent).Text)
}
