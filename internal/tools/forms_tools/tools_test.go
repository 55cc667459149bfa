package forms_tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	forms_v1 "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/forms"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// readOnlyFormsTools are registered in every mode
var readOnlyFormsTools = []string{
	"forms_get",
	"forms_get_response",
	"forms_list_responses",
}

// writeFormsTools are only registered when the server allows mutations
var writeFormsTools = []string{
	"forms_create",
	"forms_update_settings",
	"forms_delete_question",
	"forms_add_text_question",
	"forms_add_paragraph_text",
	"forms_add_multiple_choice",
	"forms_add_checkbox",
	"forms_add_dropdown",
	"forms_add_scale",
	"forms_add_date",
	"forms_add_time",
}

// newToolServer builds an MCP server whose default-account Forms client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	formsSvc, err := forms_v1.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)
	sc.SetFormsClientForAccount("default", forms.NewClientWithService(formsSvc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterFormsTools(s, sc, false); err != nil {
		t.Fatalf("RegisterFormsTools() error = %v", err)
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
		respondJSON(t, w, map[string]any{})
	})
}

// decodeBatch parses a captured batchUpdate body
func decodeBatch(t *testing.T, body []byte) *forms_v1.BatchUpdateFormRequest {
	t.Helper()
	var req forms_v1.BatchUpdateFormRequest
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

func TestRegisterFormsTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterFormsTools(s, sc, false))

	expected := append([]string{}, readOnlyFormsTools...)
	expected = append(expected, writeFormsTools...)
	assert.ElementsMatch(t, expected, listToolNames(t, s))
}

func TestRegisterFormsToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterFormsTools(s, sc, true))

	assert.ElementsMatch(t, readOnlyFormsTools, listToolNames(t, s))
}

func TestSplitCommaList(t *testing.T) {
	assert.Equal(t, []string{"Red", "Green", "Blue"}, splitCommaList("Red, Green ,Blue"))
	assert.Equal(t, []string{"Solo"}, splitCommaList("Solo,,"))
	assert.Empty(t, splitCommaList(""))
}

func TestBoolOrDefault(t *testing.T) {
	args := map[string]interface{}{"on": false}
	assert.False(t, boolOrDefault(args, "on", true))
	assert.True(t, boolOrDefault(args, "missing", true))
}

func TestIntOrDefault(t *testing.T) {
	args := map[string]interface{}{"low": 0.0}
	assert.Equal(t, int64(0), intOrDefault(args, "low", 1))
	assert.Equal(t, int64(5), intOrDefault(args, "high", 5))
}
