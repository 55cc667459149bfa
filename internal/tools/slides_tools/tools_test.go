package slides_tools

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
	drive_v3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	slides_v1 "google.golang.org/api/slides/v1"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/slides"
)

// readOnlySlidesTools are registered in every mode
var readOnlySlidesTools = []string{
	"slides_get_details",
	"slides_read",
}

// writeSlidesTools are only registered when the server allows mutations
var writeSlidesTools = []string{
	"slides_create",
	"slides_add_slide",
	"slides_delete_slide",
	"slides_duplicate_slide",
	"slides_add_speaker_notes",
	"slides_add_text",
	"slides_insert_image",
	"slides_add_shape",
	"slides_replace_text",
	"slides_format_text",
}

// newToolServer builds an MCP server whose default-account Slides client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	slidesSvc, err := slides_v1.NewService(context.Background(),
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
	sc.SetSlidesClientForAccount("default", slides.NewClientWithServices(slidesSvc, driveSvc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterSlidesTools(s, sc, false); err != nil {
		t.Fatalf("RegisterSlidesTools() error = %v", err)
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
		respondJSON(t, w, map[string]any{"presentationId": "p1"})
	})
}

// decodeBatch parses a captured batchUpdate body
func decodeBatch(t *testing.T, body []byte) *slides_v1.BatchUpdatePresentationRequest {
	t.Helper()
	var req slides_v1.BatchUpdatePresentationRequest
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

func TestRegisterSlidesTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterSlidesTools(s, sc, false))

	expected := append([]string{}, readOnlySlidesTools...)
	expected = append(expected, writeSlidesTools...)
	assert.ElementsMatch(t, expected, listToolNames(t, s))
}

func TestRegisterSlidesToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterSlidesTools(s, sc, true))

	assert.ElementsMatch(t, readOnlySlidesTools, listToolNames(t, s))
}

func TestNumberOrDefault(t *testing.T) {
	args := map[string]interface{}{"x": 250.0}
	assert.Equal(t, 250.0, numberOrDefault(args, "x", 100))
	assert.Equal(t, 100.0, numberOrDefault(args, "y", 100))
}
