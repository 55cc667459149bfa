package drive_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive_v3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/drive"
	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// readOnlyDriveTools are registered in every mode
var readOnlyDriveTools = []string{
	"drive_list_shared_drives",
	"drive_list_files",
	"drive_search_files",
	"drive_get_file_metadata",
	"drive_list_revisions",
	"drive_download_file",
	"drive_export_file",
	"drive_list_permissions",
	"drive_list_trashed_files",
}

// writeDriveTools are only registered when the server allows mutations
var writeDriveTools = []string{
	"drive_create_folder",
	"drive_upload_file",
	"drive_delete_file",
	"drive_copy_file",
	"drive_move_file",
	"drive_rename_file",
	"drive_star_file",
	"drive_update_description",
	"drive_create_shortcut",
	"drive_share_file",
	"drive_make_public",
	"drive_remove_permission",
	"drive_restore_file",
	"drive_empty_trash",
}

// newToolServer builds an MCP server whose default-account Drive client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := drive_v3.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)
	sc.SetDriveClientForAccount("default", drive.NewClientWithService(svc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterDriveTools(s, sc, false); err != nil {
		t.Fatalf("RegisterDriveTools() error = %v", err)
	}
	return s
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

func TestRegisterDriveTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterDriveTools(s, sc, false))

	expected := append([]string{}, readOnlyDriveTools...)
	expected = append(expected, writeDriveTools...)
	assert.ElementsMatch(t, expected, listToolNames(t, s))
}

func TestRegisterDriveToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterDriveTools(s, sc, true))

	assert.ElementsMatch(t, readOnlyDriveTools, listToolNames(t, s))
}

// TestCommonGetAccountFromArgs verifies that the drive_tools package
// correctly uses the shared common.GetAccountFromArgs function.
// Comprehensive tests for GetAccountFromArgs are in internal/tools/common/account_test.go
func TestCommonGetAccountFromArgs(t *testing.T) {
	ctx := context.Background()

	args := map[string]interface{}{
		"account": "test-account",
	}
	result := common.GetAccountFromArgs(ctx, args)
	if result != "test-account" {
		t.Errorf("GetAccountFromArgs() = %v, expected test-account", result)
	}

	// OAuth user identity wins over the account argument
	userInfo := &oauth.GoogleUserInfo{
		Email: "oauth-user@example.com",
	}
	ctxWithUser := oauth.ContextWithUserInfo(context.Background(), userInfo)
	result = common.GetAccountFromArgs(ctxWithUser, args)
	if result != "oauth-user@example.com" {
		t.Errorf("GetAccountFromArgs() with OAuth = %v, expected oauth-user@example.com", result)
	}
}
