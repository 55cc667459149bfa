package gmail_tools

import (
	"context"
	"encoding/json"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// listToolNames asks the server for its registered tools over JSON-RPC
func listToolNames(t *testing.T, s *mcpserver.MCPServer) []string {
	t.Helper()

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
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

	names := make([]string, 0, len(parsed.Result.Tools))
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
	}
	return names
}

var readOnlyGmailTools = []string{
	"gmail_search",
	"gmail_read",
	"gmail_list_labels",
	"gmail_list_threads",
	"gmail_get_thread",
	"gmail_list_drafts",
	"gmail_list_attachments",
	"gmail_get_attachment",
	"gmail_extract_doc_links",
	"gmail_list_filters",
	"gmail_get_unsubscribe_info",
}

var writeGmailTools = []string{
	"gmail_send",
	"gmail_reply",
	"gmail_forward",
	"gmail_send_with_attachment",
	"gmail_mark_read",
	"gmail_mark_unread",
	"gmail_archive",
	"gmail_move_to_inbox",
	"gmail_star",
	"gmail_unstar",
	"gmail_mark_important",
	"gmail_mark_not_important",
	"gmail_add_label",
	"gmail_remove_label",
	"gmail_delete",
	"gmail_untrash",
	"gmail_permanently_delete",
	"gmail_create_label",
	"gmail_delete_label",
	"gmail_create_draft",
	"gmail_send_draft",
	"gmail_delete_draft",
	"gmail_batch_modify",
	"gmail_batch_delete",
	"gmail_create_filter",
	"gmail_delete_filter",
	"gmail_unsubscribe_via_http",
}

func TestRegisterGmailTools(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterGmailTools(s, sc, false))

	want := append([]string{}, readOnlyGmailTools...)
	want = append(want, writeGmailTools...)
	assert.ElementsMatch(t, want, listToolNames(t, s))
}

func TestRegisterGmailToolsReadOnly(t *testing.T) {
	sc := server.NewServerContext(context.Background())
	defer sc.Shutdown()

	s := mcpserver.NewMCPServer("test", "0.0.0")
	require.NoError(t, RegisterGmailTools(s, sc, true))

	assert.ElementsMatch(t, readOnlyGmailTools, listToolNames(t, s))
}

func TestSplitCommaList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single label",
			input:    "Label_1",
			expected: []string{"Label_1"},
		},
		{
			name:     "multiple labels",
			input:    "Label_1,Label_2,Label_3",
			expected: []string{"Label_1", "Label_2", "Label_3"},
		},
		{
			name:     "with spaces",
			input:    "Label_1, Label_2 , Label_3",
			expected: []string{"Label_1", "Label_2", "Label_3"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "trailing comma",
			input:    "INBOX,UNREAD,",
			expected: []string{"INBOX", "UNREAD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitCommaList(tt.input))
		})
	}
}

func TestParseMessageIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    []string
		wantErr bool
	}{
		{
			name:  "comma separated string",
			input: "m1, m2,m3",
			want:  []string{"m1", "m2", "m3"},
		},
		{
			name:  "array of IDs",
			input: []interface{}{"m1", "m2"},
			want:  []string{"m1", "m2"},
		},
		{
			name:    "missing",
			input:   nil,
			wantErr: true,
		},
		{
			name:    "only commas",
			input:   ",,",
			wantErr: true,
		},
		{
			name:    "wrong type",
			input:   42.0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseMessageIDs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
