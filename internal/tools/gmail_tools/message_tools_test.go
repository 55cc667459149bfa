package gmail_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	gmail_v1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// newToolServer builds an MCP server whose default-account Gmail client talks
// to the given stub backend
func newToolServer(t *testing.T, handler http.HandlerFunc) *mcpserver.MCPServer {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gmail_v1.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	sc := server.NewServerContext(context.Background())
	t.Cleanup(sc.Shutdown)
	sc.SetGmailClientForAccount("default", gmail.NewClientWithService(svc, "default"))

	s := mcpserver.NewMCPServer("test", "0.0.0")
	if err := RegisterGmailTools(s, sc, false); err != nil {
		t.Fatalf("RegisterGmailTools() error = %v", err)
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

func b64urlEnc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestGmailSendTool(t *testing.T) {
	var rawMessage string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/send") {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var body struct {
			Raw string `json:"raw"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode send body: %v", err)
		}
		decoded, err := base64.URLEncoding.DecodeString(body.Raw)
		if err != nil {
			t.Errorf("decode raw message: %v", err)
		}
		rawMessage = string(decoded)
		respondJSON(t, w, map[string]any{"id": "123"})
	})

	text, isErr := callTool(t, s, "gmail_send", map[string]any{
		"to":      "a@b.com",
		"subject": "Greetings",
		"body":    "Hello there",
	})

	if isErr {
		t.Fatalf("gmail_send returned error: %s", text)
	}
	for _, want := range []string{"✅ Email sent!", "Message ID: 123", "To: a@b.com", "Subject: Greetings"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
	for _, want := range []string{"To: a@b.com", "Subject: Greetings", "Hello there"} {
		if !strings.Contains(rawMessage, want) {
			t.Errorf("sent message missing %q:\n%s", want, rawMessage)
		}
	}
}

func TestGmailSendToolMissingRecipient(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "gmail_send", map[string]any{
		"subject": "Greetings",
		"body":    "Hello there",
	})

	if !isErr {
		t.Fatalf("expected error result, got: %s", text)
	}
	if !strings.Contains(text, "to is required") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestGmailSearchTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages"):
			if q := r.URL.Query().Get("q"); q != "is:unread" {
				t.Errorf("query = %q, want is:unread", q)
			}
			respondJSON(t, w, map[string]any{"messages": []map[string]any{{"id": "m1"}}})
		case strings.HasSuffix(r.URL.Path, "/messages/m1"):
			respondJSON(t, w, map[string]any{
				"id": "m1",
				"payload": map[string]any{
					"headers": []map[string]any{
						{"name": "Subject", "value": "Release notes"},
						{"name": "From", "value": "news@example.com"},
						{"name": "Date", "value": "Mon, 2 Jun 2025 10:00:00 +0000"},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	text, isErr := callTool(t, s, "gmail_search", map[string]any{"query": "is:unread"})

	if isErr {
		t.Fatalf("gmail_search returned error: %s", text)
	}
	for _, want := range []string{"Found 1 message(s):", "📧 Release notes", "From: news@example.com", "ID: m1"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGmailSearchToolNoResults(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{})
	})

	text, isErr := callTool(t, s, "gmail_search", map[string]any{"query": "from:nobody"})

	if isErr {
		t.Fatalf("gmail_search returned error: %s", text)
	}
	if text != "No messages found for query: from:nobody" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestGmailReadTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1") {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"headers": []map[string]any{
					{"name": "Subject", "value": "Lunch"},
					{"name": "From", "value": "alice@example.com"},
					{"name": "To", "value": "bob@example.com"},
					{"name": "Date", "value": "Tue, 3 Jun 2025 12:00:00 +0000"},
				},
				"body": map[string]any{"data": b64urlEnc("Pizza at noon?")},
			},
		})
	})

	text, isErr := callTool(t, s, "gmail_read", map[string]any{"message_id": "m1"})

	if isErr {
		t.Fatalf("gmail_read returned error: %s", text)
	}
	for _, want := range []string{
		"Subject: Lunch",
		"From: alice@example.com",
		"To: bob@example.com",
		strings.Repeat("-", 60),
		"Pizza at noon?",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGmailReadToolMissingArg(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "gmail_read", map[string]any{})

	if !isErr {
		t.Fatalf("expected error result, got: %s", text)
	}
	if !strings.Contains(text, "message_id is required") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestGmailMarkReadTool(t *testing.T) {
	var modifyReq gmail_v1.ModifyMessageRequest
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1/modify") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&modifyReq); err != nil {
			t.Errorf("decode modify body: %v", err)
		}
		respondJSON(t, w, map[string]any{"id": "m1"})
	})

	text, isErr := callTool(t, s, "gmail_mark_read", map[string]any{"message_id": "m1"})

	if isErr {
		t.Fatalf("gmail_mark_read returned error: %s", text)
	}
	if text != "✅ Marked message m1 as read" {
		t.Errorf("unexpected result: %q", text)
	}
	if len(modifyReq.RemoveLabelIds) != 1 || modifyReq.RemoveLabelIds[0] != "UNREAD" {
		t.Errorf("removeLabelIds = %v, want [UNREAD]", modifyReq.RemoveLabelIds)
	}
	if len(modifyReq.AddLabelIds) != 0 {
		t.Errorf("addLabelIds = %v, want none", modifyReq.AddLabelIds)
	}
}

func TestGmailStarTool(t *testing.T) {
	var modifyReq gmail_v1.ModifyMessageRequest
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m7/modify") {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&modifyReq); err != nil {
			t.Errorf("decode modify body: %v", err)
		}
		respondJSON(t, w, map[string]any{"id": "m7"})
	})

	text, isErr := callTool(t, s, "gmail_star", map[string]any{"message_id": "m7"})

	if isErr {
		t.Fatalf("gmail_star returned error: %s", text)
	}
	if text != "✅ Starred message m7" {
		t.Errorf("unexpected result: %q", text)
	}
	if len(modifyReq.AddLabelIds) != 1 || modifyReq.AddLabelIds[0] != "STARRED" {
		t.Errorf("addLabelIds = %v, want [STARRED]", modifyReq.AddLabelIds)
	}
}

func TestGmailPermanentlyDeleteTool(t *testing.T) {
	deleted := false
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/messages/m9") {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	})

	text, isErr := callTool(t, s, "gmail_permanently_delete", map[string]any{"message_id": "m9"})

	if isErr {
		t.Fatalf("gmail_permanently_delete returned error: %s", text)
	}
	if text != "✅ Permanently deleted message m9" {
		t.Errorf("unexpected result: %q", text)
	}
	if !deleted {
		t.Error("delete endpoint was not called")
	}
}

func TestGmailListLabelsTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/labels") {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, map[string]any{
			"labels": []map[string]any{
				{"id": "INBOX", "name": "INBOX", "type": "system"},
				{"id": "Label_7", "name": "Receipts", "type": "user"},
			},
		})
	})

	text, isErr := callTool(t, s, "gmail_list_labels", nil)

	if isErr {
		t.Fatalf("gmail_list_labels returned error: %s", text)
	}
	for _, want := range []string{"📌 System Labels:", "  INBOX\n    ID: INBOX", "🏷️  Custom Labels:", "  Receipts\n    ID: Label_7"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGmailGetThreadTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/threads/t1") {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, map[string]any{
			"id": "t1",
			"messages": []map[string]any{
				{
					"id": "m1",
					"payload": map[string]any{
						"headers": []map[string]any{
							{"name": "Subject", "value": "Planning"},
							{"name": "From", "value": "alice@example.com"},
							{"name": "Date", "value": "Mon, 2 Jun 2025 09:00:00 +0000"},
						},
						"body": map[string]any{"data": b64urlEnc("Kickoff at 10")},
					},
				},
				{
					"id": "m2",
					"payload": map[string]any{
						"headers": []map[string]any{
							{"name": "Subject", "value": "Re: Planning"},
							{"name": "From", "value": "bob@example.com"},
							{"name": "Date", "value": "Mon, 2 Jun 2025 09:30:00 +0000"},
						},
						"body": map[string]any{"data": b64urlEnc("Works for me")},
					},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "gmail_get_thread", map[string]any{"thread_id": "t1"})

	if isErr {
		t.Fatalf("gmail_get_thread returned error: %s", text)
	}
	for _, want := range []string{
		"Thread ID: t1",
		"Messages: 2",
		strings.Repeat("=", 60),
		"Message 1/2:",
		"Kickoff at 10",
		"Message 2/2:",
		"From: bob@example.com",
		"Works for me",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}
