package gmail_tools

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGmailReplyTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/orig1"):
			respondJSON(t, w, map[string]any{
				"id":       "orig1",
				"threadId": "t9",
				"payload": map[string]any{
					"headers": []map[string]any{
						{"name": "Subject", "value": "Quarterly report"},
						{"name": "From", "value": "sender@example.com"},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/messages/send"):
			var body struct {
				Raw      string `json:"raw"`
				ThreadID string `json:"threadId"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode send body: %v", err)
			}
			if body.ThreadID != "t9" {
				t.Errorf("threadId = %q, want t9", body.ThreadID)
			}
			respondJSON(t, w, map[string]any{"id": "r1", "threadId": "t9"})
		default:
			http.NotFound(w, r)
		}
	})

	text, isErr := callTool(t, s, "gmail_reply", map[string]any{
		"message_id": "orig1",
		"body":       "Looks good to me",
	})

	if isErr {
		t.Fatalf("gmail_reply returned error: %s", text)
	}
	for _, want := range []string{"✅ Reply sent!", "Message ID: r1", "Thread ID: t9"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGmailSendWithAttachmentToolMissingFile(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s", r.URL.Path)
	})

	missing := filepath.Join(t.TempDir(), "nope.pdf")
	text, isErr := callTool(t, s, "gmail_send_with_attachment", map[string]any{
		"to":              "a@b.com",
		"subject":         "Report",
		"body":            "Attached.",
		"attachment_path": missing,
	})

	if isErr {
		t.Fatalf("expected plain text result, got error: %s", text)
	}
	if text != "❌ Attachment not found: "+missing {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestGmailSendWithAttachmentTool(t *testing.T) {
	var rawMessage string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/send") {
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
		respondJSON(t, w, map[string]any{"id": "a1"})
	})

	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("q2 numbers"), 0o600); err != nil {
		t.Fatal(err)
	}

	text, isErr := callTool(t, s, "gmail_send_with_attachment", map[string]any{
		"to":              "a@b.com",
		"subject":         "Report",
		"body":            "Attached.",
		"attachment_path": path,
	})

	if isErr {
		t.Fatalf("gmail_send_with_attachment returned error: %s", text)
	}
	for _, want := range []string{"✅ Email sent with attachment!", "Message ID: a1", "Attachment: report.txt"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(rawMessage, "multipart/mixed") {
		t.Errorf("sent message is not multipart:\n%s", rawMessage)
	}
	if !strings.Contains(rawMessage, `attachment; filename="report.txt"`) {
		t.Errorf("sent message missing attachment disposition:\n%s", rawMessage)
	}
}
