package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// newTestClient builds a Client whose Gmail service talks to the given stub
// backend instead of the real API
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("failed to create Gmail service: %v", err)
	}

	return NewClientWithService(svc, "test@example.com")
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

// sentMessage decodes the raw payload of a captured messages.send request
func sentMessage(t *testing.T, r *http.Request) (decoded, threadID string) {
	t.Helper()

	var body struct {
		Raw      string `json:"raw"`
		ThreadId string `json:"threadId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode send request: %v", err)
	}

	rawBytes, err := base64.URLEncoding.DecodeString(body.Raw)
	if err != nil {
		t.Fatalf("raw payload is not base64url: %v", err)
	}
	return string(rawBytes), body.ThreadId
}

func TestSend(t *testing.T) {
	var captured string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/send") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		captured, _ = sentMessage(t, r)
		writeJSON(t, w, map[string]string{"id": "123"})
	}))

	sent, err := client.Send(context.Background(), &OutgoingMessage{
		To:      "a@b.com",
		Subject: "Greetings",
		Body:    "Hello there",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if sent.Id != "123" {
		t.Errorf("Send() id = %v, want 123", sent.Id)
	}
	for _, want := range []string{"To: a@b.com", "Subject: Greetings", "Hello there"} {
		if !strings.Contains(captured, want) {
			t.Errorf("sent message missing %q:\n%s", want, captured)
		}
	}
}

func TestSearchMessages(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages"):
			if got := r.URL.Query().Get("q"); got != "is:unread" {
				t.Errorf("query = %v, want is:unread", got)
			}
			if got := r.URL.Query().Get("maxResults"); got != "5" {
				t.Errorf("maxResults = %v, want 5", got)
			}
			writeJSON(t, w, map[string]interface{}{
				"messages": []map[string]string{{"id": "m1"}, {"id": "m2"}},
			})
		case strings.HasSuffix(r.URL.Path, "/messages/m1"):
			writeJSON(t, w, map[string]interface{}{
				"id": "m1",
				"payload": map[string]interface{}{
					"headers": []map[string]string{
						{"name": "Subject", "value": "First"},
						{"name": "From", "value": "alice@example.com"},
						{"name": "Date", "value": "Mon, 5 Jan 2026 10:00:00 +0000"},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/messages/m2"):
			writeJSON(t, w, map[string]interface{}{
				"id":      "m2",
				"payload": map[string]interface{}{},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	summaries, err := client.SearchMessages(context.Background(), "is:unread", 5)
	if err != nil {
		t.Fatalf("SearchMessages() error = %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("SearchMessages() returned %d summaries, want 2", len(summaries))
	}
	if summaries[0].Subject != "First" || summaries[0].From != "alice@example.com" {
		t.Errorf("first summary = %+v", summaries[0])
	}
	// Missing headers fall back to placeholders
	if summaries[1].Subject != "No Subject" || summaries[1].From != "Unknown" || summaries[1].Date != "Unknown" {
		t.Errorf("second summary = %+v, want placeholder values", summaries[1])
	}
}

func TestReply(t *testing.T) {
	var captured, capturedThread string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/orig1"):
			writeJSON(t, w, map[string]interface{}{
				"id":       "orig1",
				"threadId": "t9",
				"payload": map[string]interface{}{
					"headers": []map[string]string{
						{"name": "Subject", "value": "Quarterly report"},
						{"name": "From", "value": "sender@example.com"},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/messages/send"):
			captured, capturedThread = sentMessage(t, r)
			writeJSON(t, w, map[string]string{"id": "456", "threadId": "t9"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	result, err := client.Reply(context.Background(), "orig1", "Looks good to me.")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}

	if result.MessageID != "456" || result.ThreadID != "t9" {
		t.Errorf("Reply() result = %+v, want 456/t9", result)
	}
	if capturedThread != "t9" {
		t.Errorf("reply threadId = %v, want t9", capturedThread)
	}
	for _, want := range []string{
		"To: sender@example.com",
		"Subject: Re: Quarterly report",
		"In-Reply-To: orig1",
		"References: orig1",
	} {
		if !strings.Contains(captured, want) {
			t.Errorf("reply missing %q:\n%s", want, captured)
		}
	}
}

func TestReplyKeepsExistingRePrefix(t *testing.T) {
	var captured string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/messages/send") {
			captured, _ = sentMessage(t, r)
			writeJSON(t, w, map[string]string{"id": "1"})
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"id":       "orig1",
			"threadId": "t1",
			"payload": map[string]interface{}{
				"headers": []map[string]string{
					{"name": "Subject", "value": "Re: Quarterly report"},
					{"name": "From", "value": "sender@example.com"},
				},
			},
		})
	}))

	if _, err := client.Reply(context.Background(), "orig1", "Agreed."); err != nil {
		t.Fatalf("Reply() error = %v", err)
	}

	if strings.Contains(captured, "Re: Re:") {
		t.Errorf("reply duplicated Re: prefix:\n%s", captured)
	}
}

func TestForward(t *testing.T) {
	originalBody := base64.URLEncoding.EncodeToString([]byte("The original text."))

	var captured string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/orig1"):
			writeJSON(t, w, map[string]interface{}{
				"id":       "orig1",
				"threadId": "t1",
				"payload": map[string]interface{}{
					"headers": []map[string]string{
						{"name": "Subject", "value": "Quarterly report"},
					},
					"parts": []map[string]interface{}{
						{
							"mimeType": "text/plain",
							"body":     map[string]string{"data": originalBody},
						},
					},
				},
			})
		case strings.HasSuffix(r.URL.Path, "/messages/send"):
			captured, _ = sentMessage(t, r)
			writeJSON(t, w, map[string]string{"id": "789"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	sent, err := client.Forward(context.Background(), "orig1", "colleague@example.com", "FYI")
	if err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	if sent.Id != "789" {
		t.Errorf("Forward() id = %v, want 789", sent.Id)
	}
	for _, want := range []string{
		"To: colleague@example.com",
		"Subject: Fwd: Quarterly report",
		"FYI",
		"---------- Forwarded message ---------",
		"The original text.",
	} {
		if !strings.Contains(captured, want) {
			t.Errorf("forward missing %q:\n%s", want, captured)
		}
	}
}

func TestForwardWithoutCommentSkipsBanner(t *testing.T) {
	originalBody := base64.URLEncoding.EncodeToString([]byte("The original text."))

	var captured string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/messages/send") {
			captured, _ = sentMessage(t, r)
			writeJSON(t, w, map[string]string{"id": "1"})
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"id": "orig1",
			"payload": map[string]interface{}{
				"headers": []map[string]string{{"name": "Subject", "value": "Hi"}},
				"parts": []map[string]interface{}{
					{"mimeType": "text/plain", "body": map[string]string{"data": originalBody}},
				},
			},
		})
	}))

	if _, err := client.Forward(context.Background(), "orig1", "colleague@example.com", ""); err != nil {
		t.Fatalf("Forward() error = %v", err)
	}

	if strings.Contains(captured, "Forwarded message") {
		t.Errorf("forward without comment should not carry the banner:\n%s", captured)
	}
	if !strings.Contains(captured, "The original text.") {
		t.Errorf("forward missing original body:\n%s", captured)
	}
}

func TestModifyMessage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1/modify") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			AddLabelIds    []string `json:"addLabelIds"`
			RemoveLabelIds []string `json:"removeLabelIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode modify request: %v", err)
		}
		if len(body.AddLabelIds) != 1 || body.AddLabelIds[0] != "STARRED" {
			t.Errorf("addLabelIds = %v, want [STARRED]", body.AddLabelIds)
		}
		if len(body.RemoveLabelIds) != 1 || body.RemoveLabelIds[0] != "UNREAD" {
			t.Errorf("removeLabelIds = %v, want [UNREAD]", body.RemoveLabelIds)
		}
		writeJSON(t, w, map[string]string{"id": "m1"})
	}))

	if err := client.ModifyMessage(context.Background(), "m1", []string{"STARRED"}, []string{"UNREAD"}); err != nil {
		t.Fatalf("ModifyMessage() error = %v", err)
	}
}

func TestCreateLabel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var label gmail.Label
		if err := json.NewDecoder(r.Body).Decode(&label); err != nil {
			t.Fatalf("failed to decode label request: %v", err)
		}
		if label.Name != "Receipts" {
			t.Errorf("label name = %v, want Receipts", label.Name)
		}
		if label.MessageListVisibility != "show" || label.LabelListVisibility != "labelShow" {
			t.Errorf("label visibility = %v/%v", label.MessageListVisibility, label.LabelListVisibility)
		}
		writeJSON(t, w, map[string]string{"id": "Label_7", "name": "Receipts"})
	}))

	label, err := client.CreateLabel(context.Background(), "Receipts")
	if err != nil {
		t.Fatalf("CreateLabel() error = %v", err)
	}
	if label.Id != "Label_7" {
		t.Errorf("CreateLabel() id = %v, want Label_7", label.Id)
	}
}

func TestDownloadAttachment(t *testing.T) {
	content := []byte("%PDF-1.4 fake")
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1/attachments/att1") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]interface{}{
			"data": base64.URLEncoding.EncodeToString(content),
			"size": len(content),
		})
	}))

	data, size, err := client.DownloadAttachment(context.Background(), "m1", "att1")
	if err != nil {
		t.Fatalf("DownloadAttachment() error = %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("DownloadAttachment() data = %q, want %q", data, content)
	}
	if size != int64(len(content)) {
		t.Errorf("DownloadAttachment() size = %d, want %d", size, len(content))
	}
}

func TestSendWithAttachment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("attachment payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	var captured string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = sentMessage(t, r)
		writeJSON(t, w, map[string]string{"id": "999"})
	}))

	sent, err := client.SendWithAttachment(context.Background(), &OutgoingMessage{
		To:      "a@b.com",
		Subject: "With file",
		Body:    "See attached.",
	}, path)
	if err != nil {
		t.Fatalf("SendWithAttachment() error = %v", err)
	}

	if sent.Id != "999" {
		t.Errorf("SendWithAttachment() id = %v, want 999", sent.Id)
	}
	for _, want := range []string{
		"Content-Type: multipart/mixed; boundary=",
		`attachment; filename="report.txt"`,
		"See attached.",
		base64.StdEncoding.EncodeToString([]byte("attachment payload")),
	} {
		if !strings.Contains(captured, want) {
			t.Errorf("multipart message missing %q:\n%s", want, captured)
		}
	}
}

func TestListDrafts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/drafts"):
			writeJSON(t, w, map[string]interface{}{
				"drafts": []map[string]string{{"id": "d1"}},
			})
		case strings.HasSuffix(r.URL.Path, "/drafts/d1"):
			writeJSON(t, w, map[string]interface{}{
				"id": "d1",
				"message": map[string]interface{}{
					"payload": map[string]interface{}{
						"headers": []map[string]string{
							{"name": "Subject", "value": "Draft subject"},
							{"name": "To", "value": "future@example.com"},
						},
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	drafts, err := client.ListDrafts(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListDrafts() error = %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("ListDrafts() returned %d drafts, want 1", len(drafts))
	}
	if drafts[0].Subject != "Draft subject" || drafts[0].To != "future@example.com" {
		t.Errorf("draft summary = %+v", drafts[0])
	}
}

func TestListThreads(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/threads"):
			writeJSON(t, w, map[string]interface{}{
				"threads": []map[string]string{{"id": "t1"}},
			})
		case strings.HasSuffix(r.URL.Path, "/threads/t1"):
			writeJSON(t, w, map[string]interface{}{
				"id": "t1",
				"messages": []map[string]interface{}{
					{
						"id": "m1",
						"payload": map[string]interface{}{
							"headers": []map[string]string{{"name": "Subject", "value": "Planning"}},
						},
					},
					{"id": "m2", "payload": map[string]interface{}{}},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	threads, err := client.ListThreads(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("ListThreads() error = %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("ListThreads() returned %d threads, want 1", len(threads))
	}
	if threads[0].Subject != "Planning" || threads[0].MessageCount != 2 {
		t.Errorf("thread summary = %+v", threads[0])
	}
}
