package gmail_tools

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero bytes", bytes: 0, want: "0 bytes"},
		{name: "bytes", bytes: 512, want: "512 bytes"},
		{name: "kilobytes", bytes: 1536, want: "1.50 KB"},
		{name: "megabytes", bytes: 5242880, want: "5.00 MB"},
		{name: "gigabytes", bytes: 2147483648, want: "2.00 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSize(tt.bytes); got != tt.want {
				t.Errorf("formatSize(%d) = %v, want %v", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestGmailGetAttachmentTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1/attachments/att1") {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, map[string]any{
			"data": base64.URLEncoding.EncodeToString([]byte("attachment payload")),
			"size": 18,
		})
	})

	dest := filepath.Join(t.TempDir(), "out.bin")
	text, isErr := callTool(t, s, "gmail_get_attachment", map[string]any{
		"message_id":       "m1",
		"attachment_id":    "att1",
		"destination_path": dest,
	})

	if isErr {
		t.Fatalf("gmail_get_attachment returned error: %s", text)
	}
	for _, want := range []string{"✅ Attachment downloaded!", "Saved to: " + dest, "Size: 18 bytes"} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading saved attachment: %v", err)
	}
	if string(data) != "attachment payload" {
		t.Errorf("saved content = %q, want %q", data, "attachment payload")
	}
}

func TestGmailGetAttachmentToolDirectoryDestination(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/m1/attachments/att1"):
			respondJSON(t, w, map[string]any{
				"data": base64.URLEncoding.EncodeToString([]byte("report data")),
				"size": 11,
			})
		case strings.HasSuffix(r.URL.Path, "/messages/m1"):
			respondJSON(t, w, map[string]any{
				"id": "m1",
				"payload": map[string]any{
					"parts": []map[string]any{
						{
							"partId":   "1",
							"mimeType": "application/pdf",
							"filename": "../q2/report.pdf",
							"body":     map[string]any{"attachmentId": "att1", "size": 11},
						},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	})

	dir := t.TempDir()
	text, isErr := callTool(t, s, "gmail_get_attachment", map[string]any{
		"message_id":       "m1",
		"attachment_id":    "att1",
		"destination_path": dir,
	})

	if isErr {
		t.Fatalf("gmail_get_attachment returned error: %s", text)
	}

	// Path separators and dot-dot sequences in the stored filename must not
	// escape the destination directory
	saved := filepath.Join(dir, "__q2_report.pdf")
	if !strings.Contains(text, "Saved to: "+saved) {
		t.Errorf("result does not reference sanitized path %s:\n%s", saved, text)
	}
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("sanitized file not written: %v", err)
	}
}

func TestGmailListAttachmentsTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages/m1") {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"parts": []map[string]any{
					{
						"partId":   "0",
						"mimeType": "text/plain",
						"body":     map[string]any{"data": b64urlEnc("see attached")},
					},
					{
						"partId":   "1",
						"mimeType": "application/pdf",
						"filename": "report.pdf",
						"body":     map[string]any{"attachmentId": "att1", "size": 2048},
					},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "gmail_list_attachments", map[string]any{"message_id": "m1"})

	if isErr {
		t.Fatalf("gmail_list_attachments returned error: %s", text)
	}
	for _, want := range []string{"Found 1 attachment(s):", `"filename": "report.pdf"`, `"sizeHuman": "2.00 KB"`} {
		if !strings.Contains(text, want) {
			t.Errorf("result missing %q:\n%s", want, text)
		}
	}
}

func TestGmailListAttachmentsToolEmpty(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"id": "m1",
			"payload": map[string]any{
				"body": map[string]any{"data": b64urlEnc("plain message")},
			},
		})
	})

	text, isErr := callTool(t, s, "gmail_list_attachments", map[string]any{"message_id": "m1"})

	if isErr {
		t.Fatalf("gmail_list_attachments returned error: %s", text)
	}
	if text != "No attachments found in message" {
		t.Errorf("unexpected result: %q", text)
	}
}
