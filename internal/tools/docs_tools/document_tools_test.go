package docs_tools

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	drive_v3 "google.golang.org/api/drive/v3"
)

func TestDocsCreateTool(t *testing.T) {
	var capturedFile drive_v3.File
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&capturedFile); err != nil {
			t.Errorf("Failed to decode file body: %v", err)
		}
		respondJSON(t, w, map[string]any{
			"id":          "d1",
			"name":        "Notes",
			"webViewLink": "https://docs.google.com/document/d/d1/edit",
		})
	})

	text, isErr := callTool(t, s, "docs_create", map[string]any{"title": "Notes"})
	if isErr {
		t.Fatalf("docs_create failed: %s", text)
	}

	if capturedFile.Name != "Notes" {
		t.Errorf("Expected name Notes, got %q", capturedFile.Name)
	}
	if capturedFile.MimeType != "application/vnd.google-apps.document" {
		t.Errorf("Expected document MIME type, got %q", capturedFile.MimeType)
	}

	expected := "✅ Google Doc created!\nTitle: Notes\nID: d1\nLink: https://docs.google.com/document/d/d1/edit"
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestDocsCreateToolMissingTitle(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request to %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "docs_create", map[string]any{})
	if !isErr {
		t.Fatal("Expected error for missing title")
	}
	if text != "title is required" {
		t.Errorf("Unexpected error text: %q", text)
	}
}

func TestDocsReadTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET, got %s", r.Method)
		}
		respondJSON(t, w, map[string]any{
			"documentId": "doc1",
			"title":      "Meeting Notes",
			"body": map[string]any{
				"content": []map[string]any{
					{"paragraph": map[string]any{"elements": []map[string]any{
						{"textRun": map[string]any{"content": "Agenda item one.\n"}},
					}}},
					{"paragraph": map[string]any{"elements": []map[string]any{
						{"textRun": map[string]any{"content": "Agenda item two.\n"}},
					}}},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "docs_read", map[string]any{"document_id": "doc1"})
	if isErr {
		t.Fatalf("docs_read failed: %s", text)
	}

	expected := "Title: Meeting Notes\n\n" + strings.Repeat("-", 60) + "\n\nAgenda item one.\nAgenda item two.\n"
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestDocsReadToolMarkdown(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"documentId": "doc1",
			"title":      "Meeting Notes",
			"body": map[string]any{
				"content": []map[string]any{
					{"paragraph": map[string]any{
						"paragraphStyle": map[string]any{"namedStyleType": "HEADING_1"},
						"elements": []map[string]any{
							{"textRun": map[string]any{"content": "Agenda\n"}},
						},
					}},
					{"paragraph": map[string]any{"elements": []map[string]any{
						{"textRun": map[string]any{"content": "First item.\n"}},
					}}},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "docs_read", map[string]any{
		"document_id": "doc1",
		"format":      "markdown",
	})
	if isErr {
		t.Fatalf("docs_read failed: %s", text)
	}

	expected := "# Meeting Notes\n\n# Agenda\n\nFirst item.\n\n"
	if text != expected {
		t.Errorf("Expected %q, got %q", expected, text)
	}
}

func TestDocsReadToolInvalidFormat(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request to %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "docs_read", map[string]any{
		"document_id": "doc1",
		"format":      "pdf",
	})
	if !isErr {
		t.Fatal("Expected error for invalid format")
	}
	if text != "Invalid format 'pdf', must be 'text' or 'markdown'" {
		t.Errorf("Unexpected error text: %q", text)
	}
}
