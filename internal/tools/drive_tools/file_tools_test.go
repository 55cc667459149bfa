package drive_tools

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDriveUploadFileTool(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(src, []byte("hello-content"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var body string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(t, w, map[string]any{
			"id":          "up1",
			"name":        "report.txt",
			"webViewLink": "https://drive.google.com/file/d/up1/view",
		})
	})

	text, isErr := callTool(t, s, "drive_upload_file", map[string]any{"file_path": src})

	if isErr {
		t.Fatalf("drive_upload_file returned error: %s", text)
	}
	if !strings.Contains(body, `"name":"report.txt"`) {
		t.Errorf("request metadata missing file name: %s", body)
	}
	if !strings.Contains(body, "hello-content") {
		t.Errorf("request body missing file content: %s", body)
	}
	want := "✅ File uploaded!\nName: report.txt\nID: up1\nLink: https://drive.google.com/file/d/up1/view"
	if text != want {
		t.Errorf("unexpected result:\n%q\nwant:\n%q", text, want)
	}
}

func TestDriveUploadFileToolMissingFile(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s %s", r.Method, r.URL)
	})

	missing := filepath.Join(t.TempDir(), "nope.txt")
	text, isErr := callTool(t, s, "drive_upload_file", map[string]any{"file_path": missing})

	if isErr {
		t.Fatalf("drive_upload_file returned error: %s", text)
	}
	if text != "❌ File not found: "+missing {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveDownloadFileTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("alt") == "media" {
			w.Write([]byte("file-bytes"))
			return
		}
		respondJSON(t, w, map[string]any{
			"id":       "f1",
			"name":     "data.bin",
			"mimeType": "application/octet-stream",
		})
	})

	dest := filepath.Join(t.TempDir(), "out.bin")
	text, isErr := callTool(t, s, "drive_download_file", map[string]any{
		"file_id":          "f1",
		"destination_path": dest,
	})

	if isErr {
		t.Fatalf("drive_download_file returned error: %s", text)
	}
	want := "✅ Downloaded file!\nName: data.bin\nSaved to: " + dest
	if text != want {
		t.Errorf("unexpected result:\n%q\nwant:\n%q", text, want)
	}

	saved, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(saved) != "file-bytes" {
		t.Errorf("saved content = %q, want %q", saved, "file-bytes")
	}
}

func TestDriveExportFileTool(t *testing.T) {
	var exportMime string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/export") {
			exportMime = r.URL.Query().Get("mimeType")
			w.Write([]byte("exported-bytes"))
			return
		}
		respondJSON(t, w, map[string]any{
			"id":       "doc1",
			"name":     "Quarterly Report",
			"mimeType": "application/vnd.google-apps.document",
		})
	})

	dest := filepath.Join(t.TempDir(), "report.docx")
	text, isErr := callTool(t, s, "drive_export_file", map[string]any{
		"file_id":          "doc1",
		"destination_path": dest,
		"export_format":    "docx",
	})

	if isErr {
		t.Fatalf("drive_export_file returned error: %s", text)
	}
	if exportMime != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Errorf("export mimeType = %q", exportMime)
	}
	want := "✅ Exported file to docx!\nName: Quarterly Report\nSaved to: " + dest
	if text != want {
		t.Errorf("unexpected result:\n%q\nwant:\n%q", text, want)
	}

	saved, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(saved) != "exported-bytes" {
		t.Errorf("saved content = %q, want %q", saved, "exported-bytes")
	}
}

func TestDriveExportFileToolRejectsFormat(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/export") {
			t.Error("export should not be called for an unavailable format")
			return
		}
		respondJSON(t, w, map[string]any{
			"id":       "sheet1",
			"name":     "Budget",
			"mimeType": "application/vnd.google-apps.spreadsheet",
		})
	})

	text, isErr := callTool(t, s, "drive_export_file", map[string]any{
		"file_id":          "sheet1",
		"destination_path": filepath.Join(t.TempDir(), "budget.docx"),
		"export_format":    "docx",
	})

	if isErr {
		t.Fatalf("drive_export_file returned error: %s", text)
	}
	want := "❌ Format 'docx' not available for this file type. Available: pdf, xlsx, csv, zip, ods"
	if text != want {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveExportFileToolNotExportable(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"id":       "f1",
			"name":     "scan.pdf",
			"mimeType": "application/pdf",
		})
	})

	text, isErr := callTool(t, s, "drive_export_file", map[string]any{
		"file_id":          "f1",
		"destination_path": filepath.Join(t.TempDir(), "scan.pdf"),
	})

	if isErr {
		t.Fatalf("drive_export_file returned error: %s", text)
	}
	if text != "❌ Cannot export application/pdf. Only Google Docs, Sheets, and Slides can be exported." {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveDeleteFileTool(t *testing.T) {
	var method string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	text, isErr := callTool(t, s, "drive_delete_file", map[string]any{"file_id": "f1"})

	if isErr {
		t.Fatalf("drive_delete_file returned error: %s", text)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", method)
	}
	if text != "✅ Deleted file f1" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveCopyFileTool(t *testing.T) {
	var body string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(t, w, map[string]any{"id": "c1", "name": "Copy of plan"})
	})

	text, isErr := callTool(t, s, "drive_copy_file", map[string]any{
		"file_id":  "f1",
		"new_name": "Copy of plan",
	})

	if isErr {
		t.Fatalf("drive_copy_file returned error: %s", text)
	}
	if !strings.Contains(body, `"name":"Copy of plan"`) {
		t.Errorf("request body missing new name: %s", body)
	}
	if text != "✅ File copied!\nNew ID: c1\nName: Copy of plan" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveMoveFileTool(t *testing.T) {
	var addParents, removeParents string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(t, w, map[string]any{"parents": []string{"old1"}})
		case http.MethodPatch:
			addParents = r.URL.Query().Get("addParents")
			removeParents = r.URL.Query().Get("removeParents")
			respondJSON(t, w, map[string]any{"id": "f1", "name": "notes.txt", "parents": []string{"new1"}})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	text, isErr := callTool(t, s, "drive_move_file", map[string]any{
		"file_id":       "f1",
		"new_parent_id": "new1",
	})

	if isErr {
		t.Fatalf("drive_move_file returned error: %s", text)
	}
	if addParents != "new1" {
		t.Errorf("addParents = %q, want new1", addParents)
	}
	if removeParents != "old1" {
		t.Errorf("removeParents = %q, want old1", removeParents)
	}
	if text != "✅ Moved file!\nFile ID: f1\nNew parent: new1" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveRenameFileTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{"id": "f1", "name": "renamed.txt"})
	})

	text, isErr := callTool(t, s, "drive_rename_file", map[string]any{
		"file_id":  "f1",
		"new_name": "renamed.txt",
	})

	if isErr {
		t.Fatalf("drive_rename_file returned error: %s", text)
	}
	if text != "✅ Renamed file!\nNew name: renamed.txt\nID: f1" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveStarFileToolDefault(t *testing.T) {
	var body string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(t, w, map[string]any{"id": "f1"})
	})

	text, isErr := callTool(t, s, "drive_star_file", map[string]any{"file_id": "f1"})

	if isErr {
		t.Fatalf("drive_star_file returned error: %s", text)
	}
	if !strings.Contains(body, `"starred":true`) {
		t.Errorf("request body missing starred flag: %s", body)
	}
	if text != "✅ File f1 starred" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveStarFileToolUnstar(t *testing.T) {
	var body string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(t, w, map[string]any{"id": "f1"})
	})

	text, isErr := callTool(t, s, "drive_star_file", map[string]any{
		"file_id": "f1",
		"starred": false,
	})

	if isErr {
		t.Fatalf("drive_star_file returned error: %s", text)
	}
	if !strings.Contains(body, `"starred":false`) {
		t.Errorf("request body missing starred flag: %s", body)
	}
	if text != "✅ File f1 unstarred" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveUpdateDescriptionTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"id":          "f1",
			"name":        "plan.pdf",
			"description": "Latest",
		})
	})

	text, isErr := callTool(t, s, "drive_update_description", map[string]any{
		"file_id":     "f1",
		"description": "Latest",
	})

	if isErr {
		t.Fatalf("drive_update_description returned error: %s", text)
	}
	if text != "✅ Updated description for plan.pdf\nDescription: Latest" {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestDriveCreateShortcutTool(t *testing.T) {
	var body string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(t, w, map[string]any{
			"id":       "sc1",
			"name":     "Link",
			"mimeType": "application/vnd.google-apps.shortcut",
			"shortcutDetails": map[string]any{
				"targetId": "t42",
			},
		})
	})

	text, isErr := callTool(t, s, "drive_create_shortcut", map[string]any{
		"name":           "Link",
		"target_file_id": "t42",
	})

	if isErr {
		t.Fatalf("drive_create_shortcut returned error: %s", text)
	}
	if !strings.Contains(body, `"mimeType":"application/vnd.google-apps.shortcut"`) {
		t.Errorf("request body missing shortcut mime type: %s", body)
	}
	if !strings.Contains(body, `"targetId":"t42"`) {
		t.Errorf("request body missing target id: %s", body)
	}
	if text != "✅ Shortcut created!\nName: Link\nShortcut ID: sc1\nTarget ID: t42" {
		t.Errorf("unexpected result: %q", text)
	}
}
