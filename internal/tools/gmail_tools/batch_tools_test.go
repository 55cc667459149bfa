package gmail_tools

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/workspace-tools/workspace-mcp/internal/tools/batch"
)

func TestGmailBatchModifyPartialFailure(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/messages/m2/modify"):
			w.WriteHeader(http.StatusNotFound)
			respondJSON(t, w, map[string]any{
				"error": map[string]any{"code": 404, "message": "Not Found"},
			})
		case strings.HasSuffix(r.URL.Path, "/modify"):
			respondJSON(t, w, map[string]any{"id": "ok"})
		default:
			http.NotFound(w, r)
		}
	})

	text, isErr := callTool(t, s, "gmail_batch_modify", map[string]any{
		"message_ids": "m1,m2,m3",
		"add_labels":  "STARRED",
	})

	if isErr {
		t.Fatalf("gmail_batch_modify returned error: %s", text)
	}

	var result batch.BatchResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("result is not batch JSON: %v\n%s", err, text)
	}

	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.Successful != 2 {
		t.Errorf("Successful = %d, want 2", result.Successful)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}

	if len(result.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(result.Results))
	}
	if result.Results[1].ID != "m2" || result.Results[1].Status != "error" {
		t.Errorf("Results[1] = %+v, want m2 with error status", result.Results[1])
	}
	if result.Results[0].Status != "success" || result.Results[2].Status != "success" {
		t.Errorf("m1/m3 should succeed, got %+v and %+v", result.Results[0], result.Results[2])
	}
}

func TestGmailBatchModifyRequiresLabels(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "gmail_batch_modify", map[string]any{
		"message_ids": "m1,m2",
	})

	if !isErr {
		t.Fatalf("expected error result, got: %s", text)
	}
	if !strings.Contains(text, "At least one of add_labels or remove_labels") {
		t.Errorf("unexpected error text: %s", text)
	}
}

func TestGmailBatchDelete(t *testing.T) {
	var deleted []string
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		parts := strings.Split(r.URL.Path, "/")
		deleted = append(deleted, parts[len(parts)-1])
		w.WriteHeader(http.StatusNoContent)
	})

	text, isErr := callTool(t, s, "gmail_batch_delete", map[string]any{
		"message_ids": "m1, m2",
	})

	if isErr {
		t.Fatalf("gmail_batch_delete returned error: %s", text)
	}

	var result batch.BatchResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		t.Fatalf("result is not batch JSON: %v\n%s", err, text)
	}
	if result.Total != 2 || result.Successful != 2 || result.Failed != 0 {
		t.Errorf("got %d/%d/%d, want 2 total, 2 successful, 0 failed",
			result.Total, result.Successful, result.Failed)
	}
	if len(deleted) != 2 || deleted[0] != "m1" || deleted[1] != "m2" {
		t.Errorf("deleted = %v, want [m1 m2]", deleted)
	}
}
