package forms_tools

import (
	"net/http"
	"strings"
	"testing"
)

func TestFormsGetResponseTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/forms/f1/responses/r1") {
			t.Errorf("Unexpected request to %s", r.URL.Path)
		}
		respondJSON(t, w, map[string]any{
			"responseId":        "r1",
			"lastSubmittedTime": "2026-03-01T12:00:00Z",
			"answers": map[string]any{
				"q2": map[string]any{
					"questionId":  "q2",
					"textAnswers": map[string]any{"answers": []map[string]any{{"value": "Blue"}}},
				},
				"q1": map[string]any{
					"questionId": "q1",
					"textAnswers": map[string]any{
						"answers": []map[string]any{{"value": "Ada"}, {"value": "Lovelace"}},
					},
				},
				"q3": map[string]any{
					"questionId":        "q3",
					"fileUploadAnswers": map[string]any{},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "forms_get_response", map[string]any{
		"form_id":     "f1",
		"response_id": "r1",
	})
	if isErr {
		t.Fatalf("forms_get_response failed: %s", text)
	}

	// Answers print in question ID order
	expected := "Response ID: r1\n" +
		"Timestamp: 2026-03-01T12:00:00Z\n\n" +
		"Answers:\n\n" +
		"Question ID: q1\n" +
		"  Answer: Ada\n" +
		"  Answer: Lovelace\n\n" +
		"Question ID: q2\n" +
		"  Answer: Blue\n\n" +
		"Question ID: q3\n" +
		"  File upload response\n\n"
	if text != expected {
		t.Errorf("Unexpected result: %q", text)
	}
}

func TestFormsGetResponseToolNoTimestamp(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{"responseId": "r1"})
	})

	text, isErr := callTool(t, s, "forms_get_response", map[string]any{
		"form_id":     "f1",
		"response_id": "r1",
	})
	if isErr {
		t.Fatalf("forms_get_response failed: %s", text)
	}

	if !strings.Contains(text, "Timestamp: N/A\n") {
		t.Errorf("Expected N/A timestamp, got %q", text)
	}
}

func TestFormsGetResponseToolError(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		respondJSON(t, w, map[string]any{
			"error": map[string]any{"code": 404, "message": "Response not found"},
		})
	})

	text, isErr := callTool(t, s, "forms_get_response", map[string]any{
		"form_id":     "f1",
		"response_id": "missing",
	})
	if isErr {
		t.Fatalf("Expected plain text result, got error: %s", text)
	}
	if !strings.HasPrefix(text, "❌ Error getting response:") {
		t.Errorf("Unexpected result: %q", text)
	}
}

func TestFormsGetResponseToolMissingID(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request to %s", r.URL.Path)
	})

	text, isErr := callTool(t, s, "forms_get_response", map[string]any{
		"form_id": "f1",
	})
	if !isErr {
		t.Fatal("Expected error for missing response_id")
	}
	if text != "response_id is required" {
		t.Errorf("Unexpected error text: %q", text)
	}
}

func TestFormsListResponsesTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/forms/f1/responses") {
			t.Errorf("Unexpected request to %s", r.URL.Path)
		}
		respondJSON(t, w, map[string]any{
			"responses": []map[string]any{
				{
					"responseId":        "r1",
					"lastSubmittedTime": "2026-03-01T12:00:00Z",
					"answers": map[string]any{
						"q2": map[string]any{
							"textAnswers": map[string]any{"answers": []map[string]any{{"value": "Go"}}},
						},
						"q1": map[string]any{
							"textAnswers": map[string]any{"answers": []map[string]any{{"value": "Blue"}}},
						},
					},
				},
				{"responseId": "r2"},
			},
		})
	})

	text, isErr := callTool(t, s, "forms_list_responses", map[string]any{
		"form_id": "f1",
	})
	if isErr {
		t.Fatalf("forms_list_responses failed: %s", text)
	}

	expected := "Found 2 response(s):\n\n" +
		"Response #1\n" +
		"Response ID: r1\n" +
		"Timestamp: 2026-03-01T12:00:00Z\n" +
		"Answers:\n" +
		"  - Blue\n" +
		"  - Go\n\n" +
		"Response #2\n" +
		"Response ID: r2\n" +
		"Timestamp: N/A\n\n"
	if text != expected {
		t.Errorf("Unexpected result: %q", text)
	}
}

func TestFormsListResponsesToolEmpty(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{})
	})

	text, isErr := callTool(t, s, "forms_list_responses", map[string]any{
		"form_id": "f1",
	})
	if isErr {
		t.Fatalf("forms_list_responses failed: %s", text)
	}
	if text != "No responses yet." {
		t.Errorf("Unexpected result: %q", text)
	}
}

func TestFormsListResponsesToolError(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		respondJSON(t, w, map[string]any{
			"error": map[string]any{"code": 500, "message": "Backend unavailable"},
		})
	})

	text, isErr := callTool(t, s, "forms_list_responses", map[string]any{
		"form_id": "f1",
	})
	if isErr {
		t.Fatalf("Expected plain text result, got error: %s", text)
	}
	if !strings.HasPrefix(text, "❌ Error listing responses:") {
		t.Errorf("Unexpected result: %q", text)
	}
}
