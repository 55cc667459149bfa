package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	slides "google.golang.org/api/slides/v1"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	slidesSvc, err := slides.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("failed to create Slides service: %v", err)
	}

	driveSvc, err := drive.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("failed to create Drive service: %v", err)
	}

	return NewClientWithServices(slidesSvc, driveSvc, "default")
}

func respondJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

// decodeBatch parses a captured batchUpdate request body
func decodeBatch(t *testing.T, body []byte) *slides.BatchUpdatePresentationRequest {
	t.Helper()
	var req slides.BatchUpdatePresentationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to decode batchUpdate body: %v", err)
	}
	return &req
}

// captureBatch returns a stub that records the batchUpdate body and replies
// with an empty response
func captureBatch(t *testing.T, captured *[]byte) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":batchUpdate") {
			t.Errorf("Unexpected request to %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		*captured = body
		respondJSON(w, `{"presentationId":"p1"}`)
	})
}

func boolPtr(b bool) *bool { return &b }

func int64Ptr(n int64) *int64 { return &n }

func TestCreatePresentation(t *testing.T) {
	var capturedFile drive.File
	var capturedQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		capturedQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&capturedFile); err != nil {
			t.Errorf("Failed to decode file body: %v", err)
		}
		respondJSON(w, `{"id":"p1","name":"Pitch","webViewLink":"https://docs.google.com/presentation/d/p1/edit"}`)
	}))

	created, err := client.CreatePresentation(context.Background(), "Pitch", "", "")
	if err != nil {
		t.Fatalf("CreatePresentation failed: %v", err)
	}

	if capturedFile.Name != "Pitch" {
		t.Errorf("Expected name Pitch, got %q", capturedFile.Name)
	}
	if capturedFile.MimeType != "application/vnd.google-apps.presentation" {
		t.Errorf("Expected presentation MIME type, got %q", capturedFile.MimeType)
	}
	if len(capturedFile.Parents) != 0 {
		t.Errorf("Expected no parents, got %v", capturedFile.Parents)
	}
	if strings.Contains(capturedQuery, "supportsAllDrives") {
		t.Errorf("Expected no supportsAllDrives param, got %q", capturedQuery)
	}
	if created.ID != "p1" || created.Title != "Pitch" {
		t.Errorf("Unexpected created presentation: %+v", created)
	}
	if created.Link != "https://docs.google.com/presentation/d/p1/edit" {
		t.Errorf("Unexpected link: %q", created.Link)
	}
}

func TestCreatePresentationOnSharedDrive(t *testing.T) {
	var capturedFile drive.File
	var supportsAllDrives string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supportsAllDrives = r.URL.Query().Get("supportsAllDrives")
		if err := json.NewDecoder(r.Body).Decode(&capturedFile); err != nil {
			t.Errorf("Failed to decode file body: %v", err)
		}
		respondJSON(w, `{"id":"p2","name":"Team Pitch"}`)
	}))

	_, err := client.CreatePresentation(context.Background(), "Team Pitch", "folder1", "sd1")
	if err != nil {
		t.Fatalf("CreatePresentation failed: %v", err)
	}

	if supportsAllDrives != "true" {
		t.Errorf("Expected supportsAllDrives=true, got %q", supportsAllDrives)
	}
	if len(capturedFile.Parents) != 1 || capturedFile.Parents[0] != "folder1" {
		t.Errorf("Expected parent folder1, got %v", capturedFile.Parents)
	}
}

func TestCreatePresentationRequiresTitle(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no HTTP call")
	}))

	if _, err := client.CreatePresentation(context.Background(), "", "", ""); err == nil {
		t.Error("Expected error for missing title")
	}
}

func TestGetPresentation(t *testing.T) {
	var capturedPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		respondJSON(w, `{
			"presentationId": "p1",
			"title": "Pitch",
			"slides": [
				{"objectId": "slide_a"},
				{"objectId": "slide_b"}
			]
		}`)
	}))

	presentation, err := client.GetPresentation(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPresentation failed: %v", err)
	}

	if !strings.HasSuffix(capturedPath, "/presentations/p1") {
		t.Errorf("Unexpected path %q", capturedPath)
	}
	if presentation.Title != "Pitch" {
		t.Errorf("Unexpected title: %q", presentation.Title)
	}
	if len(presentation.Slides) != 2 {
		t.Fatalf("Expected 2 slides, got %d", len(presentation.Slides))
	}
	if presentation.Slides[1].ObjectId != "slide_b" {
		t.Errorf("Unexpected slide ID: %q", presentation.Slides[1].ObjectId)
	}
}

func TestGetPresentationRequiresID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no HTTP call")
	}))

	if _, err := client.GetPresentation(context.Background(), ""); err == nil {
		t.Error("Expected error for missing presentation ID")
	}
}
