package chat

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := chat.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewClientWithService(svc, "default")
}

func respondJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

// errorOnCall is a stub for operations that must fail before reaching the API
func errorOnCall(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		t.Error("Expected no HTTP call")
	}
}

func strPtr(s string) *string { return &s }
