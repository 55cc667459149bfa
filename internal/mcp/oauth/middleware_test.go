package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newMiddlewareTestHandler(t *testing.T) *Handler {
	t.Helper()
	handler, err := NewHandler(&Config{Resource: "https://mcp.example.com"})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	t.Cleanup(handler.Stop)
	return handler
}

// rejectingNext is a downstream handler the middleware must never reach.
func rejectingNext(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		t.Error("request passed through middleware that should have rejected it")
	}
}

func TestValidateGoogleTokenRejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"missing Authorization header", ""},
		{"not a Bearer scheme", "InvalidFormat"},
		{"unknown bearer token", "Bearer invalid-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newMiddlewareTestHandler(t)
			wrapped := handler.ValidateGoogleToken(rejectingNext(t))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if w.Header().Get("WWW-Authenticate") == "" {
				t.Error("401 response is missing the WWW-Authenticate header")
			}
		})
	}
}

func TestValidateGoogleTokenFunc(t *testing.T) {
	handler := newMiddlewareTestHandler(t)
	wrapped := handler.ValidateGoogleTokenFunc(rejectingNext(t))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	wrapped(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestOptionalGoogleToken(t *testing.T) {
	t.Run("no token passes through", func(t *testing.T) {
		handler := newMiddlewareTestHandler(t)
		wrapped := handler.OptionalGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	// A present but bad credential is rejected, not ignored.
	for _, tt := range []struct {
		name       string
		authHeader string
	}{
		{"unknown bearer token", "Bearer invalid-token"},
		{"not a Bearer scheme", "InvalidFormat"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			handler := newMiddlewareTestHandler(t)
			wrapped := handler.OptionalGoogleToken(rejectingNext(t))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.authHeader)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestContextAccessorsOnEmptyContext(t *testing.T) {
	ctx := context.Background()

	if user, ok := GetUserFromContext(ctx); ok || user != nil {
		t.Errorf("GetUserFromContext() = %v, %v, want nil, false", user, ok)
	}
	if token, ok := GetGoogleTokenFromContext(ctx); ok || token != nil {
		t.Errorf("GetGoogleTokenFromContext() = %v, %v, want nil, false", token, ok)
	}
}

func TestCacheGoogleToken(t *testing.T) {
	handler := newMiddlewareTestHandler(t)

	token := &oauth2.Token{
		AccessToken: "test-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(1 * time.Hour),
	}
	if err := handler.CacheGoogleToken("user@example.com", token); err != nil {
		t.Fatalf("CacheGoogleToken() error = %v", err)
	}

	retrieved, err := handler.GetCachedGoogleToken("user@example.com")
	if err != nil {
		t.Fatalf("GetCachedGoogleToken() error = %v", err)
	}
	if retrieved.AccessToken != token.AccessToken {
		t.Errorf("AccessToken = %s, want %s", retrieved.AccessToken, token.AccessToken)
	}

	if _, err := handler.GetCachedGoogleToken("nonexistent@example.com"); err == nil {
		t.Error("GetCachedGoogleToken() returned a token for an unknown user")
	}
}
