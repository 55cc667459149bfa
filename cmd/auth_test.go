package cmd

import (
	"context"
	"net/url"
	"testing"

	"golang.org/x/oauth2"

	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
)

func TestNewAuthRequest(t *testing.T) {
	req, err := newAuthRequest()
	if err != nil {
		t.Fatalf("newAuthRequest() error = %v", err)
	}
	if req.verifier == "" || req.state == "" {
		t.Error("expected non-empty verifier and state")
	}
	if want := oauth.GenerateCodeChallenge(req.verifier); req.challenge != want {
		t.Errorf("challenge = %q, want %q", req.challenge, want)
	}

	other, err := newAuthRequest()
	if err != nil {
		t.Fatalf("newAuthRequest() error = %v", err)
	}
	if other.state == req.state || other.verifier == req.verifier {
		t.Error("expected fresh randomness for every request")
	}
}

func TestAuthRequestAuthCodeURL(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
		RedirectURL: "http://localhost:9999/callback",
		Scopes:      []string{"scope-a"},
	}
	req := &authRequest{verifier: "v", challenge: "c", state: "s"}

	parsed, err := url.Parse(req.authCodeURL(conf, oauth.PromptConsent, "user@example.com"))
	if err != nil {
		t.Fatalf("failed to parse authorization URL: %v", err)
	}
	q := parsed.Query()

	want := map[string]string{
		"client_id":             "client-id",
		"state":                 "s",
		"code_challenge":        "c",
		"code_challenge_method": "S256",
		"access_type":           "offline",
		"prompt":                "consent",
		"login_hint":            "user@example.com",
	}
	for key, value := range want {
		if got := q.Get(key); got != value {
			t.Errorf("%s = %q, want %q", key, got, value)
		}
	}

	parsed, err = url.Parse(req.authCodeURL(conf, oauth.PromptNone, ""))
	if err != nil {
		t.Fatalf("failed to parse authorization URL: %v", err)
	}
	q = parsed.Query()
	if got := q.Get("prompt"); got != "none" {
		t.Errorf("prompt = %q, want none", got)
	}
	if _, ok := q["login_hint"]; ok {
		t.Error("login_hint should be omitted when no hint is given")
	}
}

func TestWaitForCallback(t *testing.T) {
	t.Run("delivers result", func(t *testing.T) {
		results := make(chan *oauth.CallbackResult, 1)
		results <- &oauth.CallbackResult{Code: "abc", State: "xyz"}

		result, err := waitForCallback(context.Background(), results)
		if err != nil {
			t.Fatalf("waitForCallback() error = %v", err)
		}
		if result.Code != "abc" {
			t.Errorf("Code = %q, want abc", result.Code)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := waitForCallback(ctx, make(chan *oauth.CallbackResult)); err == nil {
			t.Error("expected an error after cancellation")
		}
	})
}
