package oauth

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestFlowStore(t *testing.T) *FlowStore {
	t.Helper()
	store := NewFlowStore(slog.Default())
	t.Cleanup(store.Stop)
	return store
}

func TestFlowStoreAuthorizationStateLifecycle(t *testing.T) {
	store := newTestFlowStore(t)

	now := time.Now().Unix()
	state := &AuthorizationState{
		State:               "client-state-123",
		ClientID:            "client-123",
		RedirectURI:         "http://localhost:8080/callback",
		Scope:               "email profile",
		CodeChallenge:       "challenge",
		CodeChallengeMethod: "S256",
		GoogleState:         "google-state-456",
		CreatedAt:           now,
		ExpiresAt:           now + 600,
		Nonce:               "nonce-789",
	}

	if err := store.SaveAuthorizationState(state); err != nil {
		t.Fatalf("SaveAuthorizationState() error = %v", err)
	}

	retrieved, err := store.GetAuthorizationState("google-state-456")
	if err != nil {
		t.Fatalf("GetAuthorizationState() error = %v", err)
	}
	if retrieved.State != "client-state-123" || retrieved.ClientID != "client-123" || retrieved.CodeChallenge != "challenge" {
		t.Errorf("retrieved state does not match saved state: %+v", retrieved)
	}

	store.DeleteAuthorizationState("google-state-456")
	if _, err := store.GetAuthorizationState("google-state-456"); err == nil {
		t.Error("state still retrievable after deletion")
	}
}

func TestFlowStoreExpiredStateNotReturned(t *testing.T) {
	store := newTestFlowStore(t)

	now := time.Now().Unix()
	state := &AuthorizationState{
		State:       "client-state-123",
		ClientID:    "client-123",
		GoogleState: "google-state-456",
		CreatedAt:   now - 1000,
		ExpiresAt:   now - 100,
	}
	if err := store.SaveAuthorizationState(state); err != nil {
		t.Fatalf("SaveAuthorizationState() error = %v", err)
	}

	if _, err := store.GetAuthorizationState("google-state-456"); err == nil {
		t.Error("expired state was returned")
	}
}

func TestFlowStoreAuthorizationCodeSingleUse(t *testing.T) {
	store := newTestFlowStore(t)

	now := time.Now().Unix()
	authCode := &AuthorizationCode{
		Code:                "auth-code-123",
		ClientID:            "client-123",
		RedirectURI:         "http://localhost:8080/callback",
		Scope:               "email profile",
		CodeChallenge:       "challenge",
		CodeChallengeMethod: "S256",
		GoogleAccessToken:   "google-access-token",
		GoogleRefreshToken:  "google-refresh-token",
		GoogleTokenExpiry:   now + 3600,
		UserEmail:           "user@example.com",
		CreatedAt:           now,
		ExpiresAt:           now + 600,
	}
	if err := store.SaveAuthorizationCode(authCode); err != nil {
		t.Fatalf("SaveAuthorizationCode() error = %v", err)
	}

	retrieved, err := store.GetAuthorizationCode("auth-code-123")
	if err != nil {
		t.Fatalf("GetAuthorizationCode() error = %v", err)
	}
	if retrieved.ClientID != "client-123" || retrieved.UserEmail != "user@example.com" {
		t.Errorf("retrieved code does not match saved code: %+v", retrieved)
	}

	// The first exchange consumes the code; a replay must fail.
	_, err = store.GetAuthorizationCode("auth-code-123")
	if err == nil {
		t.Fatal("code exchanged twice")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("replay error = %v, want a not-found error", err)
	}
}

func TestFlowStoreExpiredCodeNotReturned(t *testing.T) {
	store := newTestFlowStore(t)

	now := time.Now().Unix()
	authCode := &AuthorizationCode{
		Code:      "auth-code-123",
		ClientID:  "client-123",
		UserEmail: "user@example.com",
		CreatedAt: now - 1000,
		ExpiresAt: now - 100,
	}
	if err := store.SaveAuthorizationCode(authCode); err != nil {
		t.Fatalf("SaveAuthorizationCode() error = %v", err)
	}

	if _, err := store.GetAuthorizationCode("auth-code-123"); err == nil {
		t.Error("expired code was returned")
	}
}

func TestFlowStoreUnknownCode(t *testing.T) {
	store := newTestFlowStore(t)

	if _, err := store.GetAuthorizationCode("nonexistent"); err == nil {
		t.Error("unknown code did not produce an error")
	}
}

func TestFlowStoreCleanupExpired(t *testing.T) {
	store := newTestFlowStore(t)

	now := time.Now().Unix()
	store.SaveAuthorizationState(&AuthorizationState{
		State:       "expired-state",
		GoogleState: "expired-google-state",
		CreatedAt:   now - 1000,
		ExpiresAt:   now - 100,
	})
	store.SaveAuthorizationState(&AuthorizationState{
		State:       "valid-state",
		GoogleState: "valid-google-state",
		CreatedAt:   now,
		ExpiresAt:   now + 600,
	})
	store.SaveAuthorizationCode(&AuthorizationCode{
		Code:      "expired-code",
		CreatedAt: now - 1000,
		ExpiresAt: now - 100,
	})
	store.SaveAuthorizationCode(&AuthorizationCode{
		Code:      "valid-code",
		CreatedAt: now,
		ExpiresAt: now + 600,
	})

	store.cleanupExpired()

	if _, err := store.GetAuthorizationState("expired-google-state"); err == nil {
		t.Error("expired state survived cleanup")
	}
	if _, err := store.GetAuthorizationState("valid-google-state"); err != nil {
		t.Errorf("valid state removed by cleanup: %v", err)
	}
	if _, err := store.GetAuthorizationCode("expired-code"); err == nil {
		t.Error("expired code survived cleanup")
	}

	retrieved, err := store.GetAuthorizationCode("valid-code")
	if err != nil {
		t.Fatalf("valid code removed by cleanup: %v", err)
	}
	if retrieved.Code != "valid-code" {
		t.Errorf("Code = %s, want valid-code", retrieved.Code)
	}
}
