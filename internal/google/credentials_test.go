package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func writeTestCredential(t *testing.T, dir, account string, cf *credentialFile) string {
	t.Helper()
	data, err := json.Marshal(cf)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, account+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func validCredential(token string) *credentialFile {
	return &credentialFile{
		Token:        token,
		RefreshToken: "refresh-token",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       []string{"https://www.googleapis.com/auth/drive"},
		Expiry:       time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	}
}

func TestResolveMissingDirectory(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := store.Resolve(context.Background(), DefaultAccount)
	if err == nil {
		t.Fatal("Resolve() should fail when the credentials directory does not exist")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Resolve() error = %v, want ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "authenticate") {
		t.Errorf("Resolve() error should tell the user to authenticate, got: %v", err)
	}
}

func TestResolveEmptyDirectory(t *testing.T) {
	store := NewCredentialStore(t.TempDir())

	_, err := store.Resolve(context.Background(), DefaultAccount)
	if err == nil {
		t.Fatal("Resolve() should fail when no credential files exist")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Resolve() error = %v, want ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "no credential files") {
		t.Errorf("Resolve() error = %v, want mention of missing credential files", err)
	}
	if !strings.Contains(err.Error(), "authenticate") {
		t.Errorf("Resolve() error should tell the user to authenticate, got: %v", err)
	}
}

func TestResolveValidToken(t *testing.T) {
	dir := t.TempDir()
	writeTestCredential(t, dir, "alice@example.com", validCredential("valid-token"))

	store := NewCredentialStore(dir)
	tok, err := store.Resolve(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tok.AccessToken != "valid-token" {
		t.Errorf("Resolve() AccessToken = %q, want %q", tok.AccessToken, "valid-token")
	}
}

func TestResolveUnknownAccount(t *testing.T) {
	dir := t.TempDir()
	writeTestCredential(t, dir, "alice@example.com", validCredential("valid-token"))

	store := NewCredentialStore(dir)
	_, err := store.Resolve(context.Background(), "bob@example.com")
	if err == nil {
		t.Fatal("Resolve() should fail for an account without credentials")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Resolve() error = %v, want ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "bob@example.com") {
		t.Errorf("Resolve() error should name the account, got: %v", err)
	}
}

func TestResolveDefaultPicksLatestFile(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestCredential(t, dir, "old@example.com", validCredential("old-token"))
	writeTestCredential(t, dir, "new@example.com", validCredential("new-token"))

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	store := NewCredentialStore(dir)
	tok, err := store.Resolve(context.Background(), DefaultAccount)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tok.AccessToken != "new-token" {
		t.Errorf("Resolve() AccessToken = %q, want the most recently modified credential %q", tok.AccessToken, "new-token")
	}

	// Touching the older file makes it the default
	now := time.Now().Add(time.Minute)
	if err := os.Chtimes(oldPath, now, now); err != nil {
		t.Fatal(err)
	}
	tok, err = store.Resolve(context.Background(), "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tok.AccessToken != "old-token" {
		t.Errorf("Resolve() AccessToken = %q, want %q after touching the file", tok.AccessToken, "old-token")
	}
}

func TestResolveRefreshesExpiredToken(t *testing.T) {
	var refreshCalls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse refresh request: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh-token" {
			t.Errorf("refresh_token = %q, want refresh-token", got)
		}
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"refreshed-token","token_type":"Bearer","expires_in":3600}`)
	}))
	defer ts.Close()

	dir := t.TempDir()
	cf := validCredential("expired-token")
	cf.TokenURI = ts.URL + "/token"
	cf.Expiry = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	path := writeTestCredential(t, dir, "alice@example.com", cf)

	store := NewCredentialStore(dir)
	tok, err := store.Resolve(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tok.AccessToken != "refreshed-token" {
		t.Errorf("Resolve() AccessToken = %q, want %q", tok.AccessToken, "refreshed-token")
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint called %d times, want 1", got)
	}

	// The refreshed credential must be persisted
	saved, err := readCredentialFile(path)
	if err != nil {
		t.Fatalf("readCredentialFile() error = %v", err)
	}
	if saved.Token != "refreshed-token" {
		t.Errorf("persisted token = %q, want %q", saved.Token, "refreshed-token")
	}
	if saved.RefreshToken != "refresh-token" {
		t.Errorf("persisted refresh token = %q, want it preserved", saved.RefreshToken)
	}

	// A second resolve uses the persisted token without another refresh
	if _, err := store.Resolve(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint called %d times after second Resolve(), want 1", got)
	}
}

func TestConcurrentResolveRefreshesOnce(t *testing.T) {
	var refreshCalls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"refreshed-token","token_type":"Bearer","expires_in":3600}`)
	}))
	defer ts.Close()

	dir := t.TempDir()
	cf := validCredential("expired-token")
	cf.TokenURI = ts.URL + "/token"
	cf.Expiry = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	writeTestCredential(t, dir, "alice@example.com", cf)

	store := NewCredentialStore(dir)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := store.Resolve(context.Background(), "alice@example.com")
			if err != nil {
				errs <- err
				return
			}
			if tok.AccessToken != "refreshed-token" {
				errs <- fmt.Errorf("AccessToken = %q, want refreshed-token", tok.AccessToken)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Resolve() failed: %v", err)
	}

	if got := refreshCalls.Load(); got != 1 {
		t.Errorf("refresh endpoint called %d times for concurrent resolves, want 1", got)
	}
}

func TestResolveExpiredWithoutRefreshToken(t *testing.T) {
	dir := t.TempDir()
	cf := validCredential("expired-token")
	cf.RefreshToken = ""
	cf.Expiry = time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	writeTestCredential(t, dir, "alice@example.com", cf)

	store := NewCredentialStore(dir)
	_, err := store.Resolve(context.Background(), "alice@example.com")
	if err == nil {
		t.Fatal("Resolve() should fail for an expired credential without refresh token")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Resolve() error = %v, want ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("Resolve() error = %v, want mention of expiry", err)
	}
	if !strings.Contains(err.Error(), "re-authenticate") {
		t.Errorf("Resolve() error should tell the user to re-authenticate, got: %v", err)
	}
}

func TestSaveAuthorizedToken(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "credentials")
	store := NewCredentialStore(dir)

	conf := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{TokenURL: "https://oauth2.googleapis.com/token"},
		Scopes:       DefaultOAuthScopes,
	}
	tok := &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Expiry:       time.Now().Add(time.Hour),
	}

	if err := store.SaveAuthorizedToken("alice@example.com", conf, tok); err != nil {
		t.Fatalf("SaveAuthorizedToken() error = %v", err)
	}

	path := filepath.Join(dir, "alice@example.com.json")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("credential file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("credential file mode = %o, want 0600", perm)
	}

	got, err := store.Resolve(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.AccessToken != "access-token" {
		t.Errorf("Resolve() AccessToken = %q, want %q", got.AccessToken, "access-token")
	}
}

func TestSaveAuthorizedTokenRejectsInvalidAccount(t *testing.T) {
	store := NewCredentialStore(t.TempDir())
	conf := &oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: "https://oauth2.googleapis.com/token"}}

	err := store.SaveAuthorizedToken("../escape", conf, &oauth2.Token{AccessToken: "x"})
	if err == nil {
		t.Error("SaveAuthorizedToken() should reject account names with path traversal")
	}
}

func TestListAccounts(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestCredential(t, dir, "old@example.com", validCredential("old-token"))
	writeTestCredential(t, dir, "new@example.com", validCredential("new-token"))

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	store := NewCredentialStore(dir)
	accounts, err := store.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("ListAccounts() returned %d accounts, want 2", len(accounts))
	}
	if accounts[0].Account != "new@example.com" {
		t.Errorf("ListAccounts()[0] = %q, want the most recently modified account first", accounts[0].Account)
	}
	if accounts[1].Account != "old@example.com" {
		t.Errorf("ListAccounts()[1] = %q, want %q", accounts[1].Account, "old@example.com")
	}
	if accounts[0].Expiry.IsZero() {
		t.Error("ListAccounts() should report the credential expiry")
	}
}

func TestListAccountsMissingDirectory(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "does-not-exist"))

	accounts, err := store.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("ListAccounts() returned %d accounts for a missing directory, want 0", len(accounts))
	}
}

func TestCredentialFileFractionalExpiry(t *testing.T) {
	// Files written by other OAuth tooling carry microsecond expiries and
	// extra fields; both must parse cleanly.
	raw := `{
		"token": "access-token",
		"refresh_token": "refresh-token",
		"token_uri": "https://oauth2.googleapis.com/token",
		"client_id": "client-id",
		"client_secret": "client-secret",
		"scopes": ["https://www.googleapis.com/auth/drive"],
		"universe_domain": "googleapis.com",
		"account": "",
		"expiry": "2030-01-02T03:04:05.123456Z"
	}`

	path := filepath.Join(t.TempDir(), "alice@example.com.json")
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}

	cf, err := readCredentialFile(path)
	if err != nil {
		t.Fatalf("readCredentialFile() error = %v", err)
	}
	tok := cf.token()
	if tok.Expiry.Year() != 2030 {
		t.Errorf("token expiry = %v, want year 2030", tok.Expiry)
	}
	if !tok.Valid() {
		t.Error("token with future expiry should be valid")
	}
}

func TestHasCredentials(t *testing.T) {
	dir := t.TempDir()
	writeTestCredential(t, dir, "alice@example.com", validCredential("valid-token"))

	store := NewCredentialStore(dir)
	if !store.HasCredentials("alice@example.com") {
		t.Error("HasCredentials() = false for a stored account, want true")
	}
	if !store.HasCredentials(DefaultAccount) {
		t.Error("HasCredentials() = false for the default account, want true")
	}
	if store.HasCredentials("bob@example.com") {
		t.Error("HasCredentials() = true for an unknown account, want false")
	}
}
