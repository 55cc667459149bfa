package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultAccount selects the most recently authenticated account instead of
// a specific e-mail address.
const DefaultAccount = "default"

// ConfigurationError indicates that authentication has not been set up, or
// that stored credentials can no longer be used without running the auth
// flow again. It is distinct from transient API errors: retrying will not
// help until the user re-authenticates.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// credentialFile is the on-disk JSON format for authorized user credentials,
// one file per account. The expiry is RFC 3339 in UTC.
type credentialFile struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
	Expiry       string   `json:"expiry,omitempty"`
}

func (cf *credentialFile) token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  cf.Token,
		TokenType:    "Bearer",
		RefreshToken: cf.RefreshToken,
	}
	if cf.Expiry != "" {
		if t, err := time.Parse(time.RFC3339, cf.Expiry); err == nil {
			tok.Expiry = t
		}
	}
	return tok
}

// oauthConfig builds the minimal OAuth2 config needed to refresh this
// credential against its token endpoint.
func (cf *credentialFile) oauthConfig() *oauth2.Config {
	tokenURL := cf.TokenURI
	if tokenURL == "" {
		tokenURL = google.Endpoint.TokenURL
	}
	return &oauth2.Config{
		ClientID:     cf.ClientID,
		ClientSecret: cf.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		Scopes:       cf.Scopes,
	}
}

func (cf *credentialFile) update(tok *oauth2.Token) {
	cf.Token = tok.AccessToken
	if tok.RefreshToken != "" {
		cf.RefreshToken = tok.RefreshToken
	}
	if tok.Expiry.IsZero() {
		cf.Expiry = ""
	} else {
		cf.Expiry = tok.Expiry.UTC().Format(time.RFC3339)
	}
}

// CredentialStore manages authorized user credentials stored as one JSON
// file per account in a single directory. All reads, refreshes and writes
// for an account go through a per-account mutex, so concurrent tool calls
// never race a token refresh against a file write.
type CredentialStore struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCredentialStore returns a store backed by the given directory. The
// directory is created lazily on the first save.
func NewCredentialStore(dir string) *CredentialStore {
	return &CredentialStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
}

var (
	defaultStoreOnce sync.Once
	defaultStore     *CredentialStore
)

// DefaultCredentialStore returns the process-wide store backed by
// ~/.google_workspace_mcp/credentials.
func DefaultCredentialStore() *CredentialStore {
	defaultStoreOnce.Do(func() {
		defaultStore = NewCredentialStore(DefaultCredentialDir())
	})
	return defaultStore
}

// DefaultCredentialDir returns the directory where authorized user
// credentials are stored.
func DefaultCredentialDir() string {
	return filepath.Join(homeDir(), ".google_workspace_mcp", "credentials")
}

// Dir returns the directory backing this store.
func (s *CredentialStore) Dir() string {
	return s.dir
}

func (s *CredentialStore) accountLock(account string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[account]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[account] = lock
	}
	return lock
}

// validateAccountName rejects account identifiers that could escape the
// credential directory. E-mail addresses are valid account names.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if strings.ContainsAny(account, `/\ `) || strings.Contains(account, "..") {
		return fmt.Errorf("invalid account name: %q", account)
	}
	return nil
}

func (s *CredentialStore) credentialPath(account string) string {
	return filepath.Join(s.dir, account+".json")
}

// tokenFilePath resolves an account to its credential file. The default
// account maps to the most recently modified credential file, matching the
// behavior of single-user setups where whichever account authenticated last
// is the active one.
func (s *CredentialStore) tokenFilePath(account string) (string, error) {
	if account == "" || account == DefaultAccount {
		return s.latestCredentialFile()
	}
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	path := s.credentialPath(account)
	if _, err := os.Stat(path); err != nil {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("not authenticated: no credentials found for account %q in %s; run 'workspace-mcp auth' first", account, s.dir),
		}
	}
	return path, nil
}

func (s *CredentialStore) latestCredentialFile() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("not authenticated: credentials directory not found: %s; run 'workspace-mcp auth' first", s.dir),
		}
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("not authenticated: no credential files found in %s; run 'workspace-mcp auth' first", s.dir),
		}
	}
	return filepath.Join(s.dir, newest), nil
}

// Resolve returns a usable OAuth2 token for the account. Expired tokens are
// refreshed at most once per call and the refreshed credential is written
// back to disk before Resolve returns. Tokens that cannot be refreshed
// surface as ConfigurationError so callers can tell the user to
// re-authenticate instead of retrying.
func (s *CredentialStore) Resolve(ctx context.Context, account string) (*oauth2.Token, error) {
	path, err := s.tokenFilePath(account)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), ".json")
	lock := s.accountLock(name)
	lock.Lock()
	defer lock.Unlock()

	cf, err := readCredentialFile(path)
	if err != nil {
		return nil, err
	}

	tok := cf.token()
	if tok.Valid() {
		return tok, nil
	}

	if cf.RefreshToken == "" {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("credentials for %s expired, re-authenticate with 'workspace-mcp auth'", name),
		}
	}

	refreshed, err := cf.oauthConfig().TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh credentials for %s: %w", name, err)
	}

	cf.update(refreshed)
	if err := writeCredentialFile(path, cf); err != nil {
		return nil, err
	}

	return refreshed, nil
}

// SaveAuthorizedToken persists a token obtained from the consent flow as the
// credential file for the account, creating the store directory if needed.
func (s *CredentialStore) SaveAuthorizedToken(account string, conf *oauth2.Config, tok *oauth2.Token) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	lock := s.accountLock(account)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	cf := &credentialFile{
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       conf.Scopes,
	}
	cf.update(tok)

	return writeCredentialFile(s.credentialPath(account), cf)
}

// HasCredentials reports whether a credential file exists for the account
// without touching the network.
func (s *CredentialStore) HasCredentials(account string) bool {
	_, err := s.tokenFilePath(account)
	return err == nil
}

// AccountInfo describes one stored credential file.
type AccountInfo struct {
	Account  string
	Path     string
	Modified time.Time
	Expiry   time.Time
}

// ListAccounts returns all stored accounts, most recently modified first.
// The first entry is the one the default account resolves to. A missing
// credentials directory yields an empty list, not an error.
func (s *CredentialStore) ListAccounts() ([]AccountInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credentials directory: %w", err)
	}

	var accounts []AccountInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		account := AccountInfo{
			Account:  strings.TrimSuffix(entry.Name(), ".json"),
			Path:     path,
			Modified: info.ModTime(),
		}
		if cf, err := readCredentialFile(path); err == nil && cf.Expiry != "" {
			if t, err := time.Parse(time.RFC3339, cf.Expiry); err == nil {
				account.Expiry = t
			}
		}
		accounts = append(accounts, account)
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Modified.After(accounts[j].Modified)
	})
	return accounts, nil
}

// storeTokenSource routes token requests through CredentialStore.Resolve so
// every refresh is serialized and persisted.
type storeTokenSource struct {
	ctx     context.Context
	store   *CredentialStore
	account string
}

func (ts storeTokenSource) Token() (*oauth2.Token, error) {
	return ts.store.Resolve(ts.ctx, ts.account)
}

// TokenSource returns an oauth2.TokenSource for the account. Tokens are
// cached in memory and re-resolved through the store only when they expire.
func (s *CredentialStore) TokenSource(ctx context.Context, account string) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, storeTokenSource{ctx: ctx, store: s, account: account})
}

func readCredentialFile(path string) (*credentialFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	var cf credentialFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}
	return &cf, nil
}

func writeCredentialFile(path string, cf *credentialFile) error {
	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
