package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientSecretPath returns the expected location of the OAuth client secret
// file downloaded from the Google Cloud console.
func ClientSecretPath() string {
	return filepath.Join(homeDir(), "google-workspace-mcp", "client_secret.json")
}

// LoadOAuthConfig builds the OAuth2 configuration for the consent flow.
// GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET take precedence when both are
// set; otherwise the client secret file is read from ClientSecretPath.
func LoadOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		return &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       DefaultOAuthScopes,
		}, nil
	}

	path := ClientSecretPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth client secret file %s (or set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET): %w", path, err)
	}

	conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client secret file %s: %w", path, err)
	}
	return conf, nil
}

// HasTokenForAccount checks if stored credentials exist for the specified
// account without attempting a refresh
func HasTokenForAccount(account string) bool {
	return DefaultCredentialStore().HasCredentials(account)
}

// GetTokenSourceForAccount returns an OAuth2 token source for the account.
// The source resolves tokens through the credential store, so refreshes are
// serialized per account and persisted to disk.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	ts := DefaultCredentialStore().TokenSource(ctx, account)

	// Validate the stored credentials up front
	if _, err := ts.Token(); err != nil {
		return nil, err
	}

	return ts, nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the specified account
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client, nil
}

// GetAuthenticationErrorMessage returns user-facing guidance for a missing
// or unusable OAuth credential.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf(`Google OAuth credentials not found for account "%s". To authorize access:

1. Run 'workspace-mcp auth' on the machine where this server runs
2. Sign in with your Google account in the browser window that opens
3. Grant access to Google Workspace (Gmail, Drive, Docs, Calendar, ...)

Credentials are saved to %s and refreshed automatically. Authenticate once
per account; pass account="<email>" to address a specific one.`, account, DefaultCredentialDir())
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
