package oauth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenRefreshRecorder records refresh outcomes. Implemented by
// instrumentation.Metrics; declared locally so this package stays
// independent of the metrics stack.
type TokenRefreshRecorder interface {
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// refreshThreshold is how far before expiry a token already counts as
// expired, so a tool call never starts with a token about to lapse
// mid-request.
const refreshThreshold = 5 * time.Minute

// refreshGoogleToken exchanges the refresh token for a fresh access token
// at Google.
func refreshGoogleToken(ctx context.Context, token *oauth2.Token, config *oauth2.Config, httpClient *http.Client) (*oauth2.Token, error) {
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token available")
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	newToken, err := config.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	return newToken, nil
}

// isTokenExpired reports whether the token is expired or will be within
// the threshold. Tokens without an expiry never expire.
func isTokenExpired(token *oauth2.Token, threshold time.Duration) bool {
	if token.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(threshold).After(token.Expiry)
}

// RefreshGoogleTokenIfNeeded returns the token unchanged while it is still
// fresh, otherwise refreshes it through Google and persists the result.
// A failed store write is logged but not fatal; the refreshed token is
// still usable for the current request.
func (h *Handler) RefreshGoogleTokenIfNeeded(ctx context.Context, email string, token *oauth2.Token, config *oauth2.Config) (*oauth2.Token, error) {
	if !isTokenExpired(token, refreshThreshold) {
		return token, nil
	}

	newToken, err := refreshGoogleToken(ctx, token, config, h.httpClient)
	if err != nil {
		h.recordRefresh(ctx, token)
		return nil, fmt.Errorf("failed to refresh token for %s: %w", email, err)
	}
	if h.metrics != nil {
		h.metrics.RecordOAuthTokenRefresh(ctx, "success")
	}

	if err := h.store.SaveGoogleToken(email, newToken); err != nil {
		h.logger.Warn("Failed to save refreshed token", "email", email, "error", err)
	}
	return newToken, nil
}

// recordRefresh classifies a failed refresh: a token with no refresh token
// is simply expired, anything else is a refresh failure.
func (h *Handler) recordRefresh(ctx context.Context, token *oauth2.Token) {
	if h.metrics == nil {
		return
	}
	result := "failure"
	if token.RefreshToken == "" {
		result = "expired"
	}
	h.metrics.RecordOAuthTokenRefresh(ctx, result)
}
