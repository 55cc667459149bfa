package oauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/workspace-tools/workspace-mcp/internal/instrumentation"
)

// Headers an upstream SSO gateway uses to forward the user's Google
// credentials. The Authorization bearer token proves identity and is
// checked by the OAuth middleware before this one runs; the forwarded
// access token is what actually reaches the Google APIs.
const (
	SSOAccessTokenHeader = "X-Google-Access-Token"

	// SSORefreshTokenHeader is optional and enables refresh for
	// long-running sessions.
	SSORefreshTokenHeader = "X-Google-Refresh-Token"

	// SSOTokenExpiryHeader is optional, RFC 3339. Absent or malformed
	// values fall back to a one-hour expiry.
	SSOTokenExpiryHeader = "X-Google-Token-Expiry"

	defaultAccessTokenExpiry = 1 * time.Hour
	tokenStoreTimeout        = 5 * time.Second
)

// SSOTokenStore persists forwarded access tokens keyed by user identifier.
// Satisfied by the package's own Store as well as external token stores
// that expose the same SaveToken method.
type SSOTokenStore interface {
	SaveToken(ctx context.Context, userID string, token *oauth2.Token) error
}

// SSOMetricsRecorder records token injection outcomes without pulling in
// the full metrics type.
type SSOMetricsRecorder interface {
	RecordSSOTokenInjection(ctx context.Context, result string)
}

// SSOMiddlewareConfig configures SSOAccessTokenMiddlewareWithConfig.
// Logger and Metrics are optional.
type SSOMiddlewareConfig struct {
	Store   SSOTokenStore
	Logger  *slog.Logger
	Metrics SSOMetricsRecorder
}

// SSOAccessTokenMiddleware returns middleware that extracts forwarded
// Google access tokens. Must wrap handlers already behind OAuth
// validation, since it reads the authenticated user from the context.
func SSOAccessTokenMiddleware(store SSOTokenStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return SSOAccessTokenMiddlewareWithConfig(&SSOMiddlewareConfig{
		Store:  store,
		Logger: logger,
	})
}

// SSOAccessTokenMiddlewareWithConfig is the full-configuration variant,
// preferred when metrics are available.
func SSOAccessTokenMiddlewareWithConfig(config *SSOMiddlewareConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	recordMetric := func(ctx context.Context, result string) {
		if config.Metrics != nil {
			config.Metrics.RecordSSOTokenInjection(ctx, result)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// No authenticated user means the OAuth middleware either let an
			// anonymous request through or already rejected it; nothing to do.
			userInfo, ok := GetUserFromContext(ctx)
			if !ok || userInfo == nil || userInfo.Email == "" {
				recordMetric(ctx, instrumentation.SSOInjectionResultNoUser)
				next.ServeHTTP(w, r)
				return
			}

			accessToken := r.Header.Get(SSOAccessTokenHeader)
			if accessToken == "" {
				// User authenticated directly with this server.
				recordMetric(ctx, instrumentation.SSOInjectionResultNoToken)
				next.ServeHTTP(w, r)
				return
			}

			refreshToken := r.Header.Get(SSORefreshTokenHeader)
			expiry := parseTokenExpiry(r.Header.Get(SSOTokenExpiryHeader))
			token := &oauth2.Token{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				TokenType:    "Bearer",
				Expiry:       expiry,
			}

			storeCtx, cancel := context.WithTimeout(ctx, tokenStoreTimeout)
			storeErr := config.Store.SaveToken(storeCtx, userInfo.Email, token)
			cancel()

			if storeErr != nil {
				// The token still rides the context, so the request proceeds.
				logger.Error("Failed to store forwarded SSO access token",
					"email", hashEmailForLog(userInfo.Email),
					"error", storeErr,
				)
				recordMetric(ctx, instrumentation.SSOInjectionResultStoreFailed)
			} else {
				logger.Info("Stored forwarded SSO access token",
					"email", hashEmailForLog(userInfo.Email),
					"has_refresh_token", refreshToken != "",
					"expires_in", time.Until(expiry).Round(time.Second).String(),
				)
				recordMetric(ctx, instrumentation.SSOInjectionResultStored)
			}

			// Downstream MCP tools read the token back with
			// GetGoogleAccessTokenFromContext, skipping a store lookup.
			next.ServeHTTP(w, r.WithContext(ContextWithGoogleAccessToken(ctx, accessToken)))
		})
	}
}

// parseTokenExpiry parses the expiry header, defaulting to one hour from
// now when the value is empty or malformed.
func parseTokenExpiry(expiryStr string) time.Time {
	if expiryStr != "" {
		if expiry, err := time.Parse(time.RFC3339, expiryStr); err == nil {
			return expiry
		}
	}
	return time.Now().Add(defaultAccessTokenExpiry)
}

// hashEmailForLog masks an email for log output while keeping it
// correlatable: first two characters of the local part plus the domain,
// e.g. "te***@example.com".
func hashEmailForLog(email string) string {
	if email == "" {
		return ""
	}
	if len(email) <= 8 {
		return "***"
	}

	localPart, domain, found := strings.Cut(email, "@")
	if !found || localPart == "" || domain == "" {
		return "***"
	}
	if len(localPart) <= 2 {
		return localPart + "***@" + domain
	}
	return localPart[:2] + "***@" + domain
}

// WrapWithSSOAccessToken applies the middleware to a single handler.
func WrapWithSSOAccessToken(handler http.Handler, store SSOTokenStore, logger *slog.Logger) http.Handler {
	return SSOAccessTokenMiddleware(store, logger)(handler)
}

// WrapWithSSOAccessTokenAndMetrics is WrapWithSSOAccessToken with metrics
// recording enabled.
func WrapWithSSOAccessTokenAndMetrics(handler http.Handler, store SSOTokenStore, logger *slog.Logger, metrics SSOMetricsRecorder) http.Handler {
	return SSOAccessTokenMiddlewareWithConfig(&SSOMiddlewareConfig{
		Store:   store,
		Logger:  logger,
		Metrics: metrics,
	})(handler)
}
