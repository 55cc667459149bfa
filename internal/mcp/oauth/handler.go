package oauth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Handler carries the full OAuth 2.1 surface of the MCP server. It plays
// two roles at once: authorization server toward MCP clients (proxying the
// actual authorization to Google) and resource server validating the
// bearer tokens it issued.
type Handler struct {
	config          *Config
	store           *Store
	clientStore     *ClientStore
	flowStore       *FlowStore
	rateLimiter     *RateLimiter // per-IP, nil when rate limiting is off
	userRateLimiter *RateLimiter // per authenticated user
	googleConfig    *oauth2.Config
	httpClient      *http.Client
	auditLogger     *AuditLogger
	metrics         TokenRefreshRecorder
	logger          *slog.Logger

	stopOnce sync.Once
}

// validateResource parses the resource URL and rejects plain HTTP for
// anything that is not a loopback address.
func validateResource(resource string) error {
	parsedURL, err := url.Parse(resource)
	if err != nil {
		return fmt.Errorf("invalid resource URL: %w", err)
	}
	if parsedURL.Scheme == "https" {
		return nil
	}
	switch parsedURL.Hostname() {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return nil
	}
	return fmt.Errorf("resource must use HTTPS in production (got %s://)", parsedURL.Scheme)
}

// newRateLimiter builds a limiter from rate/burst settings, defaulting
// burst to twice the rate. Returns nil when the rate is zero.
func newRateLimiter(rate, burst int, trustProxy bool, cleanupInterval time.Duration, logger *slog.Logger) *RateLimiter {
	if rate <= 0 {
		return nil
	}
	if burst == 0 {
		burst = rate * 2
	}
	if cleanupInterval == 0 {
		cleanupInterval = DefaultRateLimitCleanupInterval
	}
	return NewRateLimiter(rate, burst, trustProxy, cleanupInterval, logger)
}

// NewHandler validates the configuration, fills in secure defaults, and
// assembles the stores and limiters the OAuth endpoints need.
func NewHandler(config *Config) (*Handler, error) {
	if config.Resource == "" {
		return nil, fmt.Errorf("resource is required")
	}
	if err := validateResource(config.Resource); err != nil {
		return nil, err
	}

	if len(config.SupportedScopes) == 0 {
		config.SupportedScopes = google.DefaultOAuthScopes
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.Security.RefreshTokenTTL == 0 {
		config.Security.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.Security.MaxClientsPerIP == 0 {
		config.Security.MaxClientsPerIP = DefaultMaxClientsPerIP
	}
	// Custom redirect schemes stay allowed unless the caller supplied an
	// explicit pattern list; native apps depend on them.
	if config.Security.AllowedCustomSchemes == nil {
		config.Security.AllowCustomRedirectSchemes = true
		config.Security.AllowedCustomSchemes = DefaultRFC3986SchemePattern
	}

	if config.Security.AllowInsecureAuthWithoutState {
		logger.Warn("⚠️  SECURITY WARNING: State parameter is OPTIONAL (CSRF protection weakened)",
			"recommendation", "Set Security.AllowInsecureAuthWithoutState=false for production")
	}
	if config.Security.DisableRefreshTokenRotation {
		logger.Warn("⚠️  SECURITY WARNING: Refresh token rotation is DISABLED",
			"recommendation", "Set Security.DisableRefreshTokenRotation=false for production")
	}
	if config.Security.AllowPublicClientRegistration {
		logger.Warn("⚠️  SECURITY WARNING: Public client registration is ENABLED (DoS risk)",
			"recommendation", "Set Security.AllowPublicClientRegistration=false and use RegistrationAccessToken")
	}

	rateLimiter := newRateLimiter(config.RateLimit.Rate, config.RateLimit.Burst,
		config.RateLimit.TrustProxy, config.RateLimit.CleanupInterval, logger)
	if rateLimiter != nil {
		logger.Info("IP-based rate limiting enabled", "rate", config.RateLimit.Rate)
	}
	// The user limiter keys on email addresses, so proxy headers are
	// irrelevant to it.
	userRateLimiter := newRateLimiter(config.RateLimit.UserRate, config.RateLimit.UserBurst,
		false, config.RateLimit.CleanupInterval, logger)
	if userRateLimiter != nil {
		logger.Info("User-based rate limiting enabled", "rate", config.RateLimit.UserRate)
	}

	var googleConfig *oauth2.Config
	if config.GoogleAuth.ClientID != "" && config.GoogleAuth.ClientSecret != "" {
		redirectURL := config.GoogleAuth.RedirectURL
		if redirectURL == "" {
			redirectURL = config.Resource + "/oauth/google/callback"
		}
		googleConfig = &oauth2.Config{
			ClientID:     config.GoogleAuth.ClientID,
			ClientSecret: config.GoogleAuth.ClientSecret,
			Endpoint:     oauth2google.Endpoint,
			Scopes:       config.SupportedScopes,
			RedirectURL:  redirectURL,
		}
		logger.Info("OAuth proxy mode enabled with Google credentials", "redirect_url", redirectURL)
	} else {
		logger.Warn("OAuth proxy disabled: Google OAuth credentials not provided")
	}

	store := NewStoreWithInterval(config.CleanupInterval)
	store.SetLogger(logger)
	if len(config.Security.EncryptionKey) > 0 {
		encryption, err := NewTokenEncryption(config.Security.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		store.SetEncryption(encryption)
		logger.Info("Token encryption at rest enabled")
	}

	var auditLogger *AuditLogger
	if config.Security.EnableAuditLogging {
		auditLogger = NewAuditLogger(logger)
		logger.Info("OAuth audit logging enabled")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Handler{
		config:          config,
		store:           store,
		clientStore:     NewClientStore(logger),
		flowStore:       NewFlowStore(logger),
		rateLimiter:     rateLimiter,
		userRateLimiter: userRateLimiter,
		googleConfig:    googleConfig,
		httpClient:      httpClient,
		auditLogger:     auditLogger,
		metrics:         config.Metrics,
		logger:          logger,
	}, nil
}

// Stop terminates the background goroutines owned by the handler's stores
// and rate limiters. Safe to call more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		if h.store != nil {
			h.store.Stop()
		}
		if h.flowStore != nil {
			h.flowStore.Stop()
		}
		if h.rateLimiter != nil {
			h.rateLimiter.Stop()
		}
		if h.userRateLimiter != nil {
			h.userRateLimiter.Stop()
		}
	})
}

// GetStore exposes the token store so the serve command can derive a
// token provider from it.
func (h *Handler) GetStore() *Store {
	return h.store
}

// GetConfig returns the handler's configuration.
func (h *Handler) GetConfig() *Config {
	return h.config
}

// CanRefreshTokens reports whether Google credentials are configured, which
// refreshing a Google token requires.
func (h *Handler) CanRefreshTokens() bool {
	return h.googleConfig != nil && h.googleConfig.ClientID != ""
}

// ServeProtectedResourceMetadata serves RFC 9728 Protected Resource
// Metadata. An MCP client that received a 401 follows the WWW-Authenticate
// header here to discover the authorization server, which is this same
// server proxying to Google.
func (h *Handler) ServeProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := ProtectedResourceMetadata{
		Resource:               h.config.Resource,
		AuthorizationServers:   []string{h.config.Resource},
		BearerMethodsSupported: []string{"header"},
		ScopesSupported:        h.config.SupportedScopes,
	}

	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		h.logger.Error("Failed to encode metadata", "error", err)
		http.Error(w, "Failed to encode metadata", http.StatusInternalServerError)
	}
}

// setSecurityHeaders applies the standard browser hardening headers to
// every OAuth response. HSTS is only sent when the resource itself is
// served over HTTPS.
func (h *Handler) setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-XSS-Protection", "1; mode=block")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
	w.Header().Set("Referrer-Policy", "no-referrer")

	if h.config.Resource != "" {
		parsedURL, err := url.Parse(h.config.Resource)
		if err == nil && parsedURL.Scheme == "https" {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
	}
}

// writeError emits an RFC 6749 error response body.
func (h *Handler) writeError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	h.logger.Debug("OAuth error", "code", errorCode, "description", description, "status", statusCode)
	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:            errorCode,
		ErrorDescription: description,
	})
}

// RevokeToken revokes a user's Google token upstream and removes it from
// the store. Upstream failures are logged but do not block the local
// deletion, so the user is forced to re-authenticate either way.
func (h *Handler) RevokeToken(email string) error {
	h.logger.Info("Revoking token", "email", email)

	token, err := h.store.GetGoogleToken(email)
	if err == nil && token != nil && token.AccessToken != "" {
		data := url.Values{}
		data.Set("token", token.AccessToken)

		resp, revokeErr := h.httpClient.PostForm("https://oauth2.googleapis.com/revoke", data)
		if revokeErr != nil {
			h.logger.Warn("Failed to revoke token at Google", "email", email, "error", revokeErr)
		} else {
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				h.logger.Warn("Google token revocation returned non-OK status",
					"email", email, "status", resp.StatusCode)
			} else {
				h.logger.Info("Successfully revoked token at Google", "email", email)
			}
		}
	}

	return h.store.DeleteGoogleToken(email)
}

// ServeRevoke handles POST /oauth/revoke with {"email": "..."} bodies.
func (h *Handler) ServeRevoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		h.writeError(w, "invalid_request", "Email is required", http.StatusBadRequest)
		return
	}

	if err := h.RevokeToken(req.Email); err != nil {
		h.writeError(w, "server_error", fmt.Sprintf("Failed to revoke token: %v", err), http.StatusInternalServerError)
		return
	}

	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Token revoked for %s", req.Email),
	})
}
