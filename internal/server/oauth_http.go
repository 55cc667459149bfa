package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/instrumentation"
	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
)

// OAuthConfig collects everything needed to stand up the OAuth-protected
// HTTP transport: the public base URL, Google OAuth credentials, the
// security posture of the authorization endpoints, and TLS material.
type OAuthConfig struct {
	// BaseURL is the externally visible URL of this server. It becomes the
	// RFC 8707 resource identifier and the prefix for all OAuth endpoints.
	BaseURL string

	// GoogleClientID and GoogleClientSecret identify the OAuth application
	// at Google. Both are required for HTTP transports.
	GoogleClientID     string
	GoogleClientSecret string

	// AllowPublicClientRegistration opens the RFC 7591 registration
	// endpoint to unauthenticated clients. When false, registration
	// requires RegistrationAccessToken.
	AllowPublicClientRegistration bool
	RegistrationAccessToken       string

	// AllowInsecureAuthWithoutState accepts authorization requests that
	// omit the state parameter. Weakens CSRF protection.
	AllowInsecureAuthWithoutState bool

	// MaxClientsPerIP caps dynamic registrations per source IP (0 = no cap).
	MaxClientsPerIP int

	// EncryptionKey enables AES-256-GCM encryption of stored Google tokens.
	// Must be 32 bytes, base64-encoded. Empty disables encryption at rest.
	EncryptionKey string

	// TrustProxy honors X-Forwarded-For / X-Real-IP for rate limiting.
	// Only enable behind a trusted reverse proxy.
	TrustProxy bool

	// DisableStreaming forces plain JSON responses on the streamable-http
	// transport for clients that cannot consume SSE-upgraded responses.
	DisableStreaming bool

	// TLSCertFile and TLSKeyFile enable TLS termination when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// Logger is used by the OAuth handler for audit and debug output.
	// Defaults to slog.Default when nil.
	Logger *slog.Logger

	// Metrics, when set, receives OAuth token refresh outcomes.
	Metrics *instrumentation.Metrics
}

// CreateOAuthHandler builds the OAuth 2.1 handler that proxies
// authorization through Google for the full Workspace scope set.
// The handler is created separately from the HTTP server so the serve
// command can derive a token provider from its store before any tools run.
func CreateOAuthHandler(cfg OAuthConfig) (*oauth.Handler, error) {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("google OAuth client ID and secret are required")
	}

	encryptionKey, err := oauth.EncryptionKeyFromBase64(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}

	oauthConfig := &oauth.Config{
		Resource:        cfg.BaseURL,
		SupportedScopes: google.DefaultOAuthScopes,
		GoogleAuth: oauth.GoogleAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
		},
		RateLimit: oauth.RateLimitConfig{
			Rate:       10,
			Burst:      20,
			UserRate:   100,
			UserBurst:  200,
			TrustProxy: cfg.TrustProxy,
		},
		Security: oauth.SecurityConfig{
			AllowInsecureAuthWithoutState: cfg.AllowInsecureAuthWithoutState,
			AllowPublicClientRegistration: cfg.AllowPublicClientRegistration,
			RegistrationAccessToken:       cfg.RegistrationAccessToken,
			MaxClientsPerIP:               cfg.MaxClientsPerIP,
			EncryptionKey:                 encryptionKey,
			EnableAuditLogging:            true,
		},
		Logger: cfg.Logger,
	}
	if cfg.Metrics != nil {
		oauthConfig.Metrics = cfg.Metrics
	}

	handler, err := oauth.NewHandler(oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth handler: %w", err)
	}
	return handler, nil
}

// OAuthHTTPServer serves MCP over HTTP behind OAuth 2.1 authentication.
// It mounts the authorization endpoints (metadata discovery, registration,
// authorization, token, revocation) next to the MCP transport endpoints,
// so a single listener carries both the OAuth flow and the tool traffic.
type OAuthHTTPServer struct {
	mcpServer    *mcpserver.MCPServer
	oauthHandler *oauth.Handler
	httpServer   *http.Server
	serverType   string // "sse" or "streamable-http"

	healthChecker    *HealthChecker
	metrics          *instrumentation.Metrics
	disableStreaming bool
	tlsCertFile      string
	tlsKeyFile       string
}

// NewOAuthHTTPServer creates an OAuth-protected MCP server, building its
// own OAuth handler from cfg.
func NewOAuthHTTPServer(mcpServer *mcpserver.MCPServer, serverType string, cfg OAuthConfig) (*OAuthHTTPServer, error) {
	handler, err := CreateOAuthHandler(cfg)
	if err != nil {
		return nil, err
	}
	return NewOAuthHTTPServerWithHandler(mcpServer, serverType, handler, cfg)
}

// NewOAuthHTTPServerWithHandler creates an OAuth-protected MCP server
// around an existing handler. Use this when the handler's token store is
// shared with a token provider created before the server.
func NewOAuthHTTPServerWithHandler(mcpServer *mcpserver.MCPServer, serverType string, handler *oauth.Handler, cfg OAuthConfig) (*OAuthHTTPServer, error) {
	if handler == nil {
		return nil, fmt.Errorf("oauth handler is required")
	}
	switch serverType {
	case "sse", "streamable-http":
	default:
		return nil, fmt.Errorf("unsupported server type: %s", serverType)
	}

	return &OAuthHTTPServer{
		mcpServer:        mcpServer,
		oauthHandler:     handler,
		serverType:       serverType,
		disableStreaming: cfg.DisableStreaming,
		tlsCertFile:      cfg.TLSCertFile,
		tlsKeyFile:       cfg.TLSKeyFile,
	}, nil
}

// SetHealthChecker registers liveness and readiness endpoints on the server.
// Must be called before Start.
func (s *OAuthHTTPServer) SetHealthChecker(hc *HealthChecker) {
	s.healthChecker = hc
}

// SetMetrics enables HTTP request metrics and the active session gauge.
// Must be called before Start.
func (s *OAuthHTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// GetOAuthHandler returns the OAuth handler for direct access to its store.
func (s *OAuthHTTPServer) GetOAuthHandler() *oauth.Handler {
	return s.oauthHandler
}

// buildHandler assembles the full route table. Split from Start so tests
// can exercise routing without binding a listener.
func (s *OAuthHTTPServer) buildHandler() (http.Handler, error) {
	baseURL := s.oauthHandler.GetConfig().Resource
	if err := validateHTTPSRequirement(baseURL); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Authorization server and protected resource endpoints. Rate limited
	// per IP; discovery metadata stays unauthenticated per RFC 8414/9728.
	public := func(path string, endpoint http.HandlerFunc) {
		mux.Handle(path, s.instrument(path, s.oauthHandler.RateLimitMiddleware(endpoint)))
	}
	public("/.well-known/oauth-protected-resource", s.oauthHandler.ServeProtectedResourceMetadata)
	public("/.well-known/oauth-authorization-server", s.oauthHandler.ServeAuthorizationServerMetadata)
	public("/oauth/register", s.oauthHandler.ServeDynamicClientRegistration)
	public("/oauth/authorize", s.oauthHandler.ServeAuthorization)
	public("/oauth/token", s.oauthHandler.ServeToken)
	public("/oauth/google/callback", s.oauthHandler.ServeGoogleCallback)
	public("/oauth/revoke", s.oauthHandler.ServeTokenRevocation)

	// Health probes bypass auth and rate limiting: kubelet probes must
	// never be throttled into failing.
	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	// MCP endpoints require a valid bearer token. The SSO middleware runs
	// after validation and picks up gateway-forwarded Google tokens.
	ssoConfig := &oauth.SSOMiddlewareConfig{
		Store: s.oauthHandler.GetStore(),
	}
	if s.metrics != nil {
		ssoConfig.Metrics = s.metrics
	}
	sso := oauth.SSOAccessTokenMiddlewareWithConfig(ssoConfig)

	secured := func(path string, next http.Handler) http.Handler {
		return s.instrument(path,
			s.oauthHandler.RateLimitMiddleware(
				s.oauthHandler.ValidateGoogleToken(
					sso(next))))
	}

	switch s.serverType {
	case "sse":
		sseServer := mcpserver.NewSSEServer(s.mcpServer,
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
		)

		// The SSE stream stays open for the whole session, so the gauge
		// brackets the handler call.
		sseStream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.metrics != nil {
				s.metrics.IncrementActiveSessions(r.Context())
				defer s.metrics.DecrementActiveSessions(r.Context())
			}
			sseServer.ServeHTTP(w, r)
		})
		mux.Handle("/sse", secured("/sse", sseStream))
		mux.Handle("/message", secured("/message", sseServer))

	case "streamable-http":
		var streamableServer http.Handler
		if s.disableStreaming {
			streamableServer = mcpserver.NewStreamableHTTPServer(s.mcpServer,
				mcpserver.WithEndpointPath("/mcp"),
				mcpserver.WithDisableStreaming(true),
			)
		} else {
			streamableServer = mcpserver.NewStreamableHTTPServer(s.mcpServer,
				mcpserver.WithEndpointPath("/mcp"),
			)
		}
		mux.Handle("/mcp", secured("/mcp", streamableServer))

	default:
		return nil, fmt.Errorf("unsupported server type: %s", s.serverType)
	}

	return mux, nil
}

// Start builds the route table and serves until the listener fails or
// Shutdown is called. Uses TLS when both certificate files are configured.
func (s *OAuthHTTPServer) Start(addr string) error {
	handler, err := s.buildHandler()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: SSE streams and streamable HTTP responses stay
		// open far longer than any fixed deadline.
		IdleTimeout: 120 * time.Second,
	}

	if s.tlsCertFile != "" && s.tlsKeyFile != "" {
		return s.httpServer.ListenAndServeTLS(s.tlsCertFile, s.tlsKeyFile)
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the OAuth handler's background cleanup and drains the
// HTTP server.
func (s *OAuthHTTPServer) Shutdown(ctx context.Context) error {
	if s.oauthHandler != nil {
		s.oauthHandler.Stop()
	}
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// instrument records request count and duration per mount path. The fixed
// path string keeps metric cardinality bounded regardless of what clients
// request.
func (s *OAuthHTTPServer) instrument(path string, next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}

// statusRecorder captures the response status for metrics. It forwards
// Flush so SSE streaming keeps working through the wrapper.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// validateHTTPSRequirement enforces the OAuth 2.1 transport rule: HTTPS
// everywhere, with HTTP tolerated only on loopback hosts for development.
func validateHTTPSRequirement(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		host := u.Hostname()
		if host == "localhost" || host == "127.0.0.1" || host == "::1" {
			return nil
		}
		return fmt.Errorf("OAuth 2.1 requires HTTPS for non-loopback hosts (got %s)", baseURL)
	default:
		return fmt.Errorf("invalid URL scheme %q: must be https, or http on localhost", u.Scheme)
	}
}
