package oauth

import (
	"log/slog"
	"net/http"
	"time"
)

// Config assembles the OAuth handler from its functional areas: the
// resource identity, the Google proxy credentials, rate limiting, and the
// security knobs. Zero values are safe; NewHandler fills in the secure
// defaults.
type Config struct {
	// Resource is the MCP server's base URL, used as the RFC 8707
	// resource identifier and as the root for derived endpoint URLs.
	Resource string

	// SupportedScopes lists the Google API scopes this server may request.
	// Defaults to the full Workspace scope set.
	SupportedScopes []string

	GoogleAuth GoogleAuthConfig
	RateLimit  RateLimitConfig
	Security   SecurityConfig

	// CleanupInterval is how often expired tokens are swept from the
	// store. Default one minute.
	CleanupInterval time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// HTTPClient overrides the client used for outbound OAuth requests,
	// for timeouts or test doubles. Defaults to a 30s-timeout client.
	HTTPClient *http.Client

	// Metrics, when set, receives token refresh outcomes.
	Metrics TokenRefreshRecorder
}

// GoogleAuthConfig holds the upstream Google OAuth credentials. Both
// ClientID and ClientSecret are required for proxy mode; without them the
// handler can validate tokens but never mint new ones.
type GoogleAuthConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectURL is where Google sends the user back after consent.
	// Default {Resource}/oauth/google/callback.
	RedirectURL string
}

// RateLimitConfig enables per-IP and per-user request limits on the OAuth
// endpoints. A zero Rate or UserRate disables the corresponding limiter.
type RateLimitConfig struct {
	// Rate is requests per second allowed per IP.
	Rate int

	// Burst is the per-IP burst size. Default twice Rate.
	Burst int

	// CleanupInterval is how often idle limiters are dropped. Default
	// five minutes.
	CleanupInterval time.Duration

	// UserRate and UserBurst limit authenticated users by email, on top
	// of the IP limits.
	UserRate  int
	UserBurst int

	// TrustProxy honors X-Forwarded-For and X-Real-IP when resolving the
	// client IP. Only enable behind a trusted reverse proxy.
	TrustProxy bool
}

// SecurityConfig holds the OAuth security knobs. Every default is the
// strict choice; each Allow/Disable field loosens one specific protection
// and should stay false in production.
type SecurityConfig struct {
	// AllowInsecureAuthWithoutState accepts authorization requests that
	// omit the state parameter, weakening CSRF protection. Only for
	// clients that cannot send state.
	AllowInsecureAuthWithoutState bool

	// DisableRefreshTokenRotation keeps refresh tokens valid after use,
	// against OAuth 2.1 guidance. A stolen token then works indefinitely.
	DisableRefreshTokenRotation bool

	// AllowPublicClientRegistration opens dynamic client registration to
	// unauthenticated callers. When false, registration requires
	// RegistrationAccessToken.
	AllowPublicClientRegistration bool

	// RegistrationAccessToken gates client registration when public
	// registration is off. Share only with trusted client developers.
	RegistrationAccessToken string

	// RefreshTokenTTL bounds refresh token lifetime; zero means never
	// expire. Default 90 days.
	RefreshTokenTTL time.Duration

	// MaxClientsPerIP caps registrations per IP against registration
	// flooding. Zero means unlimited. Default 10.
	MaxClientsPerIP int

	// AllowCustomRedirectSchemes admits non-http(s) redirect URIs such as
	// myapp://, which native apps need. Schemes are validated against
	// AllowedCustomSchemes.
	AllowCustomRedirectSchemes bool

	// AllowedCustomSchemes are regex patterns for acceptable custom
	// schemes. Default is the RFC 3986 scheme grammar.
	AllowedCustomSchemes []string

	// EncryptionKey is a 32-byte AES-256 key for encrypting stored
	// tokens. Nil leaves tokens unencrypted in memory. Use
	// GenerateEncryptionKey or EncryptionKeyFromBase64 to obtain one.
	EncryptionKey []byte

	// EnableAuditLogging emits the security audit trail (authentication
	// events, token operations, violations) with sensitive values hashed.
	EnableAuditLogging bool
}
