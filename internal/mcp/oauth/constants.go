package oauth

import "time"

// Token and code lifetimes.
const (
	// DefaultRefreshTokenTTL bounds refresh token life to 90 days.
	DefaultRefreshTokenTTL = 90 * 24 * time.Hour

	// DefaultAuthorizationCodeTTL is the RFC-recommended short window for
	// exchanging an authorization code.
	DefaultAuthorizationCodeTTL = 10 * time.Minute

	// DefaultAccessTokenTTL matches Google's one-hour access tokens.
	DefaultAccessTokenTTL = 1 * time.Hour

	// DefaultCleanupInterval is how often expired tokens are swept.
	DefaultCleanupInterval = 1 * time.Minute

	// DefaultRateLimitCleanupInterval is how often idle per-IP limiters
	// are swept.
	DefaultRateLimitCleanupInterval = 5 * time.Minute

	// InactiveLimiterCleanupWindow is how long a limiter may sit unused
	// before the sweep removes it.
	InactiveLimiterCleanupWindow = 10 * time.Minute

	// TokenExpiringThreshold is the remaining lifetime in seconds under
	// which a token response stops advertising the token as long-lived.
	TokenExpiringThreshold = 60

	// RotatedTokenRetention is how long a rotated-out refresh token is
	// remembered for replay detection.
	RotatedTokenRetention = 24 * time.Hour
)

// Registration and client defaults.
const (
	// DefaultMaxClientsPerIP caps dynamic registrations per source IP.
	DefaultMaxClientsPerIP = 10

	// DefaultTokenEndpointAuthMethod is assigned to clients that do not
	// request a specific authentication method.
	DefaultTokenEndpointAuthMethod = "client_secret_basic"
)

// Generated token lengths in bytes of entropy, and the RFC 7636 bounds on
// PKCE code verifiers.
const (
	MinCodeVerifierLength = 43
	MaxCodeVerifierLength = 128

	ClientIDTokenLength     = 32
	ClientSecretTokenLength = 48
	AccessTokenLength       = 48
	RefreshTokenLength      = 48
	StateTokenLength        = 32
)

// Redirect URI validation.
var (
	// DangerousSchemes are URI schemes never accepted as redirect targets.
	DangerousSchemes = []string{"javascript", "data", "file", "vbscript", "about"}

	// DefaultRFC3986SchemePattern accepts any scheme matching the RFC 3986
	// grammar, the default filter for custom (native app) schemes.
	DefaultRFC3986SchemePattern = []string{"^[a-z][a-z0-9+.-]*$"}

	// LoopbackAddresses are the hosts treated as local development.
	LoopbackAddresses = []string{"localhost", "127.0.0.1", "::1", "[::1]"}
)

// Advertised protocol capabilities.
var (
	DefaultGrantTypes    = []string{"authorization_code", "refresh_token"}
	DefaultResponseTypes = []string{"code"}

	// SupportedCodeChallengeMethods deliberately excludes "plain", which
	// OAuth 2.1 forbids.
	SupportedCodeChallengeMethods = []string{"S256"}

	SupportedTokenAuthMethods = []string{"client_secret_basic", "client_secret_post", "none"}
)
