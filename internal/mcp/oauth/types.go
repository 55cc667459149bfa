package oauth

// ProtectedResourceMetadata represents OAuth 2.0 Protected Resource Metadata (RFC 9728)
type ProtectedResourceMetadata struct {
	// Resource is the identifier for the protected resource
	Resource string `json:"resource"`

	// AuthorizationServers lists the authorization servers that can issue tokens for this resource
	AuthorizationServers []string `json:"authorization_servers"`

	// BearerMethodsSupported lists the ways Bearer tokens can be sent (RFC 6750)
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`

	// ResourceSigningAlgValuesSupported lists supported signing algorithms
	ResourceSigningAlgValuesSupported []string `json:"resource_signing_alg_values_supported,omitempty"`

	// ScopesSupported lists the scopes understood by this resource
	ScopesSupported []string `json:"scopes_supported,omitempty"`
}

// GoogleUserInfo represents the user information from Google's userinfo endpoint
type GoogleUserInfo struct {
	// Sub is the unique Google user ID
	Sub string `json:"sub"`

	// Email is the user's email address
	Email string `json:"email"`

	// EmailVerified indicates if the email is verified
	EmailVerified bool `json:"email_verified"`

	// Name is the user's full name
	Name string `json:"name"`

	// Picture is the URL of the user's profile picture
	Picture string `json:"picture"`

	// GivenName is the user's first name
	GivenName string `json:"given_name"`

	// FamilyName is the user's last name
	FamilyName string `json:"family_name"`

	// Locale is the user's preferred locale
	Locale string `json:"locale"`
}

// ErrorResponse represents an OAuth error response
type ErrorResponse struct {
	// Error is the error code
	Error string `json:"error"`

	// ErrorDescription provides additional information
	ErrorDescription string `json:"error_description,omitempty"`

	// ErrorURI points to error documentation
	ErrorURI string `json:"error_uri,omitempty"`
}

// AuthorizationServerMetadata represents OAuth 2.0 Authorization Server Metadata (RFC 8414)
type AuthorizationServerMetadata struct {
	// Issuer is the authorization server's issuer identifier
	Issuer string `json:"issuer"`

	// AuthorizationEndpoint is the URL of the authorization endpoint
	AuthorizationEndpoint string `json:"authorization_endpoint"`

	// TokenEndpoint is the URL of the token endpoint
	TokenEndpoint string `json:"token_endpoint"`

	// RegistrationEndpoint is the URL of the Dynamic Client Registration endpoint
	RegistrationEndpoint string `json:"registration_endpoint,omitempty"`

	// RevocationEndpoint is the URL of the RFC 7009 token revocation endpoint
	RevocationEndpoint string `json:"revocation_endpoint,omitempty"`

	// ScopesSupported lists the scopes this server can issue tokens for
	ScopesSupported []string `json:"scopes_supported,omitempty"`

	// ResponseTypesSupported lists the supported response_type values
	ResponseTypesSupported []string `json:"response_types_supported"`

	// GrantTypesSupported lists the supported grant_type values
	GrantTypesSupported []string `json:"grant_types_supported,omitempty"`

	// TokenEndpointAuthMethodsSupported lists the supported client authentication methods
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported,omitempty"`

	// CodeChallengeMethodsSupported lists the supported PKCE challenge methods
	CodeChallengeMethodsSupported []string `json:"code_challenge_methods_supported,omitempty"`
}

// ClientRegistrationRequest represents a Dynamic Client Registration request (RFC 7591)
type ClientRegistrationRequest struct {
	// RedirectURIs are the redirection URIs for the authorization_code flow
	RedirectURIs []string `json:"redirect_uris"`

	// ClientType is "public" or "confidential" (OAuth 2.1 Section 2.1).
	// Defaults based on token_endpoint_auth_method when omitted.
	ClientType string `json:"client_type,omitempty"`

	// TokenEndpointAuthMethod is the requested client authentication method
	TokenEndpointAuthMethod string `json:"token_endpoint_auth_method,omitempty"`

	// GrantTypes are the OAuth grant types the client will use
	GrantTypes []string `json:"grant_types,omitempty"`

	// ResponseTypes are the OAuth response types the client will use
	ResponseTypes []string `json:"response_types,omitempty"`

	// ClientName is a human-readable name for the client
	ClientName string `json:"client_name,omitempty"`

	// Scope is the space-separated scope the client may request
	Scope string `json:"scope,omitempty"`
}

// ClientRegistrationResponse represents a Dynamic Client Registration response (RFC 7591)
type ClientRegistrationResponse struct {
	// ClientID is the issued client identifier
	ClientID string `json:"client_id"`

	// ClientSecret is the issued client secret (only returned once at
	// registration; empty for public clients)
	ClientSecret string `json:"client_secret,omitempty"`

	// ClientType is "public" or "confidential"
	ClientType string `json:"client_type"`

	// ClientIDIssuedAt is when the client ID was issued (Unix timestamp)
	ClientIDIssuedAt int64 `json:"client_id_issued_at"`

	// ClientSecretExpiresAt is when the secret expires (0 = never)
	ClientSecretExpiresAt int64 `json:"client_secret_expires_at"`

	// RedirectURIs are the registered redirection URIs
	RedirectURIs []string `json:"redirect_uris"`

	// TokenEndpointAuthMethod is the registered client authentication method
	TokenEndpointAuthMethod string `json:"token_endpoint_auth_method,omitempty"`

	// GrantTypes are the registered grant types
	GrantTypes []string `json:"grant_types,omitempty"`

	// ResponseTypes are the registered response types
	ResponseTypes []string `json:"response_types,omitempty"`

	// ClientName is the registered client name
	ClientName string `json:"client_name,omitempty"`

	// Scope is the registered scope
	Scope string `json:"scope,omitempty"`
}

// RegisteredClient is a stored OAuth client from Dynamic Client Registration
type RegisteredClient struct {
	// ClientID is the client identifier
	ClientID string `json:"client_id"`

	// ClientSecret is always empty in storage; only the bcrypt hash is kept
	ClientSecret string `json:"client_secret,omitempty"`

	// ClientSecretHash is the bcrypt hash of the client secret.
	// Empty for public clients, which have no secret.
	ClientSecretHash string `json:"-"`

	// ClientType is "public" or "confidential"
	ClientType string `json:"client_type"`

	// ClientIDIssuedAt is when the client ID was issued (Unix timestamp)
	ClientIDIssuedAt int64 `json:"client_id_issued_at"`

	// ClientSecretExpiresAt is when the secret expires (0 = never)
	ClientSecretExpiresAt int64 `json:"client_secret_expires_at"`

	// RedirectURIs are the registered redirection URIs
	RedirectURIs []string `json:"redirect_uris"`

	// TokenEndpointAuthMethod is the client authentication method
	// ("none" marks a public client that must use PKCE)
	TokenEndpointAuthMethod string `json:"token_endpoint_auth_method"`

	// GrantTypes are the registered grant types
	GrantTypes []string `json:"grant_types,omitempty"`

	// ResponseTypes are the registered response types
	ResponseTypes []string `json:"response_types,omitempty"`

	// ClientName is the registered client name
	ClientName string `json:"client_name,omitempty"`

	// Scope is the registered scope
	Scope string `json:"scope,omitempty"`
}

// AuthorizationState tracks a pending authorization flow while the user
// authenticates with Google. It is keyed by the Google state parameter.
type AuthorizationState struct {
	// State is the MCP client's state parameter, echoed back on the redirect
	State string

	// ClientID is the MCP client that initiated the flow
	ClientID string

	// RedirectURI is where the client wants the authorization code delivered
	RedirectURI string

	// Scope is the scope requested by the client
	Scope string

	// CodeChallenge is the PKCE challenge supplied by the client
	CodeChallenge string

	// CodeChallengeMethod is "S256" or "plain"
	CodeChallengeMethod string

	// GoogleState is the state parameter we send to Google
	GoogleState string

	// Nonce is the OpenID Connect nonce, if the client supplied one
	Nonce string

	// CreatedAt is when the flow started (Unix timestamp)
	CreatedAt int64

	// ExpiresAt is when the flow state expires (Unix timestamp)
	ExpiresAt int64
}

// AuthorizationCode is a single-use code issued to an MCP client after the
// user completes the Google OAuth flow. The Google tokens obtained from the
// exchange ride along so the token endpoint can issue access without another
// round trip to Google.
type AuthorizationCode struct {
	// Code is the authorization code value
	Code string

	// ClientID is the MCP client the code was issued to
	ClientID string

	// RedirectURI is the redirect URI used in the authorization request
	RedirectURI string

	// Scope is the granted scope
	Scope string

	// CodeChallenge is the PKCE challenge bound to this code
	CodeChallenge string

	// CodeChallengeMethod is "S256" or "plain"
	CodeChallengeMethod string

	// GoogleAccessToken is the Google access token from the exchange
	GoogleAccessToken string

	// GoogleRefreshToken is the Google refresh token from the exchange
	GoogleRefreshToken string

	// GoogleTokenExpiry is when the Google access token expires (Unix timestamp)
	GoogleTokenExpiry int64

	// UserEmail is the authenticated Google account
	UserEmail string

	// CreatedAt is when the code was issued (Unix timestamp)
	CreatedAt int64

	// ExpiresAt is when the code expires (Unix timestamp)
	ExpiresAt int64

	// Used marks a consumed code (codes are deleted on first use)
	Used bool
}

// TokenResponse represents a successful token endpoint response (RFC 6749 Section 5.1)
type TokenResponse struct {
	// AccessToken is the issued access token
	AccessToken string `json:"access_token"`

	// TokenType is the token type (always "Bearer")
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int64 `json:"expires_in"`

	// RefreshToken is the issued refresh token, if any
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the granted scope
	Scope string `json:"scope,omitempty"`
}
