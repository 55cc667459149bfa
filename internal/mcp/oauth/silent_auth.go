package oauth

import (
	mcpoauth "github.com/giantswarm/mcp-oauth"
	"github.com/giantswarm/mcp-oauth/providers"
)

// AuthorizationURLOptions carries optional OIDC parameters for an
// authorization request (OIDC Core Section 3.1.2.1). Setting Prompt to
// PromptNone with a LoginHint attempts silent re-authentication against an
// existing Google session without showing any UI.
type AuthorizationURLOptions = providers.AuthorizationURLOptions

// SilentAuthError is returned when a prompt=none authorization attempt needs
// user interaction. Callers should fall back to an interactive flow.
type SilentAuthError = mcpoauth.SilentAuthError

// CallbackResult holds the parsed query parameters of an OAuth redirect:
// either a code and state on success, or an error triple. Err() converts an
// error response into a typed error, including *SilentAuthError for the
// silent-auth failure codes.
type CallbackResult = mcpoauth.CallbackResult

// IsSilentAuthError reports whether err means silent authentication failed
// and an interactive login is required. It recognizes *SilentAuthError
// (including wrapped errors) as well as the OIDC failure codes embedded in
// plain error strings.
func IsSilentAuthError(err error) bool {
	return mcpoauth.IsSilentAuthError(err)
}

// ParseOAuthError converts an OAuth error code and description into a typed
// error: *SilentAuthError for the silent-auth failure codes, a generic error
// otherwise, nil when the code is empty.
func ParseOAuthError(errorCode, errorDescription string) error {
	return mcpoauth.ParseOAuthError(errorCode, errorDescription)
}

// ParseCallbackQuery builds a CallbackResult from the individual callback
// query parameters (code, state, error, error_description, error_uri).
func ParseCallbackQuery(code, state, errorCode, errorDescription, errorURI string) *CallbackResult {
	return mcpoauth.ParseCallbackQuery(code, state, errorCode, errorDescription, errorURI)
}

// Error codes that mark a failed silent authentication (OIDC Core
// Section 3.1.2.6).
const (
	// ErrorCodeLoginRequired means there is no active session at the IdP.
	ErrorCodeLoginRequired = mcpoauth.ErrorCodeLoginRequired

	// ErrorCodeConsentRequired means the user has not granted the requested scopes.
	ErrorCodeConsentRequired = mcpoauth.ErrorCodeConsentRequired

	// ErrorCodeInteractionRequired means the IdP needs user interaction.
	ErrorCodeInteractionRequired = mcpoauth.ErrorCodeInteractionRequired

	// ErrorCodeAccountSelectionRequired means the user must pick an account.
	ErrorCodeAccountSelectionRequired = mcpoauth.ErrorCodeAccountSelectionRequired
)

// Prompt values for AuthorizationURLOptions.Prompt.
const (
	// PromptNone requests silent authentication with no UI. The IdP returns
	// a silent-auth error if login or consent would be needed.
	PromptNone = "none"

	// PromptLogin forces re-authentication even with an active session.
	PromptLogin = "login"

	// PromptConsent forces the consent screen even if previously granted.
	PromptConsent = "consent"

	// PromptSelectAccount forces the account chooser.
	PromptSelectAccount = "select_account"
)
