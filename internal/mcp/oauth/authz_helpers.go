package oauth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// authCodeRequest carries the parameters of an authorization_code grant.
type authCodeRequest struct {
	Code         string
	RedirectURI  string
	ClientID     string
	CodeVerifier string
}

func (h *Handler) parseAuthCodeRequest(r *http.Request) (*authCodeRequest, *OAuthError) {
	req := &authCodeRequest{
		Code:         r.FormValue("code"),
		RedirectURI:  r.FormValue("redirect_uri"),
		ClientID:     r.FormValue("client_id"),
		CodeVerifier: r.FormValue("code_verifier"),
	}
	if req.Code == "" {
		return nil, ErrInvalidRequest("code is required")
	}
	return req, nil
}

// validateAndRetrieveAuthCode consumes the authorization code and checks it
// against the request. Public PKCE clients may omit client_id; the one bound
// to the code is used instead.
func (h *Handler) validateAndRetrieveAuthCode(params *authCodeRequest) (*AuthorizationCode, *OAuthError) {
	authCode, err := h.flowStore.GetAuthorizationCode(params.Code)
	if err != nil {
		h.logger.Warn("Invalid authorization code", "error", err)
		return nil, ErrInvalidGrant("Invalid or expired authorization code")
	}

	switch {
	case params.ClientID == "":
		h.logger.Debug("Using client_id from authorization code", "client_id", authCode.ClientID)
	case params.ClientID != authCode.ClientID:
		h.logger.Warn("Client ID mismatch",
			"expected", authCode.ClientID,
			"got", params.ClientID)
		return nil, ErrInvalidGrant("Client ID mismatch")
	}

	if authCode.RedirectURI != params.RedirectURI {
		h.logger.Warn("Redirect URI mismatch",
			"expected", authCode.RedirectURI,
			"got", params.RedirectURI)
		return nil, ErrInvalidGrant("Redirect URI mismatch")
	}

	return authCode, nil
}

// checkVerifierFormat enforces the RFC 7636 length bounds and character set.
func (h *Handler) checkVerifierFormat(codeVerifier, clientID string) *OAuthError {
	if len(codeVerifier) < MinCodeVerifierLength {
		h.logger.Warn("code_verifier too short (insufficient entropy)",
			"client_id", clientID,
			"length", len(codeVerifier))
		return ErrInvalidRequest("code_verifier must be at least 43 characters (RFC 7636)")
	}
	if len(codeVerifier) > MaxCodeVerifierLength {
		h.logger.Warn("code_verifier too long",
			"client_id", clientID,
			"length", len(codeVerifier))
		return ErrInvalidRequest("code_verifier must be at most 128 characters (RFC 7636)")
	}
	for i := 0; i < len(codeVerifier); i++ {
		if !isCodeVerifierChar(codeVerifier[i]) {
			h.logger.Warn("code_verifier contains invalid characters", "client_id", clientID)
			return ErrInvalidRequest("code_verifier contains invalid characters (RFC 7636)")
		}
	}
	return nil
}

// validatePKCE checks the code_verifier against the challenge bound to the
// authorization code. A code issued without a challenge skips PKCE entirely.
func (h *Handler) validatePKCE(authCode *AuthorizationCode, codeVerifier string, clientID string) *OAuthError {
	if authCode.CodeChallenge == "" {
		return nil
	}
	if codeVerifier == "" {
		return ErrInvalidRequest("code_verifier is required")
	}
	if oauthErr := h.checkVerifierFormat(codeVerifier, clientID); oauthErr != nil {
		return oauthErr
	}
	if !ValidateCodeChallenge(codeVerifier, authCode.CodeChallenge, authCode.CodeChallengeMethod) {
		h.logger.Warn("PKCE verification failed", "client_id", clientID)
		return ErrInvalidGrant("Invalid code_verifier")
	}
	return nil
}

// authenticateClient verifies client credentials for confidential clients.
// The secret may arrive as a form parameter or via HTTP Basic auth.
func (h *Handler) authenticateClient(r *http.Request, clientID string) (*RegisteredClient, *OAuthError) {
	client, err := h.clientStore.GetClient(clientID)
	if err != nil {
		h.logger.Error("Failed to get client", "client_id", clientID, "error", err)
		return nil, ErrInvalidClient("Invalid client")
	}

	if client.TokenEndpointAuthMethod == "none" {
		return client, nil
	}

	clientSecret := r.FormValue("client_secret")
	if clientSecret == "" {
		username, password, ok := r.BasicAuth()
		if !ok || username != clientID {
			return nil, ErrInvalidClient("Client authentication required")
		}
		clientSecret = password
	}
	if err := h.clientStore.ValidateClientSecret(clientID, clientSecret); err != nil {
		h.logger.Warn("Client authentication failed", "client_id", clientID)
		return nil, ErrInvalidClient("Client authentication failed")
	}

	return client, nil
}

// ensureFreshGoogleToken returns the Google token bound to the authorization
// code, refreshing it when it has under a minute left. An unrefreshable
// expired token means the code sat too long and the user must re-authenticate.
func (h *Handler) ensureFreshGoogleToken(ctx context.Context, authCode *AuthorizationCode) (*oauth2.Token, *OAuthError) {
	googleToken := &oauth2.Token{
		AccessToken:  authCode.GoogleAccessToken,
		RefreshToken: authCode.GoogleRefreshToken,
		Expiry:       time.Unix(authCode.GoogleTokenExpiry, 0),
	}

	expiresIn := authCode.GoogleTokenExpiry - time.Now().Unix()
	if expiresIn >= TokenExpiringThreshold {
		return googleToken, nil
	}

	if !h.CanRefreshTokens() || authCode.GoogleRefreshToken == "" {
		h.logger.Warn("Authorization code expired and refresh not available",
			"email", authCode.UserEmail,
			"expires_in", expiresIn)
		return nil, ErrInvalidGrant("Authorization code expired. Please re-authenticate.")
	}

	h.logger.Info("Google token expired or expiring soon, attempting refresh",
		"email", authCode.UserEmail,
		"expires_in", expiresIn)

	newToken, refreshErr := refreshGoogleToken(ctx, googleToken, h.googleConfig, h.httpClient)
	if refreshErr != nil {
		h.logger.Warn("Failed to refresh expired token during code exchange",
			"email", authCode.UserEmail,
			"error", refreshErr)
		return nil, ErrInvalidGrant("Authorization code expired and token refresh failed. Please re-authenticate.")
	}

	h.logger.Info("Google token refreshed during code exchange", "email", authCode.UserEmail)
	return newToken, nil
}

// storeTokens saves the Google token under both the user's email and the
// issued access token, so Bearer lookups and revocation both resolve.
func (h *Handler) storeTokens(authCode *AuthorizationCode, googleToken *oauth2.Token, accessToken string) *OAuthError {
	if err := h.store.SaveTokenWithEmailMapping(authCode.UserEmail, accessToken, googleToken); err != nil {
		h.logger.Error("Failed to store Google token", "error", err)
		return ErrServerError("Failed to store token")
	}
	return nil
}

// issueRefreshToken mints a server-side refresh token when the Google grant
// included one. Returns an empty string when no refresh is possible.
func (h *Handler) issueRefreshToken(authCode *AuthorizationCode) (string, error) {
	if authCode.GoogleRefreshToken == "" {
		return "", nil
	}

	refreshToken, err := generateSecureToken(RefreshTokenLength)
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(h.config.Security.RefreshTokenTTL).Unix()
	if err := h.store.SaveRefreshToken(refreshToken, authCode.UserEmail, expiresAt); err != nil {
		h.logger.Warn("Failed to store refresh token",
			"email", authCode.UserEmail,
			"error", err)
		return "", err
	}

	h.logger.Info("Issued refresh token",
		"email", authCode.UserEmail,
		"expires_at", time.Unix(expiresAt, 0),
		"ttl", h.config.Security.RefreshTokenTTL)

	return refreshToken, nil
}
