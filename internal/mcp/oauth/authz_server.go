package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// writeOAuthError sends a structured protocol error built by one of the
// errors.go constructors.
func (h *Handler) writeOAuthError(w http.ResponseWriter, e *OAuthError) {
	h.writeError(w, e.Code, e.Description, e.Status)
}

// ServeAuthorizationServerMetadata serves RFC 8414 authorization server
// metadata, telling MCP clients where this server's OAuth endpoints live.
func (h *Handler) ServeAuthorizationServerMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metadata := AuthorizationServerMetadata{
		Issuer:                            h.config.Resource,
		AuthorizationEndpoint:             h.config.Resource + "/oauth/authorize",
		TokenEndpoint:                     h.config.Resource + "/oauth/token",
		RegistrationEndpoint:              h.config.Resource + "/oauth/register",
		RevocationEndpoint:                h.config.Resource + "/oauth/revoke",
		ScopesSupported:                   h.config.SupportedScopes,
		ResponseTypesSupported:            DefaultResponseTypes,
		GrantTypesSupported:               DefaultGrantTypes,
		TokenEndpointAuthMethodsSupported: SupportedTokenAuthMethods,
		CodeChallengeMethodsSupported:     SupportedCodeChallengeMethods,
	}

	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		h.logger.Error("Failed to encode authorization server metadata", "error", err)
	}
}

// authorizeRegistration gates dynamic registration behind the registration
// access token unless unauthenticated registration was explicitly enabled.
func (h *Handler) authorizeRegistration(w http.ResponseWriter, r *http.Request) bool {
	if h.config.Security.AllowPublicClientRegistration {
		h.logger.Warn("⚠️  Unauthenticated client registration (DoS risk)",
			"client_ip", r.RemoteAddr)
		return true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		h.logger.Warn("Client registration rejected: missing authorization",
			"client_ip", r.RemoteAddr)
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.writeError(w, "invalid_token",
			"Registration access token required. "+
				"Set AllowPublicClientRegistration=true to disable authentication (NOT recommended).",
			http.StatusUnauthorized)
		return false
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		h.logger.Warn("Client registration rejected: invalid authorization header",
			"client_ip", r.RemoteAddr)
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.writeError(w, "invalid_token", "Invalid Authorization header format", http.StatusUnauthorized)
		return false
	}

	if h.config.Security.RegistrationAccessToken == "" {
		h.logger.Error("RegistrationAccessToken not configured but AllowPublicClientRegistration=false")
		h.writeError(w, "server_error",
			"Server configuration error: registration token not configured",
			http.StatusInternalServerError)
		return false
	}
	if token != h.config.Security.RegistrationAccessToken {
		h.logger.Warn("Client registration rejected: invalid registration token",
			"client_ip", r.RemoteAddr)
		h.writeError(w, "invalid_token", "Invalid registration access token", http.StatusUnauthorized)
		return false
	}

	h.logger.Info("Client registration authenticated with valid token")
	return true
}

// ServeDynamicClientRegistration implements RFC 7591 dynamic client
// registration.
func (h *Handler) ServeDynamicClientRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.authorizeRegistration(w, r) {
		return
	}

	var req ClientRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid_request", "Failed to parse registration request", http.StatusBadRequest)
		return
	}

	if len(req.RedirectURIs) == 0 {
		h.writeError(w, "invalid_redirect_uri", "At least one redirect_uri is required", http.StatusBadRequest)
		return
	}
	for _, uri := range req.RedirectURIs {
		if err := validateRedirectURI(uri, h.config.Resource, h.config.Security.AllowCustomRedirectSchemes, h.config.Security.AllowedCustomSchemes); err != nil {
			h.writeError(w, "invalid_redirect_uri", err.Error(), http.StatusBadRequest)
			return
		}
	}

	clientIP := getClientIP(r, h.config.RateLimit.TrustProxy)
	if err := h.clientStore.CheckIPLimit(clientIP, h.config.Security.MaxClientsPerIP); err != nil {
		h.logger.Warn("Client registration limit exceeded",
			"client_ip", clientIP,
			"limit", h.config.Security.MaxClientsPerIP)
		h.writeError(w, "invalid_request",
			fmt.Sprintf("Client registration limit exceeded for your IP address (%d max)", h.config.Security.MaxClientsPerIP),
			http.StatusTooManyRequests)
		return
	}

	resp, err := h.clientStore.RegisterClient(&req, clientIP)
	if err != nil {
		h.logger.Warn("Client registration rejected", "error", err)
		h.writeError(w, "invalid_client_metadata", err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("Client registered successfully",
		"client_id", resp.ClientID,
		"client_name", resp.ClientName,
		"client_type", resp.ClientType,
	)
	if h.auditLogger != nil {
		h.auditLogger.LogClientRegistered(resp.ClientID, resp.ClientType, clientIP)
	}

	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// ServeAuthorization starts the authorization code flow by validating the
// client's request and redirecting the user agent to Google.
func (h *Handler) ServeAuthorization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.googleConfig == nil {
		h.logger.Error("Google OAuth not configured")
		h.writeOAuthError(w, ErrServerError("OAuth proxy not configured"))
		return
	}

	query := r.URL.Query()
	clientID := query.Get("client_id")
	redirectURI := query.Get("redirect_uri")
	state := query.Get("state")
	scope := query.Get("scope")
	codeChallenge := query.Get("code_challenge")
	codeChallengeMethod := query.Get("code_challenge_method")
	nonce := query.Get("nonce")

	if clientID == "" {
		h.writeOAuthError(w, ErrInvalidRequest("client_id is required"))
		return
	}
	if redirectURI == "" {
		h.writeOAuthError(w, ErrInvalidRequest("redirect_uri is required"))
		return
	}

	// OAuth 2.1 requires state for CSRF protection. Missing state passes
	// only if the operator accepted the risk in configuration.
	if state == "" {
		if !h.config.Security.AllowInsecureAuthWithoutState {
			h.logger.Warn("Authorization request rejected: missing state parameter",
				"client_id", clientID,
				"redirect_uri", redirectURI)
			h.writeOAuthError(w, ErrInvalidRequest(
				"state parameter is required for CSRF protection. "+
					"Set Security.AllowInsecureAuthWithoutState=true to disable this check (NOT recommended for production)."))
			return
		}
		h.logger.Warn("⚠️  Authorization request without state parameter (CSRF protection weakened)",
			"client_id", clientID,
			"redirect_uri", redirectURI,
			"security_risk", "CSRF attacks possible")
	}

	if scope != "" {
		if err := h.validateScopes(scope); err != nil {
			h.writeOAuthError(w, ErrInvalidScope(err.Error()))
			return
		}
	}

	client, err := h.clientStore.GetClient(clientID)
	if err != nil {
		h.logger.Warn("Invalid client_id", "client_id", clientID, "error", err)
		h.writeOAuthError(w, ErrInvalidClient("Invalid client_id"))
		return
	}
	if err := h.clientStore.ValidateRedirectURI(clientID, redirectURI); err != nil {
		h.logger.Warn("Invalid redirect_uri",
			"client_id", clientID,
			"redirect_uri", redirectURI,
			"error", err,
		)
		h.writeOAuthError(w, ErrInvalidRequest("redirect_uri not registered for this client"))
		return
	}

	// OAuth 2.1: public clients must use PKCE.
	if codeChallenge == "" && client.TokenEndpointAuthMethod == "none" {
		h.writeOAuthError(w, ErrInvalidRequest("PKCE is required for public clients"))
		return
	}
	if codeChallenge != "" {
		if codeChallengeMethod == "" {
			codeChallengeMethod = "plain"
		}
		if codeChallengeMethod != "S256" && codeChallengeMethod != "plain" {
			h.writeOAuthError(w, ErrInvalidRequest("Invalid code_challenge_method"))
			return
		}
	}

	googleState, err := generateSecureToken(StateTokenLength)
	if err != nil {
		h.logger.Error("Failed to generate state", "error", err)
		h.writeOAuthError(w, ErrServerError("Failed to generate state"))
		return
	}

	now := time.Now().Unix()
	authState := &AuthorizationState{
		State:               state,
		ClientID:            clientID,
		RedirectURI:         redirectURI,
		Scope:               scope,
		CodeChallenge:       codeChallenge,
		CodeChallengeMethod: codeChallengeMethod,
		GoogleState:         googleState,
		CreatedAt:           now,
		ExpiresAt:           now + int64(DefaultAuthorizationCodeTTL.Seconds()),
		Nonce:               nonce,
	}
	if err := h.flowStore.SaveAuthorizationState(authState); err != nil {
		h.logger.Error("Failed to save authorization state", "error", err)
		h.writeOAuthError(w, ErrServerError("Failed to save state"))
		return
	}

	// AccessTypeOffline asks Google for a refresh token; ApprovalForce
	// guarantees one is returned even for repeat consents.
	googleAuthURL := h.googleConfig.AuthCodeURL(googleState,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	)

	h.logger.Info("Redirecting to Google for authorization",
		"client_id", clientID,
		"redirect_uri", redirectURI,
		"google_state", googleState,
	)
	http.Redirect(w, r, googleAuthURL, http.StatusFound)
}

// ServeGoogleCallback completes the Google leg of the flow: it exchanges
// the Google code for tokens, mints our own authorization code, and sends
// the user agent back to the MCP client.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	googleState := query.Get("state")
	code := query.Get("code")

	if errorParam := query.Get("error"); errorParam != "" {
		errorDesc := query.Get("error_description")
		h.logger.Warn("Google OAuth error",
			"error", errorParam,
			"description", errorDesc,
		)
		http.Error(w, fmt.Sprintf("Google OAuth error: %s - %s", errorParam, errorDesc), http.StatusBadRequest)
		return
	}

	authState, err := h.flowStore.GetAuthorizationState(googleState)
	if err != nil {
		h.logger.Error("Invalid or expired state", "google_state", googleState, "error", err)
		http.Error(w, "Invalid or expired state", http.StatusBadRequest)
		return
	}

	ctx := context.Background()
	googleToken, err := h.googleConfig.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("Failed to exchange code for Google token", "error", err)
		http.Error(w, "Failed to exchange authorization code", http.StatusInternalServerError)
		return
	}

	userInfo, err := h.fetchGoogleUserInfo(ctx, googleToken.AccessToken)
	if err != nil {
		h.logger.Error("Failed to fetch Google user info", "error", err)
		http.Error(w, "Failed to fetch user information", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Google OAuth successful",
		"user_email", userInfo.Email,
		"client_id", authState.ClientID,
	)

	// Persist user info so issued access tokens can be resolved locally.
	if err := h.store.SaveGoogleUserInfo(userInfo.Email, userInfo); err != nil {
		h.logger.Warn("Failed to save Google user info", "email", userInfo.Email, "error", err)
	}

	authCode, err := generateSecureToken(StateTokenLength)
	if err != nil {
		h.logger.Error("Failed to generate authorization code", "error", err)
		http.Error(w, "Failed to generate authorization code", http.StatusInternalServerError)
		return
	}

	now := time.Now().Unix()
	authCodeData := &AuthorizationCode{
		Code:                authCode,
		ClientID:            authState.ClientID,
		RedirectURI:         authState.RedirectURI,
		Scope:               authState.Scope,
		CodeChallenge:       authState.CodeChallenge,
		CodeChallengeMethod: authState.CodeChallengeMethod,
		GoogleAccessToken:   googleToken.AccessToken,
		GoogleRefreshToken:  googleToken.RefreshToken,
		GoogleTokenExpiry:   googleToken.Expiry.Unix(),
		UserEmail:           userInfo.Email,
		CreatedAt:           now,
		ExpiresAt:           now + int64(DefaultAuthorizationCodeTTL.Seconds()),
	}
	if err := h.flowStore.SaveAuthorizationCode(authCodeData); err != nil {
		h.logger.Error("Failed to save authorization code", "error", err)
		http.Error(w, "Failed to save authorization code", http.StatusInternalServerError)
		return
	}

	h.flowStore.DeleteAuthorizationState(googleState)

	redirectURL, err := url.Parse(authState.RedirectURI)
	if err != nil {
		h.logger.Error("Invalid redirect URI", "redirect_uri", authState.RedirectURI, "error", err)
		http.Error(w, "Invalid redirect URI", http.StatusInternalServerError)
		return
	}
	redirectQuery := redirectURL.Query()
	redirectQuery.Set("code", authCode)
	if authState.State != "" {
		redirectQuery.Set("state", authState.State)
	}
	redirectURL.RawQuery = redirectQuery.Encode()

	h.logger.Info("Redirecting back to MCP client",
		"client_id", authState.ClientID,
		"redirect_uri", authState.RedirectURI,
	)
	http.Redirect(w, r, redirectURL.String(), http.StatusFound)
}

// ServeToken dispatches token endpoint requests by grant type.
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeOAuthError(w, ErrInvalidRequest("Failed to parse request"))
		return
	}

	grantType := r.FormValue("grant_type")
	switch grantType {
	case "authorization_code":
		h.handleAuthorizationCodeGrant(w, r)
	case "refresh_token":
		h.handleRefreshTokenGrant(w, r)
	default:
		h.writeOAuthError(w, ErrUnsupportedGrantType(fmt.Sprintf("Grant type %s not supported", grantType)))
	}
}

// writeTokenResponse sends a token response with the cache headers RFC
// 6749 requires.
func (h *Handler) writeTokenResponse(w http.ResponseWriter, resp TokenResponse) {
	h.setSecurityHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleAuthorizationCodeGrant(w http.ResponseWriter, r *http.Request) {
	params, oauthErr := h.parseAuthCodeRequest(r)
	if oauthErr != nil {
		h.writeOAuthError(w, oauthErr)
		return
	}

	authCode, oauthErr := h.validateAndRetrieveAuthCode(params)
	if oauthErr != nil {
		h.writeOAuthError(w, oauthErr)
		return
	}

	clientID := params.ClientID
	if clientID == "" {
		clientID = authCode.ClientID
	}

	if oauthErr := h.validatePKCE(authCode, params.CodeVerifier, clientID); oauthErr != nil {
		if h.auditLogger != nil {
			h.auditLogger.LogInvalidPKCE(clientID, getClientIP(r, h.config.RateLimit.TrustProxy), oauthErr.Description)
		}
		h.writeOAuthError(w, oauthErr)
		return
	}

	if _, oauthErr = h.authenticateClient(r, clientID); oauthErr != nil {
		h.writeOAuthError(w, oauthErr)
		return
	}

	googleToken, oauthErr := h.ensureFreshGoogleToken(r.Context(), authCode)
	if oauthErr != nil {
		h.writeOAuthError(w, oauthErr)
		return
	}

	accessToken, err := generateSecureToken(AccessTokenLength)
	if err != nil {
		h.logger.Error("Failed to generate access token", "error", err)
		h.writeOAuthError(w, ErrServerError("Failed to generate access token"))
		return
	}

	if oauthErr := h.storeTokens(authCode, googleToken, accessToken); oauthErr != nil {
		h.writeOAuthError(w, oauthErr)
		return
	}

	h.logger.Info("Issued access token",
		"client_id", clientID,
		"user_email", authCode.UserEmail,
		"scope", authCode.Scope)
	if h.auditLogger != nil {
		h.auditLogger.LogTokenIssued(authCode.UserEmail, clientID, getClientIP(r, h.config.RateLimit.TrustProxy), authCode.Scope)
	}

	expiresIn := googleToken.Expiry.Unix() - time.Now().Unix()
	if expiresIn < 0 {
		expiresIn = int64(DefaultAccessTokenTTL.Seconds())
	}

	tokenResp := TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Scope:       authCode.Scope,
	}
	if refreshToken, err := h.issueRefreshToken(authCode); err == nil && refreshToken != "" {
		tokenResp.RefreshToken = refreshToken
	}

	h.writeTokenResponse(w, tokenResp)
}

func (h *Handler) handleRefreshTokenGrant(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.FormValue("refresh_token")
	clientID := r.FormValue("client_id")

	if refreshToken == "" {
		h.writeOAuthError(w, ErrInvalidRequest("refresh_token is required"))
		return
	}

	userEmail, err := h.store.GetRefreshToken(refreshToken)
	if err != nil {
		// A rotated-out token presented again means it leaked: revoke
		// everything the user holds (OAuth 2.1 Section 4.3.1).
		if reusedEmail, reused := h.store.CheckRotatedRefreshToken(refreshToken); reused {
			clientIP := getClientIP(r, h.config.RateLimit.TrustProxy)
			h.logger.Warn("Rotated refresh token replayed, revoking all user tokens",
				"user_email_hash", HashForDisplay(reusedEmail),
				"ip", clientIP)
			if h.auditLogger != nil {
				h.auditLogger.LogTokenReuse(reusedEmail, clientIP)
			}
			if delErr := h.store.DeleteGoogleToken(reusedEmail); delErr != nil {
				h.logger.Error("Failed to revoke tokens after reuse detection",
					"user_email_hash", HashForDisplay(reusedEmail),
					"error", delErr)
			}
			h.writeOAuthError(w, ErrInvalidGrant("Refresh token reuse detected. All tokens revoked. Please re-authenticate."))
			return
		}

		h.logger.Warn("Invalid refresh token", "error", err)
		h.writeOAuthError(w, ErrInvalidGrant("Invalid or expired refresh token"))
		return
	}

	googleToken, err := h.store.GetGoogleToken(userEmail)
	if err != nil {
		h.logger.Warn("No Google token found for refresh",
			"email", userEmail,
			"error", err)
		h.writeOAuthError(w, ErrInvalidGrant("User token not found. Please re-authenticate."))
		return
	}

	if clientID != "" {
		if _, err := h.clientStore.GetClient(clientID); err != nil {
			h.logger.Warn("Invalid client_id in refresh", "client_id", clientID, "error", err)
			h.writeOAuthError(w, ErrInvalidClient("Invalid client"))
			return
		}
	}

	if h.CanRefreshTokens() && googleToken.RefreshToken != "" {
		newToken, refreshErr := refreshGoogleToken(r.Context(), googleToken, h.googleConfig, h.httpClient)
		if refreshErr != nil {
			h.logger.Warn("Failed to refresh Google token",
				"email", userEmail,
				"error", refreshErr)
			h.writeOAuthError(w, ErrInvalidGrant("Token refresh failed. Please re-authenticate."))
			return
		}
		h.logger.Info("Google token refreshed via refresh_token grant", "email", userEmail)
		googleToken = newToken
		if saveErr := h.store.SaveGoogleToken(userEmail, newToken); saveErr != nil {
			h.logger.Warn("Failed to save refreshed Google token",
				"email", userEmail,
				"error", saveErr)
		}
	}

	accessToken, err := generateSecureToken(AccessTokenLength)
	if err != nil {
		h.logger.Error("Failed to generate access token", "error", err)
		h.writeOAuthError(w, ErrServerError("Failed to generate access token"))
		return
	}

	expiresIn := int64(DefaultAccessTokenTTL.Seconds())
	if !googleToken.Expiry.IsZero() {
		expiresIn = googleToken.Expiry.Unix() - time.Now().Unix()
		if expiresIn < 0 {
			expiresIn = int64(DefaultAccessTokenTTL.Seconds())
		}
	}

	if err := h.store.SaveTokenWithEmailMapping(userEmail, accessToken, googleToken); err != nil {
		h.logger.Error("Failed to map access token", "error", err)
		h.writeOAuthError(w, ErrServerError("Failed to store token"))
		return
	}

	h.logger.Info("Issued new access token via refresh_token grant", "email", userEmail)

	tokenResp := TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}
	tokenResp.RefreshToken = h.rotateRefreshToken(refreshToken, userEmail)

	if h.auditLogger != nil {
		rotated := tokenResp.RefreshToken != refreshToken
		h.auditLogger.LogTokenRefreshed(userEmail, clientID, getClientIP(r, h.config.RateLimit.TrustProxy), rotated)
	}

	h.writeTokenResponse(w, tokenResp)
}

// rotateRefreshToken implements OAuth 2.1 refresh token rotation: a new
// token is issued, the old one is invalidated and remembered for replay
// detection. Returns the token the response should carry; failures fall
// back to the old token so the client is not stranded.
func (h *Handler) rotateRefreshToken(oldToken, userEmail string) string {
	if h.config.Security.DisableRefreshTokenRotation {
		h.logger.Warn("⚠️  Refresh token rotation DISABLED - returning same token (security risk)",
			"email", userEmail)
		return oldToken
	}

	newToken, err := generateSecureToken(RefreshTokenLength)
	if err != nil {
		h.logger.Warn("Failed to generate rotated refresh token",
			"email", userEmail,
			"error", err)
		return oldToken
	}

	expiresAt := time.Now().Add(h.config.Security.RefreshTokenTTL).Unix()
	h.store.DeleteRefreshToken(oldToken)
	if err := h.store.SaveRefreshToken(newToken, userEmail, expiresAt); err != nil {
		h.logger.Warn("Failed to store rotated refresh token",
			"email", userEmail,
			"error", err)
		return oldToken
	}

	h.store.MarkRefreshTokenRotated(oldToken, userEmail)
	h.logger.Info("Refresh token rotated",
		"email", userEmail,
		"expires_at", time.Unix(expiresAt, 0))
	return newToken
}

// validateScopes checks requested Google API scopes against the supported
// list. Non-Google scopes such as mcp:tools or openid are protocol scopes
// this server does not enforce, so they pass through.
func (h *Handler) validateScopes(scope string) error {
	for _, requested := range strings.Fields(scope) {
		if !strings.HasPrefix(requested, "https://") {
			h.logger.Debug("Ignoring non-Google scope",
				"scope", requested,
				"reason", "not enforced by this server")
			continue
		}

		supported := false
		for _, s := range h.config.SupportedScopes {
			if requested == s {
				supported = true
				break
			}
		}
		if !supported {
			return fmt.Errorf("unsupported Google API scope: %s", requested)
		}
	}
	return nil
}

// validateRedirectURI applies the OAuth 2.0 Security BCP rules: no
// fragments, no dangerous schemes, custom schemes only when enabled and
// matching the allowed patterns, and HTTPS for non-loopback redirects when
// the server itself runs in production.
func validateRedirectURI(uri string, serverResource string, allowCustomSchemes bool, allowedSchemes []string) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid redirect_uri format: %s", uri)
	}

	if parsed.Fragment != "" {
		return fmt.Errorf("redirect_uri must not contain fragments: %s", uri)
	}
	if parsed.Scheme == "" {
		return fmt.Errorf("redirect_uri must have a scheme: %s", uri)
	}

	// Custom schemes cover native apps (com.example.app:// or myapp://).
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		if !allowCustomSchemes {
			return fmt.Errorf("custom redirect_uri schemes not allowed (only http/https permitted). Set AllowCustomRedirectSchemes=true to enable")
		}

		schemeLower := strings.ToLower(parsed.Scheme)
		for _, dangerous := range DangerousSchemes {
			if schemeLower == dangerous {
				return fmt.Errorf("redirect_uri scheme '%s' is not allowed for security reasons", parsed.Scheme)
			}
		}

		if len(allowedSchemes) > 0 {
			schemeValid := false
			for _, pattern := range allowedSchemes {
				matched, matchErr := regexp.MatchString(pattern, schemeLower)
				if matchErr != nil {
					return fmt.Errorf("invalid scheme pattern '%s': %w", pattern, matchErr)
				}
				if matched {
					schemeValid = true
					break
				}
			}
			if !schemeValid {
				return fmt.Errorf("redirect_uri scheme '%s' does not match allowed patterns (must match one of: %v)",
					parsed.Scheme, allowedSchemes)
			}
		}
		return nil
	}

	if parsed.Host == "" {
		return fmt.Errorf("http/https redirect_uri must have a host: %s", uri)
	}

	serverURL, err := url.Parse(serverResource)
	if err != nil {
		return fmt.Errorf("cannot validate redirect_uri: invalid server resource")
	}

	// Loopback redirects stay legal in production; they cannot be
	// intercepted off the user's machine.
	isProduction := !isLoopback(serverURL.Hostname())
	if isProduction && !isLoopback(parsed.Hostname()) && parsed.Scheme != "https" {
		return fmt.Errorf("redirect_uri must use HTTPS in production (non-localhost redirects): %s", uri)
	}

	return nil
}

// isLoopback reports whether a hostname refers to the local machine.
func isLoopback(hostname string) bool {
	hostname = strings.Trim(hostname, "[]")
	for _, loopback := range LoopbackAddresses {
		if hostname == loopback {
			return true
		}
	}
	return strings.HasPrefix(hostname, "127.") || strings.HasPrefix(hostname, "localhost:")
}

// fetchGoogleUserInfo resolves the authenticated user's identity from the
// Google userinfo endpoint.
func (h *Handler) fetchGoogleUserInfo(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google userinfo returned status %d", resp.StatusCode)
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &userInfo, nil
}
