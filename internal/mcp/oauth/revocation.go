package oauth

import (
	"fmt"
	"net/http"
)

// ServeTokenRevocation implements RFC 7009 token revocation at
// POST /oauth/revoke. The client must authenticate, and the response is
// 200 with an empty body whether or not the token existed, so the
// endpoint cannot be used to probe for live tokens.
func (h *Handler) ServeTokenRevocation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clientIP := getClientIP(r, h.config.RateLimit.TrustProxy)

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Invalid revocation request body", "error", err, "ip", clientIP)
		h.writeError(w, "invalid_request", "Invalid request body", http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	if token == "" {
		h.logger.Warn("Missing token parameter", "ip", clientIP)
		h.writeError(w, "invalid_request", "Missing token parameter", http.StatusBadRequest)
		return
	}

	clientID, authErr := h.authenticateRevocationClient(r)
	if authErr != nil {
		h.logger.Warn("Client authentication failed for revocation",
			"error", authErr,
			"ip", clientIP)
		h.writeError(w, "invalid_client", "Client authentication required", http.StatusUnauthorized)
		return
	}

	tokenTypeHint := r.FormValue("token_type_hint")
	if tokenTypeHint == "" {
		tokenTypeHint = h.guessTokenType(token)
	}

	var revokeErr error
	var userEmail string
	switch tokenTypeHint {
	case "refresh_token":
		userEmail, revokeErr = h.revokeRefreshToken(token, clientID)
	case "access_token":
		userEmail, revokeErr = h.revokeAccessToken(token, clientID)
	default:
		// Unknown hint: try both interpretations.
		userEmail, revokeErr = h.revokeRefreshToken(token, clientID)
		if revokeErr != nil {
			userEmail, revokeErr = h.revokeAccessToken(token, clientID)
		}
	}

	if revokeErr != nil {
		// RFC 7009 Section 2.2: invalid tokens still get a 200.
		h.logger.Debug("Token revocation failed (returning success per RFC 7009)",
			"client_id", clientID,
			"token_type_hint", tokenTypeHint,
			"error", revokeErr,
			"ip", clientIP)
	} else {
		h.logger.Info("Token revoked successfully",
			"client_id", clientID,
			"user_email_hash", HashForDisplay(userEmail),
			"token_type", tokenTypeHint,
			"ip", clientIP)
		if h.auditLogger != nil {
			h.auditLogger.LogTokenRevoked(userEmail, clientID, clientIP, tokenTypeHint)
		}
	}

	w.WriteHeader(http.StatusOK)
}

// authenticateRevocationClient authenticates the revoking client using the
// same mechanisms as the token endpoint: HTTP Basic auth or form
// parameters, with "none" accepted only for registered public clients.
func (h *Handler) authenticateRevocationClient(r *http.Request) (string, error) {
	if clientID, clientSecret, ok := r.BasicAuth(); ok && clientID != "" {
		if err := h.clientStore.ValidateClientSecret(clientID, clientSecret); err != nil {
			return "", fmt.Errorf("invalid client credentials")
		}
		return clientID, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("failed to parse form")
	}

	clientID := r.FormValue("client_id")
	clientSecret := r.FormValue("client_secret")
	if clientID == "" {
		return "", fmt.Errorf("missing client_id")
	}

	if clientSecret == "" {
		client, err := h.clientStore.GetClient(clientID)
		if err != nil {
			return "", fmt.Errorf("invalid client")
		}
		if client.TokenEndpointAuthMethod != "none" {
			return "", fmt.Errorf("client secret required")
		}
		return clientID, nil
	}

	if err := h.clientStore.ValidateClientSecret(clientID, clientSecret); err != nil {
		return "", fmt.Errorf("invalid client credentials")
	}
	return clientID, nil
}

// guessTokenType classifies a token when the client sent no
// token_type_hint. Falls back to refresh_token per the RFC 7009
// recommendation.
func (h *Handler) guessTokenType(token string) string {
	if _, err := h.store.GetRefreshToken(token); err == nil {
		return "refresh_token"
	}
	if _, err := h.store.GetGoogleToken(token); err == nil {
		return "access_token"
	}
	return "refresh_token"
}

// revokeRefreshToken deletes a refresh token and returns the email it was
// bound to.
func (h *Handler) revokeRefreshToken(refreshToken, clientID string) (string, error) {
	userEmail, err := h.store.GetRefreshToken(refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token not found: %w", err)
	}
	// TODO: store the issuing client_id with each refresh token so one
	// client cannot revoke another client's tokens.
	if err := h.store.DeleteRefreshToken(refreshToken); err != nil {
		return userEmail, fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return userEmail, nil
}

// revokeAccessToken removes the access token mapping. The user's
// email-keyed Google token stays so other sessions for the same user keep
// working.
func (h *Handler) revokeAccessToken(accessToken, clientID string) (string, error) {
	userEmail, err := h.store.DeleteAccessToken(accessToken)
	if err != nil {
		return "", fmt.Errorf("access token not found: %w", err)
	}
	return userEmail, nil
}
