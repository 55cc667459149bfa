package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ClientStore holds dynamically registered OAuth clients (RFC 7591). Secrets
// are stored only as bcrypt hashes; the plaintext leaves the store exactly
// once, in the registration response.
type ClientStore struct {
	mu           sync.RWMutex
	clients      map[string]*RegisteredClient
	clientsPerIP map[string]int
	logger       *slog.Logger
}

func NewClientStore(logger *slog.Logger) *ClientStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientStore{
		clients:      make(map[string]*RegisteredClient),
		clientsPerIP: make(map[string]int),
		logger:       logger,
	}
}

// CheckIPLimit reports whether an IP may register another client. A
// non-positive limit disables the check.
func (s *ClientStore) CheckIPLimit(ip string, maxClientsPerIP int) error {
	if maxClientsPerIP <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if count := s.clientsPerIP[ip]; count >= maxClientsPerIP {
		return fmt.Errorf("client registration limit reached for IP %s (%d/%d)", ip, count, maxClientsPerIP)
	}
	return nil
}

// validateClientTypeAuthMethod checks that a client type and token endpoint
// auth method form a valid combination (OAuth 2.1 Section 2.1). Public clients
// cannot hold a secret, so "none" is the only method they may use; confidential
// clients must authenticate, so "none" is forbidden for them.
func validateClientTypeAuthMethod(clientType, authMethod string) error {
	switch clientType {
	case "public":
		if authMethod != "none" {
			return fmt.Errorf("public clients must use token_endpoint_auth_method 'none', got %q", authMethod)
		}
	case "confidential":
		if authMethod == "none" {
			return fmt.Errorf("confidential clients must not use token_endpoint_auth_method 'none'")
		}
		if authMethod != "client_secret_basic" && authMethod != "client_secret_post" {
			return fmt.Errorf("unsupported token_endpoint_auth_method %q for confidential client", authMethod)
		}
	default:
		return fmt.Errorf("invalid client_type %q (must be 'public' or 'confidential')", clientType)
	}
	return nil
}

// applyRegistrationDefaults fills in the auth method, client type, grant types
// and response types a registration request left blank. An auth method of
// "none" marks a public client, everything else a confidential one.
func applyRegistrationDefaults(req *ClientRegistrationRequest) (authMethod, clientType string, grantTypes, responseTypes []string) {
	authMethod = req.TokenEndpointAuthMethod
	if authMethod == "" {
		authMethod = DefaultTokenEndpointAuthMethod
	}

	clientType = req.ClientType
	if clientType == "" {
		if authMethod == "none" {
			clientType = "public"
		} else {
			clientType = "confidential"
		}
	}

	grantTypes = req.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = DefaultGrantTypes
	}
	responseTypes = req.ResponseTypes
	if len(responseTypes) == 0 {
		responseTypes = DefaultResponseTypes
	}
	return authMethod, clientType, grantTypes, responseTypes
}

// RegisterClient registers a new OAuth client. clientIP feeds the per-IP
// registration counter used for DoS protection.
func (s *ClientStore) RegisterClient(req *ClientRegistrationRequest, clientIP string) (*ClientRegistrationResponse, error) {
	authMethod, clientType, grantTypes, responseTypes := applyRegistrationDefaults(req)
	if err := validateClientTypeAuthMethod(clientType, authMethod); err != nil {
		return nil, err
	}

	clientID, err := generateSecureToken(ClientIDTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate client ID: %w", err)
	}

	// Public clients get no secret; they prove possession with PKCE instead.
	var clientSecret, secretHash string
	if clientType == "confidential" {
		clientSecret, err = generateSecureToken(ClientSecretTokenLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate client secret: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash client secret: %w", err)
		}
		secretHash = string(hash)
	}

	now := time.Now().Unix()
	client := &RegisteredClient{
		ClientID:                clientID,
		ClientSecretHash:        secretHash,
		ClientType:              clientType,
		ClientIDIssuedAt:        now,
		ClientSecretExpiresAt:   0,
		RedirectURIs:            req.RedirectURIs,
		TokenEndpointAuthMethod: authMethod,
		GrantTypes:              grantTypes,
		ResponseTypes:           responseTypes,
		ClientName:              req.ClientName,
		Scope:                   req.Scope,
	}

	s.mu.Lock()
	s.clients[clientID] = client
	if clientIP != "" {
		s.clientsPerIP[clientIP]++
	}
	clientsFromIP := s.clientsPerIP[clientIP]
	s.mu.Unlock()

	s.logger.Info("Registered new OAuth client",
		"client_id", clientID,
		"client_name", req.ClientName,
		"client_type", clientType,
		"client_ip", clientIP,
		"clients_from_ip", clientsFromIP,
		"redirect_uris", req.RedirectURIs,
		"grant_types", grantTypes,
	)

	return &ClientRegistrationResponse{
		ClientID:                clientID,
		ClientSecret:            clientSecret,
		ClientType:              clientType,
		ClientIDIssuedAt:        now,
		ClientSecretExpiresAt:   0,
		RedirectURIs:            req.RedirectURIs,
		TokenEndpointAuthMethod: authMethod,
		GrantTypes:              grantTypes,
		ResponseTypes:           responseTypes,
		ClientName:              req.ClientName,
		Scope:                   req.Scope,
	}, nil
}

// GetClient looks up a registered client by ID.
func (s *ClientStore) GetClient(clientID string) (*RegisteredClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[clientID]
	if !exists {
		return nil, fmt.Errorf("client not found")
	}
	return client, nil
}

// ValidateClientSecret compares a presented secret against the stored bcrypt
// hash.
func (s *ClientStore) ValidateClientSecret(clientID, clientSecret string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[clientID]
	if !exists {
		return fmt.Errorf("client not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret)); err != nil {
		return fmt.Errorf("invalid client secret")
	}
	return nil
}

// ValidateRedirectURI requires an exact match against the client's registered
// redirect URIs. No prefix or wildcard matching.
func (s *ClientStore) ValidateRedirectURI(clientID, redirectURI string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, exists := s.clients[clientID]
	if !exists {
		return fmt.Errorf("client not found")
	}
	for _, uri := range client.RedirectURIs {
		if uri == redirectURI {
			return nil
		}
	}
	return fmt.Errorf("redirect_uri not registered for this client")
}

// generateSecureToken returns length bytes of entropy as unpadded base64url.
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b), nil
}
