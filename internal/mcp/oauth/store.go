package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Store manages Google OAuth tokens in memory. Tokens are keyed by user
// email (canonical) and by issued access token (quick lookup). When an
// encryption key is configured the token material is encrypted at rest;
// expiry timestamps stay in the clear so cleanup can run without decrypting.
type Store struct {
	mu                   sync.RWMutex
	googleTokens         map[string]*oauth2.Token   // user email or access token -> Google token
	googleUserInfo       map[string]*GoogleUserInfo // user email -> Google user info
	refreshTokens        map[string]string          // refresh token -> user email
	refreshTokenExpiries map[string]int64           // refresh token -> expiry timestamp
	rotatedTokens        map[string]rotatedToken    // rotated-out refresh token -> reuse detection record
	tokenToEmailMap      map[string]string          // issued access token -> user email (for cleanup)
	cleanupInterval      time.Duration              // How often to cleanup expired tokens
	logger               *slog.Logger
	encryption           *TokenEncryption

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewStore creates a new in-memory Google token store with default cleanup interval
func NewStore() *Store {
	return NewStoreWithInterval(DefaultCleanupInterval)
}

// NewStoreWithInterval creates a new in-memory Google token store with custom cleanup interval
func NewStoreWithInterval(cleanupInterval time.Duration) *Store {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &Store{
		googleTokens:         make(map[string]*oauth2.Token),
		googleUserInfo:       make(map[string]*GoogleUserInfo),
		refreshTokens:        make(map[string]string),
		refreshTokenExpiries: make(map[string]int64),
		rotatedTokens:        make(map[string]rotatedToken),
		tokenToEmailMap:      make(map[string]string),
		cleanupInterval:      cleanupInterval,
		logger:               slog.Default(),
		stopCh:               make(chan struct{}),
	}

	go s.cleanupExpiredTokens()

	return s
}

// SetLogger sets a custom logger for the store
func (s *Store) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetEncryption enables encryption at rest for stored token material.
// Must be called before the store receives traffic; already-stored tokens
// are not re-encrypted.
func (s *Store) SetEncryption(enc *TokenEncryption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encryption = enc
}

// Stop terminates the background cleanup goroutine. Safe to call more than
// once.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// sealToken returns a copy of token with its access and refresh token
// fields encrypted. Returns token unchanged when encryption is off.
func (s *Store) sealToken(token *oauth2.Token) (*oauth2.Token, error) {
	if s.encryption == nil {
		return token, nil
	}

	sealed := *token
	var err error
	if sealed.AccessToken, err = s.encryption.Encrypt(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	if sealed.RefreshToken, err = s.encryption.Encrypt(token.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}
	return &sealed, nil
}

// openToken reverses sealToken.
func (s *Store) openToken(token *oauth2.Token) (*oauth2.Token, error) {
	if s.encryption == nil {
		return token, nil
	}

	opened := *token
	var err error
	if opened.AccessToken, err = s.encryption.Decrypt(token.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	if opened.RefreshToken, err = s.encryption.Decrypt(token.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return &opened, nil
}

// SaveGoogleToken saves a Google OAuth token for a user
// The key can be either a user email (canonical storage) or an access token (for quick lookup)
func (s *Store) SaveGoogleToken(key string, token *oauth2.Token) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.sealToken(token)
	if err != nil {
		return err
	}

	s.googleTokens[key] = sealed
	s.logger.Debug("Saved Google token", "key", key, "expiry", token.Expiry)
	return nil
}

// SaveToken satisfies SSOTokenStore so forwarded tokens land in this store.
// The userID is the user's email address.
func (s *Store) SaveToken(_ context.Context, userID string, token *oauth2.Token) error {
	return s.SaveGoogleToken(userID, token)
}

// GetGoogleToken retrieves a Google OAuth token for a user
func (s *Store) GetGoogleToken(email string) (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.googleTokens[email]
	if !ok {
		return nil, fmt.Errorf("Google token not found for user: %s", email)
	}

	// Zero expiry means the token does not expire. Expired tokens are still
	// returned when they carry a refresh token so callers can refresh them.
	if !token.Expiry.IsZero() && token.Expiry.Before(time.Now()) && token.RefreshToken == "" {
		return nil, fmt.Errorf("Google token expired for user: %s", email)
	}

	return s.openToken(token)
}

// DeleteGoogleToken removes a Google OAuth token for a user
func (s *Store) DeleteGoogleToken(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.googleTokens, email)
	delete(s.googleUserInfo, email)

	// Also delete any refresh tokens for this user
	for refreshToken, userEmail := range s.refreshTokens {
		if userEmail == email {
			delete(s.refreshTokens, refreshToken)
			delete(s.refreshTokenExpiries, refreshToken)
		}
	}

	s.logger.Info("Deleted Google token and refresh tokens", "email", email)
	return nil
}

// SaveGoogleUserInfo saves Google user info
func (s *Store) SaveGoogleUserInfo(email string, userInfo *GoogleUserInfo) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if userInfo == nil {
		return fmt.Errorf("userInfo cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.googleUserInfo[email] = userInfo
	return nil
}

// GetGoogleUserInfo retrieves Google user info
func (s *Store) GetGoogleUserInfo(email string) (*GoogleUserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userInfo, ok := s.googleUserInfo[email]
	if !ok {
		return nil, fmt.Errorf("Google user info not found for user: %s", email)
	}

	return userInfo, nil
}

// cleanupExpiredTokens periodically removes expired tokens
// Uses optimized locking strategy to minimize write lock duration
// Re-validates expiration under write lock to prevent race conditions
func (s *Store) cleanupExpiredTokens() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
		}

		// Collect expired items with read lock first
		s.mu.RLock()

		expiredGoogleTokens := []string{}
		expiredRefreshTokens := []string{}
		expiredRotated := []string{}
		now := time.Now()
		nowUnix := now.Unix()

		// Find expired Google tokens
		for key, token := range s.googleTokens {
			if !token.Expiry.IsZero() && token.Expiry.Before(now) {
				expiredGoogleTokens = append(expiredGoogleTokens, key)
			}
		}

		// Find expired refresh tokens
		for refreshToken, expiresAt := range s.refreshTokenExpiries {
			if nowUnix > expiresAt {
				expiredRefreshTokens = append(expiredRefreshTokens, refreshToken)
			}
		}

		// Find stale rotation records
		for token, record := range s.rotatedTokens {
			if nowUnix > record.expiresAt {
				expiredRotated = append(expiredRotated, token)
			}
		}

		s.mu.RUnlock()

		if len(expiredGoogleTokens) == 0 && len(expiredRefreshTokens) == 0 && len(expiredRotated) == 0 {
			continue
		}

		// Delete in batch with write lock
		s.mu.Lock()

		// Re-check expiration under write lock to prevent race conditions
		// Tokens might have been refreshed between read and write locks
		currentTime := time.Now()
		currentTimeUnix := currentTime.Unix()

		for _, key := range expiredGoogleTokens {
			if token, ok := s.googleTokens[key]; ok {
				if !token.Expiry.IsZero() && token.Expiry.Before(currentTime) {
					delete(s.googleTokens, key)
					// Only delete user info if this is an email key (not an access token)
					if email, hasEmail := s.tokenToEmailMap[key]; hasEmail {
						delete(s.tokenToEmailMap, key)
						// Check if this was the last token for this email
						if _, stillHasToken := s.googleTokens[email]; !stillHasToken {
							delete(s.googleUserInfo, email)
						}
					} else {
						// This is an email key
						delete(s.googleUserInfo, key)
					}
					s.logger.Debug("Cleaned up expired Google token", "key", key)
				}
			}
		}

		for _, refreshToken := range expiredRefreshTokens {
			if expiresAt, ok := s.refreshTokenExpiries[refreshToken]; ok {
				if currentTimeUnix > expiresAt {
					email := s.refreshTokens[refreshToken]
					delete(s.refreshTokens, refreshToken)
					delete(s.refreshTokenExpiries, refreshToken)
					s.logger.Debug("Cleaned up expired refresh token", "email", email)
				}
			}
		}

		for _, token := range expiredRotated {
			if record, ok := s.rotatedTokens[token]; ok && currentTimeUnix > record.expiresAt {
				delete(s.rotatedTokens, token)
			}
		}

		s.mu.Unlock()
	}
}

// SaveRefreshToken saves a refresh token mapping to user email with expiry
func (s *Store) SaveRefreshToken(refreshToken, email string, expiresAt int64) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh token cannot be empty")
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshTokens[refreshToken] = email
	s.refreshTokenExpiries[refreshToken] = expiresAt
	s.logger.Debug("Saved refresh token",
		"email", email,
		"expires_at", time.Unix(expiresAt, 0))
	return nil
}

// GetRefreshToken retrieves the user email associated with a refresh token
// Returns an error if the token is expired
func (s *Store) GetRefreshToken(refreshToken string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.refreshTokens[refreshToken]
	if !ok {
		return "", fmt.Errorf("refresh token not found")
	}

	// Check if refresh token is expired
	if expiresAt, hasExpiry := s.refreshTokenExpiries[refreshToken]; hasExpiry {
		if time.Now().Unix() > expiresAt {
			return "", fmt.Errorf("refresh token expired")
		}
	}

	return email, nil
}

// DeleteRefreshToken removes a refresh token and its expiry tracking
func (s *Store) DeleteRefreshToken(refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.refreshTokens, refreshToken)
	delete(s.refreshTokenExpiries, refreshToken)
	s.logger.Debug("Deleted refresh token")
	return nil
}

// rotatedToken records a refresh token that was replaced during rotation.
// A rotated-out token presented again means it leaked or was replayed.
type rotatedToken struct {
	email     string
	expiresAt int64
}

// MarkRefreshTokenRotated remembers a rotated-out refresh token so a later
// replay can be recognized and the user's grants revoked (OAuth 2.1
// Section 4.3.1). The record is kept for RotatedTokenRetention.
func (s *Store) MarkRefreshTokenRotated(oldToken, email string) {
	if oldToken == "" || email == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotatedTokens[oldToken] = rotatedToken{
		email:     email,
		expiresAt: time.Now().Add(RotatedTokenRetention).Unix(),
	}
}

// CheckRotatedRefreshToken reports whether a token was rotated out, and for
// which user. Detection consumes the record.
func (s *Store) CheckRotatedRefreshToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.rotatedTokens[token]
	if !ok {
		return "", false
	}
	delete(s.rotatedTokens, token)
	if time.Now().Unix() > record.expiresAt {
		return "", false
	}
	return record.email, true
}

// SaveTokenWithEmailMapping saves a Google token by both email and access token
// This is a convenience method to ensure tokens are stored consistently
func (s *Store) SaveTokenWithEmailMapping(email, accessToken string, token *oauth2.Token) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if accessToken == "" {
		return fmt.Errorf("access token cannot be empty")
	}
	if token == nil {
		return fmt.Errorf("token cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sealed, err := s.sealToken(token)
	if err != nil {
		return err
	}

	// Save by email (canonical)
	s.googleTokens[email] = sealed
	// Save by access token (for quick lookup)
	s.googleTokens[accessToken] = sealed
	// Track the mapping for cleanup
	s.tokenToEmailMap[accessToken] = email

	s.logger.Debug("Saved Google token with email mapping",
		"email", email,
		"token_prefix", accessToken[:min(10, len(accessToken))])
	return nil
}

// GetEmailForAccessToken resolves an issued access token to the user email
// it was issued for
func (s *Store) GetEmailForAccessToken(accessToken string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.tokenToEmailMap[accessToken]
	if !ok {
		return "", fmt.Errorf("access token not found")
	}
	return email, nil
}

// DeleteAccessToken removes an issued access token and its email mapping.
// Returns the email the token was issued to. The user's email-keyed Google
// token is left in place so other sessions keep working.
func (s *Store) DeleteAccessToken(accessToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.googleTokens[accessToken]; !ok {
		return "", fmt.Errorf("access token not found")
	}

	email := s.tokenToEmailMap[accessToken]
	delete(s.googleTokens, accessToken)
	delete(s.tokenToEmailMap, accessToken)

	s.logger.Debug("Deleted access token",
		"token_prefix", accessToken[:min(10, len(accessToken))])
	return email, nil
}

// Stats returns statistics about the store
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int{
		"google_tokens":          len(s.googleTokens),
		"user_info":              len(s.googleUserInfo),
		"refresh_tokens":         len(s.refreshTokens),
		"refresh_token_expiries": len(s.refreshTokenExpiries),
		"rotated_tokens":         len(s.rotatedTokens),
		"token_email_mappings":   len(s.tokenToEmailMap),
	}
}
