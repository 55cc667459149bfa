package oauth

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FlowStore holds in-flight authorization flow state: the pending
// authorization states keyed by the state parameter we sent to Google,
// and the one-time authorization codes issued back to clients. A
// background sweeper drops anything past its expiry.
type FlowStore struct {
	mu     sync.RWMutex
	states map[string]*AuthorizationState
	codes  map[string]*AuthorizationCode
	logger *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewFlowStore starts the store and its cleanup goroutine.
func NewFlowStore(logger *slog.Logger) *FlowStore {
	if logger == nil {
		logger = slog.Default()
	}
	store := &FlowStore{
		states: make(map[string]*AuthorizationState),
		codes:  make(map[string]*AuthorizationCode),
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go store.sweepLoop()
	return store
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (s *FlowStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// codePrefix truncates an authorization code for logging.
func codePrefix(code string) string {
	if len(code) <= 8 {
		return code
	}
	return code[:8] + "..."
}

// SaveAuthorizationState records a flow that has been redirected to
// Google, keyed by the Google-side state parameter.
func (s *FlowStore) SaveAuthorizationState(state *AuthorizationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state.GoogleState] = state
	s.logger.Debug("Saved authorization state",
		"google_state", state.GoogleState,
		"client_id", state.ClientID,
		"expires_at", time.Unix(state.ExpiresAt, 0),
	)
	return nil
}

// GetAuthorizationState looks up the flow for a Google callback. Expired
// states are treated as missing.
func (s *FlowStore) GetAuthorizationState(googleState string) (*AuthorizationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, exists := s.states[googleState]
	if !exists {
		return nil, fmt.Errorf("authorization state not found")
	}
	if time.Now().Unix() > state.ExpiresAt {
		return nil, fmt.Errorf("authorization state expired")
	}
	return state, nil
}

// DeleteAuthorizationState removes a completed or abandoned flow.
func (s *FlowStore) DeleteAuthorizationState(googleState string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, googleState)
	s.logger.Debug("Deleted authorization state", "google_state", googleState)
}

// SaveAuthorizationCode records a code issued to a client after the
// Google flow completed.
func (s *FlowStore) SaveAuthorizationCode(code *AuthorizationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[code.Code] = code
	s.logger.Debug("Saved authorization code",
		"code_prefix", codePrefix(code.Code),
		"client_id", code.ClientID,
		"user_email", code.UserEmail,
		"expires_at", time.Unix(code.ExpiresAt, 0),
	)
	return nil
}

// GetAuthorizationCode consumes a code: the lookup and the delete happen
// under one lock, so a code can never be exchanged twice.
func (s *FlowStore) GetAuthorizationCode(code string) (*AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authCode, exists := s.codes[code]
	if !exists {
		return nil, fmt.Errorf("authorization code not found")
	}
	if time.Now().Unix() > authCode.ExpiresAt {
		return nil, fmt.Errorf("authorization code expired")
	}

	delete(s.codes, code)
	s.logger.Info("Authorization code consumed and deleted",
		"code_prefix", codePrefix(code),
		"client_id", authCode.ClientID,
		"user_email", authCode.UserEmail,
	)
	return authCode, nil
}

// DeleteAuthorizationCode removes a code without consuming it, for error
// paths.
func (s *FlowStore) DeleteAuthorizationCode(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.codes, code)
	s.logger.Debug("Deleted authorization code", "code_prefix", codePrefix(code))
}

func (s *FlowStore) sweepLoop() {
	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanupExpired()
		}
	}
}

// cleanupExpired drops expired states and codes. Consumed codes never
// reach here; GetAuthorizationCode already deleted them.
func (s *FlowStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	var statesDeleted, codesDeleted int

	for googleState, state := range s.states {
		if now > state.ExpiresAt {
			delete(s.states, googleState)
			statesDeleted++
		}
	}
	for code, authCode := range s.codes {
		if now > authCode.ExpiresAt {
			delete(s.codes, code)
			codesDeleted++
		}
	}

	if statesDeleted > 0 || codesDeleted > 0 {
		s.logger.Debug("Cleaned up OAuth flow data",
			"states_deleted", statesDeleted,
			"codes_deleted", codesDeleted,
		)
	}
}
