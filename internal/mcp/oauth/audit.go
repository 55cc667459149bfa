package oauth

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// AuditEventType names a security-relevant OAuth event.
type AuditEventType string

const (
	AuditEventTokenIssued    AuditEventType = "token_issued"
	AuditEventTokenRefreshed AuditEventType = "token_refreshed"
	AuditEventTokenRevoked   AuditEventType = "token_revoked"
	AuditEventAuthSuccess    AuditEventType = "auth_success"
	AuditEventAuthFailure    AuditEventType = "auth_failure"
	AuditEventInvalidToken   AuditEventType = "invalid_token"
	AuditEventExpiredToken   AuditEventType = "expired_token"

	AuditEventClientRegistered AuditEventType = "client_registered"
	AuditEventClientDeleted    AuditEventType = "client_deleted"

	AuditEventRateLimitExceeded  AuditEventType = "rate_limit_exceeded"
	AuditEventInvalidPKCE        AuditEventType = "invalid_pkce"
	AuditEventInvalidRedirect    AuditEventType = "invalid_redirect"
	AuditEventTokenReuse         AuditEventType = "token_reuse_detected"
	AuditEventSuspiciousActivity AuditEventType = "suspicious_activity"

	AuditEventCleanupExpired AuditEventType = "cleanup_expired_tokens"
)

// securityEvents are always logged at Warn, regardless of Success.
var securityEvents = map[AuditEventType]bool{
	AuditEventAuthFailure:        true,
	AuditEventInvalidToken:       true,
	AuditEventExpiredToken:       true,
	AuditEventRateLimitExceeded:  true,
	AuditEventInvalidPKCE:        true,
	AuditEventInvalidRedirect:    true,
	AuditEventTokenReuse:         true,
	AuditEventSuspiciousActivity: true,
}

// AuditEvent is one record in the OAuth security audit trail. User identity
// arrives pre-hashed; raw emails and tokens never enter an event.
type AuditEvent struct {
	Timestamp     time.Time
	EventType     AuditEventType
	UserEmailHash string
	ClientID      string
	IPAddress     string
	Success       bool
	ErrorMessage  string

	// Metadata carries event-specific context, logged under meta_* keys.
	Metadata map[string]string
}

// AuditLogger writes the OAuth audit trail through slog.
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger wraps the given logger, falling back to slog.Default.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{logger: logger}
}

// LogEvent emits one audit record. Failures and security events log at
// Warn, everything else at Info.
func (a *AuditLogger) LogEvent(event AuditEvent) {
	level := slog.LevelInfo
	if !event.Success || securityEvents[event.EventType] {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("event_type", string(event.EventType)),
		slog.Time("timestamp", event.Timestamp),
		slog.Bool("success", event.Success),
	}
	if event.UserEmailHash != "" {
		attrs = append(attrs, slog.String("user_email_hash", event.UserEmailHash))
	}
	if event.ClientID != "" {
		attrs = append(attrs, slog.String("client_id", event.ClientID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.ErrorMessage != "" {
		attrs = append(attrs, slog.String("error", event.ErrorMessage))
	}
	for key, value := range event.Metadata {
		attrs = append(attrs, slog.String("meta_"+key, value))
	}

	a.logger.LogAttrs(context.Background(), level, "audit_event", attrs...)
}

// newEvent stamps the shared fields of an audit event.
func newEvent(eventType AuditEventType, userEmail, clientID, ipAddress string, success bool) AuditEvent {
	return AuditEvent{
		Timestamp:     time.Now(),
		EventType:     eventType,
		UserEmailHash: hashForLogging(userEmail),
		ClientID:      clientID,
		IPAddress:     ipAddress,
		Success:       success,
	}
}

// LogTokenIssued records a successful token grant.
func (a *AuditLogger) LogTokenIssued(userEmail, clientID, ipAddress, scope string) {
	event := newEvent(AuditEventTokenIssued, userEmail, clientID, ipAddress, true)
	event.Metadata = map[string]string{"scope": scope}
	a.LogEvent(event)
}

// LogTokenRefreshed records a refresh grant; rotated reports whether the
// refresh token was rotated in the process.
func (a *AuditLogger) LogTokenRefreshed(userEmail, clientID, ipAddress string, rotated bool) {
	event := newEvent(AuditEventTokenRefreshed, userEmail, clientID, ipAddress, true)
	event.Metadata = map[string]string{"rotated": strconv.FormatBool(rotated)}
	a.LogEvent(event)
}

// LogTokenRevoked records a token revocation.
func (a *AuditLogger) LogTokenRevoked(userEmail, clientID, ipAddress, tokenType string) {
	event := newEvent(AuditEventTokenRevoked, userEmail, clientID, ipAddress, true)
	event.Metadata = map[string]string{"token_type": tokenType}
	a.LogEvent(event)
}

// LogAuthFailure records a failed authentication attempt.
func (a *AuditLogger) LogAuthFailure(userEmail, clientID, ipAddress, reason string) {
	event := newEvent(AuditEventAuthFailure, userEmail, clientID, ipAddress, false)
	event.ErrorMessage = reason
	a.LogEvent(event)
}

// LogRateLimitExceeded records a rejected request, by IP or user.
func (a *AuditLogger) LogRateLimitExceeded(ipAddress, userEmail string) {
	event := newEvent(AuditEventRateLimitExceeded, userEmail, "", ipAddress, false)
	event.ErrorMessage = "Rate limit exceeded"
	a.LogEvent(event)
}

// LogInvalidPKCE records a failed PKCE verification.
func (a *AuditLogger) LogInvalidPKCE(clientID, ipAddress, reason string) {
	event := newEvent(AuditEventInvalidPKCE, "", clientID, ipAddress, false)
	event.ErrorMessage = reason
	a.LogEvent(event)
}

// LogClientRegistered records a dynamic client registration.
func (a *AuditLogger) LogClientRegistered(clientID, clientType, ipAddress string) {
	event := newEvent(AuditEventClientRegistered, "", clientID, ipAddress, true)
	event.Metadata = map[string]string{"client_type": clientType}
	a.LogEvent(event)
}

// LogTokenReuse records presentation of an already-rotated refresh token,
// which indicates the token may have been stolen.
func (a *AuditLogger) LogTokenReuse(userEmail, ipAddress string) {
	event := newEvent(AuditEventTokenReuse, userEmail, "", ipAddress, false)
	event.ErrorMessage = "Possible token theft - refresh token reuse detected"
	event.Metadata = map[string]string{
		"severity": "high",
		"action":   "all_tokens_revoked",
	}
	a.LogEvent(event)
}
