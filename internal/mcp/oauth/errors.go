package oauth

import (
	"fmt"
	"net/http"
)

// OAuthError is an RFC 6749 error response: the protocol error code, a
// human-readable description, and the HTTP status it should travel with.
type OAuthError struct {
	Code        string
	Description string
	Status      int
}

func (e *OAuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewOAuthError builds an error with an explicit status code.
func NewOAuthError(code, description string, status int) *OAuthError {
	return &OAuthError{Code: code, Description: description, Status: status}
}

// errorCode binds a protocol error code to its canonical HTTP status.
type errorCode struct {
	code   string
	status int
}

func (c errorCode) with(desc string) *OAuthError {
	return NewOAuthError(c.code, desc, c.status)
}

// Constructors for the error codes this server emits. Each takes the
// description and fills in the code and status.
var (
	ErrInvalidRequest       = errorCode{"invalid_request", http.StatusBadRequest}.with
	ErrInvalidGrant         = errorCode{"invalid_grant", http.StatusBadRequest}.with
	ErrInvalidClient        = errorCode{"invalid_client", http.StatusUnauthorized}.with
	ErrInvalidScope         = errorCode{"invalid_scope", http.StatusBadRequest}.with
	ErrUnsupportedGrantType = errorCode{"unsupported_grant_type", http.StatusBadRequest}.with
	ErrServerError          = errorCode{"server_error", http.StatusInternalServerError}.with
)
