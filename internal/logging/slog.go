package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Attribute keys shared by the helpers below.
const (
	KeyError     = "error"
	KeyTransport = "transport"
	KeyUserHash  = "user_hash"
)

// Err renders an error as a log attribute. A nil error becomes an empty
// group, which slog omits, so call sites never need to branch:
//
//	logger.Info("operation", logging.Err(maybeNilErr))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// Transport tags a log line with the MCP transport in use (stdio, sse,
// streamable-http).
func Transport(transport string) slog.Attr {
	return slog.String(KeyTransport, transport)
}

// AnonymizeEmail reduces an email address to a short stable hash. Log lines
// carrying it can be correlated per user without exposing the address
// itself.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// UserHash is the attribute form of AnonymizeEmail. Account identifiers in
// this server are email addresses, so this is the safe way to log which
// account a request targeted.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
