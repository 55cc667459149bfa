package oauth

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashForLogging reduces a sensitive value (token, email, code) to the
// first 16 hex characters of its SHA-256, so log lines can correlate
// values without reproducing them. Empty input stays empty.
func hashForLogging(sensitive string) string {
	if sensitive == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(sensitive))
	return hex.EncodeToString(hash[:])[:16]
}

// HashForDisplay is hashForLogging with "<empty>" standing in for empty
// values, for contexts that distinguish empty from absent.
func HashForDisplay(sensitive string) string {
	if sensitive == "" {
		return "<empty>"
	}
	return hashForLogging(sensitive)
}
