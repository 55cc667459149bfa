package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// randomURLToken returns n random bytes encoded as unpadded base64url.
func randomURLToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateCodeVerifier returns a fresh PKCE code_verifier. 32 random bytes
// encode to 43 characters, the RFC 7636 minimum.
func GenerateCodeVerifier() (string, error) {
	return randomURLToken(32)
}

// GenerateCodeChallenge derives the S256 challenge for a verifier:
// BASE64URL(SHA256(ASCII(code_verifier))).
func GenerateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// isCodeVerifierChar reports whether c is in the RFC 7636 unreserved set
// allowed in a code_verifier: ALPHA / DIGIT / "-" / "." / "_" / "~"
func isCodeVerifierChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// ValidateCodeChallenge checks a verifier against the challenge recorded at
// authorization time. An empty method means "plain" per RFC 7636 s4.3;
// anything other than S256 or plain fails closed.
func ValidateCodeChallenge(verifier, challenge, method string) bool {
	var computed string
	switch method {
	case "S256":
		computed = GenerateCodeChallenge(verifier)
	case "plain", "":
		computed = verifier
	default:
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}

// GenerateState returns a random state parameter for CSRF protection.
func GenerateState() (string, error) {
	return randomURLToken(16)
}
