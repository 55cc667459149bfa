package oauth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// TokenEncryption encrypts tokens at rest with AES-256-GCM. GCM gives
// authenticated encryption, so a tampered ciphertext fails to decrypt
// rather than yielding garbage. Every Encrypt call draws a fresh nonce;
// a nonce must never repeat under the same key.
//
// The key is 32 bytes and must come from secure storage (KMS, vault, env
// var via EncryptionKeyFromBase64). A zero-length key disables encryption
// and tokens pass through unchanged.
type TokenEncryption struct {
	aead cipher.AEAD // nil when encryption is disabled
}

// NewTokenEncryption builds the AEAD once from the key. An empty key
// yields a pass-through instance.
func NewTokenEncryption(key []byte) (*TokenEncryption, error) {
	if len(key) == 0 {
		return &TokenEncryption{}, nil
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be exactly 32 bytes (256 bits), got %d bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &TokenEncryption{aead: aead}, nil
}

// Enabled reports whether tokens are actually encrypted.
func (e *TokenEncryption) Enabled() bool {
	return e.aead != nil
}

// Encrypt seals the plaintext and returns base64(nonce || ciphertext ||
// tag). Pass-through when encryption is disabled or the input is empty.
func (e *TokenEncryption) Encrypt(plaintext string) (string, error) {
	if e.aead == nil || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt, verifying the authentication tag in the
// process.
func (e *TokenEncryption) Decrypt(encoded string) (string, error) {
	if e.aead == nil || encoded == "" {
		return encoded, nil
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	nonceSize := e.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

// GenerateEncryptionKey draws a fresh 32-byte key. Generate once, store
// securely, and reuse; a key minted at every start would orphan all
// previously stored tokens.
func GenerateEncryptionKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	return key, nil
}

// EncryptionKeyFromBase64 decodes a key from its environment-variable
// form. An empty string means encryption stays disabled.
func EncryptionKeyFromBase64(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d bytes", len(key))
	}
	return key, nil
}

// EncryptionKeyToBase64 renders a key for storage in configuration.
func EncryptionKeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
