package oauth

import (
	"strings"
	"testing"
)

func newPKCETestHandler(t *testing.T) *Handler {
	t.Helper()
	handler, err := NewHandler(&Config{Resource: "https://mcp.example.com"})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	t.Cleanup(handler.Stop)
	return handler
}

func TestValidatePKCEVerifierFormat(t *testing.T) {
	handler := newPKCETestHandler(t)

	tests := []struct {
		name         string
		codeVerifier string
		wantErr      string
	}{
		{
			name:         "alphanumeric verifier at minimum length",
			codeVerifier: "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
		},
		{
			name:         "full unreserved character set",
			codeVerifier: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~",
		},
		{
			name:         "exactly 43 characters",
			codeVerifier: strings.Repeat("0123456789", 4) + "012",
		},
		{
			name:         "exactly 128 characters",
			codeVerifier: strings.Repeat("0123456789", 12) + "01234567",
		},
		{
			name:         "42 characters is too short",
			codeVerifier: strings.Repeat("0123456789", 4) + "01",
			wantErr:      "code_verifier must be at least 43 characters",
		},
		{
			name:         "129 characters is too long",
			codeVerifier: strings.Repeat("0123456789", 12) + "012345678",
			wantErr:      "code_verifier must be at most 128 characters",
		},
		{
			name:         "space is rejected",
			codeVerifier: "dBjftJeZ4CVP mB92K27uhbUJU1p1r wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "null byte is rejected",
			codeVerifier: "dBjftJeZ4CVP\x00mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "control character is rejected",
			codeVerifier: "dBjftJeZ4CVP\nmB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "non-ASCII is rejected",
			codeVerifier: "dBjftJeZ4CVP–mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "plus sign is rejected",
			codeVerifier: "dBjftJeZ4CVP+mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "base64 padding is rejected",
			codeVerifier: "dBjftJeZ4CVP=mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
		{
			name:         "forward slash is rejected",
			codeVerifier: "dBjftJeZ4CVP/mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			wantErr:      "code_verifier contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The plain method makes the challenge equal the verifier, so a
			// format failure is the only way the check can reject.
			authCode := &AuthorizationCode{
				CodeChallenge:       tt.codeVerifier,
				CodeChallengeMethod: "plain",
			}

			err := handler.validatePKCE(authCode, tt.codeVerifier, "test-client")
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validatePKCE() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validatePKCE() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Description, tt.wantErr) {
				t.Errorf("validatePKCE() description = %q, want substring %q", err.Description, tt.wantErr)
			}
		})
	}
}

func TestValidatePKCEChallengeVerification(t *testing.T) {
	handler := newPKCETestHandler(t)

	tests := []struct {
		name                string
		codeVerifier        string
		codeChallenge       string
		codeChallengeMethod string
		wantErr             bool
	}{
		{
			name:                "S256 with matching verifier",
			codeVerifier:        "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			codeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			codeChallengeMethod: "S256",
		},
		{
			name:                "plain with matching verifier",
			codeVerifier:        "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			codeChallenge:       "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			codeChallengeMethod: "plain",
		},
		{
			name:                "S256 with wrong verifier",
			codeVerifier:        "wrong-verifier-value-here-that-is-long-enough",
			codeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			codeChallengeMethod: "S256",
			wantErr:             true,
		},
		{
			name: "code issued without PKCE",
		},
		{
			name:                "challenge present but verifier missing",
			codeChallenge:       "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
			codeChallengeMethod: "S256",
			wantErr:             true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authCode := &AuthorizationCode{
				CodeChallenge:       tt.codeChallenge,
				CodeChallengeMethod: tt.codeChallengeMethod,
			}

			err := handler.validatePKCE(authCode, tt.codeVerifier, "test-client")
			if tt.wantErr && err == nil {
				t.Error("validatePKCE() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validatePKCE() error = %v, want nil", err)
			}
		})
	}
}
