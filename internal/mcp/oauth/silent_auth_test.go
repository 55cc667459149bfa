package oauth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSilentAuthError(t *testing.T) {
	t.Run("typed error", func(t *testing.T) {
		err := &SilentAuthError{Code: ErrorCodeLoginRequired, Description: "No session"}
		assert.True(t, IsSilentAuthError(err))
	})

	t.Run("wrapped typed error", func(t *testing.T) {
		err := fmt.Errorf("callback failed: %w",
			&SilentAuthError{Code: ErrorCodeConsentRequired})
		assert.True(t, IsSilentAuthError(err))
	})

	t.Run("failure codes in plain error strings", func(t *testing.T) {
		for _, code := range []string{
			ErrorCodeLoginRequired,
			ErrorCodeConsentRequired,
			ErrorCodeInteractionRequired,
			ErrorCodeAccountSelectionRequired,
		} {
			err := errors.New("oauth error: " + code + " - user action needed")
			assert.True(t, IsSilentAuthError(err), "code %s should be recognized", code)
		}
	})

	t.Run("unrelated errors", func(t *testing.T) {
		assert.False(t, IsSilentAuthError(nil))
		assert.False(t, IsSilentAuthError(errors.New("something went wrong")))
		assert.False(t, IsSilentAuthError(errors.New("oauth error: access_denied - user said no")))
		assert.False(t, IsSilentAuthError(errors.New("oauth error: invalid_request - bad request")))
	})
}

func TestParseOAuthError(t *testing.T) {
	assert.Nil(t, ParseOAuthError("", ""))

	silent := ParseOAuthError(ErrorCodeLoginRequired, "User must log in")
	require.NotNil(t, silent)
	assert.True(t, IsSilentAuthError(silent))

	var sae *SilentAuthError
	require.True(t, errors.As(silent, &sae))
	assert.Equal(t, ErrorCodeLoginRequired, sae.Code)

	denied := ParseOAuthError("access_denied", "User denied access")
	require.NotNil(t, denied)
	assert.False(t, IsSilentAuthError(denied))
}

func TestParseCallbackQuery(t *testing.T) {
	t.Run("success callback", func(t *testing.T) {
		result := ParseCallbackQuery("auth-code-123", "state-456", "", "", "")
		require.NotNil(t, result)
		assert.Equal(t, "auth-code-123", result.Code)
		assert.Equal(t, "state-456", result.State)
		assert.False(t, result.IsError())
		assert.Nil(t, result.Err())
	})

	t.Run("silent auth failure", func(t *testing.T) {
		result := ParseCallbackQuery("", "state-456", ErrorCodeLoginRequired, "Session expired", "")
		require.NotNil(t, result)
		assert.True(t, result.IsError())

		err := result.Err()
		require.NotNil(t, err)
		assert.True(t, IsSilentAuthError(err))
	})

	t.Run("ordinary oauth error", func(t *testing.T) {
		result := ParseCallbackQuery("", "state-456", "server_error", "boom", "https://example.com/err")
		require.NotNil(t, result)
		assert.Equal(t, "server_error", result.Error)
		assert.Equal(t, "boom", result.ErrorDescription)
		assert.Equal(t, "https://example.com/err", result.ErrorURI)

		err := result.Err()
		require.NotNil(t, err)
		assert.False(t, IsSilentAuthError(err))
	})
}

func TestSilentAuthErrorMessage(t *testing.T) {
	withDesc := &SilentAuthError{Code: ErrorCodeLoginRequired, Description: "User session expired"}
	assert.Equal(t, "silent authentication failed: login_required - User session expired", withDesc.Error())

	bare := &SilentAuthError{Code: ErrorCodeLoginRequired}
	assert.Equal(t, "silent authentication failed: login_required", bare.Error())
}

func TestAuthorizationURLOptions(t *testing.T) {
	maxAge := 3600
	opts := &AuthorizationURLOptions{
		Prompt:    PromptNone,
		LoginHint: "user@example.com",
		MaxAge:    &maxAge,
		Extra:     map[string]string{"custom_param": "custom_value"},
	}

	assert.Equal(t, "none", opts.Prompt)
	assert.Equal(t, "user@example.com", opts.LoginHint)
	require.NotNil(t, opts.MaxAge)
	assert.Equal(t, 3600, *opts.MaxAge)
	assert.Equal(t, "custom_value", opts.Extra["custom_param"])
}
