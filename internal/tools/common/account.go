package common

import (
	"context"

	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
)

// GetAccountFromArgs decides which stored Google account a tool call acts
// on. An OAuth-authenticated request is always bound to the token's email,
// so a caller cannot reach another user's credentials by passing an
// "account" argument. Unauthenticated (stdio) requests use the explicit
// argument when present and fall back to "default", which the credential
// store resolves to the most recently authenticated account.
func GetAccountFromArgs(ctx context.Context, args map[string]interface{}) string {
	if userInfo, ok := oauth.GetUserFromContext(ctx); ok && userInfo != nil && userInfo.Email != "" {
		return userInfo.Email
	}
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return "default"
}
