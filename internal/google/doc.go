// Package google provides OAuth2 authentication and credential management for
// the Google Workspace APIs.
//
// Credentials live in ~/.google_workspace_mcp/credentials as one JSON file per
// authenticated account, named by the account's e-mail address. The
// CredentialStore is the only component that reads or writes these files;
// refreshes are serialized per account so concurrent tool invocations cannot
// race on the same file.
//
// The TokenProvider interface allows different token sources to be plugged in,
// enabling seamless integration between MCP OAuth authentication (HTTP
// transport) and the file-based store (STDIO transport).
package google
