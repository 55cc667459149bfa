// Package server provides the MCP server context and the OAuth-enabled
// HTTP server for the Workspace MCP application.
//
// ServerContext manages per-account Google API clients (Gmail, Drive, Docs,
// Sheets, Slides, Forms, Calendar, Chat, Tasks) with lazy initialization and
// caching. Token providers decide where credentials come from:
//   - FileTokenProvider: for STDIO transport, reads tokens from disk
//   - OAuth TokenProvider: for HTTP transport, serves tokens from the OAuth store
//
// OAuthHTTPServer wraps an MCP server with OAuth 2.1 authentication:
//   - Authorization Server Metadata (RFC 8414)
//   - Protected Resource Metadata (RFC 9728)
//   - Dynamic Client Registration (RFC 7591)
//   - Token Revocation (RFC 7009)
//   - Token Introspection (RFC 7662)
//
// The HTTP server also exposes /healthz and /readyz for Kubernetes probes
// and, when instrumentation is enabled, a separate metrics listener.
//
// # Security Features
//
// The OAuth server includes security-focused defaults:
//   - HTTPS required for production (localhost exempt for development)
//   - PKCE required (OAuth 2.1 compliance)
//   - State parameter required for CSRF protection
//   - Rate limiting per IP and per authenticated user
//   - Optional token encryption at rest (AES-256-GCM)
//   - Security headers on all HTTP responses
//   - Audit logging for authentication events
package server
