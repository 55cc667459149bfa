// Package oauth implements the OAuth 2.1 surface of the MCP server.
//
// The server plays two roles. As an authorization server it offers server
// metadata discovery (RFC 8414), Dynamic Client Registration (RFC 7591), and
// an authorization code flow with PKCE that proxies the actual user
// authentication to Google. As a resource server it validates Bearer tokens
// on incoming MCP requests (RFC 9728 metadata included), resolves them to
// stored Google credentials, and makes those credentials available to tool
// handlers through the request context.
//
// Tokens live in in-memory stores with periodic cleanup, optional AES-GCM
// encryption at rest, refresh token rotation, per-IP and per-user rate
// limiting, and a security audit log. A separate middleware accepts Google
// access tokens forwarded by an upstream SSO gateway and injects them into
// the same stores, so both sign-in paths feed the same token plumbing.
package oauth
