// Package resources registers the MCP resources this server exposes:
// the authenticated account list, the Gmail profile for an account, and the
// account's vacation-responder settings. Resources are read-only projections;
// anything that mutates Workspace state lives in the tool packages.
package resources
