// Package cmd implements the command-line interface for workspace-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or HTTP (the default command)
//   - auth: Run the Google OAuth consent flow and store credentials
//   - accounts: List the Google accounts with stored credentials
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified,
// so MCP client configurations can simply run the bare binary.
package cmd
