// Package logging holds the process-wide slog setup and the few log
// attribute helpers shared across packages.
//
// Setup installs the default logger. It always writes to stderr: the STDIO
// transport reserves stdout for MCP protocol frames, and a single log line
// there would corrupt the session.
//
// Account identifiers in this server are email addresses, so they are PII.
// AnonymizeEmail and UserHash reduce an address to a short stable hash that
// still lets log lines for one user be correlated:
//
//	logger.Info("request authenticated", logging.UserHash(email))
package logging
