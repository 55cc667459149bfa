package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide default logger and returns it.
//
// Logs always go to stderr: the STDIO transport uses stdout for MCP protocol
// frames, and a single log line on stdout would corrupt the session.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
