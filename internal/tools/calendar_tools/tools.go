package calendar_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/calendar"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// getCalendarClient retrieves or creates a Calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !calendar.HasTokenForAccountWithProvider(account, sc.TokenProvider()) {
			return nil, errors.New(google.GetAuthenticationErrorMessage(account))
		}

		var err error
		client, err = calendar.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// splitCommaList splits a comma-separated argument into trimmed entries
func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// fmtEventStart renders an event start for listings: date only for all-day
// events, RFC3339 otherwise
func fmtEventStart(ev calendar.EventSummary) string {
	if ev.AllDay {
		return ev.Start.Format("2006-01-02")
	}
	return ev.Start.Format(time.RFC3339)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RegisterCalendarTools registers all Calendar-related tools with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Event listing and lifecycle
	if err := registerEventTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}

	// Calendar listing (read-only)
	if err := registerCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}

	// Availability and scheduling (read-only)
	if err := registerSchedulingTools(s, sc); err != nil {
		return fmt.Errorf("failed to register scheduling tools: %w", err)
	}

	return nil
}
