package calendar_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerCalendarListTools registers the calendar listing tools
func registerCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List all calendars accessible to the user."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_calendars", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			calendars, err := client.ListCalendars(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d calendar(s):\n\n", len(calendars))
			for i, cal := range calendars {
				fmt.Fprintf(&out, "%d. %s\n", i+1, cal.Summary)
				fmt.Fprintf(&out, "   ID: %s\n", cal.ID)
				fmt.Fprintf(&out, "   Access Role: %s\n", cal.AccessRole)
				if cal.Primary {
					out.WriteString("   [PRIMARY]\n")
				}
				if cal.Description != "" {
					fmt.Fprintf(&out, "   Description: %s\n", cal.Description)
				}
				if cal.TimeZone != "" {
					fmt.Fprintf(&out, "   Time Zone: %s\n", cal.TimeZone)
				}
				out.WriteString("\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	getCalendarTool := mcp.NewTool("calendar_get_calendar",
		mcp.WithDescription("Get information about a specific calendar."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Required(),
			mcp.Description("Calendar ID (use 'primary' for the primary calendar)"),
		),
	)

	s.AddTool(getCalendarTool, common.InstrumentedToolHandlerWithService(
		"calendar_get_calendar", "calendar", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			calendarID, ok := args["calendar_id"].(string)
			if !ok || calendarID == "" {
				return mcp.NewToolResultError("calendar_id is required"), nil
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			cal, err := client.GetCalendar(ctx, calendarID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get calendar: %v", err)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Calendar: %s\n", cal.Summary)
			fmt.Fprintf(&out, "ID: %s\n", cal.ID)
			fmt.Fprintf(&out, "Access Role: %s\n", cal.AccessRole)
			if cal.Primary {
				out.WriteString("Type: PRIMARY\n")
			}
			if cal.Description != "" {
				fmt.Fprintf(&out, "Description: %s\n", cal.Description)
			}
			if cal.TimeZone != "" {
				fmt.Fprintf(&out, "Time Zone: %s\n", cal.TimeZone)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	return nil
}
