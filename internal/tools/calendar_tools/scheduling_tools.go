package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerSchedulingTools registers the availability tools
func registerSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	queryFreeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Check availability for one or more calendars/attendees in a time range."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("time_min",
			mcp.Required(),
			mcp.Description("Start of the range, RFC3339 (e.g. '2024-01-01T00:00:00Z')"),
		),
		mcp.WithString("time_max",
			mcp.Required(),
			mcp.Description("End of the range, RFC3339"),
		),
		mcp.WithString("calendars",
			mcp.Required(),
			mcp.Description("Comma-separated calendar IDs or email addresses to check"),
		),
	)

	s.AddTool(queryFreeBusyTool, common.InstrumentedToolHandlerWithService(
		"calendar_query_freebusy", "calendar", "query", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			timeMin, errResult := requiredTime(args, "time_min")
			if errResult != nil {
				return errResult, nil
			}
			timeMax, errResult := requiredTime(args, "time_max")
			if errResult != nil {
				return errResult, nil
			}

			calendarsStr, ok := args["calendars"].(string)
			if !ok || calendarsStr == "" {
				return mcp.NewToolResultError("calendars is required"), nil
			}
			calendars := splitCommaList(calendarsStr)

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			infos, err := client.QueryFreeBusy(ctx, timeMin, timeMax, calendars)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Free/Busy information for %d calendar(s):\n\n", len(infos))
			for _, info := range infos {
				fmt.Fprintf(&out, "Calendar: %s\n", info.Calendar)
				if len(info.Errors) > 0 {
					fmt.Fprintf(&out, "  Errors: %s\n", strings.Join(info.Errors, ", "))
				}
				if len(info.Busy) == 0 {
					out.WriteString("  Status: FREE for entire range\n")
				} else {
					fmt.Fprintf(&out, "  Busy periods: %d\n", len(info.Busy))
					for i, busy := range info.Busy {
						fmt.Fprintf(&out, "  %d. %s to %s\n", i+1,
							busy.Start.Format("2006-01-02 15:04"),
							busy.End.Format("2006-01-02 15:04"))
					}
				}
				out.WriteString("\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	findAvailableTimeTool := mcp.NewTool("calendar_find_available_time",
		mcp.WithDescription("Find available time slots for scheduling a meeting with one or more attendees."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated attendee email addresses"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("time_min",
			mcp.Required(),
			mcp.Description("Start of the search range, RFC3339"),
		),
		mcp.WithString("time_max",
			mcp.Required(),
			mcp.Description("End of the search range, RFC3339"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of slots to return (default: 10)"),
		),
	)

	s.AddTool(findAvailableTimeTool, common.InstrumentedToolHandlerWithService(
		"calendar_find_available_time", "calendar", "query", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			attendeesStr, ok := args["attendees"].(string)
			if !ok || attendeesStr == "" {
				return mcp.NewToolResultError("attendees is required"), nil
			}
			attendees := splitCommaList(attendeesStr)

			durationMinutes, ok := args["duration_minutes"].(float64)
			if !ok || durationMinutes <= 0 {
				return mcp.NewToolResultError("duration_minutes is required and must be positive"), nil
			}
			duration := time.Duration(durationMinutes) * time.Minute

			timeMin, errResult := requiredTime(args, "time_min")
			if errResult != nil {
				return errResult, nil
			}
			timeMax, errResult := requiredTime(args, "time_max")
			if errResult != nil {
				return errResult, nil
			}

			maxResults := 10
			if v, ok := args["max_results"].(float64); ok && v > 0 {
				maxResults = int(v)
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			slots, err := client.FindAvailableSlots(ctx, attendees, duration, timeMin, timeMax)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to find available time: %v", err)), nil
			}

			if len(slots) == 0 {
				return mcp.NewToolResultText("No available time slots found for the specified criteria"), nil
			}
			if len(slots) > maxResults {
				slots = slots[:maxResults]
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d available time slot(s) for %d minute meeting:\n\n",
				len(slots), int(durationMinutes))
			for i, slot := range slots {
				fmt.Fprintf(&out, "%d. %s to %s (%s)\n", i+1,
					slot.Start.Format("Mon, Jan 2 at 3:04 PM"),
					slot.End.Format("3:04 PM MST"),
					slot.Start.Weekday())
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	return nil
}

// requiredTime extracts and parses a required RFC3339 argument, returning a
// ready-made error result when it is missing or malformed
func requiredTime(args map[string]interface{}, key string) (time.Time, *mcp.CallToolResult) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return time.Time{}, mcp.NewToolResultError(key + " is required")
	}
	parsed, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, mcp.NewToolResultError(fmt.Sprintf("Invalid %s format: %v", key, err))
	}
	return parsed, nil
}
