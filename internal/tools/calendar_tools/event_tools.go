package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/calendar"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// primaryCalendar is the calendar all event tools operate on
const primaryCalendar = "primary"

// registerEventTools registers event listing plus the event lifecycle tools
func registerEventTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List upcoming calendar events. time_min format: 2024-01-01T00:00:00Z"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
		mcp.WithString("time_min",
			mcp.Description("Earliest event start to include, RFC3339 (default: now)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"calendar_list_events", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			maxResults := int64(10)
			if v, ok := args["max_results"].(float64); ok && v > 0 {
				maxResults = int64(v)
			}

			var timeMin time.Time
			if v, ok := args["time_min"].(string); ok && v != "" {
				parsed, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Invalid time_min format: %v", err)), nil
				}
				timeMin = parsed
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			events, err := client.ListEvents(ctx, primaryCalendar, timeMin, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
			}

			if len(events) == 0 {
				return mcp.NewToolResultText("No upcoming events found."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d upcoming event(s):\n\n", len(events))
			for _, ev := range events {
				fmt.Fprintf(&out, "📅 %s\n", ev.Summary)
				fmt.Fprintf(&out, "   Start: %s\n", fmtEventStart(ev))
				fmt.Fprintf(&out, "   ID: %s\n\n", ev.ID)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	// Write tools are registered only when not in read-only mode
	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a calendar event. Times in RFC3339: 2024-01-01T10:00:00-07:00. Attendees: comma-separated emails."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Event start, RFC3339"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Event end, RFC3339"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated attendee email addresses"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"calendar_create_event", "calendar", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			summary, ok := args["summary"].(string)
			if !ok || summary == "" {
				return mcp.NewToolResultError("summary is required"), nil
			}
			startStr, ok := args["start_time"].(string)
			if !ok || startStr == "" {
				return mcp.NewToolResultError("start_time is required"), nil
			}
			start, err := time.Parse(time.RFC3339, startStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid start_time format: %v", err)), nil
			}
			endStr, ok := args["end_time"].(string)
			if !ok || endStr == "" {
				return mcp.NewToolResultError("end_time is required"), nil
			}
			end, err := time.Parse(time.RFC3339, endStr)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid end_time format: %v", err)), nil
			}

			input := calendar.EventInput{
				Summary: summary,
				Start:   start,
				End:     end,
			}
			input.Description, _ = args["description"].(string)
			input.Location, _ = args["location"].(string)
			if attendees, ok := args["attendees"].(string); ok && attendees != "" {
				input.Attendees = splitCommaList(attendees)
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateEvent(ctx, primaryCalendar, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Event created!\nID: %s\nLink: %s",
				created.ID, orNA(created.HTMLLink))), nil
		}))

	updateTool := mcp.NewTool("calendar_update_event",
		mcp.WithDescription("Update an existing calendar event. Provide only the fields you want to change."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("start_time",
			mcp.Description("New start, RFC3339"),
		),
		mcp.WithString("end_time",
			mcp.Description("New end, RFC3339"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("location",
			mcp.Description("New location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated attendee email addresses (replaces the attendee list)"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService(
		"calendar_update_event", "calendar", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			eventID, ok := args["event_id"].(string)
			if !ok || eventID == "" {
				return mcp.NewToolResultError("event_id is required"), nil
			}

			var input calendar.EventInput
			input.Summary, _ = args["summary"].(string)
			input.Description, _ = args["description"].(string)
			input.Location, _ = args["location"].(string)
			if v, ok := args["start_time"].(string); ok && v != "" {
				parsed, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Invalid start_time format: %v", err)), nil
				}
				input.Start = parsed
			}
			if v, ok := args["end_time"].(string); ok && v != "" {
				parsed, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Invalid end_time format: %v", err)), nil
				}
				input.End = parsed
			}
			if attendees, ok := args["attendees"].(string); ok && attendees != "" {
				input.Attendees = splitCommaList(attendees)
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			updated, err := client.UpdateEvent(ctx, primaryCalendar, eventID, input)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Event updated!\nID: %s\nSummary: %s\nLink: %s",
				updated.ID, updated.Summary, orNA(updated.HTMLLink))), nil
		}))

	deleteTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a calendar event."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"calendar_delete_event", "calendar", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			eventID, ok := args["event_id"].(string)
			if !ok || eventID == "" {
				return mcp.NewToolResultError("event_id is required"), nil
			}

			client, err := getCalendarClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteEvent(ctx, primaryCalendar, eventID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted event %s", eventID)), nil
		}))

	return nil
}
