// Package calendar_tools provides MCP (Model Context Protocol) tools for Google Calendar operations.
//
// This package exposes Google Calendar functionality through a standardized MCP interface,
// allowing AI assistants to manage events and scheduling on behalf of users.
//
// Event tools operate on the primary calendar:
//   - calendar_list_events: upcoming events ordered by start time
//   - calendar_create_event, calendar_update_event, calendar_delete_event
//
// Calendar and availability tools:
//   - calendar_list_calendars, calendar_get_calendar
//   - calendar_query_freebusy: busy periods per calendar in a range
//   - calendar_find_available_time: free slots where all attendees can meet
//
// All tools accept an "account" parameter for multi-account use. Event
// creation, update, and deletion are skipped in read-only mode.
package calendar_tools
