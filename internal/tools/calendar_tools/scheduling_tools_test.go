package calendar_tools

import (
	"net/http"
	"strings"
	"testing"
)

func freeBusyStub(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"calendars": map[string]any{
				"bob@example.com": map[string]any{
					"busy": []map[string]any{
						{"start": "2024-07-01T10:00:00Z", "end": "2024-07-01T11:00:00Z"},
					},
				},
				"alice@example.com": map[string]any{
					"busy": []map[string]any{},
				},
			},
		})
	}
}

func TestCalendarQueryFreeBusyTool(t *testing.T) {
	s := newToolServer(t, freeBusyStub(t))

	text, isErr := callTool(t, s, "calendar_query_freebusy", map[string]any{
		"time_min":  "2024-07-01T09:00:00Z",
		"time_max":  "2024-07-01T17:00:00Z",
		"calendars": "bob@example.com, alice@example.com",
	})

	if isErr {
		t.Fatalf("calendar_query_freebusy returned error: %s", text)
	}
	want := "Free/Busy information for 2 calendar(s):\n\n" +
		"Calendar: alice@example.com\n  Status: FREE for entire range\n\n" +
		"Calendar: bob@example.com\n  Busy periods: 1\n  1. 2024-07-01 10:00 to 2024-07-01 11:00\n\n"
	if text != want {
		t.Errorf("unexpected result:\n%q\nwant:\n%q", text, want)
	}
}

func TestCalendarQueryFreeBusyToolBadRange(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s %s", r.Method, r.URL)
	})

	text, isErr := callTool(t, s, "calendar_query_freebusy", map[string]any{
		"time_min":  "yesterday",
		"time_max":  "2024-07-01T17:00:00Z",
		"calendars": "bob@example.com",
	})

	if !isErr {
		t.Fatal("expected error result for malformed time_min")
	}
	if !strings.Contains(text, "Invalid time_min format") {
		t.Errorf("unexpected result: %q", text)
	}
}

func TestCalendarFindAvailableTimeTool(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"calendars": map[string]any{
				"a@example.com": map[string]any{
					"busy": []map[string]any{
						{"start": "2024-07-01T10:00:00Z", "end": "2024-07-01T11:00:00Z"},
					},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "calendar_find_available_time", map[string]any{
		"attendees":        "a@example.com",
		"duration_minutes": 60,
		"time_min":         "2024-07-01T09:00:00Z",
		"time_max":         "2024-07-01T12:00:00Z",
	})

	if isErr {
		t.Fatalf("calendar_find_available_time returned error: %s", text)
	}
	// 2024-07-01 is a Monday; the free hours are 09:00 and 11:00 UTC
	want := "Found 2 available time slot(s) for 60 minute meeting:\n\n" +
		"1. Mon, Jul 1 at 9:00 AM to 10:00 AM UTC (Monday)\n" +
		"2. Mon, Jul 1 at 11:00 AM to 12:00 PM UTC (Monday)\n"
	if text != want {
		t.Errorf("unexpected result:\n%q\nwant:\n%q", text, want)
	}
}

func TestCalendarFindAvailableTimeToolNoSlots(t *testing.T) {
	s := newToolServer(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, map[string]any{
			"calendars": map[string]any{
				"a@example.com": map[string]any{
					"busy": []map[string]any{
						{"start": "2024-07-01T09:00:00Z", "end": "2024-07-01T12:00:00Z"},
					},
				},
			},
		})
	})

	text, isErr := callTool(t, s, "calendar_find_available_time", map[string]any{
		"attendees":        "a@example.com",
		"duration_minutes": 60,
		"time_min":         "2024-07-01T09:00:00Z",
		"time_max":         "2024-07-01T12:00:00Z",
	})

	if isErr {
		t.Fatalf("calendar_find_available_time returned error: %s", text)
	}
	if text != "No available time slots found for the specified criteria" {
		t.Errorf("unexpected result: %q", text)
	}
}
