package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput carries the fields for creating or patching a calendar event.
// Zero values mean "not provided" on update.
type EventInput struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string // defaults to UTC
	AllDay      bool   // use date-only start/end
	Attendees   []string
}

// EventSummary is a flattened calendar event for listing and display
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Status      string
	Organizer   string
	Attendees   []string
	HTMLLink    string
}

// CalendarInfo describes a calendar the user can access
type CalendarInfo struct {
	ID          string
	Summary     string
	Description string
	TimeZone    string
	Primary     bool
	AccessRole  string // "owner", "writer", "reader", "freeBusyReader"
}

// FreeBusyInfo is the availability of one calendar in a queried range
type FreeBusyInfo struct {
	Calendar string
	Busy     []TimeRange
	Errors   []string
}

// TimeRange is a half-open busy interval
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// AvailableSlot is a free interval long enough for a requested meeting
type AvailableSlot struct {
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// parseEventTime reads either form of an event boundary: a full RFC 3339
// timestamp, or the date-only form used by all-day events (which parses at
// midnight UTC).
func parseEventTime(edt *calendar.EventDateTime) (t time.Time, allDay bool) {
	if edt == nil {
		return time.Time{}, false
	}
	if edt.DateTime != "" {
		t, _ = time.Parse(time.RFC3339, edt.DateTime)
		return t, false
	}
	if edt.Date != "" {
		t, _ = time.Parse("2006-01-02", edt.Date)
		return t, true
	}
	return time.Time{}, false
}

// toEventSummary flattens a Google Calendar event
func toEventSummary(event *calendar.Event) EventSummary {
	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
	}

	summary.Start, summary.AllDay = parseEventTime(event.Start)
	summary.End, _ = parseEventTime(event.End)

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}
	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, att.Email)
	}

	return summary
}

// toCalendarInfo flattens a calendar list entry
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}
