package calendar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewClientWithService(svc, "default")
}

func respondJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, body)
}

func TestListEventsParams(t *testing.T) {
	var params url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.Query()
		respondJSON(w, `{"items": [
			{"id": "ev1", "summary": "Standup", "start": {"dateTime": "2024-07-01T10:00:00Z"}, "end": {"dateTime": "2024-07-01T10:15:00Z"}},
			{"id": "ev2", "summary": "Holiday", "start": {"date": "2024-07-04"}, "end": {"date": "2024-07-05"}}
		]}`)
	})

	timeMin := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	events, err := client.ListEvents(context.Background(), "primary", timeMin, 5)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}

	if got := params.Get("timeMin"); got != "2024-07-01T00:00:00Z" {
		t.Errorf("timeMin = %q", got)
	}
	if got := params.Get("maxResults"); got != "5" {
		t.Errorf("maxResults = %q, want 5", got)
	}
	if got := params.Get("singleEvents"); got != "true" {
		t.Errorf("singleEvents = %q, want true", got)
	}
	if got := params.Get("orderBy"); got != "startTime" {
		t.Errorf("orderBy = %q, want startTime", got)
	}

	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	if events[0].ID != "ev1" || events[0].AllDay {
		t.Errorf("events[0] = %+v", events[0])
	}
	if !events[1].AllDay {
		t.Errorf("events[1].AllDay = false, want true")
	}
	if got := events[1].Start; !got.Equal(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("events[1].Start = %v", got)
	}
}

func TestListEventsDefaults(t *testing.T) {
	var params url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.Query()
		respondJSON(w, `{"items": []}`)
	})

	if _, err := client.ListEvents(context.Background(), "primary", time.Time{}, 0); err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}

	if got := params.Get("maxResults"); got != "10" {
		t.Errorf("maxResults = %q, want 10", got)
	}
	timeMin := params.Get("timeMin")
	if timeMin == "" {
		t.Fatal("timeMin not sent for zero time")
	}
	if _, err := time.Parse(time.RFC3339, timeMin); err != nil {
		t.Errorf("timeMin %q is not RFC3339: %v", timeMin, err)
	}
}

func TestCreateEventTimed(t *testing.T) {
	var sent calendar.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode request: %v", err)
		}
		respondJSON(w, `{"id": "ev1", "summary": "Planning", "htmlLink": "https://calendar.google.com/event?eid=ev1"}`)
	})

	input := EventInput{
		Summary:   "Planning",
		Location:  "Room 4",
		Start:     time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC),
		End:       time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC),
		Attendees: []string{"a@example.com", "b@example.com"},
	}
	created, err := client.CreateEvent(context.Background(), "primary", input)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	if sent.Summary != "Planning" || sent.Location != "Room 4" {
		t.Errorf("sent event = %+v", sent)
	}
	if sent.Start == nil || sent.Start.DateTime != "2024-07-01T10:00:00Z" || sent.Start.TimeZone != "UTC" {
		t.Errorf("sent start = %+v", sent.Start)
	}
	if sent.End == nil || sent.End.DateTime != "2024-07-01T11:00:00Z" {
		t.Errorf("sent end = %+v", sent.End)
	}
	if len(sent.Attendees) != 2 || sent.Attendees[0].Email != "a@example.com" {
		t.Errorf("sent attendees = %+v", sent.Attendees)
	}

	if created.ID != "ev1" {
		t.Errorf("created.ID = %q", created.ID)
	}
	if created.HTMLLink != "https://calendar.google.com/event?eid=ev1" {
		t.Errorf("created.HTMLLink = %q", created.HTMLLink)
	}
}

func TestCreateEventAllDay(t *testing.T) {
	var sent calendar.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode request: %v", err)
		}
		respondJSON(w, `{"id": "ev2"}`)
	})

	input := EventInput{
		Summary: "Offsite",
		Start:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
		AllDay:  true,
	}
	if _, err := client.CreateEvent(context.Background(), "primary", input); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	if sent.Start == nil || sent.Start.Date != "2024-07-01" || sent.Start.DateTime != "" {
		t.Errorf("sent start = %+v", sent.Start)
	}
	if sent.End == nil || sent.End.Date != "2024-07-02" {
		t.Errorf("sent end = %+v", sent.End)
	}
}

func TestUpdateEventPatches(t *testing.T) {
	var sent calendar.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, `{"id": "ev1", "summary": "Old title", "description": "Agenda", "location": "Room 4",
				"start": {"dateTime": "2024-07-01T10:00:00Z"}, "end": {"dateTime": "2024-07-01T11:00:00Z"}}`)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
				t.Errorf("decode request: %v", err)
			}
			respondJSON(w, `{"id": "ev1", "summary": "New title", "htmlLink": "link"}`)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	updated, err := client.UpdateEvent(context.Background(), "primary", "ev1", EventInput{Summary: "New title"})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}

	if sent.Summary != "New title" {
		t.Errorf("sent.Summary = %q", sent.Summary)
	}
	if sent.Description != "Agenda" || sent.Location != "Room 4" {
		t.Errorf("unchanged fields not carried over: %+v", sent)
	}
	if sent.Start == nil || sent.Start.DateTime != "2024-07-01T10:00:00Z" {
		t.Errorf("sent.Start = %+v", sent.Start)
	}
	if updated.Summary != "New title" {
		t.Errorf("updated.Summary = %q", updated.Summary)
	}
}

func TestUpdateEventReplacesTimes(t *testing.T) {
	var sent calendar.Event
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, `{"id": "ev1", "summary": "Standup",
				"start": {"dateTime": "2024-07-01T10:00:00Z"}, "end": {"dateTime": "2024-07-01T11:00:00Z"}}`)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
				t.Errorf("decode request: %v", err)
			}
			respondJSON(w, `{"id": "ev1", "summary": "Standup"}`)
		}
	})

	input := EventInput{Start: time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC)}
	if _, err := client.UpdateEvent(context.Background(), "primary", "ev1", input); err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}

	if sent.Start == nil || sent.Start.DateTime != "2024-07-02T09:00:00Z" {
		t.Errorf("sent.Start = %+v", sent.Start)
	}
	// End was not provided, the stored end stays
	if sent.End == nil || sent.End.DateTime != "2024-07-01T11:00:00Z" {
		t.Errorf("sent.End = %+v", sent.End)
	}
}

func TestDeleteEvent(t *testing.T) {
	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteEvent(context.Background(), "primary", "ev1"); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if method != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", method)
	}
	if !strings.HasSuffix(path, "/calendars/primary/events/ev1") {
		t.Errorf("unexpected path: %s", path)
	}
}

func TestListCalendars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, `{"items": [
			{"id": "primary-id", "summary": "Work", "primary": true, "accessRole": "owner", "timeZone": "Europe/Berlin"},
			{"id": "team@group.calendar.google.com", "summary": "Team", "accessRole": "reader"}
		]}`)
	})

	calendars, err := client.ListCalendars(context.Background())
	if err != nil {
		t.Fatalf("ListCalendars() error = %v", err)
	}

	if len(calendars) != 2 {
		t.Fatalf("len(calendars) = %d, want 2", len(calendars))
	}
	if !calendars[0].Primary || calendars[0].AccessRole != "owner" || calendars[0].TimeZone != "Europe/Berlin" {
		t.Errorf("calendars[0] = %+v", calendars[0])
	}
	if calendars[1].Primary {
		t.Errorf("calendars[1].Primary = true, want false")
	}
}

func TestQueryFreeBusySortsCalendars(t *testing.T) {
	var sent calendar.FreeBusyRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&sent); err != nil {
			t.Errorf("decode request: %v", err)
		}
		respondJSON(w, `{"calendars": {
			"bob@example.com": {"busy": [{"start": "2024-07-01T10:00:00Z", "end": "2024-07-01T11:00:00Z"}]},
			"alice@example.com": {"busy": []}
		}}`)
	})

	timeMin := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	timeMax := time.Date(2024, 7, 1, 17, 0, 0, 0, time.UTC)
	infos, err := client.QueryFreeBusy(context.Background(), timeMin, timeMax, []string{"bob@example.com", "alice@example.com"})
	if err != nil {
		t.Fatalf("QueryFreeBusy() error = %v", err)
	}

	if sent.TimeMin != "2024-07-01T09:00:00Z" || sent.TimeMax != "2024-07-01T17:00:00Z" {
		t.Errorf("sent range = %s .. %s", sent.TimeMin, sent.TimeMax)
	}
	if len(sent.Items) != 2 {
		t.Errorf("sent items = %+v", sent.Items)
	}

	if len(infos) != 2 {
		t.Fatalf("len(infos) = %d, want 2", len(infos))
	}
	if infos[0].Calendar != "alice@example.com" || infos[1].Calendar != "bob@example.com" {
		t.Errorf("infos not sorted by calendar: %q, %q", infos[0].Calendar, infos[1].Calendar)
	}
	if len(infos[1].Busy) != 1 {
		t.Fatalf("bob busy = %+v", infos[1].Busy)
	}
	if !infos[1].Busy[0].Start.Equal(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("busy start = %v", infos[1].Busy[0].Start)
	}
}

func TestFindAvailableSlots(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, `{"calendars": {
			"a@example.com": {"busy": [{"start": "2024-07-01T10:00:00Z", "end": "2024-07-01T11:00:00Z"}]}
		}}`)
	})

	timeMin := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	timeMax := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	slots, err := client.FindAvailableSlots(context.Background(), []string{"a@example.com"}, time.Hour, timeMin, timeMax)
	if err != nil {
		t.Fatalf("FindAvailableSlots() error = %v", err)
	}

	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2: %+v", len(slots), slots)
	}
	if !slots[0].Start.Equal(timeMin) || !slots[0].End.Equal(timeMin.Add(time.Hour)) {
		t.Errorf("slots[0] = %+v", slots[0])
	}
	// The next free hour starts when the busy block ends
	if !slots[1].Start.Equal(time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("slots[1] = %+v", slots[1])
	}
	if slots[0].Duration != time.Hour {
		t.Errorf("slots[0].Duration = %v", slots[0].Duration)
	}
}

func TestFindAvailableSlotsAllFree(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, `{"calendars": {"a@example.com": {"busy": []}}}`)
	})

	timeMin := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	timeMax := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	slots, err := client.FindAvailableSlots(context.Background(), []string{"a@example.com"}, 30*time.Minute, timeMin, timeMax)
	if err != nil {
		t.Fatalf("FindAvailableSlots() error = %v", err)
	}

	// 09:00, 09:15, 09:30 all fit a 30 minute meeting before 10:00
	if len(slots) != 3 {
		t.Fatalf("len(slots) = %d, want 3: %+v", len(slots), slots)
	}
}

func TestToEventSummary(t *testing.T) {
	event := &calendar.Event{
		Id:          "ev1",
		Summary:     "Planning",
		Description: "Quarterly planning",
		Location:    "Room 4",
		Status:      "confirmed",
		HtmlLink:    "https://calendar.google.com/event?eid=ev1",
		Start:       &calendar.EventDateTime{DateTime: "2024-07-01T10:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2024-07-01T11:00:00Z"},
		Organizer:   &calendar.EventOrganizer{Email: "boss@example.com"},
		Attendees: []*calendar.EventAttendee{
			{Email: "a@example.com"},
			{Email: "b@example.com"},
		},
	}

	summary := toEventSummary(event)

	if summary.ID != "ev1" || summary.Summary != "Planning" || summary.Status != "confirmed" {
		t.Errorf("summary = %+v", summary)
	}
	if summary.AllDay {
		t.Error("AllDay = true for timed event")
	}
	if !summary.Start.Equal(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", summary.Start)
	}
	if summary.Organizer != "boss@example.com" {
		t.Errorf("Organizer = %q", summary.Organizer)
	}
	if len(summary.Attendees) != 2 || summary.Attendees[1] != "b@example.com" {
		t.Errorf("Attendees = %v", summary.Attendees)
	}
	if summary.HTMLLink == "" {
		t.Error("HTMLLink is empty")
	}
}

func TestToEventSummaryAllDay(t *testing.T) {
	event := &calendar.Event{
		Id:    "ev2",
		Start: &calendar.EventDateTime{Date: "2024-07-04"},
		End:   &calendar.EventDateTime{Date: "2024-07-05"},
	}

	summary := toEventSummary(event)

	if !summary.AllDay {
		t.Error("AllDay = false for date-only event")
	}
	if !summary.Start.Equal(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", summary.Start)
	}
}

func TestAccount(t *testing.T) {
	client := &Client{account: "work"}
	if got := client.Account(); got != "work" {
		t.Errorf("Account() = %q, want work", got)
	}
}
