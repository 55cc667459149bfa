package calendar

import (
	"context"
	"fmt"
	"sort"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Google Calendar service for a single account
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Calendar client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithService wraps an existing Calendar service. Tests use this to
// point the client at a stub backend.
func NewClientWithService(svc *calendar.Service, account string) *Client {
	return &Client{
		svc:     svc,
		account: account,
	}
}

// ListEvents lists upcoming events on a calendar ordered by start time.
// A zero timeMin means "from now".
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin time.Time, maxResults int64) ([]EventSummary, error) {
	if timeMin.IsZero() {
		timeMin = time.Now().UTC()
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	res, err := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(res.Items))
	for _, event := range res.Items {
		summaries = append(summaries, toEventSummary(event))
	}
	return summaries, nil
}

// eventTimes builds the start/end blocks for an event. All-day events use
// date-only values, timed events RFC3339 with a time zone.
func eventTimes(input EventInput) (start, end *calendar.EventDateTime) {
	if input.AllDay {
		return &calendar.EventDateTime{Date: input.Start.Format("2006-01-02")},
			&calendar.EventDateTime{Date: input.End.Format("2006-01-02")}
	}

	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}
	return &calendar.EventDateTime{DateTime: input.Start.Format(time.RFC3339), TimeZone: tz},
		&calendar.EventDateTime{DateTime: input.End.Format(time.RFC3339), TimeZone: tz}
}

func toAttendees(emails []string) []*calendar.EventAttendee {
	attendees := make([]*calendar.EventAttendee, len(emails))
	for i, email := range emails {
		attendees[i] = &calendar.EventAttendee{Email: email}
	}
	return attendees
}

// CreateEvent creates a new event on a calendar
func (c *Client) CreateEvent(ctx context.Context, calendarID string, input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
	}
	event.Start, event.End = eventTimes(input)
	if len(input.Attendees) > 0 {
		event.Attendees = toAttendees(input.Attendees)
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent patches an existing event: only the provided fields change,
// everything else is carried over from the stored event
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, input EventInput) (*EventSummary, error) {
	existing, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	if input.Summary != "" {
		existing.Summary = input.Summary
	}
	if input.Description != "" {
		existing.Description = input.Description
	}
	if input.Location != "" {
		existing.Location = input.Location
	}
	if !input.Start.IsZero() || !input.End.IsZero() {
		start, end := eventTimes(input)
		if !input.Start.IsZero() {
			existing.Start = start
		}
		if !input.End.IsZero() {
			existing.End = end
		}
	}
	if len(input.Attendees) > 0 {
		existing.Attendees = toAttendees(input.Attendees)
	}

	updated, err := c.svc.Events.Update(calendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent deletes an event from a calendar
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListCalendars lists all calendars accessible to the user
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]CalendarInfo, 0, len(list.Items))
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}
	return calendars, nil
}

// GetCalendar retrieves information about a specific calendar
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	entry, err := c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	info := toCalendarInfo(entry)
	return &info, nil
}

// QueryFreeBusy checks availability for calendars in a time range. Results
// come back sorted by calendar ID so the output is stable.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	result, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}

	infos := make([]FreeBusyInfo, 0, len(result.Calendars))
	for calID, cal := range result.Calendars {
		info := FreeBusyInfo{Calendar: calID}
		for _, busy := range cal.Busy {
			start, _ := time.Parse(time.RFC3339, busy.Start)
			end, _ := time.Parse(time.RFC3339, busy.End)
			info.Busy = append(info.Busy, TimeRange{Start: start, End: end})
		}
		for _, calErr := range cal.Errors {
			info.Errors = append(info.Errors, calErr.Reason)
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Calendar < infos[j].Calendar })
	return infos, nil
}

// FindAvailableSlots finds time slots where every attendee is free. Candidate
// slots advance in 15-minute steps, jumping over busy periods.
func (c *Client) FindAvailableSlots(ctx context.Context, attendees []string, duration time.Duration, timeMin, timeMax time.Time) ([]AvailableSlot, error) {
	freeBusyInfos, err := c.QueryFreeBusy(ctx, timeMin, timeMax, attendees)
	if err != nil {
		return nil, err
	}

	var allBusyTimes []TimeRange
	for _, info := range freeBusyInfos {
		allBusyTimes = append(allBusyTimes, info.Busy...)
	}
	sort.Slice(allBusyTimes, func(i, j int) bool { return allBusyTimes[i].Start.Before(allBusyTimes[j].Start) })

	var availableSlots []AvailableSlot
	currentTime := timeMin
	for !currentTime.Add(duration).After(timeMax) {
		slotEnd := currentTime.Add(duration)

		isFree := true
		for _, busy := range allBusyTimes {
			if currentTime.Before(busy.End) && slotEnd.After(busy.Start) {
				isFree = false
				// Resume at the end of the conflicting busy period
				if busy.End.After(currentTime) {
					currentTime = busy.End
				}
				break
			}
		}

		if isFree {
			availableSlots = append(availableSlots, AvailableSlot{
				Start:    currentTime,
				End:      slotEnd,
				Duration: duration,
			})
			currentTime = currentTime.Add(15 * time.Minute)
		}
	}

	return availableSlots, nil
}
