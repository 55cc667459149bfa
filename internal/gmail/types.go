package gmail

import (
	gmail "google.golang.org/api/gmail/v1"
)

// MessageSummary holds the headers shown in message listings
type MessageSummary struct {
	ID      string
	Subject string
	From    string
	Date    string
}

// ThreadSummary describes a conversation for thread listings
type ThreadSummary struct {
	ID           string
	Subject      string
	MessageCount int
}

// DraftSummary holds the headers shown in draft listings
type DraftSummary struct {
	ID      string
	Subject string
	To      string
}

// OutgoingMessage describes a message to be sent or saved as a draft.
// To and Cc take comma-separated address lists as Gmail accepts them in
// RFC 2822 headers.
type OutgoingMessage struct {
	To      string
	Cc      string
	Subject string
	Body    string

	// Threading headers, set when replying
	InReplyTo  string
	References string
}

// ReplyResult reports a sent reply together with the conversation it
// belongs to
type ReplyResult struct {
	MessageID string
	ThreadID  string
}

// HeaderValue extracts a header value from a Gmail message
func HeaderValue(m *gmail.Message, header string) string {
	mpart := m.Payload
	if mpart == nil {
		return ""
	}
	for _, mph := range mpart.Headers {
		if mph.Name == header {
			return mph.Value
		}
	}
	return ""
}

// headerOrDefault returns the header value or the fallback when the
// message doesn't carry that header
func headerOrDefault(m *gmail.Message, header, fallback string) string {
	if v := HeaderValue(m, header); v != "" {
		return v
	}
	return fallback
}

// convertMessageToSummary builds a listing entry from a metadata-format message
func convertMessageToSummary(m *gmail.Message) *MessageSummary {
	return &MessageSummary{
		ID:      m.Id,
		Subject: headerOrDefault(m, "Subject", "No Subject"),
		From:    headerOrDefault(m, "From", "Unknown"),
		Date:    headerOrDefault(m, "Date", "Unknown"),
	}
}

// convertThreadToSummary builds a listing entry from a metadata-format
// thread. Returns nil for threads without messages.
func convertThreadToSummary(t *gmail.Thread) *ThreadSummary {
	if len(t.Messages) == 0 {
		return nil
	}
	return &ThreadSummary{
		ID:           t.Id,
		Subject:      headerOrDefault(t.Messages[0], "Subject", "No Subject"),
		MessageCount: len(t.Messages),
	}
}

// convertDraftToSummary builds a listing entry from a metadata-format draft
func convertDraftToSummary(d *gmail.Draft) *DraftSummary {
	summary := &DraftSummary{
		ID:      d.Id,
		Subject: "No Subject",
		To:      "No recipient",
	}
	if d.Message != nil {
		summary.Subject = headerOrDefault(d.Message, "Subject", "No Subject")
		summary.To = headerOrDefault(d.Message, "To", "No recipient")
	}
	return summary
}
