package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047
// This is necessary for non-ASCII characters (like German umlauts) in subjects
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}

	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}

// writeHeaders writes the address, subject and threading headers of msg in
// RFC 2822 form
func writeHeaders(b *strings.Builder, msg *OutgoingMessage) {
	b.WriteString("To: ")
	b.WriteString(msg.To)
	b.WriteString("\r\n")

	if msg.Cc != "" {
		b.WriteString("Cc: ")
		b.WriteString(msg.Cc)
		b.WriteString("\r\n")
	}

	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(msg.Subject))
	b.WriteString("\r\n")

	if msg.InReplyTo != "" {
		b.WriteString("In-Reply-To: ")
		b.WriteString(msg.InReplyTo)
		b.WriteString("\r\n")
	}
	if msg.References != "" {
		b.WriteString("References: ")
		b.WriteString(msg.References)
		b.WriteString("\r\n")
	}
}

// rawMessage assembles msg as a plain-text RFC 2822 message and returns it
// base64url encoded the way the Gmail API expects raw payloads
func rawMessage(msg *OutgoingMessage) string {
	var b strings.Builder

	writeHeaders(&b, msg)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// Send sends a plain-text email through the Gmail API
func (c *Client) Send(ctx context.Context, msg *OutgoingMessage) (*gmail.Message, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return nil, fmt.Errorf("body is required")
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: rawMessage(msg)}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return sent, nil
}

// Reply sends a reply into the conversation of an existing message. The
// reply goes to the original sender, carries a "Re: " subject and the
// threading headers, and is attached to the original's thread.
func (c *Client) Reply(ctx context.Context, messageID, body string) (*ReplyResult, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if body == "" {
		return nil, fmt.Errorf("body is required")
	}

	original, err := c.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get original message: %w", err)
	}

	subject := headerOrDefault(original, "Subject", "No Subject")
	if !strings.HasPrefix(subject, "Re:") {
		subject = "Re: " + subject
	}

	msg := &OutgoingMessage{
		To:         HeaderValue(original, "From"),
		Subject:    subject,
		Body:       body,
		InReplyTo:  messageID,
		References: messageID,
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw:      rawMessage(msg),
		ThreadId: original.ThreadId,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send reply: %w", err)
	}

	return &ReplyResult{
		MessageID: sent.Id,
		ThreadID:  original.ThreadId,
	}, nil
}

// Forward sends an existing message on to a new recipient, prepending the
// optional comment and the forwarded-message banner to the original body
func (c *Client) Forward(ctx context.Context, messageID, to, comment string) (*gmail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if to == "" {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	original, err := c.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get original message: %w", err)
	}

	subject := headerOrDefault(original, "Subject", "No Subject")
	if !strings.HasPrefix(subject, "Fwd:") {
		subject = "Fwd: " + subject
	}

	body := ""
	if comment != "" {
		body = comment + "\n\n---------- Forwarded message ---------\n"
	}
	body += MessageBody(original)

	sent, err := c.svc.Messages.Send("me", &gmail.Message{
		Raw: rawMessage(&OutgoingMessage{To: to, Subject: subject, Body: body}),
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to forward email: %w", err)
	}

	return sent, nil
}

// SendWithAttachment sends a plain-text email carrying the file at
// attachmentPath as a multipart/mixed attachment
func (c *Client) SendWithAttachment(ctx context.Context, msg *OutgoingMessage, attachmentPath string) (*gmail.Message, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	data, err := os.ReadFile(attachmentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", attachmentPath, err)
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build message body: %w", err)
	}
	if _, err := text.Write([]byte(msg.Body)); err != nil {
		return nil, fmt.Errorf("failed to build message body: %w", err)
	}

	attachment, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/octet-stream"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filepath.Base(attachmentPath))},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment part: %w", err)
	}
	if _, err := attachment.Write([]byte(base64.StdEncoding.EncodeToString(data))); err != nil {
		return nil, fmt.Errorf("failed to build attachment part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build attachment part: %w", err)
	}

	var b strings.Builder
	writeHeaders(&b, msg)
	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary()))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.Write(parts.Bytes())

	raw := base64.URLEncoding.EncodeToString([]byte(b.String()))
	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return sent, nil
}
