package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// AttachmentInfo represents an attachment's metadata
type AttachmentInfo struct {
	MessageID    string
	PartID       string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
}

// ListAttachments extracts all attachments from a message
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]*AttachmentInfo, error) {
	msg, err := c.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	var attachments []*AttachmentInfo
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, &AttachmentInfo{
				MessageID:    messageID,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return attachments, nil
}

// DownloadAttachment retrieves the content of an attachment along with the
// size the API reports for it
func (c *Client) DownloadAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, int64, error) {
	if messageID == "" {
		return nil, 0, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, 0, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, 0, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	data, err := decodeBody(attachment.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode attachment data: %w", err)
	}

	return data, attachment.Size, nil
}

// MessageBody extracts the plain-text body of a full-format message: the
// first top-level text/plain part with data, or the payload body itself for
// single-part messages. Returns "" when the message has no decodable
// plain-text body.
func MessageBody(m *gmail.Message) string {
	if m.Payload == nil {
		return ""
	}

	data := ""
	if len(m.Payload.Parts) > 0 {
		for _, part := range m.Payload.Parts {
			if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
				data = part.Body.Data
				break
			}
		}
	} else if m.Payload.Body != nil {
		data = m.Payload.Body.Data
	}

	if data == "" {
		return ""
	}

	decoded, err := decodeBody(data)
	if err != nil {
		return ""
	}
	return string(decoded)
}

// GetMessageBody fetches a message and extracts its text or HTML body,
// searching nested multipart structures
func (c *Client) GetMessageBody(ctx context.Context, messageID string, format string) (string, error) {
	if format == "" {
		format = "text"
	}

	var targetMimeType string
	switch format {
	case "text":
		targetMimeType = "text/plain"
	case "html":
		targetMimeType = "text/html"
	default:
		return "", fmt.Errorf("invalid format %s, must be 'text' or 'html'", format)
	}

	msg, err := c.GetMessage(ctx, messageID)
	if err != nil {
		return "", err
	}

	var body string
	if msg.Payload != nil {
		if msg.Payload.MimeType == targetMimeType && msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
			body = msg.Payload.Body.Data
		} else {
			walkParts(msg.Payload, func(part *gmail.MessagePart) {
				if body == "" && part.MimeType == targetMimeType && part.Body != nil && part.Body.Data != "" {
					body = part.Body.Data
				}
			})
		}
	}

	if body == "" {
		return "", fmt.Errorf("no %s body found in message", format)
	}

	decoded, err := decodeBody(body)
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}

	return string(decoded), nil
}

// decodeBody decodes base64url-encoded body data (Gmail API uses RFC 4648
// base64url encoding), falling back to standard base64
func decodeBody(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, err
		}
	}
	return decoded, nil
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
