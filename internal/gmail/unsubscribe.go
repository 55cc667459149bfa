package gmail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UnsubscribeInfo describes how a sender lets recipients opt out, taken from
// the message's List-Unsubscribe header (RFC 2369).
type UnsubscribeInfo struct {
	MessageID      string
	HasUnsubscribe bool
	Methods        []UnsubscribeMethod
}

// UnsubscribeMethod is one opt-out channel: a mailto address or an HTTP URL.
type UnsubscribeMethod struct {
	Type string // "mailto" or "http"
	URL  string
}

// GetUnsubscribeInfo fetches a message and decodes its List-Unsubscribe
// header. A message without the header yields HasUnsubscribe false, not an
// error.
func (c *Client) GetUnsubscribeInfo(ctx context.Context, messageID string) (*UnsubscribeInfo, error) {
	msg, err := c.GetMessage(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	info := &UnsubscribeInfo{MessageID: messageID, Methods: []UnsubscribeMethod{}}
	header := HeaderValue(msg, "List-Unsubscribe")
	if header == "" {
		return info, nil
	}
	info.HasUnsubscribe = true
	info.Methods = parseListUnsubscribe(header)
	return info, nil
}

// parseListUnsubscribe extracts the angle-bracketed URIs from a
// List-Unsubscribe header value, e.g.
// "<mailto:unsub@example.com>, <https://example.com/unsub>".
// Entries that are neither mailto nor http(s) are ignored.
func parseListUnsubscribe(header string) []UnsubscribeMethod {
	var methods []UnsubscribeMethod
	rest := header
	for {
		open := strings.Index(rest, "<")
		if open == -1 {
			break
		}
		rest = rest[open+1:]
		closing := strings.Index(rest, ">")
		if closing == -1 {
			break
		}
		uri := strings.TrimSpace(rest[:closing])
		rest = rest[closing+1:]

		switch {
		case strings.HasPrefix(uri, "mailto:"):
			methods = append(methods, UnsubscribeMethod{Type: "mailto", URL: uri})
		case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
			methods = append(methods, UnsubscribeMethod{Type: "http", URL: uri})
		}
	}
	return methods
}

// UnsubscribeViaHTTP issues the one-click GET against an http(s) unsubscribe
// URL. Any 2xx or 3xx status counts as accepted.
func (c *Client) UnsubscribeViaHTTP(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("invalid HTTP URL: %s", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// A few list managers reject requests without a user agent.
	req.Header.Set("User-Agent", "workspace-mcp/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send unsubscribe request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("unsubscribe request failed with status %d", resp.StatusCode)
	}
	return nil
}
