package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// FilterCriteria selects which incoming messages a filter matches.
type FilterCriteria struct {
	From           string
	To             string
	Subject        string
	Query          string // full Gmail search syntax
	HasAttachment  bool
	Size           int64  // bytes, paired with SizeComparison
	SizeComparison string // "larger" or "smaller"
}

// FilterAction describes what happens to a matching message. The boolean
// convenience actions translate to system label changes on the wire:
// Archive removes INBOX, MarkAsRead removes UNREAD, Star adds STARRED,
// MarkAsSpam adds SPAM, Delete adds TRASH.
type FilterAction struct {
	AddLabelIDs    []string
	RemoveLabelIDs []string
	Forward        string
	Archive        bool
	MarkAsRead     bool
	Star           bool
	MarkAsSpam     bool
	Delete         bool
}

// FilterInfo is a stored filter: its ID plus decoded criteria and actions.
type FilterInfo struct {
	ID       string
	Criteria FilterCriteria
	Action   FilterAction
}

// Convenience action flags map onto system-label operations.
var (
	addLabelFor = []struct {
		flag  func(FilterAction) bool
		label string
	}{
		{func(a FilterAction) bool { return a.Star }, "STARRED"},
		{func(a FilterAction) bool { return a.MarkAsSpam }, "SPAM"},
		{func(a FilterAction) bool { return a.Delete }, "TRASH"},
	}
	removeLabelFor = []struct {
		flag  func(FilterAction) bool
		label string
	}{
		{func(a FilterAction) bool { return a.Archive }, "INBOX"},
		{func(a FilterAction) bool { return a.MarkAsRead }, "UNREAD"},
	}
)

// CreateFilter stores a new filter and returns it with its server-assigned ID.
func (c *Client) CreateFilter(ctx context.Context, criteria FilterCriteria, action FilterAction) (*FilterInfo, error) {
	wireCriteria := &gmail.FilterCriteria{
		From:          criteria.From,
		To:            criteria.To,
		Subject:       criteria.Subject,
		Query:         criteria.Query,
		HasAttachment: criteria.HasAttachment,
	}
	if criteria.Size > 0 {
		wireCriteria.Size = criteria.Size
		wireCriteria.SizeComparison = criteria.SizeComparison
	}

	wireAction := &gmail.FilterAction{
		AddLabelIds:    append([]string(nil), action.AddLabelIDs...),
		RemoveLabelIds: append([]string(nil), action.RemoveLabelIDs...),
		Forward:        action.Forward,
	}
	for _, m := range addLabelFor {
		if m.flag(action) {
			wireAction.AddLabelIds = append(wireAction.AddLabelIds, m.label)
		}
	}
	for _, m := range removeLabelFor {
		if m.flag(action) {
			wireAction.RemoveLabelIds = append(wireAction.RemoveLabelIds, m.label)
		}
	}

	created, err := c.svc.Settings.Filters.Create("me", &gmail.Filter{
		Criteria: wireCriteria,
		Action:   wireAction,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter: %w", err)
	}
	return toFilterInfo(created), nil
}

// ListFilters returns every filter defined for the account.
func (c *Client) ListFilters(ctx context.Context) ([]*FilterInfo, error) {
	resp, err := c.svc.Settings.Filters.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	filters := make([]*FilterInfo, 0, len(resp.Filter))
	for _, f := range resp.Filter {
		filters = append(filters, toFilterInfo(f))
	}
	return filters, nil
}

// DeleteFilter removes a filter by ID.
func (c *Client) DeleteFilter(ctx context.Context, filterID string) error {
	if err := c.svc.Settings.Filters.Delete("me", filterID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete filter: %w", err)
	}
	return nil
}

// toFilterInfo decodes a wire filter, deriving the convenience flags from
// the system labels present in the label operations.
func toFilterInfo(f *gmail.Filter) *FilterInfo {
	info := &FilterInfo{ID: f.Id}

	if f.Criteria != nil {
		info.Criteria = FilterCriteria{
			From:           f.Criteria.From,
			To:             f.Criteria.To,
			Subject:        f.Criteria.Subject,
			Query:          f.Criteria.Query,
			HasAttachment:  f.Criteria.HasAttachment,
			Size:           f.Criteria.Size,
			SizeComparison: f.Criteria.SizeComparison,
		}
	}
	if f.Action == nil {
		return info
	}

	info.Action = FilterAction{
		AddLabelIDs:    f.Action.AddLabelIds,
		RemoveLabelIDs: f.Action.RemoveLabelIds,
		Forward:        f.Action.Forward,
	}
	for _, label := range f.Action.RemoveLabelIds {
		switch label {
		case "INBOX":
			info.Action.Archive = true
		case "UNREAD":
			info.Action.MarkAsRead = true
		}
	}
	for _, label := range f.Action.AddLabelIds {
		switch label {
		case "STARRED":
			info.Action.Star = true
		case "SPAM":
			info.Action.MarkAsSpam = true
		case "TRASH":
			info.Action.Delete = true
		}
	}
	return info
}
