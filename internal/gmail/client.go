package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// Client wraps the Gmail users service for a single account
type Client struct {
	svc     *gmail.UsersService
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

// NewClientForAccountWithProvider creates a new Gmail client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Gmail client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithService wraps an existing Gmail service. Tests use this to
// point the client at a stub backend.
func NewClientWithService(svc *gmail.Service, account string) *Client {
	return &Client{
		svc:     svc.Users,
		account: account,
	}
}

// SearchMessages lists messages matching a Gmail search query and resolves
// the listing headers for each hit with a metadata-format get
func (c *Client) SearchMessages(ctx context.Context, query string, maxResults int64) ([]*MessageSummary, error) {
	call := c.svc.Messages.List("me").Q(query)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	summaries := make([]*MessageSummary, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := c.svc.Messages.Get("me", m.Id).Format("metadata").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		summaries = append(summaries, convertMessageToSummary(msg))
	}

	return summaries, nil
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// ModifyMessage adds and removes labels on a message
func (c *Client) ModifyMessage(ctx context.Context, messageID string, addLabelIDs, removeLabelIDs []string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabelIDs,
		RemoveLabelIds: removeLabelIDs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to modify message %s: %w", messageID, err)
	}
	return nil
}

// TrashMessage moves a message to the trash
func (c *Client) TrashMessage(ctx context.Context, messageID string) error {
	_, err := c.svc.Messages.Trash("me", messageID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to trash message %s: %w", messageID, err)
	}
	return nil
}

// UntrashMessage restores a message from the trash
func (c *Client) UntrashMessage(ctx context.Context, messageID string) error {
	_, err := c.svc.Messages.Untrash("me", messageID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to untrash message %s: %w", messageID, err)
	}
	return nil
}

// DeleteMessage permanently deletes a message, bypassing the trash
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if err := c.svc.Messages.Delete("me", messageID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// ListThreads lists conversations matching an optional query and resolves
// the first-message subject and message count for each
func (c *Client) ListThreads(ctx context.Context, query string, maxResults int64) ([]*ThreadSummary, error) {
	call := c.svc.Threads.List("me")
	if query != "" {
		call = call.Q(query)
	}
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	summaries := make([]*ThreadSummary, 0, len(res.Threads))
	for _, t := range res.Threads {
		thread, err := c.svc.Threads.Get("me", t.Id).Format("metadata").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get thread %s: %w", t.Id, err)
		}
		if summary := convertThreadToSummary(thread); summary != nil {
			summaries = append(summaries, summary)
		}
	}

	return summaries, nil
}

// GetThread retrieves a full Gmail thread with all its messages
func (c *Client) GetThread(ctx context.Context, threadID string) (*gmail.Thread, error) {
	thread, err := c.svc.Threads.Get("me", threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get thread %s: %w", threadID, err)
	}
	return thread, nil
}

// ListLabels lists all labels in the mailbox, both system and user labels
func (c *Client) ListLabels(ctx context.Context) ([]*gmail.Label, error) {
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return res.Labels, nil
}

// CreateLabel creates a user label that shows in both the message and
// label lists
func (c *Client) CreateLabel(ctx context.Context, name string) (*gmail.Label, error) {
	label, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		MessageListVisibility: "show",
		LabelListVisibility:   "labelShow",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return label, nil
}

// DeleteLabel deletes a user label by ID
func (c *Client) DeleteLabel(ctx context.Context, labelID string) error {
	if err := c.svc.Labels.Delete("me", labelID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete label %s: %w", labelID, err)
	}
	return nil
}

// ListDrafts lists drafts and resolves the listing headers for each with a
// metadata-format get
func (c *Client) ListDrafts(ctx context.Context, maxResults int64) ([]*DraftSummary, error) {
	call := c.svc.Drafts.List("me")
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	summaries := make([]*DraftSummary, 0, len(res.Drafts))
	for _, d := range res.Drafts {
		draft, err := c.svc.Drafts.Get("me", d.Id).Format("metadata").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get draft %s: %w", d.Id, err)
		}
		summaries = append(summaries, convertDraftToSummary(draft))
	}

	return summaries, nil
}

// CreateDraft saves a composed message as a draft
func (c *Client) CreateDraft(ctx context.Context, msg *OutgoingMessage) (*gmail.Draft, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: rawMessage(msg)},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return draft, nil
}

// SendDraft sends an existing draft
func (c *Client) SendDraft(ctx context.Context, draftID string) (*gmail.Message, error) {
	sent, err := c.svc.Drafts.Send("me", &gmail.Draft{Id: draftID}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send draft %s: %w", draftID, err)
	}
	return sent, nil
}

// DeleteDraft deletes a draft by ID
func (c *Client) DeleteDraft(ctx context.Context, draftID string) error {
	if err := c.svc.Drafts.Delete("me", draftID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil
}
