package chat

import (
	"context"
	"fmt"

	chat "google.golang.org/api/chat/v1"
)

// SendMessage sends a text message to a space. A non-empty threadKey replies
// in that thread instead of starting a new one.
func (c *Client) SendMessage(ctx context.Context, spaceID, text, threadKey string) (*chat.Message, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	message := &chat.Message{Text: text}
	if threadKey != "" {
		message.Thread = &chat.Thread{ThreadKey: threadKey}
	}

	sent, err := c.svc.Spaces.Messages.Create(spaceID, message).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return sent, nil
}

// ListMessages lists messages in a space, newest first. A pageSize of zero
// or less means the default of 25.
func (c *Client) ListMessages(ctx context.Context, spaceID string, pageSize int64) ([]*chat.Message, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}
	if pageSize <= 0 {
		pageSize = 25
	}

	res, err := c.svc.Spaces.Messages.List(spaceID).
		PageSize(pageSize).
		OrderBy("createTime desc").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages in space %s: %w", spaceID, err)
	}
	return res.Messages, nil
}

// GetMessage retrieves a message by its resource name (spaces/.../messages/...)
func (c *Client) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	message, err := c.svc.Spaces.Messages.Get(messageID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return message, nil
}

// UpdateMessage replaces the text of a message
func (c *Client) UpdateMessage(ctx context.Context, messageID, text string) (*chat.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	updated, err := c.svc.Spaces.Messages.Patch(messageID, &chat.Message{Text: text}).
		UpdateMask("text").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update message %s: %w", messageID, err)
	}
	return updated, nil
}

// DeleteMessage deletes a message
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("messageID is required")
	}

	if _, err := c.svc.Spaces.Messages.Delete(messageID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}

// CreateReaction adds a unicode emoji reaction to a message
func (c *Client) CreateReaction(ctx context.Context, messageID, emoji string) (*chat.Reaction, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if emoji == "" {
		return nil, fmt.Errorf("emoji is required")
	}

	reaction, err := c.svc.Spaces.Messages.Reactions.Create(messageID, &chat.Reaction{
		Emoji: &chat.Emoji{Unicode: emoji},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to add reaction: %w", err)
	}
	return reaction, nil
}

// ListReactions lists the reactions on a message
func (c *Client) ListReactions(ctx context.Context, messageID string) ([]*chat.Reaction, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	res, err := c.svc.Spaces.Messages.Reactions.List(messageID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list reactions on message %s: %w", messageID, err)
	}
	return res.Reactions, nil
}

// DeleteReaction removes a reaction by its resource name
func (c *Client) DeleteReaction(ctx context.Context, reactionID string) error {
	if reactionID == "" {
		return fmt.Errorf("reactionID is required")
	}

	if _, err := c.svc.Spaces.Messages.Reactions.Delete(reactionID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete reaction %s: %w", reactionID, err)
	}
	return nil
}
