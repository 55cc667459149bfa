package chat

import (
	"context"
	"fmt"

	chat "google.golang.org/api/chat/v1"
)

// ListMembers lists the memberships of a space. A pageSize of zero or less
// means the default of 100.
func (c *Client) ListMembers(ctx context.Context, spaceID string, pageSize int64) ([]*chat.Membership, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	res, err := c.svc.Spaces.Members.List(spaceID).PageSize(pageSize).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list members in space %s: %w", spaceID, err)
	}
	return res.Memberships, nil
}

// AddMember adds a human user to a space by email address
func (c *Client) AddMember(ctx context.Context, spaceID, userEmail string) (*chat.Membership, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}
	if userEmail == "" {
		return nil, fmt.Errorf("userEmail is required")
	}

	membership, err := c.svc.Spaces.Members.Create(spaceID, &chat.Membership{
		Member: &chat.User{
			Name: "users/" + userEmail,
			Type: "HUMAN",
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	return membership, nil
}

// RemoveMember deletes a membership by its resource name
// (spaces/.../members/...)
func (c *Client) RemoveMember(ctx context.Context, membershipID string) error {
	if membershipID == "" {
		return fmt.Errorf("membershipID is required")
	}

	if _, err := c.svc.Spaces.Members.Delete(membershipID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to remove member %s: %w", membershipID, err)
	}
	return nil
}
