package chat

import (
	"context"
	"fmt"
	"strings"

	chat "google.golang.org/api/chat/v1"
)

// SpaceTypeSpace is the default space type for new spaces
const SpaceTypeSpace = "SPACE"

// ListSpaces lists the spaces the user is a member of. A pageSize of zero or
// less means the default of 100.
func (c *Client) ListSpaces(ctx context.Context, pageSize int64) ([]*chat.Space, error) {
	if pageSize <= 0 {
		pageSize = 100
	}

	res, err := c.svc.Spaces.List().PageSize(pageSize).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}
	return res.Spaces, nil
}

// GetSpace retrieves a space by its resource name (spaces/...)
func (c *Client) GetSpace(ctx context.Context, spaceID string) (*chat.Space, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}

	space, err := c.svc.Spaces.Get(spaceID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get space %s: %w", spaceID, err)
	}
	return space, nil
}

// CreateSpace creates a new space. An empty spaceType means SPACE.
func (c *Client) CreateSpace(ctx context.Context, displayName, spaceType string) (*chat.Space, error) {
	if displayName == "" {
		return nil, fmt.Errorf("displayName is required")
	}
	if spaceType == "" {
		spaceType = SpaceTypeSpace
	}

	created, err := c.svc.Spaces.Create(&chat.Space{
		DisplayName: displayName,
		SpaceType:   spaceType,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create space: %w", err)
	}
	return created, nil
}

// UpdateSpace patches a space with a field mask covering only the provided
// fields
func (c *Client) UpdateSpace(ctx context.Context, spaceID string, updates SpaceUpdates) (*chat.Space, error) {
	if spaceID == "" {
		return nil, fmt.Errorf("spaceID is required")
	}
	if updates.isEmpty() {
		return nil, fmt.Errorf("no fields specified")
	}

	space := &chat.Space{}
	var masks []string
	if updates.DisplayName != nil {
		space.DisplayName = *updates.DisplayName
		masks = append(masks, "displayName")
	}
	if updates.Description != nil {
		space.SpaceDetails = &chat.SpaceDetails{Description: *updates.Description}
		masks = append(masks, "spaceDetails.description")
	}

	updated, err := c.svc.Spaces.Patch(spaceID, space).
		UpdateMask(strings.Join(masks, ",")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update space %s: %w", spaceID, err)
	}
	return updated, nil
}

// DeleteSpace deletes a space along with its messages and memberships
func (c *Client) DeleteSpace(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return fmt.Errorf("spaceID is required")
	}

	if _, err := c.svc.Spaces.Delete(spaceID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete space %s: %w", spaceID, err)
	}
	return nil
}
