package gmail

import (
	"context"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// GetProfile retrieves the mailbox profile: the account's email address,
// message and thread totals, and the current history ID
func (c *Client) GetProfile(ctx context.Context) (*gmail.Profile, error) {
	profile, err := c.svc.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetVacationSettings retrieves the vacation auto-reply settings
func (c *Client) GetVacationSettings(ctx context.Context) (*gmail.VacationSettings, error) {
	settings, err := c.svc.Settings.GetVacation("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get vacation settings: %w", err)
	}
	return settings, nil
}
