package forms

import (
	"context"
	"fmt"

	forms "google.golang.org/api/forms/v1"
)

// GetResponse retrieves a single form response by ID
func (c *Client) GetResponse(ctx context.Context, formID, responseID string) (*forms.FormResponse, error) {
	if formID == "" {
		return nil, fmt.Errorf("formID is required")
	}
	if responseID == "" {
		return nil, fmt.Errorf("responseID is required")
	}

	response, err := c.formsService.Forms.Responses.Get(formID, responseID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get response %s: %w", responseID, err)
	}

	return response, nil
}

// ListResponses returns all responses submitted to a form
func (c *Client) ListResponses(ctx context.Context, formID string) ([]*forms.FormResponse, error) {
	if formID == "" {
		return nil, fmt.Errorf("formID is required")
	}

	res, err := c.formsService.Forms.Responses.List(formID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list responses for form %s: %w", formID, err)
	}

	return res.Responses, nil
}
