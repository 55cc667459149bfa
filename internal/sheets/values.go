package sheets

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"
)

// ReadRange returns the cell values in the given A1-notation range. An
// empty result means the range holds no data.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rangeName string) ([][]interface{}, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	res, err := c.sheetsService.Spreadsheets.Values.Get(spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rangeName, err)
	}

	return res.Values, nil
}

// WriteRange writes rows into the given range and returns the number of
// cells updated. Values are parsed as if typed by the user, so formulas
// and dates are interpreted.
func (c *Client) WriteRange(ctx context.Context, spreadsheetID, rangeName string, values [][]interface{}) (int64, error) {
	res, err := c.sheetsService.Spreadsheets.Values.Update(spreadsheetID, rangeName, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write range %s: %w", rangeName, err)
	}

	return res.UpdatedCells, nil
}

// AppendRows appends rows after the last row of the table the range
// touches and returns the number of rows added.
func (c *Client) AppendRows(ctx context.Context, spreadsheetID, rangeName string, values [][]interface{}) (int64, error) {
	res, err := c.sheetsService.Spreadsheets.Values.Append(spreadsheetID, rangeName, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append to %s: %w", rangeName, err)
	}

	if res.Updates == nil {
		return 0, nil
	}
	return res.Updates.UpdatedRows, nil
}

// ClearRange removes all values from the given range. Formatting is kept.
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, rangeName string) error {
	_, err := c.sheetsService.Spreadsheets.Values.Clear(spreadsheetID, rangeName, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", rangeName, err)
	}
	return nil
}
