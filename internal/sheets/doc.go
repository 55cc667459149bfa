// Package sheets provides a client for reading and editing Google Sheets.
//
// Cell data moves through the values API: reads, writes and appends use A1
// notation and USER_ENTERED parsing so formulas and dates behave as if
// typed in. Structural changes are built on batchUpdate requests: sheet
// tabs, row and column dimensions, merges, borders, number formats, data
// validation, sorting, protection, charts and filters. Spreadsheet
// creation goes through the Drive API so new spreadsheets can be placed in
// folders and on shared drives.
//
// Example usage:
//
//	client, err := sheets.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rows, err := client.ReadRange(ctx, "1ABC123xyz", "A1:C10")
package sheets
