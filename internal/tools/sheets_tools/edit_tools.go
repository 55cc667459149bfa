package sheets_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/sheets"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerEditTools registers validation, charts, filters, and range operations
func registerEditTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	validationTool := mcp.NewTool("sheets_add_data_validation",
		mcp.WithDescription("Add dropdown data validation to a range. values is a JSON array like '[\"Option1\", \"Option2\"]'."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab"),
		),
		mcp.WithNumber("start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the range"),
		),
		mcp.WithNumber("end_row",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the range"),
		),
		mcp.WithNumber("end_col",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Allowed values as a JSON array, e.g. '[\"Yes\", \"No\"]'"),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Reject input outside the list instead of warning (default: true)"),
		),
	)

	s.AddTool(validationTool, common.InstrumentedToolHandlerWithService(
		"sheets_add_data_validation", "sheets", "validate", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rng, errResult := cellRangeFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			valuesJSON, ok := args["values"].(string)
			if !ok || valuesJSON == "" {
				return mcp.NewToolResultError("values is required"), nil
			}
			var rawOptions []interface{}
			if err := json.Unmarshal([]byte(valuesJSON), &rawOptions); err != nil {
				return mcp.NewToolResultText("❌ Error: values must be valid JSON array"), nil
			}
			options := make([]string, 0, len(rawOptions))
			for _, v := range rawOptions {
				options = append(options, fmt.Sprint(v))
			}
			strict := true
			if v, ok := args["strict"].(bool); ok {
				strict = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddDataValidation(ctx, spreadsheetID, rng, options, strict); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add data validation: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added dropdown validation with %d options", len(options))), nil
		}))

	copyPasteTool := mcp.NewTool("sheets_copy_paste",
		mcp.WithDescription("Copy a cell range and paste it at a destination. Paste type: NORMAL, VALUES, FORMAT, or FORMULA."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("source_sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet holding the source range"),
		),
		mcp.WithNumber("source_start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the source range"),
		),
		mcp.WithNumber("source_end_row",
			mcp.Required(),
			mcp.Description("Source row to stop at (exclusive)"),
		),
		mcp.WithNumber("source_start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the source range"),
		),
		mcp.WithNumber("source_end_col",
			mcp.Required(),
			mcp.Description("Source column to stop at (exclusive)"),
		),
		mcp.WithNumber("dest_sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet to paste into"),
		),
		mcp.WithNumber("dest_start_row",
			mcp.Required(),
			mcp.Description("Zero-based row to paste at"),
		),
		mcp.WithNumber("dest_start_col",
			mcp.Required(),
			mcp.Description("Zero-based column to paste at"),
		),
		mcp.WithString("paste_type",
			mcp.Description("NORMAL, VALUES, FORMAT, or FORMULA (default: NORMAL)"),
		),
	)

	s.AddTool(copyPasteTool, common.InstrumentedToolHandlerWithService(
		"sheets_copy_paste", "sheets", "copy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			source := sheets.CellRange{}
			var err2 *mcp.CallToolResult
			if source.SheetID, err2 = requiredInt(args, "source_sheet_id"); err2 != nil {
				return err2, nil
			}
			if source.StartRow, err2 = requiredInt(args, "source_start_row"); err2 != nil {
				return err2, nil
			}
			if source.EndRow, err2 = requiredInt(args, "source_end_row"); err2 != nil {
				return err2, nil
			}
			if source.StartCol, err2 = requiredInt(args, "source_start_col"); err2 != nil {
				return err2, nil
			}
			if source.EndCol, err2 = requiredInt(args, "source_end_col"); err2 != nil {
				return err2, nil
			}
			destSheetID, errResult := requiredInt(args, "dest_sheet_id")
			if errResult != nil {
				return errResult, nil
			}
			destRow, errResult := requiredInt(args, "dest_start_row")
			if errResult != nil {
				return errResult, nil
			}
			destCol, errResult := requiredInt(args, "dest_start_col")
			if errResult != nil {
				return errResult, nil
			}
			pasteType, ok := args["paste_type"].(string)
			if !ok || pasteType == "" {
				pasteType = "NORMAL"
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.CopyPaste(ctx, spreadsheetID, source, destSheetID, destRow, destCol, pasteType); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to copy and paste: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Copied and pasted range (%s)", pasteType)), nil
		}))

	findReplaceTool := mcp.NewTool("sheets_find_replace",
		mcp.WithDescription("Find and replace text across a sheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab to search"),
		),
		mcp.WithString("find",
			mcp.Required(),
			mcp.Description("Text to find"),
		),
		mcp.WithString("replacement",
			mcp.Required(),
			mcp.Description("Replacement text (may be empty to delete matches)"),
		),
		mcp.WithBoolean("match_case",
			mcp.Description("Match case exactly (default: false)"),
		),
		mcp.WithBoolean("match_entire_cell",
			mcp.Description("Only match cells whose full content equals the search text (default: false)"),
		),
	)

	s.AddTool(findReplaceTool, common.InstrumentedToolHandlerWithService(
		"sheets_find_replace", "sheets", "replace", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			sheetID, errResult := requiredInt(args, "sheet_id")
			if errResult != nil {
				return errResult, nil
			}
			find, ok := args["find"].(string)
			if !ok || find == "" {
				return mcp.NewToolResultError("find is required"), nil
			}
			replacement, ok := args["replacement"].(string)
			if !ok {
				return mcp.NewToolResultError("replacement is required"), nil
			}
			matchCase, _ := args["match_case"].(bool)
			matchEntireCell, _ := args["match_entire_cell"].(bool)

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			occurrences, err := client.FindReplace(ctx, spreadsheetID, sheetID, find, replacement, matchCase, matchEntireCell)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to find and replace: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Replaced %d occurrence(s) of '%s' with '%s'",
				occurrences, find, replacement)), nil
		}))

	sortRangeTool := mcp.NewTool("sheets_sort_range",
		mcp.WithDescription("Sort a range by one of its columns."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab"),
		),
		mcp.WithNumber("start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the range"),
		),
		mcp.WithNumber("end_row",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the range"),
		),
		mcp.WithNumber("end_col",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithNumber("sort_col_index",
			mcp.Required(),
			mcp.Description("Column to sort by, relative to the start of the range (0 = first column)"),
		),
		mcp.WithBoolean("ascending",
			mcp.Description("Sort ascending (default: true)"),
		),
	)

	s.AddTool(sortRangeTool, common.InstrumentedToolHandlerWithService(
		"sheets_sort_range", "sheets", "sort", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rng, errResult := cellRangeFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			sortColIndex, errResult := requiredInt(args, "sort_col_index")
			if errResult != nil {
				return errResult, nil
			}
			ascending := true
			if v, ok := args["ascending"].(bool); ok {
				ascending = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.SortRange(ctx, spreadsheetID, rng, sortColIndex, ascending); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to sort range: %v", err)), nil
			}

			direction := "ascending"
			if !ascending {
				direction = "descending"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Sorted range by column %d (%s)",
				rng.StartCol+sortColIndex, direction)), nil
		}))

	namedRangeTool := mcp.NewTool("sheets_create_named_range",
		mcp.WithDescription("Give a cell range a name usable in formulas."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab"),
		),
		mcp.WithNumber("start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the range"),
		),
		mcp.WithNumber("end_row",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the range"),
		),
		mcp.WithNumber("end_col",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithString("range_name",
			mcp.Required(),
			mcp.Description("Name for the range"),
		),
	)

	s.AddTool(namedRangeTool, common.InstrumentedToolHandlerWithService(
		"sheets_create_named_range", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rng, errResult := cellRangeFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rangeName, ok := args["range_name"].(string)
			if !ok || rangeName == "" {
				return mcp.NewToolResultError("range_name is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.CreateNamedRange(ctx, spreadsheetID, rangeName, rng); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create named range: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Created named range '%s'", rangeName)), nil
		}))

	protectRangeTool := mcp.NewTool("sheets_protect_range",
		mcp.WithDescription("Protect a range from editing. With warning_only, edits show a warning instead of being blocked."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab"),
		),
		mcp.WithNumber("start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the range"),
		),
		mcp.WithNumber("end_row",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the range"),
		),
		mcp.WithNumber("end_col",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithString("description",
			mcp.Description("Label shown for the protection (default: 'Protected Range')"),
		),
		mcp.WithBoolean("warning_only",
			mcp.Description("Warn on edit instead of blocking (default: false)"),
		),
	)

	s.AddTool(protectRangeTool, common.InstrumentedToolHandlerWithService(
		"sheets_protect_range", "sheets", "protect", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rng, errResult := cellRangeFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			description, ok := args["description"].(string)
			if !ok || description == "" {
				description = "Protected Range"
			}
			warningOnly, _ := args["warning_only"].(bool)

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.ProtectRange(ctx, spreadsheetID, rng, description, warningOnly); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to protect range: %v", err)), nil
			}

			protectionType := "protected"
			if warningOnly {
				protectionType = "warning"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Range is now %s: %s", protectionType, description)), nil
		}))

	createChartTool := mcp.NewTool("sheets_create_chart",
		mcp.WithDescription("Create a chart from a data range. Chart type: COLUMN, BAR, LINE, PIE, AREA, SCATTER."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet holding the data"),
		),
		mcp.WithString("chart_type",
			mcp.Required(),
			mcp.Description("COLUMN, BAR, LINE, PIE, AREA, or SCATTER"),
		),
		mcp.WithNumber("data_start_row",
			mcp.Required(),
			mcp.Description("Zero-based first row of the data"),
		),
		mcp.WithNumber("data_end_row",
			mcp.Required(),
			mcp.Description("Data row to stop at (exclusive)"),
		),
		mcp.WithNumber("data_start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the data; used as the chart's domain"),
		),
		mcp.WithNumber("data_end_col",
			mcp.Required(),
			mcp.Description("Data column to stop at (exclusive)"),
		),
		mcp.WithNumber("position_row",
			mcp.Description("Row to anchor the chart at (default: 0)"),
		),
		mcp.WithNumber("position_col",
			mcp.Description("Column to anchor the chart at (default: 0)"),
		),
	)

	s.AddTool(createChartTool, common.InstrumentedToolHandlerWithService(
		"sheets_create_chart", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			data := sheets.CellRange{}
			var err2 *mcp.CallToolResult
			if data.SheetID, err2 = requiredInt(args, "sheet_id"); err2 != nil {
				return err2, nil
			}
			chartType, ok := args["chart_type"].(string)
			if !ok || chartType == "" {
				return mcp.NewToolResultError("chart_type is required"), nil
			}
			if data.StartRow, err2 = requiredInt(args, "data_start_row"); err2 != nil {
				return err2, nil
			}
			if data.EndRow, err2 = requiredInt(args, "data_end_row"); err2 != nil {
				return err2, nil
			}
			if data.StartCol, err2 = requiredInt(args, "data_start_col"); err2 != nil {
				return err2, nil
			}
			if data.EndCol, err2 = requiredInt(args, "data_end_col"); err2 != nil {
				return err2, nil
			}
			var positionRow, positionCol int64
			if v, ok := args["position_row"].(float64); ok {
				positionRow = int64(v)
			}
			if v, ok := args["position_col"].(float64); ok {
				positionCol = int64(v)
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.CreateChart(ctx, spreadsheetID, chartType, data, positionRow, positionCol); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create chart: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Created %s chart", chartType)), nil
		}))

	createFilterTool := mcp.NewTool("sheets_create_filter",
		mcp.WithDescription("Create a basic filter over a range so columns can be sorted and filtered."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab"),
		),
		mcp.WithNumber("start_row",
			mcp.Required(),
			mcp.Description("Zero-based header row of the range"),
		),
		mcp.WithNumber("end_row",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("start_col",
			mcp.Required(),
			mcp.Description("Zero-based first column of the range"),
		),
		mcp.WithNumber("end_col",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
	)

	s.AddTool(createFilterTool, common.InstrumentedToolHandlerWithService(
		"sheets_create_filter", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rng, errResult := cellRangeFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.CreateFilter(ctx, spreadsheetID, rng); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create filter: %v", err)), nil
			}

			return mcp.NewToolResultText("✅ Created filter on range"), nil
		}))

	return nil
}
