package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/sheets"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerFormatTools registers cell formatting, merges, and borders
func registerFormatTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	formatCellsTool := mcp.NewTool("sheets_format_cells",
		mcp.WithDescription("Format cells in a range: bold, background color, and/or text color."),
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
		mcp.WithBoolean("bold",
			mcp.Description("Make text bold (true) or remove bold (false)"),
		),
		mcp.WithString("background_color",
			mcp.Description("Background color as hex, e.g. '#FFFF00'"),
		),
		mcp.WithString("text_color",
			mcp.Description("Text color as hex, e.g. '#FF0000'"),
		),
	)

	s.AddTool(formatCellsTool, common.InstrumentedToolHandlerWithService(
		"sheets_format_cells", "sheets", "format", sc,
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

			format := sheets.CellFormat{}
			if v, ok := args["bold"].(bool); ok {
				format.Bold = &v
			}
			format.BackgroundColor, _ = args["background_color"].(string)
			format.TextColor, _ = args["text_color"].(string)
			if format.Bold == nil && format.BackgroundColor == "" && format.TextColor == "" {
				return mcp.NewToolResultError("At least one formatting option (bold, background_color, text_color) is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.FormatCells(ctx, spreadsheetID, rng, format); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to format cells: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Formatted cells in range (rows %d-%d, cols %d-%d)",
				rng.StartRow, rng.EndRow, rng.StartCol, rng.EndCol)), nil
		}))

	mergeCellsTool := mcp.NewTool("sheets_merge_cells",
		mcp.WithDescription("Merge cells in a range. Merge type: MERGE_ALL, MERGE_COLUMNS, or MERGE_ROWS."),
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
		mcp.WithString("merge_type",
			mcp.Description("MERGE_ALL, MERGE_COLUMNS, or MERGE_ROWS (default: MERGE_ALL)"),
		),
	)

	s.AddTool(mergeCellsTool, common.InstrumentedToolHandlerWithService(
		"sheets_merge_cells", "sheets", "merge", sc,
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
			mergeType, ok := args["merge_type"].(string)
			if !ok || mergeType == "" {
				mergeType = sheets.MergeAll
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.MergeCells(ctx, spreadsheetID, rng, mergeType); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to merge cells: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Merged cells (rows %d-%d, cols %d-%d)",
				rng.StartRow, rng.EndRow-1, rng.StartCol, rng.EndCol-1)), nil
		}))

	unmergeCellsTool := mcp.NewTool("sheets_unmerge_cells",
		mcp.WithDescription("Unmerge all merged cells in a range."),
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
	)

	s.AddTool(unmergeCellsTool, common.InstrumentedToolHandlerWithService(
		"sheets_unmerge_cells", "sheets", "merge", sc,
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

			if err := client.UnmergeCells(ctx, spreadsheetID, rng); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to unmerge cells: %v", err)), nil
			}

			return mcp.NewToolResultText("✅ Unmerged cells in range"), nil
		}))

	addBordersTool := mcp.NewTool("sheets_add_borders",
		mcp.WithDescription("Add borders to all sides and inner edges of a range."),
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
		mcp.WithString("border_style",
			mcp.Description("SOLID, SOLID_MEDIUM, SOLID_THICK, DASHED, DOTTED, or DOUBLE (default: SOLID)"),
		),
		mcp.WithString("border_color",
			mcp.Description("Border color as hex (default: '#000000')"),
		),
	)

	s.AddTool(addBordersTool, common.InstrumentedToolHandlerWithService(
		"sheets_add_borders", "sheets", "format", sc,
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
			style, ok := args["border_style"].(string)
			if !ok || style == "" {
				style = "SOLID"
			}
			color, ok := args["border_color"].(string)
			if !ok || color == "" {
				color = "#000000"
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddBorders(ctx, spreadsheetID, rng, style, color); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add borders: %v", err)), nil
			}

			return mcp.NewToolResultText("✅ Added borders to range"), nil
		}))

	numberFormatTool := mcp.NewTool("sheets_set_number_format",
		mcp.WithDescription("Apply a number format to a range. Types: NUMBER, CURRENCY, PERCENT, DATE, TIME, DATE_TIME, SCIENTIFIC, TEXT."),
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
		mcp.WithString("format_type",
			mcp.Required(),
			mcp.Description("NUMBER, CURRENCY, PERCENT, DATE, TIME, DATE_TIME, SCIENTIFIC, or TEXT"),
		),
	)

	s.AddTool(numberFormatTool, common.InstrumentedToolHandlerWithService(
		"sheets_set_number_format", "sheets", "format", sc,
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
			formatType, ok := args["format_type"].(string)
			if !ok || formatType == "" {
				return mcp.NewToolResultError("format_type is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.SetNumberFormat(ctx, spreadsheetID, rng, formatType); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to set number format: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Applied %s format to range", formatType)), nil
		}))

	conditionalFormatTool := mcp.NewTool("sheets_add_conditional_format",
		mcp.WithDescription("Highlight cells matching a condition, e.g. NUMBER_GREATER, NUMBER_LESS, TEXT_CONTAINS, TEXT_EQ."),
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
		mcp.WithString("condition_type",
			mcp.Required(),
			mcp.Description("Condition type, e.g. NUMBER_GREATER, NUMBER_LESS, TEXT_CONTAINS, TEXT_EQ"),
		),
		mcp.WithString("condition_value",
			mcp.Required(),
			mcp.Description("Value to compare against"),
		),
		mcp.WithString("background_color",
			mcp.Description("Highlight color as hex (default: '#00FF00')"),
		),
	)

	s.AddTool(conditionalFormatTool, common.InstrumentedToolHandlerWithService(
		"sheets_add_conditional_format", "sheets", "format", sc,
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
			conditionType, ok := args["condition_type"].(string)
			if !ok || conditionType == "" {
				return mcp.NewToolResultError("condition_type is required"), nil
			}
			conditionValue, ok := args["condition_value"].(string)
			if !ok || conditionValue == "" {
				return mcp.NewToolResultError("condition_value is required"), nil
			}
			color, ok := args["background_color"].(string)
			if !ok || color == "" {
				color = "#00FF00"
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddConditionalFormat(ctx, spreadsheetID, rng, conditionType, conditionValue, color); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add conditional format: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added conditional formatting rule (%s)", conditionType)), nil
		}))

	addNoteTool := mcp.NewTool("sheets_add_note",
		mcp.WithDescription("Attach a note to a single cell."),
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
		mcp.WithNumber("row",
			mcp.Required(),
			mcp.Description("Zero-based row of the cell"),
		),
		mcp.WithNumber("col",
			mcp.Required(),
			mcp.Description("Zero-based column of the cell"),
		),
		mcp.WithString("note",
			mcp.Required(),
			mcp.Description("Note text"),
		),
	)

	s.AddTool(addNoteTool, common.InstrumentedToolHandlerWithService(
		"sheets_add_note", "sheets", "update", sc,
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
			row, errResult := requiredInt(args, "row")
			if errResult != nil {
				return errResult, nil
			}
			col, errResult := requiredInt(args, "col")
			if errResult != nil {
				return errResult, nil
			}
			note, ok := args["note"].(string)
			if !ok || note == "" {
				return mcp.NewToolResultError("note is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddNote(ctx, spreadsheetID, sheetID, row, col, note); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add note: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added note to cell (row %d, col %d)", row, col)), nil
		}))

	return nil
}
