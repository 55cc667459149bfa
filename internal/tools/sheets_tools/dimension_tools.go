package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerDimensionTools registers row and column operations
func registerDimensionTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	insertRowsTool := mcp.NewTool("sheets_insert_rows",
		mcp.WithDescription("Insert empty rows at the given index. Existing rows shift down."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based row index to insert at"),
		),
		mcp.WithNumber("num_rows",
			mcp.Required(),
			mcp.Description("Number of rows to insert"),
		),
	)

	s.AddTool(insertRowsTool, common.InstrumentedToolHandlerWithService(
		"sheets_insert_rows", "sheets", "insert", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			numRows, errResult := requiredInt(args, "num_rows")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertRows(ctx, spreadsheetID, sheetID, startIndex, numRows); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert rows: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Inserted %d row(s) at index %d", numRows, startIndex)), nil
		}))

	insertColumnsTool := mcp.NewTool("sheets_insert_columns",
		mcp.WithDescription("Insert empty columns at the given index. Existing columns shift right."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based column index to insert at"),
		),
		mcp.WithNumber("num_columns",
			mcp.Required(),
			mcp.Description("Number of columns to insert"),
		),
	)

	s.AddTool(insertColumnsTool, common.InstrumentedToolHandlerWithService(
		"sheets_insert_columns", "sheets", "insert", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			numColumns, errResult := requiredInt(args, "num_columns")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertColumns(ctx, spreadsheetID, sheetID, startIndex, numColumns); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert columns: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Inserted %d column(s) at index %d", numColumns, startIndex)), nil
		}))

	deleteRowsTool := mcp.NewTool("sheets_delete_rows",
		mcp.WithDescription("Delete a range of rows. Indices are zero-based, end is exclusive."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first row to delete"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
	)

	s.AddTool(deleteRowsTool, common.InstrumentedToolHandlerWithService(
		"sheets_delete_rows", "sheets", "delete", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteRows(ctx, spreadsheetID, sheetID, startIndex, endIndex); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete rows: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted %d row(s) (indices %d-%d)",
				endIndex-startIndex, startIndex, endIndex-1)), nil
		}))

	deleteColumnsTool := mcp.NewTool("sheets_delete_columns",
		mcp.WithDescription("Delete a range of columns. Indices are zero-based, end is exclusive."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first column to delete"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
	)

	s.AddTool(deleteColumnsTool, common.InstrumentedToolHandlerWithService(
		"sheets_delete_columns", "sheets", "delete", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteColumns(ctx, spreadsheetID, sheetID, startIndex, endIndex); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete columns: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted %d column(s) (indices %d-%d)",
				endIndex-startIndex, startIndex, endIndex-1)), nil
		}))

	resizeRowsTool := mcp.NewTool("sheets_resize_rows",
		mcp.WithDescription("Set the pixel height of a range of rows."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first row to resize"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithNumber("pixel_size",
			mcp.Required(),
			mcp.Description("New height in pixels"),
		),
	)

	s.AddTool(resizeRowsTool, common.InstrumentedToolHandlerWithService(
		"sheets_resize_rows", "sheets", "resize", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}
			pixelSize, errResult := requiredInt(args, "pixel_size")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.ResizeRows(ctx, spreadsheetID, sheetID, startIndex, endIndex, pixelSize); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to resize rows: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Resized %d row(s) to %dpx",
				endIndex-startIndex, pixelSize)), nil
		}))

	resizeColumnsTool := mcp.NewTool("sheets_resize_columns",
		mcp.WithDescription("Set the pixel width of a range of columns."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first column to resize"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithNumber("pixel_size",
			mcp.Required(),
			mcp.Description("New width in pixels"),
		),
	)

	s.AddTool(resizeColumnsTool, common.InstrumentedToolHandlerWithService(
		"sheets_resize_columns", "sheets", "resize", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}
			pixelSize, errResult := requiredInt(args, "pixel_size")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.ResizeColumns(ctx, spreadsheetID, sheetID, startIndex, endIndex, pixelSize); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to resize columns: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Resized %d column(s) to %dpx",
				endIndex-startIndex, pixelSize)), nil
		}))

	autoResizeTool := mcp.NewTool("sheets_auto_resize_columns",
		mcp.WithDescription("Auto-fit column widths to their content."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first column to auto-resize"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
	)

	s.AddTool(autoResizeTool, common.InstrumentedToolHandlerWithService(
		"sheets_auto_resize_columns", "sheets", "resize", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AutoResizeColumns(ctx, spreadsheetID, sheetID, startIndex, endIndex); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to auto-resize columns: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Auto-resized %d column(s)", endIndex-startIndex)), nil
		}))

	hideRowsTool := mcp.NewTool("sheets_hide_rows",
		mcp.WithDescription("Hide or show a range of rows."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first row"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Row to stop at (exclusive)"),
		),
		mcp.WithBoolean("hidden",
			mcp.Description("Hide when true, show when false (default: true)"),
		),
	)

	s.AddTool(hideRowsTool, common.InstrumentedToolHandlerWithService(
		"sheets_hide_rows", "sheets", "update", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}
			hidden := true
			if v, ok := args["hidden"].(bool); ok {
				hidden = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.HideRows(ctx, spreadsheetID, sheetID, startIndex, endIndex, hidden); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update rows: %v", err)), nil
			}

			status := "hidden"
			if !hidden {
				status = "visible"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ %d row(s) are now %s", endIndex-startIndex, status)), nil
		}))

	hideColumnsTool := mcp.NewTool("sheets_hide_columns",
		mcp.WithDescription("Hide or show a range of columns."),
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
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Zero-based first column"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("Column to stop at (exclusive)"),
		),
		mcp.WithBoolean("hidden",
			mcp.Description("Hide when true, show when false (default: true)"),
		),
	)

	s.AddTool(hideColumnsTool, common.InstrumentedToolHandlerWithService(
		"sheets_hide_columns", "sheets", "update", sc,
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
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}
			hidden := true
			if v, ok := args["hidden"].(bool); ok {
				hidden = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.HideColumns(ctx, spreadsheetID, sheetID, startIndex, endIndex, hidden); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update columns: %v", err)), nil
			}

			status := "hidden"
			if !hidden {
				status = "visible"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ %d column(s) are now %s", endIndex-startIndex, status)), nil
		}))

	freezeTool := mcp.NewTool("sheets_freeze_rows_columns",
		mcp.WithDescription("Freeze header rows and columns, or unfreeze with counts of 0."),
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
		mcp.WithNumber("frozen_row_count",
			mcp.Description("Number of rows to freeze at the top (default: 0)"),
		),
		mcp.WithNumber("frozen_column_count",
			mcp.Description("Number of columns to freeze on the left (default: 0)"),
		),
	)

	s.AddTool(freezeTool, common.InstrumentedToolHandlerWithService(
		"sheets_freeze_rows_columns", "sheets", "update", sc,
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
			var frozenRows, frozenCols int64
			if v, ok := args["frozen_row_count"].(float64); ok {
				frozenRows = int64(v)
			}
			if v, ok := args["frozen_column_count"].(float64); ok {
				frozenCols = int64(v)
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.FreezeRowsColumns(ctx, spreadsheetID, sheetID, frozenRows, frozenCols); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to freeze rows/columns: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Froze %d row(s) and %d column(s)",
				frozenRows, frozenCols)), nil
		}))

	return nil
}
