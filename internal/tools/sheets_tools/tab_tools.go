package sheets_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerTabTools registers sheet tab management
func registerTabTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	createTabTool := mcp.NewTool("sheets_create_sheet_tab",
		mcp.WithDescription("Add a new sheet tab to an existing spreadsheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("sheet_name",
			mcp.Required(),
			mcp.Description("Title for the new sheet tab"),
		),
	)

	s.AddTool(createTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_create_sheet_tab", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			sheetName, ok := args["sheet_name"].(string)
			if !ok || sheetName == "" {
				return mcp.NewToolResultError("sheet_name is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sheetID, err := client.AddSheet(ctx, spreadsheetID, sheetName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create sheet tab: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Created new sheet tab '%s'\nSheet ID: %d",
				sheetName, sheetID)), nil
		}))

	deleteTabTool := mcp.NewTool("sheets_delete_sheet_tab",
		mcp.WithDescription("Delete a sheet tab from a spreadsheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab to delete"),
		),
	)

	s.AddTool(deleteTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_delete_sheet_tab", "sheets", "delete", sc,
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

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteSheet(ctx, spreadsheetID, sheetID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete sheet tab: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted sheet with ID %d", sheetID)), nil
		}))

	renameTabTool := mcp.NewTool("sheets_rename_sheet_tab",
		mcp.WithDescription("Rename a sheet tab."),
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
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("New title for the sheet tab"),
		),
	)

	s.AddTool(renameTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_rename_sheet_tab", "sheets", "rename", sc,
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
			newName, ok := args["new_name"].(string)
			if !ok || newName == "" {
				return mcp.NewToolResultError("new_name is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.RenameSheet(ctx, spreadsheetID, sheetID, newName); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to rename sheet tab: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Renamed sheet to '%s'", newName)), nil
		}))

	duplicateTabTool := mcp.NewTool("sheets_duplicate_sheet_tab",
		mcp.WithDescription("Duplicate a sheet tab within the same spreadsheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab to duplicate"),
		),
		mcp.WithString("new_sheet_name",
			mcp.Description("Title for the copy (default: picked by the API)"),
		),
	)

	s.AddTool(duplicateTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_duplicate_sheet_tab", "sheets", "copy", sc,
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
			newName, _ := args["new_sheet_name"].(string)

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			props, err := client.DuplicateSheet(ctx, spreadsheetID, sheetID, newName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to duplicate sheet tab: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Duplicated sheet!\nNew sheet: %s\nNew sheet ID: %d",
				props.Title, props.SheetId)), nil
		}))

	moveTabTool := mcp.NewTool("sheets_move_sheet_tab",
		mcp.WithDescription("Move a sheet tab to a new position. Index starts at 0."),
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
		mcp.WithNumber("new_index",
			mcp.Required(),
			mcp.Description("Zero-based position to move the tab to"),
		),
	)

	s.AddTool(moveTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_move_sheet_tab", "sheets", "move", sc,
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
			newIndex, errResult := requiredInt(args, "new_index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.MoveSheet(ctx, spreadsheetID, sheetID, newIndex); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to move sheet tab: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Moved sheet to position %d", newIndex)), nil
		}))

	hideTabTool := mcp.NewTool("sheets_hide_sheet_tab",
		mcp.WithDescription("Hide or show a sheet tab."),
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
		mcp.WithBoolean("hidden",
			mcp.Description("Hide the tab when true, show it when false (default: true)"),
		),
	)

	s.AddTool(hideTabTool, common.InstrumentedToolHandlerWithService(
		"sheets_hide_sheet_tab", "sheets", "update", sc,
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
			hidden := true
			if v, ok := args["hidden"].(bool); ok {
				hidden = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.HideSheet(ctx, spreadsheetID, sheetID, hidden); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update sheet tab: %v", err)), nil
			}

			status := "hidden"
			if !hidden {
				status = "visible"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Sheet is now %s", status)), nil
		}))

	copyToTool := mcp.NewTool("sheets_copy_to_spreadsheet",
		mcp.WithDescription("Copy a sheet to another spreadsheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("source_spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet holding the sheet"),
		),
		mcp.WithNumber("sheet_id",
			mcp.Required(),
			mcp.Description("Numeric ID of the sheet tab to copy"),
		),
		mcp.WithString("destination_spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet to copy into"),
		),
	)

	s.AddTool(copyToTool, common.InstrumentedToolHandlerWithService(
		"sheets_copy_to_spreadsheet", "sheets", "copy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			sourceID, ok := args["source_spreadsheet_id"].(string)
			if !ok || sourceID == "" {
				return mcp.NewToolResultError("source_spreadsheet_id is required"), nil
			}
			sheetID, errResult := requiredInt(args, "sheet_id")
			if errResult != nil {
				return errResult, nil
			}
			destinationID, ok := args["destination_spreadsheet_id"].(string)
			if !ok || destinationID == "" {
				return mcp.NewToolResultError("destination_spreadsheet_id is required"), nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			props, err := client.CopySheetTo(ctx, sourceID, sheetID, destinationID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to copy sheet: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Sheet copied!\nNew sheet ID in destination: %d\nTitle: %s",
				props.SheetId, props.Title)), nil
		}))

	return nil
}
