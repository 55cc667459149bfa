package sheets_tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerDataTools registers spreadsheet creation, cell data and metadata
// tools
func registerDataTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	readTool := mcp.NewTool("sheets_read",
		mcp.WithDescription("Read data from a Google Sheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range_name",
			mcp.Description("A1-notation range to read (default: A1:Z1000)"),
		),
	)

	s.AddTool(readTool, common.InstrumentedToolHandlerWithService(
		"sheets_read", "sheets", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rangeName := "A1:Z1000"
			if v, ok := args["range_name"].(string); ok && v != "" {
				rangeName = v
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			values, err := client.ReadRange(ctx, spreadsheetID, rangeName)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read sheet: %v", err)), nil
			}

			if len(values) == 0 {
				return mcp.NewToolResultText("No data found in sheet."), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Data from %s:\n\n", rangeName)
			for _, row := range values {
				cells := make([]string, len(row))
				for i, cell := range row {
					cells[i] = fmt.Sprint(cell)
				}
				sb.WriteString(strings.Join(cells, " | "))
				sb.WriteString("\n")
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	metadataTool := mcp.NewTool("sheets_get_metadata",
		mcp.WithDescription("Get spreadsheet metadata including sheet names, IDs, and properties."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
	)

	s.AddTool(metadataTool, common.InstrumentedToolHandlerWithService(
		"sheets_get_metadata", "sheets", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			spreadsheet, err := client.GetSpreadsheet(ctx, spreadsheetID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get spreadsheet: %v", err)), nil
			}

			title := "Untitled"
			if spreadsheet.Properties != nil && spreadsheet.Properties.Title != "" {
				title = spreadsheet.Properties.Title
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Spreadsheet: %s\n", title)
			fmt.Fprintf(&sb, "ID: %s\n", spreadsheetID)
			fmt.Fprintf(&sb, "Sheets: %d\n\n", len(spreadsheet.Sheets))

			for _, sheet := range spreadsheet.Sheets {
				props := sheet.Properties
				if props == nil {
					continue
				}
				sheetTitle := props.Title
				if sheetTitle == "" {
					sheetTitle = "Untitled"
				}
				rows, columns := "N/A", "N/A"
				if gp := props.GridProperties; gp != nil {
					rows = strconv.FormatInt(gp.RowCount, 10)
					columns = strconv.FormatInt(gp.ColumnCount, 10)
				}
				fmt.Fprintf(&sb, "📊 %s\n", sheetTitle)
				fmt.Fprintf(&sb, "   Sheet ID: %d\n", props.SheetId)
				fmt.Fprintf(&sb, "   Rows: %s\n", rows)
				fmt.Fprintf(&sb, "   Columns: %s\n\n", columns)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("sheets_create",
		mcp.WithDescription("Create a new Google Sheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new spreadsheet"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to create the spreadsheet in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("ID of the shared drive, if the folder is on one"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"sheets_create", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateSpreadsheet(ctx, title, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create spreadsheet: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Google Sheet created!\nTitle: %s\nID: %s\nLink: %s",
				created.Title, created.ID, orNA(created.Link))), nil
		}))

	writeTool := mcp.NewTool("sheets_write",
		mcp.WithDescription("Write data to a Google Sheet. values: JSON array like '[[\"Name\", \"Email\"], [\"John\", \"john@example.com\"]]'"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range_name",
			mcp.Required(),
			mcp.Description("A1-notation range to write, e.g. 'Sheet1!A1'"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Rows to write as a JSON array of arrays"),
		),
	)

	s.AddTool(writeTool, common.InstrumentedToolHandlerWithService(
		"sheets_write", "sheets", "write", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rangeName, ok := args["range_name"].(string)
			if !ok || rangeName == "" {
				return mcp.NewToolResultError("range_name is required"), nil
			}
			rows, errResult := rowsFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			cells, err := client.WriteRange(ctx, spreadsheetID, rangeName, rows)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to write to sheet: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Updated %d cells in range %s", cells, rangeName)), nil
		}))

	appendTool := mcp.NewTool("sheets_append",
		mcp.WithDescription("Append rows to a Google Sheet. values: JSON array like '[[\"Name\", \"Email\"], [\"John\", \"john@example.com\"]]'"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range_name",
			mcp.Required(),
			mcp.Description("A1-notation range locating the table to append to"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Rows to append as a JSON array of arrays"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedToolHandlerWithService(
		"sheets_append", "sheets", "append", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rangeName, ok := args["range_name"].(string)
			if !ok || rangeName == "" {
				return mcp.NewToolResultError("range_name is required"), nil
			}
			rows, errResult := rowsFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSheetsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			appended, err := client.AppendRows(ctx, spreadsheetID, rangeName, rows)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to append to sheet: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Appended %d row(s)", appended)), nil
		}))

	clearTool := mcp.NewTool("sheets_clear",
		mcp.WithDescription("Clear all data in a specific range of a Google Sheet."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range_name",
			mcp.Required(),
			mcp.Description("A1-notation range to clear"),
		),
	)

	s.AddTool(clearTool, common.InstrumentedToolHandlerWithService(
		"sheets_clear", "sheets", "clear", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spreadsheetID, errResult := spreadsheetIDFromArgs(args)
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

			if err := client.ClearRange(ctx, spreadsheetID, rangeName); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to clear range: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Cleared data in range %s", rangeName)), nil
		}))

	return nil
}
