package docs_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/docs"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// headingLevels lists the named paragraph styles docs_set_heading_style
// accepts, in the order shown to users
var headingLevels = []string{
	"HEADING_1", "HEADING_2", "HEADING_3", "HEADING_4", "HEADING_5", "HEADING_6",
	"NORMAL_TEXT", "TITLE", "SUBTITLE",
}

func validHeadingLevel(level string) bool {
	for _, l := range headingLevels {
		if l == level {
			return true
		}
	}
	return false
}

// registerStructureTools registers tables, images, lists and document
// structure editing
func registerStructureTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	insertTableTool := mcp.NewTool("docs_insert_table",
		mcp.WithDescription("Insert a table at a specific position in a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("rows",
			mcp.Required(),
			mcp.Description("Number of rows"),
		),
		mcp.WithNumber("columns",
			mcp.Required(),
			mcp.Description("Number of columns"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to insert the table at"),
		),
	)

	s.AddTool(insertTableTool, common.InstrumentedToolHandlerWithService(
		"docs_insert_table", "docs", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			rows, errResult := requiredInt(args, "rows")
			if errResult != nil {
				return errResult, nil
			}
			columns, errResult := requiredInt(args, "columns")
			if errResult != nil {
				return errResult, nil
			}
			index, errResult := requiredInt(args, "index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertTable(ctx, documentID, rows, columns, index); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert table: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Inserted %dx%d table at position %d", rows, columns, index)), nil
		}))

	updateCellTool := mcp.NewTool("docs_update_table_cell",
		mcp.WithDescription("Write text to a specific table cell. Row and column are 0-indexed."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("table_start_index",
			mcp.Required(),
			mcp.Description("Start index of the table in the document"),
		),
		mcp.WithNumber("row",
			mcp.Required(),
			mcp.Description("Row of the cell (0-indexed)"),
		),
		mcp.WithNumber("column",
			mcp.Required(),
			mcp.Description("Column of the cell (0-indexed)"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to write into the cell"),
		),
	)

	s.AddTool(updateCellTool, common.InstrumentedToolHandlerWithService(
		"docs_update_table_cell", "docs", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			tableStart, errResult := requiredInt(args, "table_start_index")
			if errResult != nil {
				return errResult, nil
			}
			row, errResult := requiredInt(args, "row")
			if errResult != nil {
				return errResult, nil
			}
			column, errResult := requiredInt(args, "column")
			if errResult != nil {
				return errResult, nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			err = client.UpdateTableCell(ctx, documentID, tableStart, row, column, text)
			if errors.Is(err, docs.ErrCellNotFound) {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Could not find table at index %d or cell at row %d, column %d",
					tableStart, row, column)), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update table cell: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Updated cell (row %d, col %d) with text: %s", row, column, text)), nil
		}))

	insertImageTool := mcp.NewTool("docs_insert_image",
		mcp.WithDescription("Insert an image from a URL at a specific position. Width/height in points (72 points = 1 inch)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("image_url",
			mcp.Required(),
			mcp.Description("Publicly accessible URL of the image"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to insert the image at"),
		),
		mcp.WithNumber("width",
			mcp.Description("Image width in points (default: 400)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Image height in points (default: 300)"),
		),
	)

	s.AddTool(insertImageTool, common.InstrumentedToolHandlerWithService(
		"docs_insert_image", "docs", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			imageURL, ok := args["image_url"].(string)
			if !ok || imageURL == "" {
				return mcp.NewToolResultError("image_url is required"), nil
			}
			index, errResult := requiredInt(args, "index")
			if errResult != nil {
				return errResult, nil
			}

			var width, height int64
			if v, ok := args["width"].(float64); ok {
				width = int64(v)
			}
			if v, ok := args["height"].(float64); ok {
				height = int64(v)
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertImage(ctx, documentID, imageURL, index, width, height); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert image: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Image inserted at position %d", index)), nil
		}))

	bulletedTool := mcp.NewTool("docs_create_bulleted_list",
		mcp.WithDescription("Convert text range into a bulleted list. Each paragraph becomes a list item."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the text range"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the text range"),
		),
	)

	s.AddTool(bulletedTool, common.InstrumentedToolHandlerWithService(
		"docs_create_bulleted_list", "docs", "format", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateList(ctx, request, sc, docs.BulletPresetDisc, "bulleted")
		}))

	numberedTool := mcp.NewTool("docs_create_numbered_list",
		mcp.WithDescription("Convert text range into a numbered list. Each paragraph becomes a list item."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the text range"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the text range"),
		),
	)

	s.AddTool(numberedTool, common.InstrumentedToolHandlerWithService(
		"docs_create_numbered_list", "docs", "format", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateList(ctx, request, sc, docs.BulletPresetNumbered, "numbered")
		}))

	headingTool := mcp.NewTool("docs_set_heading_style",
		mcp.WithDescription("Apply heading style to text. Levels: HEADING_1, HEADING_2, HEADING_3, HEADING_4, HEADING_5, HEADING_6, NORMAL_TEXT, TITLE, SUBTITLE."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the text range"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the text range"),
		),
		mcp.WithString("heading_level",
			mcp.Description("Heading level to apply (default: HEADING_1)"),
		),
	)

	s.AddTool(headingTool, common.InstrumentedToolHandlerWithService(
		"docs_set_heading_style", "docs", "format", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
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

			headingLevel := "HEADING_1"
			if v, ok := args["heading_level"].(string); ok && v != "" {
				headingLevel = v
			}
			if !validHeadingLevel(headingLevel) {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Invalid heading level '%s'. Valid levels: %s",
					headingLevel, strings.Join(headingLevels, ", "))), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.SetParagraphStyle(ctx, documentID, startIndex, endIndex, headingLevel); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to set heading style: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Applied %s style to text at indices %d-%d",
				headingLevel, startIndex, endIndex)), nil
		}))

	pageBreakTool := mcp.NewTool("docs_add_page_break",
		mcp.WithDescription("Insert a page break at a specific position."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to insert the page break at"),
		),
	)

	s.AddTool(pageBreakTool, common.InstrumentedToolHandlerWithService(
		"docs_add_page_break", "docs", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			index, errResult := requiredInt(args, "index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertPageBreak(ctx, documentID, index); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert page break: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Page break inserted at position %d", index)), nil
		}))

	bookmarkTool := mcp.NewTool("docs_add_bookmark",
		mcp.WithDescription("Add a named bookmark at a specific position for internal linking."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to place the bookmark at"),
		),
		mcp.WithString("bookmark_name",
			mcp.Required(),
			mcp.Description("Name of the bookmark"),
		),
	)

	s.AddTool(bookmarkTool, common.InstrumentedToolHandlerWithService(
		"docs_add_bookmark", "docs", "bookmark", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			index, errResult := requiredInt(args, "index")
			if errResult != nil {
				return errResult, nil
			}
			name, ok := args["bookmark_name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("bookmark_name is required"), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			bookmarkID, err := client.AddBookmark(ctx, documentID, index, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add bookmark: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Bookmark '%s' created at position %d\nBookmark ID: %s",
				name, index, bookmarkID)), nil
		}))

	return nil
}

// handleCreateList converts a text range into a list with the given preset
func handleCreateList(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, preset, kind string) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	documentID, errResult := documentIDFromArgs(args)
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

	client, err := getDocsClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := client.CreateParagraphBullets(ctx, documentID, startIndex, endIndex, preset); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create %s list: %v", kind, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("✅ Created %s list for text at indices %d-%d",
		kind, startIndex, endIndex)), nil
}
