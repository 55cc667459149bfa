package docs_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/docs"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerTextTools registers text editing and character formatting
func registerTextTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	appendTool := mcp.NewTool("docs_append_text",
		mcp.WithDescription("Append text to the end of a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to append"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedToolHandlerWithService(
		"docs_append_text", "docs", "append", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
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

			if err := client.AppendText(ctx, documentID, text); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to append text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Text appended to document %s", documentID)), nil
		}))

	insertTool := mcp.NewTool("docs_insert_text",
		mcp.WithDescription("Insert text at a specific position in a Google Doc. Index 1 is the start of the document."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to insert"),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Position to insert the text at"),
		),
	)

	s.AddTool(insertTool, common.InstrumentedToolHandlerWithService(
		"docs_insert_text", "docs", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}
			index, errResult := requiredInt(args, "index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.InsertText(ctx, documentID, text, index); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Inserted text at position %d", index)), nil
		}))

	replaceTool := mcp.NewTool("docs_replace_text",
		mcp.WithDescription("Find and replace text in a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("find_text",
			mcp.Required(),
			mcp.Description("The text to find"),
		),
		mcp.WithString("replace_text",
			mcp.Required(),
			mcp.Description("The replacement text (may be empty to delete occurrences)"),
		),
		mcp.WithBoolean("match_case",
			mcp.Description("Match case when searching (default: false)"),
		),
	)

	s.AddTool(replaceTool, common.InstrumentedToolHandlerWithService(
		"docs_replace_text", "docs", "replace", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			findText, ok := args["find_text"].(string)
			if !ok || findText == "" {
				return mcp.NewToolResultError("find_text is required"), nil
			}
			replaceText, ok := args["replace_text"].(string)
			if !ok {
				return mcp.NewToolResultError("replace_text is required"), nil
			}
			matchCase, _ := args["match_case"].(bool)

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			occurrences, err := client.ReplaceText(ctx, documentID, findText, replaceText, matchCase)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to replace text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Replaced %d occurrence(s) of '%s' with '%s'",
				occurrences, findText, replaceText)), nil
		}))

	formatTool := mcp.NewTool("docs_format_text",
		mcp.WithDescription("Apply formatting to text in a Google Doc. Specify start and end index of text to format."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the text to format"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the text to format"),
		),
		mcp.WithBoolean("bold",
			mcp.Description("Set bold on or off"),
		),
		mcp.WithBoolean("italic",
			mcp.Description("Set italic on or off"),
		),
		mcp.WithBoolean("underline",
			mcp.Description("Set underline on or off"),
		),
		mcp.WithNumber("font_size",
			mcp.Description("Font size in points"),
		),
	)

	s.AddTool(formatTool, common.InstrumentedToolHandlerWithService(
		"docs_format_text", "docs", "format", sc,
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

			var format docs.TextFormat
			var applied []string
			if v, ok := args["bold"].(bool); ok {
				format.Bold = &v
				if v {
					applied = append(applied, "bold")
				}
			}
			if v, ok := args["italic"].(bool); ok {
				format.Italic = &v
				if v {
					applied = append(applied, "italic")
				}
			}
			if v, ok := args["underline"].(bool); ok {
				format.Underline = &v
				if v {
					applied = append(applied, "underline")
				}
			}
			if v, ok := args["font_size"].(float64); ok && v > 0 {
				format.FontSize = int64(v)
				applied = append(applied, fmt.Sprintf("font size %d", format.FontSize))
			}

			if format.Bold == nil && format.Italic == nil && format.Underline == nil && format.FontSize == 0 {
				return mcp.NewToolResultError("At least one formatting option (bold, italic, underline, font_size) is required"), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.FormatText(ctx, documentID, startIndex, endIndex, format); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to format text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Applied formatting (%s) to text at indices %d-%d",
				strings.Join(applied, ", "), startIndex, endIndex)), nil
		}))

	hyperlinkTool := mcp.NewTool("docs_add_hyperlink",
		mcp.WithDescription("Add a hyperlink to text in a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the text to link"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the text to link"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to link to"),
		),
	)

	s.AddTool(hyperlinkTool, common.InstrumentedToolHandlerWithService(
		"docs_add_hyperlink", "docs", "link", sc,
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
			url, ok := args["url"].(string)
			if !ok || url == "" {
				return mcp.NewToolResultError("url is required"), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddHyperlink(ctx, documentID, startIndex, endIndex, url); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add hyperlink: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Hyperlink added to text at indices %d-%d\nURL: %s",
				startIndex, endIndex, url)), nil
		}))

	deleteTool := mcp.NewTool("docs_delete_content",
		mcp.WithDescription("Delete content from a specific range in a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithNumber("start_index",
			mcp.Required(),
			mcp.Description("Start index of the content to delete"),
		),
		mcp.WithNumber("end_index",
			mcp.Required(),
			mcp.Description("End index of the content to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"docs_delete_content", "docs", "delete", sc,
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

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteContent(ctx, documentID, startIndex, endIndex); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete content: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted content from indices %d-%d", startIndex, endIndex)), nil
		}))

	return nil
}
