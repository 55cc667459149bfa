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

// registerDocumentTools registers document creation and reading
func registerDocumentTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	readTool := mcp.NewTool("docs_read",
		mcp.WithDescription("Read content from a Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("document_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Doc"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default) or 'markdown'"),
		),
	)

	s.AddTool(readTool, common.InstrumentedToolHandlerWithService(
		"docs_read", "docs", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			documentID, errResult := documentIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			format := "text"
			if v, ok := args["format"].(string); ok && v != "" {
				format = v
			}
			if format != "text" && format != "markdown" {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid format '%s', must be 'text' or 'markdown'", format)), nil
			}

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			doc, err := client.GetDocument(ctx, documentID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get document: %v", err)), nil
			}

			if format == "markdown" {
				md, err := docs.DocumentToMarkdown(doc)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to convert document: %v", err)), nil
				}
				return mcp.NewToolResultText(md), nil
			}

			text, err := docs.DocumentToPlainText(doc)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to convert document: %v", err)), nil
			}

			title := doc.Title
			if title == "" {
				title = "Untitled"
			}
			return mcp.NewToolResultText(fmt.Sprintf("Title: %s\n\n%s\n\n%s", title, strings.Repeat("-", 60), text)), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("docs_create",
		mcp.WithDescription("Create a new Google Doc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new document"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to create the document in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when creating the document on a shared drive"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"docs_create", "docs", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getDocsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateDocument(ctx, title, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Google Doc created!\nTitle: %s\nID: %s\nLink: %s",
				created.Title, created.ID, orNA(created.Link))), nil
		}))

	return nil
}
