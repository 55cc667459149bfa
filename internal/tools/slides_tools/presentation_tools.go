package slides_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerPresentationTools registers presentation creation and
// whole-presentation read tools
func registerPresentationTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	detailsTool := mcp.NewTool("slides_get_details",
		mcp.WithDescription("Get presentation details including slide count and structure."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
	)

	s.AddTool(detailsTool, common.InstrumentedToolHandlerWithService(
		"slides_get_details", "slides", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			presentation, err := client.GetPresentation(ctx, presentationID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get presentation: %v", err)), nil
			}

			title := presentation.Title
			if title == "" {
				title = "Untitled"
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Presentation: %s\n", title)
			fmt.Fprintf(&sb, "ID: %s\n", presentationID)
			fmt.Fprintf(&sb, "Slides: %d\n\n", len(presentation.Slides))

			for i, slide := range presentation.Slides {
				fmt.Fprintf(&sb, "Slide %d:\n", i+1)
				fmt.Fprintf(&sb, "  ID: %s\n", slide.ObjectId)

				textCount := 0
				for _, element := range slide.PageElements {
					if element.Shape != nil && element.Shape.Text != nil {
						textCount++
					}
				}
				fmt.Fprintf(&sb, "  Text elements: %d\n\n", textCount)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	readTool := mcp.NewTool("slides_read",
		mcp.WithDescription("Read all text content from a presentation."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
	)

	s.AddTool(readTool, common.InstrumentedToolHandlerWithService(
		"slides_read", "slides", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			presentation, err := client.GetPresentation(ctx, presentationID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read presentation: %v", err)), nil
			}

			title := presentation.Title
			if title == "" {
				title = "Untitled"
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Presentation: %s\n", title)
			sb.WriteString(strings.Repeat("-", 60))
			sb.WriteString("\n\n")

			for i, slide := range presentation.Slides {
				fmt.Fprintf(&sb, "=== Slide %d ===\n", i+1)

				for _, element := range slide.PageElements {
					if element.Shape == nil || element.Shape.Text == nil {
						continue
					}
					for _, textElement := range element.Shape.Text.TextElements {
						if textElement.TextRun != nil {
							sb.WriteString(textElement.TextRun.Content)
						}
					}
				}

				sb.WriteString("\n\n")
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("slides_create",
		mcp.WithDescription("Create a new Google Slides presentation."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new presentation"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to create the presentation in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("ID of the shared drive, if the folder is on one"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"slides_create", "slides", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreatePresentation(ctx, title, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create presentation: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Google Slides created!\nTitle: %s\nID: %s\nLink: %s",
				created.Title, created.ID, orNA(created.Link))), nil
		}))

	return nil
}
