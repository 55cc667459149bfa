package slides_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/slides"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerContentTools registers the tools that place and edit content on
// slides: text boxes, images, shapes, text replacement and formatting
func registerContentTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	addTextTool := mcp.NewTool("slides_add_text",
		mcp.WithDescription("Add a text box to a slide. Coordinates in points (1 inch = 72 points)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("The object ID of the slide"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text to place in the new text box"),
		),
		mcp.WithNumber("x",
			mcp.Description("Horizontal position in points (default: 100)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Vertical position in points (default: 100)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Width in points (default: 400)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Height in points (default: 100)"),
		),
	)

	s.AddTool(addTextTool, common.InstrumentedToolHandlerWithService(
		"slides_add_text", "slides", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			slideID, errResult := slideIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}
			x := numberOrDefault(args, "x", 100)
			y := numberOrDefault(args, "y", 100)
			width := numberOrDefault(args, "width", 400)
			height := numberOrDefault(args, "height", 100)

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if _, err := client.AddTextBox(ctx, presentationID, slideID, text, x, y, width, height); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add text: %v", err)), nil
			}

			preview := text
			if runes := []rune(text); len(runes) > 50 {
				preview = string(runes[:50])
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Text added to slide!\nText: %s...\nSlide: %s",
				preview, slideID)), nil
		}))

	insertImageTool := mcp.NewTool("slides_insert_image",
		mcp.WithDescription("Insert an image into a slide from a URL. Coordinates in points (1 inch = 72 points)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("The object ID of the slide"),
		),
		mcp.WithString("image_url",
			mcp.Required(),
			mcp.Description("Publicly accessible URL of the image"),
		),
		mcp.WithNumber("x",
			mcp.Description("Horizontal position in points (default: 100)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Vertical position in points (default: 100)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Width in points (default: 400)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Height in points (default: 300)"),
		),
	)

	s.AddTool(insertImageTool, common.InstrumentedToolHandlerWithService(
		"slides_insert_image", "slides", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			slideID, errResult := slideIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			imageURL, ok := args["image_url"].(string)
			if !ok || imageURL == "" {
				return mcp.NewToolResultError("image_url is required"), nil
			}
			x := numberOrDefault(args, "x", 100)
			y := numberOrDefault(args, "y", 100)
			width := numberOrDefault(args, "width", 400)
			height := numberOrDefault(args, "height", 300)

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			imageID, err := client.InsertImage(ctx, presentationID, slideID, imageURL, x, y, width, height)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to insert image: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Image inserted!\nImage ID: %s\nSlide: %s",
				imageID, slideID)), nil
		}))

	addShapeTool := mcp.NewTool("slides_add_shape",
		mcp.WithDescription("Add a shape to a slide. Types: RECTANGLE, ELLIPSE, TRIANGLE, ARROW, etc."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("The object ID of the slide"),
		),
		mcp.WithString("shape_type",
			mcp.Required(),
			mcp.Description("Shape type, e.g. RECTANGLE, ELLIPSE, TRIANGLE, ARROW"),
		),
		mcp.WithNumber("x",
			mcp.Description("Horizontal position in points (default: 100)"),
		),
		mcp.WithNumber("y",
			mcp.Description("Vertical position in points (default: 100)"),
		),
		mcp.WithNumber("width",
			mcp.Description("Width in points (default: 200)"),
		),
		mcp.WithNumber("height",
			mcp.Description("Height in points (default: 200)"),
		),
	)

	s.AddTool(addShapeTool, common.InstrumentedToolHandlerWithService(
		"slides_add_shape", "slides", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			slideID, errResult := slideIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			shapeType, ok := args["shape_type"].(string)
			if !ok || shapeType == "" {
				return mcp.NewToolResultError("shape_type is required"), nil
			}
			x := numberOrDefault(args, "x", 100)
			y := numberOrDefault(args, "y", 100)
			width := numberOrDefault(args, "width", 200)
			height := numberOrDefault(args, "height", 200)

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			shapeID, err := client.AddShape(ctx, presentationID, slideID, shapeType, x, y, width, height)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add shape: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Shape added!\nShape ID: %s\nType: %s",
				shapeID, shapeType)), nil
		}))

	replaceTool := mcp.NewTool("slides_replace_text",
		mcp.WithDescription("Find and replace text across all slides in presentation."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("find_text",
			mcp.Required(),
			mcp.Description("The text to search for"),
		),
		mcp.WithString("replace_text",
			mcp.Required(),
			mcp.Description("The replacement text"),
		),
		mcp.WithBoolean("match_case",
			mcp.Description("Match case when searching (default: false)"),
		),
	)

	s.AddTool(replaceTool, common.InstrumentedToolHandlerWithService(
		"slides_replace_text", "slides", "replace", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
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

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			occurrences, err := client.ReplaceText(ctx, presentationID, findText, replaceText, matchCase)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to replace text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Replaced %d occurrence(s) of '%s' with '%s'",
				occurrences, findText, replaceText)), nil
		}))

	formatTool := mcp.NewTool("slides_format_text",
		mcp.WithDescription("Format text within a text box/shape on a slide. Color in hex format like '#FF0000'."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("shape_id",
			mcp.Required(),
			mcp.Description("The object ID of the text box or shape"),
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
		mcp.WithNumber("font_size",
			mcp.Description("Font size in points"),
		),
		mcp.WithString("foreground_color",
			mcp.Description("Text color as hex, e.g. #FF0000"),
		),
	)

	s.AddTool(formatTool, common.InstrumentedToolHandlerWithService(
		"slides_format_text", "slides", "format", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			shapeID, ok := args["shape_id"].(string)
			if !ok || shapeID == "" {
				return mcp.NewToolResultError("shape_id is required"), nil
			}
			startIndex, errResult := requiredInt(args, "start_index")
			if errResult != nil {
				return errResult, nil
			}
			endIndex, errResult := requiredInt(args, "end_index")
			if errResult != nil {
				return errResult, nil
			}

			var style slides.TextStyle
			if v, ok := args["bold"].(bool); ok {
				style.Bold = &v
			}
			if v, ok := args["italic"].(bool); ok {
				style.Italic = &v
			}
			if v, ok := args["font_size"].(float64); ok && v > 0 {
				style.FontSize = int64(v)
			}
			if v, ok := args["foreground_color"].(string); ok {
				style.ForegroundColor = v
			}

			if style.Bold == nil && style.Italic == nil && style.FontSize == 0 && style.ForegroundColor == "" {
				return mcp.NewToolResultError("At least one formatting option (bold, italic, font_size, foreground_color) is required"), nil
			}

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.FormatText(ctx, presentationID, shapeID, startIndex, endIndex, style); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to format text: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Formatted text in shape %s (indices %d-%d)",
				shapeID, startIndex, endIndex)), nil
		}))

	return nil
}
