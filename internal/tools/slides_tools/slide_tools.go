package slides_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/slides"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerSlideTools registers slide management and speaker notes tools
func registerSlideTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	addTool := mcp.NewTool("slides_add_slide",
		mcp.WithDescription("Add a new blank slide to presentation. Index starts at 0 (default: append to end)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithNumber("index",
			mcp.Description("Zero-based position for the new slide (default: append to end)"),
		),
	)

	s.AddTool(addTool, common.InstrumentedToolHandlerWithService(
		"slides_add_slide", "slides", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			presentationID, errResult := presentationIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			var index *int64
			if v, ok := args["index"].(float64); ok {
				idx := int64(v)
				index = &idx
			}

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			slideID, err := client.AddSlide(ctx, presentationID, index)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add slide: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ New slide added!\nSlide ID: %s\nPresentation: %s",
				slideID, presentationID)), nil
		}))

	deleteTool := mcp.NewTool("slides_delete_slide",
		mcp.WithDescription("Delete a slide from presentation."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("The object ID of the slide to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"slides_delete_slide", "slides", "delete", sc,
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

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteSlide(ctx, presentationID, slideID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete slide: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Slide deleted!\nSlide ID: %s", slideID)), nil
		}))

	duplicateTool := mcp.NewTool("slides_duplicate_slide",
		mcp.WithDescription("Duplicate a slide within the presentation. The copy lands right after the original."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("presentation_id",
			mcp.Required(),
			mcp.Description("The ID of the presentation"),
		),
		mcp.WithString("slide_id",
			mcp.Required(),
			mcp.Description("The object ID of the slide to duplicate"),
		),
	)

	s.AddTool(duplicateTool, common.InstrumentedToolHandlerWithService(
		"slides_duplicate_slide", "slides", "copy", sc,
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

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			newSlideID, err := client.DuplicateSlide(ctx, presentationID, slideID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to duplicate slide: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Slide duplicated!\nOriginal: %s\nNew slide ID: %s",
				slideID, newSlideID)), nil
		}))

	notesTool := mcp.NewTool("slides_add_speaker_notes",
		mcp.WithDescription("Add or update speaker notes for a slide."),
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
		mcp.WithString("notes",
			mcp.Required(),
			mcp.Description("The speaker notes text. Replaces any existing notes."),
		),
	)

	s.AddTool(notesTool, common.InstrumentedToolHandlerWithService(
		"slides_add_speaker_notes", "slides", "update", sc,
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
			notes, ok := args["notes"].(string)
			if !ok || notes == "" {
				return mcp.NewToolResultError("notes is required"), nil
			}

			client, err := getSlidesClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			err = client.AddSpeakerNotes(ctx, presentationID, slideID, notes)
			switch {
			case errors.Is(err, slides.ErrNoNotesPage):
				return mcp.NewToolResultText(fmt.Sprintf("❌ Could not find notes page for slide %s", slideID)), nil
			case errors.Is(err, slides.ErrNoNotesShape):
				return mcp.NewToolResultText(fmt.Sprintf("❌ Could not find notes shape on slide %s", slideID)), nil
			case err != nil:
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add speaker notes: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Speaker notes added to slide %s", slideID)), nil
		}))

	return nil
}
