package forms_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/forms"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerFormTools registers form creation, inspection and settings tools
func registerFormTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getTool := mcp.NewTool("forms_get",
		mcp.WithDescription("Get details about a Google Form including all questions."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"forms_get", "forms", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			form, err := client.GetForm(ctx, formID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get form: %v", err)), nil
			}

			title := ""
			if form.Info != nil {
				title = form.Info.Title
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Form: %s\n", title)
			fmt.Fprintf(&sb, "ID: %s\n", form.FormId)
			fmt.Fprintf(&sb, "Edit Link: https://docs.google.com/forms/d/%s/edit\n", form.FormId)
			fmt.Fprintf(&sb, "Response Link: https://docs.google.com/forms/d/%s/viewform\n\n", form.FormId)

			if len(form.Items) > 0 {
				fmt.Fprintf(&sb, "Questions (%d):\n\n", len(form.Items))
				// Numbering follows item order, so non-question items
				// still consume a number
				for i, item := range form.Items {
					if item.QuestionItem == nil || item.QuestionItem.Question == nil {
						continue
					}
					question := item.QuestionItem.Question

					fmt.Fprintf(&sb, "%d. %s\n", i+1, orNA(question.QuestionId))
					if question.TextQuestion != nil {
						sb.WriteString("   Type: Text\n")
					} else if question.ChoiceQuestion != nil {
						sb.WriteString("   Type: Multiple Choice\n")
					} else if question.ScaleQuestion != nil {
						sb.WriteString("   Type: Scale\n")
					}
					sb.WriteString("\n")
				}
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("forms_create",
		mcp.WithDescription("Create a new Google Form."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the new form"),
		),
		mcp.WithString("description",
			mcp.Description("Document title shown in Drive (defaults to the form title)"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"forms_create", "forms", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}
			documentTitle, _ := args["description"].(string)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateForm(ctx, title, documentTitle)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create form: %v", err)), nil
			}

			createdTitle := title
			if created.Info != nil && created.Info.Title != "" {
				createdTitle = created.Info.Title
			}

			return mcp.NewToolResultText(fmt.Sprintf(
				"✅ Google Form created!\nTitle: %s\nForm ID: %s\nEdit Link: https://docs.google.com/forms/d/%s/edit",
				createdTitle, created.FormId, created.FormId)), nil
		}))

	settingsTool := mcp.NewTool("forms_update_settings",
		mcp.WithDescription("Update form settings like title, description, and quiz mode."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("title",
			mcp.Description("New form title"),
		),
		mcp.WithString("description",
			mcp.Description("New form description"),
		),
		mcp.WithBoolean("quiz_mode",
			mcp.Description("Turn quiz mode on or off"),
		),
	)

	s.AddTool(settingsTool, common.InstrumentedToolHandlerWithService(
		"forms_update_settings", "forms", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			var updates forms.FormUpdates
			if v, ok := args["title"].(string); ok && v != "" {
				updates.Title = &v
			}
			if v, ok := args["description"].(string); ok && v != "" {
				updates.Description = &v
			}
			if v, ok := args["quiz_mode"].(bool); ok {
				updates.QuizMode = &v
			}

			if updates.Title == nil && updates.Description == nil && updates.QuizMode == nil {
				return mcp.NewToolResultText("No settings to update."), nil
			}

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.UpdateSettings(ctx, formID, updates); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update form settings: %v", err)), nil
			}

			return mcp.NewToolResultText("✅ Form settings updated!"), nil
		}))

	deleteTool := mcp.NewTool("forms_delete_question",
		mcp.WithDescription("Delete a question from a form by its index (0-based)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithNumber("question_index",
			mcp.Required(),
			mcp.Description("0-based index of the question to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"forms_delete_question", "forms", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			index, errResult := requiredInt(args, "question_index")
			if errResult != nil {
				return errResult, nil
			}

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			// Confirm the index points at a real item before deleting
			form, err := client.GetForm(ctx, formID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get form: %v", err)), nil
			}
			if index < 0 || index >= int64(len(form.Items)) {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Question at index %d not found.", index)), nil
			}
			if form.Items[index].ItemId == "" {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Could not get item ID for question at index %d", index)), nil
			}

			if err := client.DeleteQuestion(ctx, formID, index); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted question at index %d", index)), nil
		}))

	return nil
}
