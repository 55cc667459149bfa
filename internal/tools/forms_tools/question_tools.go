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

// splitCommaList splits a comma-separated argument into trimmed values,
// dropping empty entries
func splitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// choiceToolSpec describes one of the three choice question tools, which
// differ only in choice type and wording
type choiceToolSpec struct {
	name        string
	description string
	choiceType  string
	label       string
}

// registerChoiceQuestionTool registers a single choice question tool
func registerChoiceQuestionTool(s *mcpserver.MCPServer, sc *server.ServerContext, spec choiceToolSpec) {
	tool := mcp.NewTool(spec.name,
		mcp.WithDescription(spec.description),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithString("options",
			mcp.Required(),
			mcp.Description("Comma-separated options like 'Option 1,Option 2,Option 3'"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		spec.name, "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			options, ok := args["options"].(string)
			if !ok || options == "" {
				return mcp.NewToolResultError("options is required"), nil
			}
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			err = client.AddChoiceQuestion(ctx, formID, questionText, spec.choiceType,
				splitCommaList(options), required)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add %s question: %v", spec.label, err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added %s question: %s", spec.label, questionText)), nil
		}))
}

// registerQuestionTools registers the question insertion tools
func registerQuestionTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	textTool := mcp.NewTool("forms_add_text_question",
		mcp.WithDescription("Add a text question to a form."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(textTool, common.InstrumentedToolHandlerWithService(
		"forms_add_text_question", "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddTextQuestion(ctx, formID, questionText, false, required); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add text question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added text question: %s", questionText)), nil
		}))

	paragraphTool := mcp.NewTool("forms_add_paragraph_text",
		mcp.WithDescription("Add a paragraph text question (long-form text) to a form."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(paragraphTool, common.InstrumentedToolHandlerWithService(
		"forms_add_paragraph_text", "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddTextQuestion(ctx, formID, questionText, true, required); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add paragraph text question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added paragraph text question: %s", questionText)), nil
		}))

	for _, spec := range []choiceToolSpec{
		{
			name:        "forms_add_multiple_choice",
			description: "Add a multiple choice question. options: comma-separated like 'Option 1,Option 2,Option 3'",
			choiceType:  forms.ChoiceRadio,
			label:       "multiple choice",
		},
		{
			name:        "forms_add_checkbox",
			description: "Add a checkbox question (multiple selections allowed). options: comma-separated like 'Option 1,Option 2,Option 3'",
			choiceType:  forms.ChoiceCheckbox,
			label:       "checkbox",
		},
		{
			name:        "forms_add_dropdown",
			description: "Add a dropdown question. options: comma-separated like 'Option 1,Option 2,Option 3'",
			choiceType:  forms.ChoiceDropdown,
			label:       "dropdown",
		},
	} {
		registerChoiceQuestionTool(s, sc, spec)
	}

	scaleTool := mcp.NewTool("forms_add_scale",
		mcp.WithDescription("Add a linear scale question (e.g., 1-5 rating). Optionally provide labels for low and high values."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithNumber("low",
			mcp.Description("Lowest scale value (default: 1)"),
		),
		mcp.WithNumber("high",
			mcp.Description("Highest scale value (default: 5)"),
		),
		mcp.WithString("low_label",
			mcp.Description("Label for the lowest value"),
		),
		mcp.WithString("high_label",
			mcp.Description("Label for the highest value"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(scaleTool, common.InstrumentedToolHandlerWithService(
		"forms_add_scale", "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			low := intOrDefault(args, "low", 1)
			high := intOrDefault(args, "high", 5)
			lowLabel, _ := args["low_label"].(string)
			highLabel, _ := args["high_label"].(string)
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			err = client.AddScaleQuestion(ctx, formID, questionText, low, high, lowLabel, highLabel, required)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add scale question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added scale question: %s (%d-%d)", questionText, low, high)), nil
		}))

	dateTool := mcp.NewTool("forms_add_date",
		mcp.WithDescription("Add a date question to a form."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithBoolean("include_year",
			mcp.Description("Whether the date includes a year (default: true)"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(dateTool, common.InstrumentedToolHandlerWithService(
		"forms_add_date", "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			includeYear := boolOrDefault(args, "include_year", true)
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddDateQuestion(ctx, formID, questionText, includeYear, required); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add date question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added date question: %s", questionText)), nil
		}))

	timeTool := mcp.NewTool("forms_add_time",
		mcp.WithDescription("Add a time question. If duration is true, asks for a duration instead of a time of day."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("question_text",
			mcp.Required(),
			mcp.Description("The question to ask"),
		),
		mcp.WithBoolean("duration",
			mcp.Description("Ask for a duration instead of a time of day (default: false)"),
		),
		mcp.WithBoolean("required",
			mcp.Description("Whether an answer is required (default: false)"),
		),
	)

	s.AddTool(timeTool, common.InstrumentedToolHandlerWithService(
		"forms_add_time", "forms", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			questionText, errResult := questionTextFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			duration := boolOrDefault(args, "duration", false)
			required := boolOrDefault(args, "required", false)

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.AddTimeQuestion(ctx, formID, questionText, duration, required); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add time question: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added time question: %s", questionText)), nil
		}))

	return nil
}
