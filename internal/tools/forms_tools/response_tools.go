package forms_tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	forms_v1 "google.golang.org/api/forms/v1"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// sortedQuestionIDs returns answer keys in a stable order
func sortedQuestionIDs(answers map[string]forms_v1.Answer) []string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// registerResponseTools registers the response reading tools. Both are
// read-only, so they ignore the readOnly flag.
func registerResponseTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getTool := mcp.NewTool("forms_get_response",
		mcp.WithDescription("Get a specific form response with detailed answers."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
		mcp.WithString("response_id",
			mcp.Required(),
			mcp.Description("The ID of the response"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"forms_get_response", "forms", "read", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			formID, errResult := formIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			responseID, ok := args["response_id"].(string)
			if !ok || responseID == "" {
				return mcp.NewToolResultError("response_id is required"), nil
			}

			client, err := getFormsClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			response, err := client.GetResponse(ctx, formID, responseID)
			if err != nil {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Error getting response: %v", err)), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Response ID: %s\n", response.ResponseId)
			fmt.Fprintf(&sb, "Timestamp: %s\n\n", orNA(response.LastSubmittedTime))

			if len(response.Answers) > 0 {
				sb.WriteString("Answers:\n\n")
				for _, questionID := range sortedQuestionIDs(response.Answers) {
					answer := response.Answers[questionID]
					fmt.Fprintf(&sb, "Question ID: %s\n", questionID)

					if answer.TextAnswers != nil {
						for _, textAnswer := range answer.TextAnswers.Answers {
							fmt.Fprintf(&sb, "  Answer: %s\n", orNA(textAnswer.Value))
						}
					}
					if answer.FileUploadAnswers != nil {
						sb.WriteString("  File upload response\n")
					}

					sb.WriteString("\n")
				}
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	listTool := mcp.NewTool("forms_list_responses",
		mcp.WithDescription("List all responses to a form."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("form_id",
			mcp.Required(),
			mcp.Description("The ID of the form"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"forms_list_responses", "forms", "read", sc,
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

			responses, err := client.ListResponses(ctx, formID)
			if err != nil {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Error listing responses: %v", err)), nil
			}

			if len(responses) == 0 {
				return mcp.NewToolResultText("No responses yet."), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d response(s):\n\n", len(responses))
			for i, response := range responses {
				fmt.Fprintf(&sb, "Response #%d\n", i+1)
				fmt.Fprintf(&sb, "Response ID: %s\n", response.ResponseId)
				fmt.Fprintf(&sb, "Timestamp: %s\n", orNA(response.LastSubmittedTime))

				if len(response.Answers) > 0 {
					sb.WriteString("Answers:\n")
					for _, questionID := range sortedQuestionIDs(response.Answers) {
						answer := response.Answers[questionID]
						if answer.TextAnswers == nil {
							continue
						}
						for _, textAnswer := range answer.TextAnswers.Answers {
							fmt.Fprintf(&sb, "  - %s\n", orNA(textAnswer.Value))
						}
					}
				}

				sb.WriteString("\n")
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	return nil
}
