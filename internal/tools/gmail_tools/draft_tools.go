package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerDraftTools registers draft listing, creation, sending and deletion
func registerDraftTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("gmail_list_drafts",
		mcp.WithDescription("List all draft emails."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of drafts to return (default: 10)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_drafts", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			maxResults := int64(10)
			if v, ok := args["max_results"].(float64); ok {
				maxResults = int64(v)
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			drafts, err := client.ListDrafts(ctx, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list drafts: %v", err)), nil
			}

			if len(drafts) == 0 {
				return mcp.NewToolResultText("No drafts found."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d draft(s):\n\n", len(drafts))
			for _, d := range drafts {
				fmt.Fprintf(&out, "📝 %s\n   To: %s\n   Draft ID: %s\n\n", d.Subject, d.To, d.ID)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("gmail_create_draft",
		mcp.WithDescription("Create a draft email."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Email body text"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address (optional)"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"gmail_create_draft", "gmail", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			to, ok := args["to"].(string)
			if !ok || to == "" {
				return mcp.NewToolResultError("to is required"), nil
			}
			subject, ok := args["subject"].(string)
			if !ok || subject == "" {
				return mcp.NewToolResultError("subject is required"), nil
			}
			body, ok := args["body"].(string)
			if !ok || body == "" {
				return mcp.NewToolResultError("body is required"), nil
			}
			cc, _ := args["cc"].(string)

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			draft, err := client.CreateDraft(ctx, &gmail.OutgoingMessage{
				To:      to,
				Cc:      cc,
				Subject: subject,
				Body:    body,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create draft: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Draft created!\nDraft ID: %s\nTo: %s\nSubject: %s",
				draft.Id, to, subject)), nil
		}))

	sendTool := mcp.NewTool("gmail_send_draft",
		mcp.WithDescription("Send a draft email."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draft_id",
			mcp.Required(),
			mcp.Description("The ID of the draft to send"),
		),
	)

	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService(
		"gmail_send_draft", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			draftID, ok := args["draft_id"].(string)
			if !ok || draftID == "" {
				return mcp.NewToolResultError("draft_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sent, err := client.SendDraft(ctx, draftID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send draft: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Draft sent!\nMessage ID: %s", sent.Id)), nil
		}))

	deleteTool := mcp.NewTool("gmail_delete_draft",
		mcp.WithDescription("Delete a draft email."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("draft_id",
			mcp.Required(),
			mcp.Description("The ID of the draft to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"gmail_delete_draft", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			draftID, ok := args["draft_id"].(string)
			if !ok || draftID == "" {
				return mcp.NewToolResultError("draft_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteDraft(ctx, draftID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete draft: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Draft %s deleted", draftID)), nil
		}))

	return nil
}
