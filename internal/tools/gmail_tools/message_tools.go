package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	gmail_v1 "google.golang.org/api/gmail/v1"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// headerOr reads a message header, falling back when it is absent
func headerOr(m *gmail_v1.Message, name, fallback string) string {
	if v := gmail.HeaderValue(m, name); v != "" {
		return v
	}
	return fallback
}

// labelStateTool describes a tool that flips one mailbox state flag by
// adding or removing a system label on a single message
type labelStateTool struct {
	name         string
	description  string
	addLabels    []string
	removeLabels []string
	success      string // format string taking the message ID
}

var labelStateTools = []labelStateTool{
	{"gmail_mark_read", "Mark an email as read.", nil, []string{"UNREAD"}, "✅ Marked message %s as read"},
	{"gmail_mark_unread", "Mark an email as unread.", []string{"UNREAD"}, nil, "✅ Marked message %s as unread"},
	{"gmail_archive", "Archive an email (remove from inbox).", nil, []string{"INBOX"}, "✅ Archived message %s"},
	{"gmail_move_to_inbox", "Move an email to inbox (unarchive).", []string{"INBOX"}, nil, "✅ Moved message %s to inbox"},
	{"gmail_star", "Star an email.", []string{"STARRED"}, nil, "✅ Starred message %s"},
	{"gmail_unstar", "Unstar an email.", nil, []string{"STARRED"}, "✅ Unstarred message %s"},
	{"gmail_mark_important", "Mark an email as important.", []string{"IMPORTANT"}, nil, "✅ Marked message %s as important"},
	{"gmail_mark_not_important", "Mark an email as not important.", nil, []string{"IMPORTANT"}, "✅ Marked message %s as not important"},
}

// registerMessageTools registers message search, read and state-change tools
func registerMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Search tool
	searchTool := mcp.NewTool("gmail_search",
		mcp.WithDescription("Search for emails in Gmail with advanced queries."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Gmail search query (e.g., 'is:unread', 'from:user@example.com')"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"gmail_search", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}

			maxResults := int64(10)
			if v, ok := args["max_results"].(float64); ok {
				maxResults = int64(v)
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			summaries, err := client.SearchMessages(ctx, query, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search messages: %v", err)), nil
			}

			if len(summaries) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No messages found for query: %s", query)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d message(s):\n\n", len(summaries))
			for _, m := range summaries {
				fmt.Fprintf(&out, "📧 %s\n   From: %s\n   Date: %s\n   ID: %s\n\n", m.Subject, m.From, m.Date, m.ID)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	// Read tool
	readTool := mcp.NewTool("gmail_read",
		mcp.WithDescription("Read a specific Gmail message with full content."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to read"),
		),
	)

	s.AddTool(readTool, common.InstrumentedToolHandlerWithService(
		"gmail_read", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			msg, err := client.GetMessage(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read message: %v", err)), nil
			}

			result := fmt.Sprintf("Subject: %s\nFrom: %s\nTo: %s\nDate: %s\n\n%s\n\n%s",
				headerOr(msg, "Subject", "No Subject"),
				headerOr(msg, "From", "Unknown"),
				headerOr(msg, "To", "Unknown"),
				headerOr(msg, "Date", "Unknown"),
				strings.Repeat("-", 60),
				gmail.MessageBody(msg))
			return mcp.NewToolResultText(result), nil
		}))

	if !readOnly {
		registerLabelStateTools(s, sc)
		registerTrashTools(s, sc)
		registerMessageLabelTools(s, sc)
	}

	return nil
}

// registerLabelStateTools registers the single-flag state tools (read/unread,
// archive, star, important) from the shared table
func registerLabelStateTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	for _, lt := range labelStateTools {
		tool := mcp.NewTool(lt.name,
			mcp.WithDescription(lt.description),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message"),
			),
		)

		s.AddTool(tool, common.InstrumentedToolHandlerWithService(
			lt.name, "gmail", "modify", sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(ctx, args)

				messageID, ok := args["message_id"].(string)
				if !ok || messageID == "" {
					return mcp.NewToolResultError("message_id is required"), nil
				}

				client, err := getGmailClient(ctx, account, sc)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				if err := client.ModifyMessage(ctx, messageID, lt.addLabels, lt.removeLabels); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to modify message: %v", err)), nil
				}
				return mcp.NewToolResultText(fmt.Sprintf(lt.success, messageID)), nil
			}))
	}
}

// registerTrashTools registers trash, untrash and permanent delete
func registerTrashTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	trashTool := mcp.NewTool("gmail_delete",
		mcp.WithDescription("Move an email to trash."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to trash"),
		),
	)

	s.AddTool(trashTool, common.InstrumentedToolHandlerWithService(
		"gmail_delete", "gmail", "modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.TrashMessage(ctx, messageID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to trash message: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Moved message %s to trash", messageID)), nil
		}))

	untrashTool := mcp.NewTool("gmail_untrash",
		mcp.WithDescription("Restore an email from trash."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to restore"),
		),
	)

	s.AddTool(untrashTool, common.InstrumentedToolHandlerWithService(
		"gmail_untrash", "gmail", "modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.UntrashMessage(ctx, messageID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to untrash message: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Restored message %s from trash", messageID)), nil
		}))

	deleteTool := mcp.NewTool("gmail_permanently_delete",
		mcp.WithDescription("Permanently delete an email. WARNING: This cannot be undone!"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to permanently delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"gmail_permanently_delete", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteMessage(ctx, messageID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete message: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Permanently deleted message %s", messageID)), nil
		}))
}

// registerMessageLabelTools registers add/remove of a user-chosen label on a message
func registerMessageLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext) {
	addLabelTool := mcp.NewTool("gmail_add_label",
		mcp.WithDescription("Add a label to an email. Use gmail_list_labels to get label IDs."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithString("label_id",
			mcp.Required(),
			mcp.Description("The ID of the label to add"),
		),
	)

	s.AddTool(addLabelTool, common.InstrumentedToolHandlerWithService(
		"gmail_add_label", "gmail", "modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}
			labelID, ok := args["label_id"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("label_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.ModifyMessage(ctx, messageID, []string{labelID}, nil); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add label: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Added label %s to message %s", labelID, messageID)), nil
		}))

	removeLabelTool := mcp.NewTool("gmail_remove_label",
		mcp.WithDescription("Remove a label from an email."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithString("label_id",
			mcp.Required(),
			mcp.Description("The ID of the label to remove"),
		),
	)

	s.AddTool(removeLabelTool, common.InstrumentedToolHandlerWithService(
		"gmail_remove_label", "gmail", "modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}
			labelID, ok := args["label_id"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("label_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.ModifyMessage(ctx, messageID, nil, []string{labelID}); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to remove label: %v", err)), nil
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Removed label %s from message %s", labelID, messageID)), nil
		}))
}
