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

// registerFilterTools registers mailbox filter management
func registerFilterTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("gmail_list_filters",
		mcp.WithDescription("List all existing Gmail filters for the account."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_filters", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			filters, err := client.ListFilters(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list filters: %v", err)), nil
			}

			if len(filters) == 0 {
				return mcp.NewToolResultText("No filters found for this account."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d filter(s):\n\n", len(filters))
			for i, filter := range filters {
				fmt.Fprintf(&out, "Filter %d:\n", i+1)
				out.WriteString(formatFilterInfo(filter, ""))
				out.WriteString("\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("gmail_create_filter",
		mcp.WithDescription("Create a new Gmail filter to automatically organize incoming emails. Filters can match on sender, recipient, subject, or custom queries, and perform actions like labeling, archiving, or marking as read."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("from",
			mcp.Description("Filter emails from this sender (e.g., 'newsletter@example.com')"),
		),
		mcp.WithString("to",
			mcp.Description("Filter emails sent to this recipient (e.g., 'myalias@example.com')"),
		),
		mcp.WithString("subject",
			mcp.Description("Filter emails with this subject (e.g., 'Weekly Report')"),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query for advanced filtering (e.g., 'has:attachment larger:10M')"),
		),
		mcp.WithBoolean("has_attachment",
			mcp.Description("Filter emails that have attachments"),
		),
		mcp.WithString("add_label_ids",
			mcp.Description("Comma-separated list of label IDs to add (e.g., 'Label_1,Label_2'). Use gmail_list_labels to get label IDs."),
		),
		mcp.WithString("remove_label_ids",
			mcp.Description("Comma-separated list of label IDs to remove (e.g., 'INBOX,UNREAD')"),
		),
		mcp.WithBoolean("archive",
			mcp.Description("Remove from inbox (archive)"),
		),
		mcp.WithBoolean("mark_as_read",
			mcp.Description("Mark as read"),
		),
		mcp.WithBoolean("star",
			mcp.Description("Add star"),
		),
		mcp.WithBoolean("mark_as_spam",
			mcp.Description("Mark as spam"),
		),
		mcp.WithBoolean("delete",
			mcp.Description("Send to trash"),
		),
		mcp.WithString("forward",
			mcp.Description("Forward to this email address"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"gmail_create_filter", "gmail", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			criteria := gmail.FilterCriteria{}
			if from, ok := args["from"].(string); ok {
				criteria.From = from
			}
			if to, ok := args["to"].(string); ok {
				criteria.To = to
			}
			if subject, ok := args["subject"].(string); ok {
				criteria.Subject = subject
			}
			if query, ok := args["query"].(string); ok {
				criteria.Query = query
			}
			if hasAttachment, ok := args["has_attachment"].(bool); ok {
				criteria.HasAttachment = hasAttachment
			}

			if criteria.From == "" && criteria.To == "" && criteria.Subject == "" && criteria.Query == "" && !criteria.HasAttachment {
				return mcp.NewToolResultError("At least one filter criteria must be specified (from, to, subject, query, or has_attachment)"), nil
			}

			action := gmail.FilterAction{}
			if v, ok := args["add_label_ids"].(string); ok {
				action.AddLabelIDs = splitCommaList(v)
			}
			if v, ok := args["remove_label_ids"].(string); ok {
				action.RemoveLabelIDs = splitCommaList(v)
			}
			if v, ok := args["archive"].(bool); ok {
				action.Archive = v
			}
			if v, ok := args["mark_as_read"].(bool); ok {
				action.MarkAsRead = v
			}
			if v, ok := args["star"].(bool); ok {
				action.Star = v
			}
			if v, ok := args["mark_as_spam"].(bool); ok {
				action.MarkAsSpam = v
			}
			if v, ok := args["delete"].(bool); ok {
				action.Delete = v
			}
			if v, ok := args["forward"].(string); ok {
				action.Forward = v
			}

			if len(action.AddLabelIDs) == 0 && len(action.RemoveLabelIDs) == 0 &&
				!action.Archive && !action.MarkAsRead && !action.Star &&
				!action.MarkAsSpam && !action.Delete && action.Forward == "" {
				return mcp.NewToolResultError("At least one filter action must be specified"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			filterInfo, err := client.CreateFilter(ctx, criteria, action)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create filter: %v", err)), nil
			}

			return mcp.NewToolResultText(formatFilterInfo(filterInfo, "Filter created successfully!")), nil
		}))

	deleteTool := mcp.NewTool("gmail_delete_filter",
		mcp.WithDescription("Delete a Gmail filter by its ID (obtain ID from gmail_list_filters)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("filter_id",
			mcp.Required(),
			mcp.Description("The ID of the filter to delete (obtained from gmail_list_filters)"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"gmail_delete_filter", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			filterID, ok := args["filter_id"].(string)
			if !ok || filterID == "" {
				return mcp.NewToolResultError("filter_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteFilter(ctx, filterID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete filter: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Successfully deleted filter %s", filterID)), nil
		}))

	return nil
}

// formatFilterInfo formats a FilterInfo for display
func formatFilterInfo(filter *gmail.FilterInfo, header string) string {
	var result strings.Builder

	if header != "" {
		result.WriteString(header + "\n\n")
	}

	result.WriteString(fmt.Sprintf("Filter ID: %s\n\n", filter.ID))

	result.WriteString("Criteria:\n")
	if filter.Criteria.From != "" {
		result.WriteString(fmt.Sprintf("  From: %s\n", filter.Criteria.From))
	}
	if filter.Criteria.To != "" {
		result.WriteString(fmt.Sprintf("  To: %s\n", filter.Criteria.To))
	}
	if filter.Criteria.Subject != "" {
		result.WriteString(fmt.Sprintf("  Subject: %s\n", filter.Criteria.Subject))
	}
	if filter.Criteria.Query != "" {
		result.WriteString(fmt.Sprintf("  Query: %s\n", filter.Criteria.Query))
	}
	if filter.Criteria.HasAttachment {
		result.WriteString("  Has Attachment: true\n")
	}

	result.WriteString("\nActions:\n")
	if len(filter.Action.AddLabelIDs) > 0 {
		result.WriteString(fmt.Sprintf("  Add Labels: %s\n", strings.Join(filter.Action.AddLabelIDs, ", ")))
	}
	if len(filter.Action.RemoveLabelIDs) > 0 {
		result.WriteString(fmt.Sprintf("  Remove Labels: %s\n", strings.Join(filter.Action.RemoveLabelIDs, ", ")))
	}
	if filter.Action.Archive {
		result.WriteString("  Archive: true\n")
	}
	if filter.Action.MarkAsRead {
		result.WriteString("  Mark as Read: true\n")
	}
	if filter.Action.Star {
		result.WriteString("  Star: true\n")
	}
	if filter.Action.MarkAsSpam {
		result.WriteString("  Mark as Spam: true\n")
	}
	if filter.Action.Delete {
		result.WriteString("  Delete: true\n")
	}
	if filter.Action.Forward != "" {
		result.WriteString(fmt.Sprintf("  Forward to: %s\n", filter.Action.Forward))
	}

	return result.String()
}
