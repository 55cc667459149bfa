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

// registerThreadTools registers conversation listing and reading. Both tools
// only read the mailbox, so they are available in read-only mode too.
func registerThreadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("gmail_list_threads",
		mcp.WithDescription("List email threads (conversations). Optional query to filter."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Description("Gmail search query to filter threads (optional)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of threads to return (default: 10)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_threads", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			query, _ := args["query"].(string)
			maxResults := int64(10)
			if v, ok := args["max_results"].(float64); ok {
				maxResults = int64(v)
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			threads, err := client.ListThreads(ctx, query, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list threads: %v", err)), nil
			}

			if len(threads) == 0 {
				return mcp.NewToolResultText("No threads found."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d thread(s):\n\n", len(threads))
			for _, t := range threads {
				fmt.Fprintf(&out, "💬 %s\n   Thread ID: %s\n   Messages: %d\n\n", t.Subject, t.ID, t.MessageCount)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	getTool := mcp.NewTool("gmail_get_thread",
		mcp.WithDescription("Read an entire email thread (conversation) with all messages."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("thread_id",
			mcp.Required(),
			mcp.Description("The ID of the thread to read"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"gmail_get_thread", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			threadID, ok := args["thread_id"].(string)
			if !ok || threadID == "" {
				return mcp.NewToolResultError("thread_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			thread, err := client.GetThread(ctx, threadID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get thread: %v", err)), nil
			}

			if len(thread.Messages) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No messages in thread %s", threadID)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Thread ID: %s\nMessages: %d\n\n", threadID, len(thread.Messages))
			out.WriteString(strings.Repeat("=", 60) + "\n\n")

			for i, msg := range thread.Messages {
				fmt.Fprintf(&out, "Message %d/%d:\n", i+1, len(thread.Messages))
				fmt.Fprintf(&out, "Subject: %s\n", headerOr(msg, "Subject", "No Subject"))
				fmt.Fprintf(&out, "From: %s\n", headerOr(msg, "From", "Unknown"))
				fmt.Fprintf(&out, "Date: %s\n\n", headerOr(msg, "Date", "Unknown"))
				fmt.Fprintf(&out, "%s\n\n", gmail.MessageBody(msg))
				out.WriteString(strings.Repeat("-", 60) + "\n\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	return nil
}
