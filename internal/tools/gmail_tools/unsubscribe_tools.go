package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerUnsubscribeTools registers newsletter unsubscribe helpers. Inspecting
// the List-Unsubscribe header is read-only; actually unsubscribing notifies the
// sender, so it is held back in read-only mode.
func registerUnsubscribeTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	infoTool := mcp.NewTool("gmail_get_unsubscribe_info",
		mcp.WithDescription("Extract unsubscribe information from a Gmail message. Returns available unsubscribe methods (mailto or HTTP)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message to check for unsubscribe information"),
		),
	)

	s.AddTool(infoTool, common.InstrumentedToolHandlerWithService(
		"gmail_get_unsubscribe_info", "gmail", "get", sc,
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

			info, err := client.GetUnsubscribeInfo(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get unsubscribe info: %v", err)), nil
			}

			if !info.HasUnsubscribe {
				return mcp.NewToolResultText("This message does not contain unsubscribe information (no List-Unsubscribe header found)."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Unsubscribe information for message %s:\n\n", messageID)
			fmt.Fprintf(&out, "Found %d unsubscribe method(s):\n\n", len(info.Methods))

			for i, method := range info.Methods {
				fmt.Fprintf(&out, "%d. Type: %s\n", i+1, method.Type)
				fmt.Fprintf(&out, "   URL: %s\n", method.URL)
				switch method.Type {
				case "http":
					out.WriteString("   Action: Use gmail_unsubscribe_via_http with this URL to unsubscribe automatically\n")
				case "mailto":
					out.WriteString("   Action: Send an email to this address to unsubscribe (use gmail_send)\n")
				}
				out.WriteString("\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	if readOnly {
		return nil
	}

	httpTool := mcp.NewTool("gmail_unsubscribe_via_http",
		mcp.WithDescription("Unsubscribe from a newsletter using an HTTP unsubscribe link. Use gmail_get_unsubscribe_info first to get available unsubscribe methods."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The HTTP/HTTPS unsubscribe URL (obtained from gmail_get_unsubscribe_info)"),
		),
	)

	s.AddTool(httpTool, common.InstrumentedToolHandlerWithService(
		"gmail_unsubscribe_via_http", "gmail", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			url, ok := args["url"].(string)
			if !ok || url == "" {
				return mcp.NewToolResultError("url is required"), nil
			}
			if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
				return mcp.NewToolResultError("URL must start with http:// or https://"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.UnsubscribeViaHTTP(ctx, url); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to unsubscribe: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Successfully unsubscribed via HTTP!\nURL: %s\n\nNote: You should receive a confirmation from the sender. You may want to archive or delete emails from this sender.", url)), nil
		}))

	return nil
}
