package gmail_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerComposeTools registers the tools that send mail: plain send, reply,
// forward and send-with-attachment. All of them mutate the mailbox, so none
// are available in read-only mode.
func registerComposeTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	sendTool := mcp.NewTool("gmail_send",
		mcp.WithDescription("Send an email via Gmail."),
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

	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService(
		"gmail_send", "gmail", "send", sc,
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

			sent, err := client.Send(ctx, &gmail.OutgoingMessage{
				To:      to,
				Cc:      cc,
				Subject: subject,
				Body:    body,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send email: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Email sent!\nMessage ID: %s\nTo: %s\nSubject: %s",
				sent.Id, to, subject)), nil
		}))

	replyTool := mcp.NewTool("gmail_reply",
		mcp.WithDescription("Reply to an email thread."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to reply to"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Reply body text"),
		),
	)

	s.AddTool(replyTool, common.InstrumentedToolHandlerWithService(
		"gmail_reply", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}
			body, ok := args["body"].(string)
			if !ok || body == "" {
				return mcp.NewToolResultError("body is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			reply, err := client.Reply(ctx, messageID, body)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send reply: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Reply sent!\nMessage ID: %s\nThread ID: %s",
				reply.MessageID, reply.ThreadID)), nil
		}))

	forwardTool := mcp.NewTool("gmail_forward",
		mcp.WithDescription("Forward an email to another recipient."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the message to forward"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment to add above the forwarded message"),
		),
	)

	s.AddTool(forwardTool, common.InstrumentedToolHandlerWithService(
		"gmail_forward", "gmail", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}
			to, ok := args["to"].(string)
			if !ok || to == "" {
				return mcp.NewToolResultError("to is required"), nil
			}
			comment, _ := args["comment"].(string)

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sent, err := client.Forward(ctx, messageID, to, comment)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to forward message: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Message forwarded!\nMessage ID: %s\nTo: %s",
				sent.Id, to)), nil
		}))

	attachmentTool := mcp.NewTool("gmail_send_with_attachment",
		mcp.WithDescription("Send an email with a file attachment."),
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
		mcp.WithString("attachment_path",
			mcp.Required(),
			mcp.Description("Path to the file to attach"),
		),
		mcp.WithString("cc",
			mcp.Description("CC email address (optional)"),
		),
	)

	s.AddTool(attachmentTool, common.InstrumentedToolHandlerWithService(
		"gmail_send_with_attachment", "gmail", "send", sc,
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
			attachmentPath, ok := args["attachment_path"].(string)
			if !ok || attachmentPath == "" {
				return mcp.NewToolResultError("attachment_path is required"), nil
			}
			cc, _ := args["cc"].(string)

			if _, err := os.Stat(attachmentPath); err != nil {
				return mcp.NewToolResultText(fmt.Sprintf("❌ Attachment not found: %s", attachmentPath)), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sent, err := client.SendWithAttachment(ctx, &gmail.OutgoingMessage{
				To:      to,
				Cc:      cc,
				Subject: subject,
				Body:    body,
			}, attachmentPath)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send email: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Email sent with attachment!\nMessage ID: %s\nTo: %s\nAttachment: %s",
				sent.Id, to, filepath.Base(attachmentPath))), nil
		}))

	return nil
}
