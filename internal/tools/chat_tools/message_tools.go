package chat_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerMessageTools registers message sending, reading, editing and
// deletion tools
func registerMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("chat_list_messages",
		mcp.WithDescription("List messages in a Google Chat space."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of messages to return (default: 25)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"chat_list_messages", "chat", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spaceID, errResult := spaceIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			messages, err := client.ListMessages(ctx, spaceID, intOrDefault(args, "page_size", 25))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list messages: %v", err)), nil
			}

			if len(messages) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No messages found in space %s", spaceID)), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d message(s):\n\n", len(messages))
			for _, message := range messages {
				sender := "Unknown"
				if message.Sender != nil && message.Sender.DisplayName != "" {
					sender = message.Sender.DisplayName
				}

				text := orDefault(message.Text, "(no text)")
				if runes := []rune(text); len(runes) > 100 {
					text = string(runes[:100])
				}

				fmt.Fprintf(&sb, "💬 %s: %s\n", sender, text)
				fmt.Fprintf(&sb, "   Time: %s\n", orDefault(message.CreateTime, "Unknown"))
				fmt.Fprintf(&sb, "   Message ID: %s\n\n", message.Name)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	getTool := mcp.NewTool("chat_get_message",
		mcp.WithDescription("Get details about a specific Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message resource name, like spaces/AAAA1234/messages/BBBB5678"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"chat_get_message", "chat", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, errResult := messageIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			message, err := client.GetMessage(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
			}

			sender := "Unknown"
			if message.Sender != nil && message.Sender.DisplayName != "" {
				sender = message.Sender.DisplayName
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Message ID: %s\n", message.Name)
			fmt.Fprintf(&sb, "Sender: %s\n", sender)
			fmt.Fprintf(&sb, "Time: %s\n", orDefault(message.CreateTime, "Unknown"))
			fmt.Fprintf(&sb, "Text: %s\n", orDefault(message.Text, "(no text)"))

			if message.Thread != nil {
				fmt.Fprintf(&sb, "Thread: %s\n", orDefault(message.Thread.Name, "N/A"))
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	sendTool := mcp.NewTool("chat_send_message",
		mcp.WithDescription("Send a message to a Google Chat space. Optional thread_key to reply in thread."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The message text"),
		),
		mcp.WithString("thread_key",
			mcp.Description("Thread key to reply in an existing thread"),
		),
	)

	s.AddTool(sendTool, common.InstrumentedToolHandlerWithService(
		"chat_send_message", "chat", "send", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spaceID, errResult := spaceIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}
			threadKey, _ := args["thread_key"].(string)

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			sent, err := client.SendMessage(ctx, spaceID, text, threadKey)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Message sent!\nMessage ID: %s\nSpace: %s",
				sent.Name, spaceID)), nil
		}))

	updateTool := mcp.NewTool("chat_update_message",
		mcp.WithDescription("Update (edit) a Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message resource name, like spaces/AAAA1234/messages/BBBB5678"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The new message text"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService(
		"chat_update_message", "chat", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, errResult := messageIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			text, ok := args["text"].(string)
			if !ok || text == "" {
				return mcp.NewToolResultError("text is required"), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			updated, err := client.UpdateMessage(ctx, messageID, text)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update message: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Message updated!\nMessage ID: %s", updated.Name)), nil
		}))

	deleteTool := mcp.NewTool("chat_delete_message",
		mcp.WithDescription("Delete a Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message resource name, like spaces/AAAA1234/messages/BBBB5678"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"chat_delete_message", "chat", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, errResult := messageIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteMessage(ctx, messageID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete message: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Message %s deleted", messageID)), nil
		}))

	return nil
}
