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

// registerReactionTools registers emoji reaction tools
func registerReactionTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("chat_list_reactions",
		mcp.WithDescription("List emoji reactions on a Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message resource name, like spaces/AAAA1234/messages/BBBB5678"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"chat_list_reactions", "chat", "list", sc,
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

			reactions, err := client.ListReactions(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list reactions: %v", err)), nil
			}

			if len(reactions) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No reactions on message %s", messageID)), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d reaction(s):\n\n", len(reactions))
			for _, reaction := range reactions {
				emoji := "?"
				if reaction.Emoji != nil && reaction.Emoji.Unicode != "" {
					emoji = reaction.Emoji.Unicode
				}
				user := "Unknown"
				if reaction.User != nil && reaction.User.DisplayName != "" {
					user = reaction.User.DisplayName
				}

				fmt.Fprintf(&sb, "%s by %s\n", emoji, user)
				fmt.Fprintf(&sb, "   Reaction ID: %s\n\n", reaction.Name)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("chat_create_reaction",
		mcp.WithDescription("Add an emoji reaction to a Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The message resource name, like spaces/AAAA1234/messages/BBBB5678"),
		),
		mcp.WithString("emoji",
			mcp.Required(),
			mcp.Description("Unicode emoji to react with, like 👍"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"chat_create_reaction", "chat", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, errResult := messageIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			emoji, ok := args["emoji"].(string)
			if !ok || emoji == "" {
				return mcp.NewToolResultError("emoji is required"), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			reaction, err := client.CreateReaction(ctx, messageID, emoji)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create reaction: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Reaction added!\nEmoji: %s\nReaction ID: %s",
				emoji, reaction.Name)), nil
		}))

	deleteTool := mcp.NewTool("chat_delete_reaction",
		mcp.WithDescription("Remove an emoji reaction from a Google Chat message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("reaction_id",
			mcp.Required(),
			mcp.Description("The reaction resource name, like spaces/AAAA1234/messages/BBBB5678/reactions/CCCC"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"chat_delete_reaction", "chat", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			reactionID, ok := args["reaction_id"].(string)
			if !ok || reactionID == "" {
				return mcp.NewToolResultError("reaction_id is required"), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteReaction(ctx, reactionID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete reaction: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Reaction %s deleted", reactionID)), nil
		}))

	return nil
}
