package chat_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/chat"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerSpaceTools registers space listing, creation and settings tools
func registerSpaceTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("chat_list_spaces",
		mcp.WithDescription("List all Google Chat spaces (rooms and DMs) the user has access to."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of spaces to return (default: 100)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"chat_list_spaces", "chat", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			spaces, err := client.ListSpaces(ctx, intOrDefault(args, "page_size", 100))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list spaces: %v", err)), nil
			}

			if len(spaces) == 0 {
				return mcp.NewToolResultText("No Chat spaces found."), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d space(s):\n\n", len(spaces))
			for _, space := range spaces {
				spaceType := orDefault(space.Type, "UNKNOWN")

				icon := "👥"
				if spaceType == "DM" {
					icon = "💬"
				}
				fmt.Fprintf(&sb, "%s %s\n", icon, orDefault(space.DisplayName, "Unnamed"))
				fmt.Fprintf(&sb, "   Type: %s\n", spaceType)
				fmt.Fprintf(&sb, "   Space ID: %s\n\n", space.Name)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	getTool := mcp.NewTool("chat_get_space",
		mcp.WithDescription("Get details about a specific Google Chat space."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"chat_get_space", "chat", "get", sc,
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

			space, err := client.GetSpace(ctx, spaceID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get space: %v", err)), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Space: %s\n", orDefault(space.DisplayName, "Unnamed"))
			fmt.Fprintf(&sb, "ID: %s\n", space.Name)
			fmt.Fprintf(&sb, "Type: %s\n", orDefault(space.Type, "UNKNOWN"))
			fmt.Fprintf(&sb, "Space threaded: %s\n", orDefault(space.SpaceThreadingState, "UNKNOWN"))

			if space.SpaceDetails != nil {
				if space.SpaceDetails.Description != "" {
					fmt.Fprintf(&sb, "Description: %s\n", space.SpaceDetails.Description)
				}
				if space.SpaceDetails.Guidelines != "" {
					fmt.Fprintf(&sb, "Guidelines: %s\n", space.SpaceDetails.Guidelines)
				}
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("chat_create_space",
		mcp.WithDescription("Create a new Google Chat space. Types: SPACE (room) or GROUP_CHAT."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("display_name",
			mcp.Required(),
			mcp.Description("Name of the new space"),
		),
		mcp.WithString("space_type",
			mcp.Description("Space type: SPACE or GROUP_CHAT (default: SPACE)"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"chat_create_space", "chat", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			displayName, ok := args["display_name"].(string)
			if !ok || displayName == "" {
				return mcp.NewToolResultError("display_name is required"), nil
			}
			spaceType, _ := args["space_type"].(string)

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			created, err := client.CreateSpace(ctx, displayName, spaceType)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create space: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Chat space created!\nName: %s\nSpace ID: %s",
				orDefault(created.DisplayName, "Unnamed"), created.Name)), nil
		}))

	updateTool := mcp.NewTool("chat_update_space",
		mcp.WithDescription("Update a Google Chat space's name or description."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
		mcp.WithString("display_name",
			mcp.Description("New space name"),
		),
		mcp.WithString("description",
			mcp.Description("New space description"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService(
		"chat_update_space", "chat", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spaceID, errResult := spaceIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}

			var updates chat.SpaceUpdates
			if v, ok := args["display_name"].(string); ok && v != "" {
				updates.DisplayName = &v
			}
			if v, ok := args["description"].(string); ok && v != "" {
				updates.Description = &v
			}

			if updates.DisplayName == nil && updates.Description == nil {
				return mcp.NewToolResultText("No fields to update."), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			updated, err := client.UpdateSpace(ctx, spaceID, updates)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update space: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Space updated!\nName: %s\nSpace ID: %s",
				orDefault(updated.DisplayName, "Unnamed"), updated.Name)), nil
		}))

	deleteTool := mcp.NewTool("chat_delete_space",
		mcp.WithDescription("Delete a Google Chat space."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"chat_delete_space", "chat", "delete", sc,
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

			if err := client.DeleteSpace(ctx, spaceID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete space: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Space %s deleted", spaceID)), nil
		}))

	return nil
}
