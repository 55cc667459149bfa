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

// registerMemberTools registers space membership tools
func registerMemberTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("chat_list_members",
		mcp.WithDescription("List members of a Google Chat space."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of members to return (default: 100)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"chat_list_members", "chat", "list", sc,
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

			members, err := client.ListMembers(ctx, spaceID, intOrDefault(args, "page_size", 100))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list members: %v", err)), nil
			}

			if len(members) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No members found in space %s", spaceID)), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d member(s):\n\n", len(members))
			for _, membership := range members {
				name := "Unknown"
				userID := "N/A"
				if membership.Member != nil {
					if membership.Member.DisplayName != "" {
						name = membership.Member.DisplayName
					}
					if membership.Member.Name != "" {
						userID = membership.Member.Name
					}
				}

				fmt.Fprintf(&sb, "👤 %s\n", name)
				fmt.Fprintf(&sb, "   Email/ID: %s\n", userID)
				fmt.Fprintf(&sb, "   Role: %s\n", orDefault(membership.Role, "MEMBER"))
				fmt.Fprintf(&sb, "   Membership ID: %s\n\n", membership.Name)
			}

			return mcp.NewToolResultText(sb.String()), nil
		}))

	if readOnly {
		return nil
	}

	addTool := mcp.NewTool("chat_add_member",
		mcp.WithDescription("Add a member to a Google Chat space by email address."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("space_id",
			mcp.Required(),
			mcp.Description("The space resource name, like spaces/AAAA1234"),
		),
		mcp.WithString("user_email",
			mcp.Required(),
			mcp.Description("Email address of the user to add"),
		),
	)

	s.AddTool(addTool, common.InstrumentedToolHandlerWithService(
		"chat_add_member", "chat", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			spaceID, errResult := spaceIDFromArgs(args)
			if errResult != nil {
				return errResult, nil
			}
			userEmail, ok := args["user_email"].(string)
			if !ok || userEmail == "" {
				return mcp.NewToolResultError("user_email is required"), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			membership, err := client.AddMember(ctx, spaceID, userEmail)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to add member: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Added %s to space!\nMembership ID: %s",
				userEmail, membership.Name)), nil
		}))

	removeTool := mcp.NewTool("chat_remove_member",
		mcp.WithDescription("Remove a member from a Google Chat space."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("membership_id",
			mcp.Required(),
			mcp.Description("The membership resource name, like spaces/AAAA1234/members/111111"),
		),
	)

	s.AddTool(removeTool, common.InstrumentedToolHandlerWithService(
		"chat_remove_member", "chat", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			membershipID, ok := args["membership_id"].(string)
			if !ok || membershipID == "" {
				return mcp.NewToolResultError("membership_id is required"), nil
			}

			client, err := getChatClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.RemoveMember(ctx, membershipID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to remove member: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Removed member %s from space", membershipID)), nil
		}))

	return nil
}
