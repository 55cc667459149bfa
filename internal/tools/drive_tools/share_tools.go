package drive_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/drive"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// grantHolder returns the display line for a user or group grant
func grantHolder(perm *drive.Permission) string {
	if perm.DisplayName != "" {
		return perm.DisplayName
	}
	if perm.EmailAddress != "" {
		return perm.EmailAddress
	}
	return "Unknown"
}

// registerShareTools registers file sharing and permission management tools
func registerShareTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listPermissionsTool := mcp.NewTool("drive_list_permissions",
		mcp.WithDescription("List all permissions (who has access) for a file."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(listPermissionsTool, common.InstrumentedToolHandlerWithService(
		"drive_list_permissions", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			perms, err := client.ListPermissions(ctx, fileID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list permissions: %v", err)), nil
			}

			if len(perms) == 0 {
				return mcp.NewToolResultText("No permissions found (file is private)."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Permissions for file %s:\n\n", fileID)
			for _, perm := range perms {
				role := perm.Role
				if role == "" {
					role = "unknown"
				}

				switch perm.Type {
				case "user":
					fmt.Fprintf(&out, "👤 %s\n", grantHolder(perm))
					fmt.Fprintf(&out, "   Email: %s\n", orNA(perm.EmailAddress))
				case "group":
					fmt.Fprintf(&out, "👥 %s\n", grantHolder(perm))
					fmt.Fprintf(&out, "   Email: %s\n", orNA(perm.EmailAddress))
				case "domain":
					domain := perm.Domain
					if domain == "" {
						domain = "Unknown"
					}
					fmt.Fprintf(&out, "🏢 Domain: %s\n", domain)
				case "anyone":
					out.WriteString("🌐 Anyone with the link\n")
				}

				fmt.Fprintf(&out, "   Role: %s\n", role)
				fmt.Fprintf(&out, "   Permission ID: %s\n\n", perm.ID)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	// Write tools are registered only when not in read-only mode
	if readOnly {
		return nil
	}

	shareTool := mcp.NewTool("drive_share_file",
		mcp.WithDescription("Share a file with a user. Roles: reader, writer, commenter."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to share"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Email address of the user to share with"),
		),
		mcp.WithString("role",
			mcp.Description("Role to grant: reader, writer or commenter (default: 'reader')"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(shareTool, common.InstrumentedToolHandlerWithService(
		"drive_share_file", "drive", "share", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			email, ok := args["email"].(string)
			if !ok || email == "" {
				return mcp.NewToolResultError("email is required"), nil
			}
			role, _ := args["role"].(string)
			if role == "" {
				role = "reader"
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			_, err = client.ShareFile(ctx, fileID, &drive.ShareOptions{
				Type:                  "user",
				Role:                  role,
				EmailAddress:          email,
				DriveID:               driveID,
				SendNotificationEmail: true,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to share file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Shared file %s with %s as %s",
				fileID, email, role)), nil
		}))

	makePublicTool := mcp.NewTool("drive_make_public",
		mcp.WithDescription("Make a file publicly accessible to anyone with the link. Roles: reader, writer, commenter."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("role",
			mcp.Description("Role to grant to anyone with the link (default: 'reader')"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(makePublicTool, common.InstrumentedToolHandlerWithService(
		"drive_make_public", "drive", "share", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			role, _ := args["role"].(string)
			if role == "" {
				role = "reader"
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			_, err = client.ShareFile(ctx, fileID, &drive.ShareOptions{
				Type:    "anyone",
				Role:    role,
				DriveID: driveID,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to make file public: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ File %s is now public (anyone with link can %s)",
				fileID, role)), nil
		}))

	removePermissionTool := mcp.NewTool("drive_remove_permission",
		mcp.WithDescription("Remove a permission (unshare) from a file. Use drive_list_permissions to get permission IDs."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("permission_id",
			mcp.Required(),
			mcp.Description("The ID of the permission to remove"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(removePermissionTool, common.InstrumentedToolHandlerWithService(
		"drive_remove_permission", "drive", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			permissionID, ok := args["permission_id"].(string)
			if !ok || permissionID == "" {
				return mcp.NewToolResultError("permission_id is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.RemovePermission(ctx, fileID, permissionID, driveID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to remove permission: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Removed permission %s from file %s",
				permissionID, fileID)), nil
		}))

	return nil
}
