package drive_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerFolderTools registers folder creation
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	createFolderTool := mcp.NewTool("drive_create_folder",
		mcp.WithDescription("Create a new folder in Google Drive or a Shared Drive."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("The name of the folder"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to create the new folder in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when creating the folder on a shared drive"),
		),
	)

	s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService(
		"drive_create_folder", "drive", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			folder, err := client.CreateFolder(ctx, name, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Folder created!\nName: %s\nID: %s\nLink: %s",
				folder.Name, folder.ID, orNA(folder.WebViewLink))), nil
		}))

	return nil
}
