package drive_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerTrashTools registers trash listing, restore and empty
func registerTrashTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTrashedTool := mcp.NewTool("drive_list_trashed_files",
		mcp.WithDescription("List files in the trash."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(listTrashedTool, common.InstrumentedToolHandlerWithService(
		"drive_list_trashed_files", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			pageSize := int64(20)
			if v, ok := args["page_size"].(float64); ok && v > 0 {
				pageSize = int64(v)
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			files, err := client.ListTrashedFiles(ctx, pageSize)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list trashed files: %v", err)), nil
			}

			if len(files) == 0 {
				return mcp.NewToolResultText("Trash is empty."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d file(s) in trash:\n\n", len(files))
			for _, f := range files {
				fmt.Fprintf(&out, "%s %s\n", fileIcon(f.MimeType), f.Name)
				fmt.Fprintf(&out, "   ID: %s\n", f.ID)
				fmt.Fprintf(&out, "   Trashed: %s\n", fmtTimePtr(f.TrashedTime))
				fmt.Fprintf(&out, "   Link: %s\n\n", orNA(f.WebViewLink))
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	// Write tools are registered only when not in read-only mode
	if readOnly {
		return nil
	}

	restoreTool := mcp.NewTool("drive_restore_file",
		mcp.WithDescription("Restore a file from trash."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the trashed file"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(restoreTool, common.InstrumentedToolHandlerWithService(
		"drive_restore_file", "drive", "restore", sc,
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

			restored, err := client.RestoreFile(ctx, fileID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to restore file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Restored file from trash!\nName: %s\nID: %s",
				restored.Name, restored.ID)), nil
		}))

	emptyTrashTool := mcp.NewTool("drive_empty_trash",
		mcp.WithDescription("Permanently delete all files in trash. WARNING: This cannot be undone!"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(emptyTrashTool, common.InstrumentedToolHandlerWithService(
		"drive_empty_trash", "drive", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.EmptyTrash(ctx); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to empty trash: %v", err)), nil
			}

			return mcp.NewToolResultText("✅ Trash emptied! All trashed files permanently deleted."), nil
		}))

	return nil
}
