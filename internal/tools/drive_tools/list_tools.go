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

// registerListTools registers shared drive listing, file listing/search,
// metadata and revision history. All of these are available in read-only mode.
func registerListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	sharedDrivesTool := mcp.NewTool("drive_list_shared_drives",
		mcp.WithDescription("List all shared drives (Team Drives) the user has access to."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of shared drives to return (default: 100)"),
		),
	)

	s.AddTool(sharedDrivesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_shared_drives", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			pageSize := int64(100)
			if v, ok := args["page_size"].(float64); ok && v > 0 {
				pageSize = int64(v)
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			drives, err := client.ListSharedDrives(ctx, pageSize)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list shared drives: %v", err)), nil
			}

			if len(drives) == 0 {
				return mcp.NewToolResultText("No shared drives found."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d shared drive(s):\n\n", len(drives))
			for _, d := range drives {
				fmt.Fprintf(&out, "📁 %s\n   ID: %s\n\n", d.Name, d.Id)
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files and folders in Google Drive or Shared Drives."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("folder_id",
			mcp.Description("List only the contents of this folder"),
		),
		mcp.WithString("drive_id",
			mcp.Description("ID of a shared drive to list files from"),
		),
		mcp.WithString("query",
			mcp.Description("Additional filter in Google Drive query syntax"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_files", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			folderID, _ := args["folder_id"].(string)
			driveID, _ := args["drive_id"].(string)
			query, _ := args["query"].(string)

			pageSize := int64(20)
			if v, ok := args["page_size"].(float64); ok && v > 0 {
				pageSize = int64(v)
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			files, err := client.ListFiles(ctx, &drive.ListOptions{
				FolderID: folderID,
				Query:    query,
				DriveID:  driveID,
				PageSize: pageSize,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
			}

			if len(files) == 0 {
				return mcp.NewToolResultText("No files found."), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d file(s):\n\n", len(files))
			for _, f := range files {
				fmt.Fprintf(&out, "%s %s\n   ID: %s\n   Type: %s\n   Link: %s\n\n",
					fileIcon(f.MimeType), f.Name, f.ID, f.MimeType, orNA(f.WebViewLink))
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	searchTool := mcp.NewTool("drive_search_files",
		mcp.WithDescription("Advanced file search using Google Drive query syntax. Example: 'name contains \"report\" and mimeType contains \"pdf\"'"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query in Google Drive query syntax"),
		),
		mcp.WithString("drive_id",
			mcp.Description("ID of a shared drive to search in"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService(
		"drive_search_files", "drive", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			pageSize := int64(20)
			if v, ok := args["page_size"].(float64); ok && v > 0 {
				pageSize = int64(v)
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			files, err := client.ListFiles(ctx, &drive.ListOptions{
				Query:    query,
				DriveID:  driveID,
				PageSize: pageSize,
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search files: %v", err)), nil
			}

			if len(files) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No files found matching: %s", query)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d file(s) matching '%s':\n\n", len(files), query)
			for _, f := range files {
				size := "N/A"
				if f.Size > 0 {
					size = fmt.Sprintf("%d bytes", f.Size)
				}
				fmt.Fprintf(&out, "%s %s\n", fileIcon(f.MimeType), f.Name)
				fmt.Fprintf(&out, "   ID: %s\n", f.ID)
				fmt.Fprintf(&out, "   Size: %s\n", size)
				fmt.Fprintf(&out, "   Modified: %s\n", fmtTime(f.ModifiedTime))
				fmt.Fprintf(&out, "   Link: %s\n\n", orNA(f.WebViewLink))
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	metadataTool := mcp.NewTool("drive_get_file_metadata",
		mcp.WithDescription("Get detailed metadata about a file."),
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

	s.AddTool(metadataTool, common.InstrumentedToolHandlerWithService(
		"drive_get_file_metadata", "drive", "get", sc,
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

			info, err := client.GetFileMetadata(ctx, fileID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get file metadata: %v", err)), nil
			}

			size := "N/A"
			if info.Size > 0 {
				size = fmt.Sprintf("%d", info.Size)
			}

			var out strings.Builder
			fmt.Fprintf(&out, "File: %s\n", info.Name)
			fmt.Fprintf(&out, "ID: %s\n", info.ID)
			fmt.Fprintf(&out, "Type: %s\n", info.MimeType)
			fmt.Fprintf(&out, "Size: %s bytes\n", size)
			fmt.Fprintf(&out, "Created: %s\n", fmtTime(info.CreatedTime))
			fmt.Fprintf(&out, "Modified: %s\n", fmtTime(info.ModifiedTime))
			fmt.Fprintf(&out, "View Link: %s\n", orNA(info.WebViewLink))

			if len(info.Owners) > 0 {
				names := make([]string, len(info.Owners))
				for i, o := range info.Owners {
					name := o.DisplayName
					if name == "" {
						name = o.EmailAddress
					}
					if name == "" {
						name = "Unknown"
					}
					names[i] = name
				}
				fmt.Fprintf(&out, "Owners: %s\n", strings.Join(names, ", "))
			}

			return mcp.NewToolResultText(out.String()), nil
		}))

	revisionsTool := mcp.NewTool("drive_list_revisions",
		mcp.WithDescription("List all revisions (version history) of a file."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
	)

	s.AddTool(revisionsTool, common.InstrumentedToolHandlerWithService(
		"drive_list_revisions", "drive", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			revisions, err := client.ListRevisions(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf(
					"Failed to list revisions: %v\nNote: Revisions are only available for Google Docs, Sheets, and Slides.", err)), nil
			}

			if len(revisions) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No revisions found for file %s", fileID)), nil
			}

			var out strings.Builder
			fmt.Fprintf(&out, "Found %d revision(s) for file %s:\n\n", len(revisions), fileID)
			for i, rev := range revisions {
				fmt.Fprintf(&out, "Version %d:\n", i+1)
				fmt.Fprintf(&out, "  Revision ID: %s\n", rev.ID)
				fmt.Fprintf(&out, "  Modified: %s\n", fmtTime(rev.ModifiedTime))
				if rev.ModifiedBy != "" {
					fmt.Fprintf(&out, "  Modified by: %s\n", rev.ModifiedBy)
				}
				if rev.Size > 0 {
					fmt.Fprintf(&out, "  Size: %d bytes\n", rev.Size)
				}
				out.WriteString("\n")
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	return nil
}
