package drive_tools

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/drive"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// saveStream writes downloaded content to the destination path
func saveStream(destination string, rc io.ReadCloser) error {
	defer rc.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// registerFileTools registers download/export plus the file manipulation tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	downloadTool := mcp.NewTool("drive_download_file",
		mcp.WithDescription("Download a file from Google Drive to local filesystem."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to download"),
		),
		mcp.WithString("destination_path",
			mcp.Required(),
			mcp.Description("Local path to save the file to"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(downloadTool, common.InstrumentedToolHandlerWithService(
		"drive_download_file", "drive", "download", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			destination, ok := args["destination_path"].(string)
			if !ok || destination == "" {
				return mcp.NewToolResultError("destination_path is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			meta, rc, err := client.DownloadFile(ctx, fileID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
			}

			if err := saveStream(destination, rc); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to save file to %s: %v", destination, err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Downloaded file!\nName: %s\nSaved to: %s",
				meta.Name, destination)), nil
		}))

	exportTool := mcp.NewTool("drive_export_file",
		mcp.WithDescription("Export a Google Workspace file to a specific format. Formats: pdf, docx, xlsx, pptx, txt, csv, html, zip, epub, rtf, odt, ods, odp. Auto-detects file type (Docs, Sheets, Slides) and uses appropriate export format."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the Google Docs, Sheets or Slides file"),
		),
		mcp.WithString("destination_path",
			mcp.Required(),
			mcp.Description("Local path to save the exported file to"),
		),
		mcp.WithString("export_format",
			mcp.Description("Export format (default: 'pdf')"),
		),
	)

	s.AddTool(exportTool, common.InstrumentedToolHandlerWithService(
		"drive_export_file", "drive", "export", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			destination, ok := args["destination_path"].(string)
			if !ok || destination == "" {
				return mcp.NewToolResultError("destination_path is required"), nil
			}
			exportFormat, _ := args["export_format"].(string)
			if exportFormat == "" {
				exportFormat = "pdf"
			}

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			info, err := client.GetFileMetadata(ctx, fileID, "")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get file metadata: %v", err)), nil
			}

			formats := drive.ExportFormatsFor(info.MimeType)
			if formats == nil {
				return mcp.NewToolResultText(fmt.Sprintf(
					"❌ Cannot export %s. Only Google Docs, Sheets, and Slides can be exported.", info.MimeType)), nil
			}

			exportMime := ""
			names := make([]string, len(formats))
			for i, f := range formats {
				names[i] = f.Name
				if f.Name == exportFormat {
					exportMime = f.Mime
				}
			}
			if exportMime == "" {
				return mcp.NewToolResultText(fmt.Sprintf(
					"❌ Format '%s' not available for this file type. Available: %s",
					exportFormat, strings.Join(names, ", "))), nil
			}

			rc, err := client.ExportContent(ctx, fileID, exportMime)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to export file: %v", err)), nil
			}

			if err := saveStream(destination, rc); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to save file to %s: %v", destination, err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Exported file to %s!\nName: %s\nSaved to: %s",
				exportFormat, info.Name, destination)), nil
		}))

	// Write tools are registered only when not in read-only mode
	if readOnly {
		return nil
	}

	uploadTool := mcp.NewTool("drive_upload_file",
		mcp.WithDescription("Upload a file to Google Drive or Shared Drive."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Local path of the file to upload"),
		),
		mcp.WithString("name",
			mcp.Description("Name for the uploaded file (default: the local file name)"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to upload into"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when uploading to a shared drive"),
		),
	)

	s.AddTool(uploadTool, common.InstrumentedToolHandlerWithService(
		"drive_upload_file", "drive", "upload", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			filePath, ok := args["file_path"].(string)
			if !ok || filePath == "" {
				return mcp.NewToolResultError("file_path is required"), nil
			}
			if _, err := os.Stat(filePath); err != nil {
				return mcp.NewToolResultText(fmt.Sprintf("❌ File not found: %s", filePath)), nil
			}

			name, _ := args["name"].(string)
			if name == "" {
				name = filepath.Base(filePath)
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			f, err := os.Open(filePath)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to open %s: %v", filePath, err)), nil
			}
			defer f.Close()

			info, err := client.UploadFile(ctx, name, f, &drive.UploadOptions{
				ParentID: parentID,
				DriveID:  driveID,
				MimeType: mime.TypeByExtension(filepath.Ext(filePath)),
			})
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ File uploaded!\nName: %s\nID: %s\nLink: %s",
				info.Name, info.ID, orNA(info.WebViewLink))), nil
		}))

	deleteTool := mcp.NewTool("drive_delete_file",
		mcp.WithDescription("Delete a file or folder from Drive."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file or folder to delete"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"drive_delete_file", "drive", "delete", sc,
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

			if err := client.DeleteFile(ctx, fileID, driveID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted file %s", fileID)), nil
		}))

	copyTool := mcp.NewTool("drive_copy_file",
		mcp.WithDescription("Copy a file in Drive."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to copy"),
		),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("Name for the copy"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to place the copy in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(copyTool, common.InstrumentedToolHandlerWithService(
		"drive_copy_file", "drive", "copy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			newName, ok := args["new_name"].(string)
			if !ok || newName == "" {
				return mcp.NewToolResultError("new_name is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			copied, err := client.CopyFile(ctx, fileID, newName, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to copy file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ File copied!\nNew ID: %s\nName: %s",
				copied.ID, copied.Name)), nil
		}))

	moveTool := mcp.NewTool("drive_move_file",
		mcp.WithDescription("Move a file to a different folder."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to move"),
		),
		mcp.WithString("new_parent_id",
			mcp.Required(),
			mcp.Description("ID of the destination folder"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(moveTool, common.InstrumentedToolHandlerWithService(
		"drive_move_file", "drive", "move", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			newParentID, ok := args["new_parent_id"].(string)
			if !ok || newParentID == "" {
				return mcp.NewToolResultError("new_parent_id is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			moved, err := client.MoveFile(ctx, fileID, newParentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to move file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Moved file!\nFile ID: %s\nNew parent: %s",
				moved.ID, newParentID)), nil
		}))

	renameTool := mcp.NewTool("drive_rename_file",
		mcp.WithDescription("Rename a file or folder."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file or folder to rename"),
		),
		mcp.WithString("new_name",
			mcp.Required(),
			mcp.Description("The new name"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(renameTool, common.InstrumentedToolHandlerWithService(
		"drive_rename_file", "drive", "rename", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			newName, ok := args["new_name"].(string)
			if !ok || newName == "" {
				return mcp.NewToolResultError("new_name is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			renamed, err := client.RenameFile(ctx, fileID, newName, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to rename file: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Renamed file!\nNew name: %s\nID: %s",
				renamed.Name, renamed.ID)), nil
		}))

	starTool := mcp.NewTool("drive_star_file",
		mcp.WithDescription("Star or unstar a file (add to favorites)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithBoolean("starred",
			mcp.Description("true to star, false to unstar (default: true)"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(starTool, common.InstrumentedToolHandlerWithService(
		"drive_star_file", "drive", "star", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			starred := true
			if v, ok := args["starred"].(bool); ok {
				starred = v
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.StarFile(ctx, fileID, starred, driveID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update starred state: %v", err)), nil
			}

			status := "starred"
			if !starred {
				status = "unstarred"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ File %s %s", fileID, status)), nil
		}))

	descriptionTool := mcp.NewTool("drive_update_description",
		mcp.WithDescription("Update a file's description."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("The new description"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the file lives on a shared drive"),
		),
	)

	s.AddTool(descriptionTool, common.InstrumentedToolHandlerWithService(
		"drive_update_description", "drive", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}
			description, ok := args["description"].(string)
			if !ok {
				return mcp.NewToolResultError("description is required"), nil
			}
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			updated, err := client.UpdateDescription(ctx, fileID, description, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update description: %v", err)), nil
			}

			desc := updated.Description
			if desc == "" {
				desc = "None"
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Updated description for %s\nDescription: %s",
				updated.Name, desc)), nil
		}))

	shortcutTool := mcp.NewTool("drive_create_shortcut",
		mcp.WithDescription("Create a shortcut to a file or folder."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the shortcut"),
		),
		mcp.WithString("target_file_id",
			mcp.Required(),
			mcp.Description("The ID of the file or folder the shortcut points to"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the folder to place the shortcut in"),
		),
		mcp.WithString("drive_id",
			mcp.Description("Set when the shortcut lives on a shared drive"),
		),
	)

	s.AddTool(shortcutTool, common.InstrumentedToolHandlerWithService(
		"drive_create_shortcut", "drive", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}
			targetFileID, ok := args["target_file_id"].(string)
			if !ok || targetFileID == "" {
				return mcp.NewToolResultError("target_file_id is required"), nil
			}
			parentID, _ := args["parent_id"].(string)
			driveID, _ := args["drive_id"].(string)

			client, err := getDriveClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			shortcut, err := client.CreateShortcut(ctx, name, targetFileID, parentID, driveID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create shortcut: %v", err)), nil
			}

			target := shortcut.ShortcutTarget
			if target == "" {
				target = targetFileID
			}
			return mcp.NewToolResultText(fmt.Sprintf("✅ Shortcut created!\nName: %s\nShortcut ID: %s\nTarget ID: %s",
				shortcut.Name, shortcut.ID, target)), nil
		}))

	return nil
}
