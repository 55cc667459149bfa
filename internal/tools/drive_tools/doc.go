// Package drive_tools provides MCP (Model Context Protocol) tools for Google Drive operations.
//
// This package exposes Drive functionality to MCP clients (like AI assistants) through
// a set of tools that handle file management, folder operations, sharing, trash
// handling and version history.
//
// Listing and inspection:
//   - drive_list_shared_drives: List shared drives (Team Drives)
//   - drive_list_files: List files and folders, optionally inside a folder or shared drive
//   - drive_search_files: Search with Google Drive query syntax
//   - drive_get_file_metadata: Get detailed metadata about a file
//   - drive_list_revisions: List a file's version history
//
// File management:
//   - drive_upload_file: Upload a local file
//   - drive_download_file: Download a file (Google Docs, Sheets and Slides are
//     exported to the matching Office format)
//   - drive_export_file: Export a Google Workspace file to pdf, docx, xlsx, ...
//   - drive_create_folder: Create a folder
//   - drive_delete_file: Permanently delete a file or folder
//   - drive_copy_file, drive_move_file, drive_rename_file: Reorganize files
//   - drive_star_file: Star or unstar a file
//   - drive_update_description: Set a file's description
//   - drive_create_shortcut: Create a shortcut to another file
//
// Sharing:
//   - drive_share_file: Grant a user access
//   - drive_make_public: Grant anyone with the link access
//   - drive_list_permissions: List who has access
//   - drive_remove_permission: Revoke access
//
// Trash:
//   - drive_list_trashed_files: List trashed files
//   - drive_restore_file: Restore a file from trash
//   - drive_empty_trash: Permanently delete everything in trash
//
// All tools support multi-account functionality through an optional 'account' parameter,
// allowing management of multiple Google accounts simultaneously. Tools that modify
// data are not registered when the server runs in read-only mode.
//
// Shared drive support: tools accept an optional 'drive_id' parameter. Listing
// tools then read from that shared drive's corpus; all other tools enable
// shared-drive semantics on the underlying API calls.
//
// Example tool usage:
//
//	drive_list_files({
//	  account: "work",
//	  folder_id: "folder123",
//	  page_size: 10
//	})
//
//	drive_export_file({
//	  file_id: "doc123",
//	  destination_path: "/tmp/report.pdf",
//	  export_format: "pdf"
//	})
package drive_tools
