// Package drive provides a client for interacting with the Google Drive API.
//
// This package enables comprehensive Google Drive file management operations including:
//   - Listing files in My Drive and shared drives
//   - Uploading, downloading, copying, moving and renaming files
//   - Creating folders and shortcuts
//   - Exporting Google Docs, Sheets and Slides to regular file formats
//   - Managing file sharing and permissions
//   - Trash handling (list, restore, empty)
//   - Reading a file's revision history
//
// The client supports multi-account functionality, allowing management of multiple
// Google accounts simultaneously. Each client instance is bound to a specific account.
//
// Shared drives:
// Operations accept an optional drive ID. When one is given, calls are made
// with shared-drive support enabled; listings then read from the shared
// drive's corpus instead of the user's own files.
//
// OAuth Authentication:
// This package uses the unified Google OAuth token from the google package.
// The OAuth scope includes full Google Drive access (drive scope), allowing read
// and write operations on all files in the user's Drive.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := drive.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Upload a file
//	file, err := client.UploadFile(ctx, "document.pdf", bytes.NewReader(content), &drive.UploadOptions{
//	    MimeType: "application/pdf",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List files in a folder
//	files, err := client.ListFiles(ctx, &drive.ListOptions{
//	    FolderID: "folder-id",
//	    PageSize: 10,
//	})
package drive
