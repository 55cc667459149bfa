package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/workspace-tools/workspace-mcp/internal/google"
)

// MIME types for folders and Google Workspace native files
const (
	FolderMimeType       = "application/vnd.google-apps.folder"
	DocumentMimeType     = "application/vnd.google-apps.document"
	SpreadsheetMimeType  = "application/vnd.google-apps.spreadsheet"
	PresentationMimeType = "application/vnd.google-apps.presentation"
	ShortcutMimeType     = "application/vnd.google-apps.shortcut"
)

// ExportFormat pairs a short format name (as accepted from tool arguments)
// with the MIME type Drive produces for it
type ExportFormat struct {
	Name string
	Mime string
}

// exportFormatsByType lists the export formats Drive offers for each Google
// Workspace native type, in the order they are presented to users
var exportFormatsByType = map[string][]ExportFormat{
	DocumentMimeType: {
		{Name: "pdf", Mime: "application/pdf"},
		{Name: "docx", Mime: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{Name: "txt", Mime: "text/plain"},
		{Name: "html", Mime: "text/html"},
		{Name: "zip", Mime: "application/zip"},
		{Name: "epub", Mime: "application/epub+zip"},
		{Name: "rtf", Mime: "application/rtf"},
		{Name: "odt", Mime: "application/vnd.oasis.opendocument.text"},
	},
	SpreadsheetMimeType: {
		{Name: "pdf", Mime: "application/pdf"},
		{Name: "xlsx", Mime: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{Name: "csv", Mime: "text/csv"},
		{Name: "zip", Mime: "application/zip"},
		{Name: "ods", Mime: "application/vnd.oasis.opendocument.spreadsheet"},
	},
	PresentationMimeType: {
		{Name: "pdf", Mime: "application/pdf"},
		{Name: "pptx", Mime: "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
		{Name: "txt", Mime: "text/plain"},
		{Name: "odp", Mime: "application/vnd.oasis.opendocument.presentation"},
	},
}

// ExportFormatsFor returns the export formats available for a Google
// Workspace MIME type. Returns nil for types that cannot be exported.
func ExportFormatsFor(mimeType string) []ExportFormat {
	return exportFormatsByType[mimeType]
}

// NativeExportMime returns the Office MIME type used when downloading a
// Google Workspace native file as a regular file: Docs become .docx,
// Sheets become .xlsx and Slides become .pptx.
func NativeExportMime(mimeType string) (string, bool) {
	switch mimeType {
	case DocumentMimeType:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document", true
	case SpreadsheetMimeType:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true
	case PresentationMimeType:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation", true
	}
	return "", false
}

// Client wraps the Google Drive API service for a single account
type Client struct {
	service *drive.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccountWithProvider creates a new Drive client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	httpClient, err := google.GetHTTPClientForProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Drive client with OAuth2 authentication
// for a specific account, reading credentials from the on-disk store
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Drive client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// NewClientWithService wraps an existing Drive service. Tests use this to
// point the client at a stub backend.
func NewClientWithService(svc *drive.Service, account string) *Client {
	return &Client{
		service: svc,
		account: account,
	}
}

// ListSharedDrives lists the shared drives (Team Drives) the user has access to
func (c *Client) ListSharedDrives(ctx context.Context, pageSize int64) ([]*drive.Drive, error) {
	call := c.service.Drives.List().
		Context(ctx).
		Fields("drives(id, name)")
	if pageSize > 0 {
		call = call.PageSize(pageSize)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list shared drives: %w", err)
	}

	return res.Drives, nil
}

// ListFiles lists files in the user's Drive or a shared drive. The folder
// filter and free-form query from the options are combined into a single
// Drive query; trashed files are excluded unless IncludeTrashed is set.
func (c *Client) ListFiles(ctx context.Context, options *ListOptions) ([]*FileInfo, error) {
	if options == nil {
		options = &ListOptions{}
	}

	var parts []string
	if options.FolderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", options.FolderID))
	}
	if options.Query != "" {
		parts = append(parts, options.Query)
	}

	call := c.service.Files.List().
		Context(ctx).
		Fields("files(id, name, mimeType, modifiedTime, size, webViewLink)")

	if q := buildListFilesQuery(strings.Join(parts, " and "), options.IncludeTrashed); q != "" {
		call = call.Q(q)
	}

	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	call = call.PageSize(pageSize)

	orderBy := options.OrderBy
	if orderBy == "" {
		orderBy = "modifiedTime desc"
	}
	call = call.OrderBy(orderBy)

	if options.DriveID != "" {
		call = call.DriveId(options.DriveID).
			Corpora("drive").
			IncludeItemsFromAllDrives(true).
			SupportsAllDrives(true)
	} else {
		call = call.Corpora("user")
	}

	fileList, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, nil
}

// ListTrashedFiles lists the files currently in the trash, most recently
// trashed first
func (c *Client) ListTrashedFiles(ctx context.Context, pageSize int64) ([]*FileInfo, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	fileList, err := c.service.Files.List().
		Context(ctx).
		Q("trashed=true").
		PageSize(pageSize).
		Fields("files(id, name, mimeType, trashedTime, webViewLink)").
		OrderBy("trashedTime desc").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed files: %w", err)
	}

	files := make([]*FileInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		files[i] = convertToFileInfo(f)
	}

	return files, nil
}

// GetFileMetadata retrieves detailed metadata for a file
func (c *Client) GetFileMetadata(ctx context.Context, fileID, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	call := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("id, name, mimeType, size, description, createdTime, modifiedTime, owners, webViewLink, webContentLink, starred, trashed")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	file, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return convertToFileInfo(file), nil
}

// CreateFolder creates a new folder
func (c *Client) CreateFolder(ctx context.Context, name, parentID, driveID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	call := c.service.Files.Create(file).
		Context(ctx).
		Fields("id, name, webViewLink")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	folder, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return convertToFileInfo(folder), nil
}

// UploadFile uploads content as a new file
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}
	if options == nil {
		options = &UploadOptions{}
	}

	file := &drive.File{Name: name}
	if options.ParentID != "" {
		file.Parents = []string{options.ParentID}
	}

	call := c.service.Files.Create(file).
		Context(ctx).
		Fields("id, name, webViewLink")
	if options.MimeType != "" {
		call = call.Media(content, googleapi.ContentType(options.MimeType))
	} else {
		call = call.Media(content)
	}
	if options.DriveID != "" {
		call = call.SupportsAllDrives(true)
	}

	uploaded, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return convertToFileInfo(uploaded), nil
}

// DeleteFile permanently deletes a file or folder
func (c *Client) DeleteFile(ctx context.Context, fileID, driveID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	call := c.service.Files.Delete(fileID).Context(ctx)
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	if err := call.Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}

	return nil
}

// CopyFile copies a file under a new name, optionally into a different folder
func (c *Client) CopyFile(ctx context.Context, fileID, newName, parentID, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	body := &drive.File{Name: newName}
	if parentID != "" {
		body.Parents = []string{parentID}
	}

	call := c.service.Files.Copy(fileID, body).
		Context(ctx).
		Fields("id, name")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	copied, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to copy file %s: %w", fileID, err)
	}

	return convertToFileInfo(copied), nil
}

// MoveFile moves a file to a different folder, detaching it from all of its
// current parents
func (c *Client) MoveFile(ctx context.Context, fileID, newParentID, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if newParentID == "" {
		return nil, fmt.Errorf("newParentID is required")
	}

	getCall := c.service.Files.Get(fileID).
		Context(ctx).
		Fields("parents")
	if driveID != "" {
		getCall = getCall.SupportsAllDrives(true)
	}

	current, err := getCall.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get parents of file %s: %w", fileID, err)
	}

	call := c.service.Files.Update(fileID, nil).
		Context(ctx).
		AddParents(newParentID).
		RemoveParents(strings.Join(current.Parents, ",")).
		Fields("id, name, parents")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	moved, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move file %s: %w", fileID, err)
	}

	return convertToFileInfo(moved), nil
}

// RenameFile renames a file or folder
func (c *Client) RenameFile(ctx context.Context, fileID, newName, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if newName == "" {
		return nil, fmt.Errorf("newName is required")
	}

	call := c.service.Files.Update(fileID, &drive.File{Name: newName}).
		Context(ctx).
		Fields("id, name")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	renamed, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to rename file %s: %w", fileID, err)
	}

	return convertToFileInfo(renamed), nil
}

// UpdateDescription sets a file's description
func (c *Client) UpdateDescription(ctx context.Context, fileID, description, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	call := c.service.Files.Update(fileID, &drive.File{Description: description}).
		Context(ctx).
		Fields("id, name, description")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	updated, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update description of file %s: %w", fileID, err)
	}

	return convertToFileInfo(updated), nil
}

// StarFile stars or unstars a file
func (c *Client) StarFile(ctx context.Context, fileID string, starred bool, driveID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	// ForceSendFields makes sure starred=false survives JSON encoding
	update := &drive.File{
		Starred:         starred,
		ForceSendFields: []string{"Starred"},
	}

	call := c.service.Files.Update(fileID, update).Context(ctx)
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("failed to update starred state of file %s: %w", fileID, err)
	}

	return nil
}

// RestoreFile restores a file from the trash
func (c *Client) RestoreFile(ctx context.Context, fileID, driveID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	update := &drive.File{
		Trashed:         false,
		ForceSendFields: []string{"Trashed"},
	}

	call := c.service.Files.Update(fileID, update).
		Context(ctx).
		Fields("id, name")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	restored, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to restore file %s: %w", fileID, err)
	}

	return convertToFileInfo(restored), nil
}

// EmptyTrash permanently deletes all files in the trash
func (c *Client) EmptyTrash(ctx context.Context) error {
	if err := c.service.Files.EmptyTrash().Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to empty trash: %w", err)
	}
	return nil
}

// DownloadFile downloads the content of a file. Google Workspace native
// files cannot be downloaded directly, so they are transparently exported
// to the matching Office format (see NativeExportMime). The caller must
// close the returned reader.
func (c *Client) DownloadFile(ctx context.Context, fileID, driveID string) (*FileInfo, io.ReadCloser, error) {
	if fileID == "" {
		return nil, nil, fmt.Errorf("fileID is required")
	}

	meta, err := c.GetFileMetadata(ctx, fileID, driveID)
	if err != nil {
		return nil, nil, err
	}

	var resp *http.Response
	if exportMime, ok := NativeExportMime(meta.MimeType); ok {
		resp, err = c.service.Files.Export(fileID, exportMime).Context(ctx).Download()
	} else {
		call := c.service.Files.Get(fileID).Context(ctx)
		if driveID != "" {
			call = call.SupportsAllDrives(true)
		}
		resp, err = call.Download()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}

	return meta, resp.Body, nil
}

// ExportContent exports a Google Workspace native file to the given MIME
// type. The caller must close the returned reader.
func (c *Client) ExportContent(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	resp, err := c.service.Files.Export(fileID, mimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to export file %s: %w", fileID, err)
	}

	return resp.Body, nil
}

// CreateShortcut creates a shortcut pointing at another file or folder
func (c *Client) CreateShortcut(ctx context.Context, name, targetFileID, parentID, driveID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("shortcut name is required")
	}
	if targetFileID == "" {
		return nil, fmt.Errorf("targetFileID is required")
	}

	file := &drive.File{
		Name:     name,
		MimeType: ShortcutMimeType,
		ShortcutDetails: &drive.FileShortcutDetails{
			TargetId: targetFileID,
		},
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	call := c.service.Files.Create(file).
		Context(ctx).
		Fields("id, name, shortcutDetails")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	shortcut, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create shortcut: %w", err)
	}

	return convertToFileInfo(shortcut), nil
}

// ShareFile creates a permission on a file. Both regular grants (user,
// group, domain) and "anyone with the link" grants go through here.
func (c *Client) ShareFile(ctx context.Context, fileID string, options *ShareOptions) (*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if options == nil {
		return nil, fmt.Errorf("share options are required")
	}
	if options.Type == "" {
		return nil, fmt.Errorf("permission type is required")
	}
	if options.Role == "" {
		return nil, fmt.Errorf("permission role is required")
	}

	permission := &drive.Permission{
		Type: options.Type,
		Role: options.Role,
	}
	if options.EmailAddress != "" {
		permission.EmailAddress = options.EmailAddress
	}
	if options.Domain != "" {
		permission.Domain = options.Domain
	}

	call := c.service.Permissions.Create(fileID, permission).
		Context(ctx).
		Fields("id, type, role, emailAddress, domain, displayName")

	// The API rejects notification settings for anyone grants, so the
	// parameter is only sent when a notification was requested.
	if options.SendNotificationEmail {
		call = call.SendNotificationEmail(true)
		if options.EmailMessage != "" {
			call = call.EmailMessage(options.EmailMessage)
		}
	}
	if options.DriveID != "" {
		call = call.SupportsAllDrives(true)
	}

	created, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to share file %s: %w", fileID, err)
	}

	return convertToPermission(created), nil
}

// ListPermissions lists all permissions for a file
func (c *Client) ListPermissions(ctx context.Context, fileID, driveID string) ([]*Permission, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	call := c.service.Permissions.List(fileID).
		Context(ctx).
		Fields("permissions(id, type, role, emailAddress, domain, displayName)")
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	permList, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	permissions := make([]*Permission, len(permList.Permissions))
	for i, p := range permList.Permissions {
		permissions[i] = convertToPermission(p)
	}

	return permissions, nil
}

// RemovePermission removes a permission from a file
func (c *Client) RemovePermission(ctx context.Context, fileID, permissionID, driveID string) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}
	if permissionID == "" {
		return fmt.Errorf("permissionID is required")
	}

	call := c.service.Permissions.Delete(fileID, permissionID).Context(ctx)
	if driveID != "" {
		call = call.SupportsAllDrives(true)
	}

	if err := call.Do(); err != nil {
		return fmt.Errorf("failed to remove permission: %w", err)
	}

	return nil
}

// ListRevisions lists the version history of a file. Only files with binary
// content and Google Workspace native files keep revisions.
func (c *Client) ListRevisions(ctx context.Context, fileID string) ([]*RevisionInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	revList, err := c.service.Revisions.List(fileID).
		Context(ctx).
		Fields("revisions(id, modifiedTime, lastModifyingUser, size)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions of file %s: %w", fileID, err)
	}

	revisions := make([]*RevisionInfo, len(revList.Revisions))
	for i, r := range revList.Revisions {
		revisions[i] = convertToRevisionInfo(r)
	}

	return revisions, nil
}

// buildListFilesQuery combines the caller's query with the trashed filter.
// Trashed files are excluded unless explicitly requested.
func buildListFilesQuery(userQuery string, includeTrashed bool) string {
	if includeTrashed {
		return userQuery
	}
	if userQuery == "" {
		return "trashed=false"
	}
	return fmt.Sprintf("(%s) and trashed=false", userQuery)
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		Description:    f.Description,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
		Parents:        f.Parents,
		Shared:         f.Shared,
		Starred:        f.Starred,
		Trashed:        f.Trashed,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}
	if f.TrashedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.TrashedTime); err == nil {
			fileInfo.TrashedTime = &t
		}
	}

	if f.ShortcutDetails != nil {
		fileInfo.ShortcutTarget = f.ShortcutDetails.TargetId
	}

	// Convert owners
	for _, owner := range f.Owners {
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
			PhotoLink:    owner.PhotoLink,
		})
	}

	return fileInfo
}

// convertToPermission converts a Drive API Permission to our Permission type
func convertToPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}

// convertToRevisionInfo converts a Drive API Revision to our RevisionInfo type
func convertToRevisionInfo(r *drive.Revision) *RevisionInfo {
	info := &RevisionInfo{
		ID:   r.Id,
		Size: r.Size,
	}

	if r.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, r.ModifiedTime); err == nil {
			info.ModifiedTime = t
		}
	}

	if u := r.LastModifyingUser; u != nil {
		name := u.DisplayName
		if name == "" {
			name = u.EmailAddress
		}
		if name == "" {
			name = "Unknown"
		}
		info.ModifiedBy = name
	}

	return info
}
