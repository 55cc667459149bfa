package drive

import "time"

// FileInfo is the metadata subset of a Drive file or folder this package
// exposes to callers
type FileInfo struct {
	// ID is the file's unique Drive identifier
	ID string `json:"id"`

	// Name is the file name
	Name string `json:"name"`

	// MimeType is the file's MIME type
	MimeType string `json:"mimeType"`

	// Size in bytes (not populated for folders or Google Workspace
	// native files)
	Size int64 `json:"size,omitempty"`

	// Description is a short description of the file
	Description string `json:"description,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink opens the file in the matching Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// WebContentLink downloads the raw content (absent for folders)
	WebContentLink string `json:"webContentLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	// Owners are the file's owners
	Owners []User `json:"owners,omitempty"`

	// Shared reports whether the file is shared with anyone
	Shared bool `json:"shared"`

	// Starred reports whether the user has starred the file
	Starred bool `json:"starred"`

	// ShortcutTarget is the ID of the file a shortcut points to (shortcuts only)
	ShortcutTarget string `json:"shortcutTarget,omitempty"`

	// TrashedTime is when the file was trashed (if trashed)
	TrashedTime *time.Time `json:"trashedTime,omitempty"`

	// Trashed reports whether the file sits in the trash
	Trashed bool `json:"trashed"`
}

// User identifies a Drive user in owner and permission listings
type User struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	PhotoLink    string `json:"photoLink,omitempty"`
}

// Permission is one grant on a file
type Permission struct {
	// ID is the permission's identifier, needed to update or revoke it
	ID string `json:"id"`

	// Type is the grantee kind: "user", "group", "domain", or "anyone"
	Type string `json:"type"`

	// Role granted: "owner", "organizer", "fileOrganizer", "writer",
	// "commenter", or "reader"
	Role string `json:"role"`

	// EmailAddress of the user or group grantee
	EmailAddress string `json:"emailAddress,omitempty"`

	// Domain of a domain grantee
	Domain string `json:"domain,omitempty"`

	// DisplayName of the user or group grantee
	DisplayName string `json:"displayName,omitempty"`
}

// RevisionInfo is a single entry in a file's version history
type RevisionInfo struct {
	// ID is the revision's identifier
	ID string `json:"id"`

	// ModifiedTime is when the revision was created
	ModifiedTime time.Time `json:"modifiedTime"`

	// ModifiedBy is the display name or email of the user who made the
	// revision (empty when Drive does not report one)
	ModifiedBy string `json:"modifiedBy,omitempty"`

	// Size of the revision in bytes (zero for Google Workspace native files)
	Size int64 `json:"size,omitempty"`
}

// ListOptions filters and shapes a file listing
type ListOptions struct {
	// FolderID restricts results to direct children of this folder
	FolderID string

	// Query filters results with Drive's query language.
	// See https://developers.google.com/drive/api/guides/search-files
	// Examples:
	//   "name contains 'report'"
	//   "mimeType='application/pdf'"
	//   "'me' in owners"
	Query string

	// DriveID lists files from the given shared drive instead of the
	// user's own corpus
	DriveID string

	// PageSize caps the number of files returned (max 1000)
	PageSize int64

	// OrderBy sets the sort order. Defaults to "modifiedTime desc".
	OrderBy string

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool
}

// UploadOptions shapes a file upload
type UploadOptions struct {
	// ParentID is the destination folder
	ParentID string

	// DriveID marks the upload as targeting a shared drive
	DriveID string

	// MimeType of the content (e.g., "application/pdf"). Drive detects
	// it when unset.
	MimeType string
}

// ShareOptions describes the permission to grant when sharing a file
type ShareOptions struct {
	// Type is the grantee kind: "user", "group", "domain", or "anyone"
	Type string

	// Role to grant: "owner", "organizer", "fileOrganizer", "writer",
	// "commenter", or "reader"
	Role string

	// EmailAddress is required when Type is "user" or "group"
	EmailAddress string

	// Domain is required when Type is "domain"
	Domain string

	// DriveID marks the file as living on a shared drive
	DriveID string

	// SendNotificationEmail sends the grantee a notification. Only
	// valid for user and group grantees.
	SendNotificationEmail bool

	// EmailMessage is a custom message for the notification email
	EmailMessage string
}
