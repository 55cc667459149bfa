package google

// DefaultOAuthScopes are the Google OAuth scopes requested during
// authentication. Stored credentials are expected to carry all of them;
// every service client in this module operates within this set.
//
// The scopes provide access to:
//   - Gmail: read, modify, labels, send, basic settings
//   - Google Drive: full access (also used to create Docs, Sheets and Slides)
//   - Google Docs, Sheets, Slides, Forms: full document access
//   - Google Tasks: full access
//   - Google Calendar: full access
//   - Google Chat: spaces, messages, memberships
var DefaultOAuthScopes = []string{
	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.labels",
	"https://www.googleapis.com/auth/gmail.settings.basic",

	// Google Drive scope (covers file management for all document types)
	"https://www.googleapis.com/auth/drive",

	// Document editing scopes
	"https://www.googleapis.com/auth/documents",
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/presentations",
	"https://www.googleapis.com/auth/forms.body",
	"https://www.googleapis.com/auth/forms.responses.readonly",

	// Google Tasks scope
	"https://www.googleapis.com/auth/tasks",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",

	// Google Chat scopes
	"https://www.googleapis.com/auth/chat.spaces",
	"https://www.googleapis.com/auth/chat.messages",
	"https://www.googleapis.com/auth/chat.memberships",

	// Identifies the authenticated account so credentials can be
	// stored under the user's e-mail address
	"https://www.googleapis.com/auth/userinfo.email",
}
