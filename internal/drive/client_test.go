package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// newTestClient returns a Client backed by a stub HTTP server
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := drive.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(srv.URL))
	if err != nil {
		t.Fatalf("failed to create Drive service: %v", err)
	}

	return NewClientWithService(svc, "default")
}

func respondJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func TestListFilesSharedDriveParams(t *testing.T) {
	var captured url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		respondJSON(w, `{"files":[{"id":"f1","name":"plan.pdf","mimeType":"application/pdf","modifiedTime":"2024-03-01T10:00:00Z","size":"2048","webViewLink":"https://drive.google.com/file/d/f1/view"}]}`)
	}))

	files, err := client.ListFiles(context.Background(), &ListOptions{
		FolderID: "folder1",
		Query:    "name contains 'plan'",
		DriveID:  "drive9",
		PageSize: 5,
	})
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}

	if got := captured.Get("corpora"); got != "drive" {
		t.Errorf("Expected corpora drive, got %q", got)
	}
	if got := captured.Get("driveId"); got != "drive9" {
		t.Errorf("Expected driveId drive9, got %q", got)
	}
	if got := captured.Get("includeItemsFromAllDrives"); got != "true" {
		t.Errorf("Expected includeItemsFromAllDrives true, got %q", got)
	}
	if got := captured.Get("supportsAllDrives"); got != "true" {
		t.Errorf("Expected supportsAllDrives true, got %q", got)
	}
	if got := captured.Get("pageSize"); got != "5" {
		t.Errorf("Expected pageSize 5, got %q", got)
	}
	if got := captured.Get("orderBy"); got != "modifiedTime desc" {
		t.Errorf("Expected orderBy 'modifiedTime desc', got %q", got)
	}

	wantQ := "('folder1' in parents and name contains 'plan') and trashed=false"
	if got := captured.Get("q"); got != wantQ {
		t.Errorf("Expected q %q, got %q", wantQ, got)
	}

	if len(files) != 1 {
		t.Fatalf("Expected 1 file, got %d", len(files))
	}
	if files[0].Name != "plan.pdf" {
		t.Errorf("Expected name plan.pdf, got %s", files[0].Name)
	}
	if files[0].Size != 2048 {
		t.Errorf("Expected size 2048, got %d", files[0].Size)
	}
}

func TestListFilesDefaults(t *testing.T) {
	var captured url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		respondJSON(w, `{"files":[]}`)
	}))

	files, err := client.ListFiles(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected no files, got %d", len(files))
	}

	if got := captured.Get("corpora"); got != "user" {
		t.Errorf("Expected corpora user, got %q", got)
	}
	if got := captured.Get("q"); got != "trashed=false" {
		t.Errorf("Expected q trashed=false, got %q", got)
	}
	if got := captured.Get("pageSize"); got != "20" {
		t.Errorf("Expected pageSize 20, got %q", got)
	}
	if captured.Has("driveId") {
		t.Error("Expected no driveId for personal corpus listing")
	}
}

func TestMoveFileReplacesParents(t *testing.T) {
	var update url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, `{"parents":["old1","old2"]}`)
		case http.MethodPatch:
			update = r.URL.Query()
			respondJSON(w, `{"id":"f1","name":"report.pdf","parents":["new1"]}`)
		default:
			t.Errorf("Unexpected method %s", r.Method)
		}
	}))

	moved, err := client.MoveFile(context.Background(), "f1", "new1", "")
	if err != nil {
		t.Fatalf("MoveFile failed: %v", err)
	}

	if got := update.Get("addParents"); got != "new1" {
		t.Errorf("Expected addParents new1, got %q", got)
	}
	if got := update.Get("removeParents"); got != "old1,old2" {
		t.Errorf("Expected removeParents old1,old2, got %q", got)
	}
	if moved.ID != "f1" {
		t.Errorf("Expected moved file ID f1, got %s", moved.ID)
	}
}

func TestStarFileSendsExplicitFalse(t *testing.T) {
	var body string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(w, `{"id":"f1"}`)
	}))

	if err := client.StarFile(context.Background(), "f1", false, ""); err != nil {
		t.Fatalf("StarFile failed: %v", err)
	}

	if !strings.Contains(body, `"starred":false`) {
		t.Errorf("Expected request body to carry starred:false, got %s", body)
	}
}

func TestRestoreFileSendsTrashedFalse(t *testing.T) {
	var body string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		respondJSON(w, `{"id":"f1","name":"quarterly.xlsx"}`)
	}))

	restored, err := client.RestoreFile(context.Background(), "f1", "")
	if err != nil {
		t.Fatalf("RestoreFile failed: %v", err)
	}

	if !strings.Contains(body, `"trashed":false`) {
		t.Errorf("Expected request body to carry trashed:false, got %s", body)
	}
	if restored.Name != "quarterly.xlsx" {
		t.Errorf("Expected restored name quarterly.xlsx, got %s", restored.Name)
	}
}

func TestShareFileNotificationGating(t *testing.T) {
	var captured url.Values
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		respondJSON(w, `{"id":"p1","type":"anyone","role":"reader"}`)
	}))

	// Anyone grants must not carry notification parameters
	perm, err := client.ShareFile(context.Background(), "f1", &ShareOptions{
		Type: "anyone",
		Role: "reader",
	})
	if err != nil {
		t.Fatalf("ShareFile failed: %v", err)
	}
	if captured.Has("sendNotificationEmail") {
		t.Error("Expected no sendNotificationEmail for anyone grant")
	}
	if perm.Type != "anyone" {
		t.Errorf("Expected permission type anyone, got %s", perm.Type)
	}

	// User grants send the notification flag when requested
	_, err = client.ShareFile(context.Background(), "f1", &ShareOptions{
		Type:                  "user",
		Role:                  "writer",
		EmailAddress:          "someone@example.com",
		SendNotificationEmail: true,
	})
	if err != nil {
		t.Fatalf("ShareFile failed: %v", err)
	}
	if got := captured.Get("sendNotificationEmail"); got != "true" {
		t.Errorf("Expected sendNotificationEmail true, got %q", got)
	}
}

func TestDownloadFileExportsNativeDoc(t *testing.T) {
	var exportMime string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/export") {
			exportMime = r.URL.Query().Get("mimeType")
			w.Header().Set("Content-Type", "application/octet-stream")
			fmt.Fprint(w, "exported-bytes")
			return
		}
		respondJSON(w, `{"id":"doc1","name":"Notes","mimeType":"application/vnd.google-apps.document"}`)
	}))

	meta, rc, err := client.DownloadFile(context.Background(), "doc1", "")
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	defer rc.Close()

	if meta.Name != "Notes" {
		t.Errorf("Expected name Notes, got %s", meta.Name)
	}

	wantMime := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if exportMime != wantMime {
		t.Errorf("Expected export MIME %s, got %s", wantMime, exportMime)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read download: %v", err)
	}
	if string(data) != "exported-bytes" {
		t.Errorf("Expected exported-bytes, got %s", data)
	}
}

func TestConvertToFileInfo(t *testing.T) {
	createdTime := "2023-01-01T10:00:00Z"
	modifiedTime := "2023-01-02T15:30:00Z"
	trashedTime := "2023-01-03T20:00:00Z"

	driveFile := &drive.File{
		Id:             "file123",
		Name:           "test.pdf",
		MimeType:       "application/pdf",
		Size:           1024,
		Description:    "budget summary",
		CreatedTime:    createdTime,
		ModifiedTime:   modifiedTime,
		TrashedTime:    trashedTime,
		WebViewLink:    "https://drive.google.com/file/d/file123/view",
		WebContentLink: "https://drive.google.com/uc?id=file123",
		Parents:        []string{"parent1", "parent2"},
		Shared:         true,
		Starred:        true,
		Trashed:        true,
		Owners: []*drive.User{
			{
				DisplayName:  "Test User",
				EmailAddress: "test@example.com",
				PhotoLink:    "https://example.com/photo.jpg",
			},
		},
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", fileInfo.ID)
	}
	if fileInfo.Name != "test.pdf" {
		t.Errorf("Expected Name test.pdf, got %s", fileInfo.Name)
	}
	if fileInfo.MimeType != "application/pdf" {
		t.Errorf("Expected MimeType application/pdf, got %s", fileInfo.MimeType)
	}
	if fileInfo.Size != 1024 {
		t.Errorf("Expected Size 1024, got %d", fileInfo.Size)
	}
	if fileInfo.Description != "budget summary" {
		t.Errorf("Expected Description 'budget summary', got %s", fileInfo.Description)
	}
	if fileInfo.WebViewLink != "https://drive.google.com/file/d/file123/view" {
		t.Errorf("Expected WebViewLink, got %s", fileInfo.WebViewLink)
	}
	if fileInfo.WebContentLink != "https://drive.google.com/uc?id=file123" {
		t.Errorf("Expected WebContentLink, got %s", fileInfo.WebContentLink)
	}
	if !fileInfo.Shared {
		t.Error("Expected Shared to be true")
	}
	if !fileInfo.Starred {
		t.Error("Expected Starred to be true")
	}
	if !fileInfo.Trashed {
		t.Error("Expected Trashed to be true")
	}

	if len(fileInfo.Parents) != 2 {
		t.Errorf("Expected 2 parents, got %d", len(fileInfo.Parents))
	}

	expectedCreated, _ := time.Parse(time.RFC3339, createdTime)
	if !fileInfo.CreatedTime.Equal(expectedCreated) {
		t.Errorf("Expected CreatedTime %v, got %v", expectedCreated, fileInfo.CreatedTime)
	}

	expectedModified, _ := time.Parse(time.RFC3339, modifiedTime)
	if !fileInfo.ModifiedTime.Equal(expectedModified) {
		t.Errorf("Expected ModifiedTime %v, got %v", expectedModified, fileInfo.ModifiedTime)
	}

	if fileInfo.TrashedTime == nil {
		t.Error("Expected TrashedTime to be set")
	} else {
		expectedTrashed, _ := time.Parse(time.RFC3339, trashedTime)
		if !fileInfo.TrashedTime.Equal(expectedTrashed) {
			t.Errorf("Expected TrashedTime %v, got %v", expectedTrashed, *fileInfo.TrashedTime)
		}
	}

	if len(fileInfo.Owners) != 1 {
		t.Errorf("Expected 1 owner, got %d", len(fileInfo.Owners))
	} else {
		owner := fileInfo.Owners[0]
		if owner.DisplayName != "Test User" {
			t.Errorf("Expected owner DisplayName 'Test User', got %s", owner.DisplayName)
		}
		if owner.EmailAddress != "test@example.com" {
			t.Errorf("Expected owner EmailAddress 'test@example.com', got %s", owner.EmailAddress)
		}
	}
}

func TestConvertToFileInfo_Shortcut(t *testing.T) {
	driveFile := &drive.File{
		Id:       "sc1",
		Name:     "Link to plan",
		MimeType: ShortcutMimeType,
		ShortcutDetails: &drive.FileShortcutDetails{
			TargetId: "target42",
		},
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ShortcutTarget != "target42" {
		t.Errorf("Expected ShortcutTarget target42, got %s", fileInfo.ShortcutTarget)
	}
}

func TestConvertToFileInfo_MinimalData(t *testing.T) {
	driveFile := &drive.File{
		Id:       "file456",
		Name:     "minimal.txt",
		MimeType: "text/plain",
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file456" {
		t.Errorf("Expected ID file456, got %s", fileInfo.ID)
	}
	if fileInfo.Size != 0 {
		t.Errorf("Expected Size 0, got %d", fileInfo.Size)
	}
	if !fileInfo.CreatedTime.IsZero() {
		t.Errorf("Expected zero CreatedTime, got %v", fileInfo.CreatedTime)
	}
	if fileInfo.TrashedTime != nil {
		t.Errorf("Expected nil TrashedTime, got %v", fileInfo.TrashedTime)
	}
	if len(fileInfo.Owners) != 0 {
		t.Errorf("Expected 0 owners, got %d", len(fileInfo.Owners))
	}
}

func TestConvertToPermission(t *testing.T) {
	drivePermission := &drive.Permission{
		Id:           "perm456",
		Type:         "group",
		Role:         "writer",
		EmailAddress: "group@example.com",
		Domain:       "example.com",
		DisplayName:  "Example Group",
	}

	permission := convertToPermission(drivePermission)

	if permission.ID != "perm456" {
		t.Errorf("Expected ID perm456, got %s", permission.ID)
	}
	if permission.Type != "group" {
		t.Errorf("Expected Type group, got %s", permission.Type)
	}
	if permission.Role != "writer" {
		t.Errorf("Expected Role writer, got %s", permission.Role)
	}
	if permission.EmailAddress != "group@example.com" {
		t.Errorf("Expected EmailAddress group@example.com, got %s", permission.EmailAddress)
	}
	if permission.Domain != "example.com" {
		t.Errorf("Expected Domain example.com, got %s", permission.Domain)
	}
	if permission.DisplayName != "Example Group" {
		t.Errorf("Expected DisplayName 'Example Group', got %s", permission.DisplayName)
	}
}

func TestConvertToRevisionInfo(t *testing.T) {
	tests := []struct {
		name       string
		revision   *drive.Revision
		wantBy     string
		wantSize   int64
		wantZeroTS bool
	}{
		{
			name: "full revision",
			revision: &drive.Revision{
				Id:           "rev1",
				ModifiedTime: "2024-05-01T09:00:00Z",
				Size:         4096,
				LastModifyingUser: &drive.User{
					DisplayName:  "Editor",
					EmailAddress: "editor@example.com",
				},
			},
			wantBy:   "Editor",
			wantSize: 4096,
		},
		{
			name: "email fallback",
			revision: &drive.Revision{
				Id:                "rev2",
				ModifiedTime:      "2024-05-02T09:00:00Z",
				LastModifyingUser: &drive.User{EmailAddress: "editor@example.com"},
			},
			wantBy: "editor@example.com",
		},
		{
			name: "anonymous user",
			revision: &drive.Revision{
				Id:                "rev3",
				ModifiedTime:      "2024-05-03T09:00:00Z",
				LastModifyingUser: &drive.User{},
			},
			wantBy: "Unknown",
		},
		{
			name:       "no user, no time",
			revision:   &drive.Revision{Id: "rev4"},
			wantBy:     "",
			wantZeroTS: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := convertToRevisionInfo(tt.revision)
			if info.ID != tt.revision.Id {
				t.Errorf("Expected ID %s, got %s", tt.revision.Id, info.ID)
			}
			if info.ModifiedBy != tt.wantBy {
				t.Errorf("Expected ModifiedBy %q, got %q", tt.wantBy, info.ModifiedBy)
			}
			if info.Size != tt.wantSize {
				t.Errorf("Expected Size %d, got %d", tt.wantSize, info.Size)
			}
			if tt.wantZeroTS != info.ModifiedTime.IsZero() {
				t.Errorf("Expected zero timestamp %v, got %v", tt.wantZeroTS, info.ModifiedTime)
			}
		})
	}
}

func TestExportFormatsFor(t *testing.T) {
	docFormats := ExportFormatsFor(DocumentMimeType)
	if len(docFormats) != 8 {
		t.Fatalf("Expected 8 document export formats, got %d", len(docFormats))
	}
	if docFormats[0].Name != "pdf" || docFormats[0].Mime != "application/pdf" {
		t.Errorf("Expected pdf first, got %+v", docFormats[0])
	}
	if docFormats[1].Name != "docx" {
		t.Errorf("Expected docx second, got %s", docFormats[1].Name)
	}

	sheetFormats := ExportFormatsFor(SpreadsheetMimeType)
	if len(sheetFormats) != 5 {
		t.Fatalf("Expected 5 spreadsheet export formats, got %d", len(sheetFormats))
	}

	slideFormats := ExportFormatsFor(PresentationMimeType)
	if len(slideFormats) != 4 {
		t.Fatalf("Expected 4 presentation export formats, got %d", len(slideFormats))
	}

	if got := ExportFormatsFor("application/pdf"); got != nil {
		t.Errorf("Expected nil for non-native type, got %v", got)
	}
}

func TestNativeExportMime(t *testing.T) {
	mime, ok := NativeExportMime(SpreadsheetMimeType)
	if !ok {
		t.Fatal("Expected spreadsheet to be exportable")
	}
	if mime != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Unexpected MIME for spreadsheet: %s", mime)
	}

	if _, ok := NativeExportMime("image/png"); ok {
		t.Error("Expected regular files not to have a native export MIME")
	}
}

func TestAccount(t *testing.T) {
	client := &Client{
		account: "test-account",
	}

	if client.Account() != "test-account" {
		t.Errorf("Expected account 'test-account', got %s", client.Account())
	}
}

func TestFolderMimeType(t *testing.T) {
	expectedMimeType := "application/vnd.google-apps.folder"
	if FolderMimeType != expectedMimeType {
		t.Errorf("Expected FolderMimeType %s, got %s", expectedMimeType, FolderMimeType)
	}
}

// TestBuildListFilesQuery tests the query building logic for listing files
func TestBuildListFilesQuery(t *testing.T) {
	tests := []struct {
		name           string
		userQuery      string
		includeTrashed bool
		expected       string
	}{
		{
			name:           "user query with trashed excluded (default)",
			userQuery:      "mimeType='application/pdf'",
			includeTrashed: false,
			expected:       "(mimeType='application/pdf') and trashed=false",
		},
		{
			name:           "user query with trashed included",
			userQuery:      "mimeType='application/pdf'",
			includeTrashed: true,
			expected:       "mimeType='application/pdf'",
		},
		{
			name:           "no user query, exclude trashed (default)",
			userQuery:      "",
			includeTrashed: false,
			expected:       "trashed=false",
		},
		{
			name:           "no user query, include trashed",
			userQuery:      "",
			includeTrashed: true,
			expected:       "",
		},
		{
			name:           "complex query with name filter",
			userQuery:      "name contains 'house' or name contains 'water'",
			includeTrashed: false,
			expected:       "(name contains 'house' or name contains 'water') and trashed=false",
		},
		{
			name:           "query for folders only",
			userQuery:      "mimeType='application/vnd.google-apps.folder'",
			includeTrashed: false,
			expected:       "(mimeType='application/vnd.google-apps.folder') and trashed=false",
		},
		{
			name:           "query with multiple conditions",
			userQuery:      "mimeType='application/pdf' and name contains 'report'",
			includeTrashed: false,
			expected:       "(mimeType='application/pdf' and name contains 'report') and trashed=false",
		},
		{
			name:           "query with parentheses",
			userQuery:      "(mimeType='application/pdf' or mimeType='image/jpeg') and starred=true",
			includeTrashed: false,
			expected:       "((mimeType='application/pdf' or mimeType='image/jpeg') and starred=true) and trashed=false",
		},
		{
			name:           "query for owned files",
			userQuery:      "'me' in owners",
			includeTrashed: false,
			expected:       "('me' in owners) and trashed=false",
		},
		{
			name:           "query with date filter",
			userQuery:      "modifiedTime > '2025-01-01T00:00:00'",
			includeTrashed: false,
			expected:       "(modifiedTime > '2025-01-01T00:00:00') and trashed=false",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildListFilesQuery(tt.userQuery, tt.includeTrashed)
			if result != tt.expected {
				t.Errorf("buildListFilesQuery(%q, %v) = %q, want %q",
					tt.userQuery, tt.includeTrashed, result, tt.expected)
			}
		})
	}
}
