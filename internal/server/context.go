package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/workspace-tools/workspace-mcp/internal/calendar"
	"github.com/workspace-tools/workspace-mcp/internal/chat"
	"github.com/workspace-tools/workspace-mcp/internal/docs"
	"github.com/workspace-tools/workspace-mcp/internal/drive"
	"github.com/workspace-tools/workspace-mcp/internal/forms"
	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/google"
	"github.com/workspace-tools/workspace-mcp/internal/instrumentation"
	"github.com/workspace-tools/workspace-mcp/internal/sheets"
	"github.com/workspace-tools/workspace-mcp/internal/slides"
	"github.com/workspace-tools/workspace-mcp/internal/tasks"
)

// ServerContext holds the shared state for the MCP server: per-account
// Google service clients, the token provider they authenticate through,
// and optional instrumentation.
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	tokenProvider google.TokenProvider

	// Per-account client caches, one map per Google service
	gmailClients    map[string]*gmail.Client
	driveClients    map[string]*drive.Client
	calendarClients map[string]*calendar.Client
	docsClients     map[string]*docs.Client
	sheetsClients   map[string]*sheets.Client
	slidesClients   map[string]*slides.Client
	formsClients    map[string]*forms.Client
	chatClients     map[string]*chat.Client
	tasksClients    map[string]*tasks.Client

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context that resolves tokens from
// the on-disk credential store
func NewServerContext(ctx context.Context) *ServerContext {
	return NewServerContextWithProvider(ctx, google.NewFileTokenProvider())
}

// NewServerContextWithProvider creates a new server context with a custom
// token provider. HTTP transports use this to resolve tokens from the OAuth
// session store instead of the filesystem.
func NewServerContextWithProvider(ctx context.Context, provider google.TokenProvider) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		tokenProvider:   provider,
		gmailClients:    make(map[string]*gmail.Client),
		driveClients:    make(map[string]*drive.Client),
		calendarClients: make(map[string]*calendar.Client),
		docsClients:     make(map[string]*docs.Client),
		sheetsClients:   make(map[string]*sheets.Client),
		slidesClients:   make(map[string]*slides.Client),
		formsClients:    make(map[string]*forms.Client),
		chatClients:     make(map[string]*chat.Client),
		tasksClients:    make(map[string]*tasks.Client),
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// TokenProvider returns the token provider used to authenticate Google
// service clients
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.tokenProvider
}

// SetMetrics sets the metrics recorder for tool instrumentation
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil if instrumentation is not
// configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// AuditLogger returns the audit logger, or nil if audit logging is not
// configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// GmailClientForAccount returns the Gmail client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	if !gmail.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := gmail.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Gmail client", "account", account, "error", err)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount(google.DefaultAccount)
}

// SetGmailClientForAccount sets the Gmail client for a specific account
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// DriveClientForAccount returns the Drive client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DriveClientForAccount(account string) *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.driveClients[account]; ok {
		return client
	}

	if !drive.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := drive.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Drive client", "account", account, "error", err)
		return nil
	}

	sc.driveClients[account] = client
	return client
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() *drive.Client {
	return sc.DriveClientForAccount(google.DefaultAccount)
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// CalendarClientForAccount returns the Calendar client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	if !calendar.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := calendar.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Calendar client", "account", account, "error", err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount(google.DefaultAccount)
}

// SetCalendarClientForAccount sets the Calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// DocsClientForAccount returns the Docs client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) DocsClientForAccount(account string) *docs.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.docsClients[account]; ok {
		return client
	}

	if !docs.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := docs.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Docs client", "account", account, "error", err)
		return nil
	}

	sc.docsClients[account] = client
	return client
}

// DocsClient returns the Docs client for the default account
func (sc *ServerContext) DocsClient() *docs.Client {
	return sc.DocsClientForAccount(google.DefaultAccount)
}

// SetDocsClientForAccount sets the Docs client for a specific account
func (sc *ServerContext) SetDocsClientForAccount(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
}

// SheetsClientForAccount returns the Sheets client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) SheetsClientForAccount(account string) *sheets.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.sheetsClients[account]; ok {
		return client
	}

	if !sheets.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := sheets.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Sheets client", "account", account, "error", err)
		return nil
	}

	sc.sheetsClients[account] = client
	return client
}

// SheetsClient returns the Sheets client for the default account
func (sc *ServerContext) SheetsClient() *sheets.Client {
	return sc.SheetsClientForAccount(google.DefaultAccount)
}

// SetSheetsClientForAccount sets the Sheets client for a specific account
func (sc *ServerContext) SetSheetsClientForAccount(account string, client *sheets.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sheetsClients[account] = client
}

// SlidesClientForAccount returns the Slides client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) SlidesClientForAccount(account string) *slides.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.slidesClients[account]; ok {
		return client
	}

	if !slides.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := slides.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Slides client", "account", account, "error", err)
		return nil
	}

	sc.slidesClients[account] = client
	return client
}

// SlidesClient returns the Slides client for the default account
func (sc *ServerContext) SlidesClient() *slides.Client {
	return sc.SlidesClientForAccount(google.DefaultAccount)
}

// SetSlidesClientForAccount sets the Slides client for a specific account
func (sc *ServerContext) SetSlidesClientForAccount(account string, client *slides.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.slidesClients[account] = client
}

// FormsClientForAccount returns the Forms client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) FormsClientForAccount(account string) *forms.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.formsClients[account]; ok {
		return client
	}

	if !forms.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := forms.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Forms client", "account", account, "error", err)
		return nil
	}

	sc.formsClients[account] = client
	return client
}

// FormsClient returns the Forms client for the default account
func (sc *ServerContext) FormsClient() *forms.Client {
	return sc.FormsClientForAccount(google.DefaultAccount)
}

// SetFormsClientForAccount sets the Forms client for a specific account
func (sc *ServerContext) SetFormsClientForAccount(account string, client *forms.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.formsClients[account] = client
}

// ChatClientForAccount returns the Chat client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) ChatClientForAccount(account string) *chat.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.chatClients[account]; ok {
		return client
	}

	if !chat.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := chat.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Chat client", "account", account, "error", err)
		return nil
	}

	sc.chatClients[account] = client
	return client
}

// ChatClient returns the Chat client for the default account
func (sc *ServerContext) ChatClient() *chat.Client {
	return sc.ChatClientForAccount(google.DefaultAccount)
}

// SetChatClientForAccount sets the Chat client for a specific account
func (sc *ServerContext) SetChatClientForAccount(account string, client *chat.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.chatClients[account] = client
}

// TasksClientForAccount returns the Tasks client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) TasksClientForAccount(account string) *tasks.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.tasksClients[account]; ok {
		return client
	}

	if !tasks.HasTokenForAccountWithProvider(account, sc.tokenProvider) {
		return nil
	}

	client, err := tasks.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	if err != nil {
		slog.Warn("failed to create Tasks client", "account", account, "error", err)
		return nil
	}

	sc.tasksClients[account] = client
	return client
}

// TasksClient returns the Tasks client for the default account
func (sc *ServerContext) TasksClient() *tasks.Client {
	return sc.TasksClientForAccount(google.DefaultAccount)
}

// SetTasksClientForAccount sets the Tasks client for a specific account
func (sc *ServerContext) SetTasksClientForAccount(account string, client *tasks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tasksClients[account] = client
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. Safe to call more than once.
func (sc *ServerContext) Shutdown() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return
	}

	sc.shutdown = true
	sc.cancel()
}
