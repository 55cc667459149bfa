package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/workspace-tools/workspace-mcp/internal/logging"
)

// ToolInvocation is the audit record for one MCP tool call: what ran, for
// whom, against which Google service, how long it took, and how it ended.
//
// UserEmail and Account can contain PII. LogAttrs substitutes the email
// domain so general logs stay low-cardinality; LogAuditAttrs carries the
// full identity and is only emitted when PII logging is switched on.
type ToolInvocation struct {
	Tool      string
	UserEmail string

	Account     string // credential-store account name or OAuth email
	ServiceName string // gmail, drive, docs, sheets, slides, calendar, forms, chat, tasks
	Operation   string // list, get, create, update, delete, send, search

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts the clock for a tool call. Finish it with one of
// the Complete methods before logging.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{Tool: tool, StartTime: time.Now()}
}

// WithUser records the authenticated user's email.
func (ti *ToolInvocation) WithUser(email string) *ToolInvocation {
	ti.UserEmail = email
	return ti
}

// WithAccount records the credential-store account the call acted on.
func (ti *ToolInvocation) WithAccount(account string) *ToolInvocation {
	ti.Account = account
	return ti
}

// WithService attributes the call to a Google service and operation kind.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithSpanContext copies the active span's trace and span IDs, if any, so
// audit lines can be correlated with traces.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		ti.TraceID = sc.TraceID().String()
		ti.SpanID = sc.SpanID().String()
	}
	return ti
}

// Complete stamps the duration and outcome.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation failed with err's message.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// UserDomain is the email's domain part, for low-cardinality labels.
func (ti *ToolInvocation) UserDomain() string {
	return ExtractUserDomain(ti.UserEmail)
}

// Status maps Success onto the shared status label values.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs renders the invocation for operational logs: the email reduced
// to its domain plus a stable hash, the "default" account elided, empty
// fields skipped.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("user_domain", ti.UserDomain()),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.UserEmail != "" {
		attrs = append(attrs, logging.UserHash(ti.UserEmail))
	}
	if ti.Account != "" && ti.Account != "default" {
		attrs = append(attrs, slog.String("account", ti.Account))
	}
	return append(attrs, ti.sharedAttrs(false)...)
}

// LogAuditAttrs renders the full audit form, including the user's email.
// Route logs built from these attributes to access-controlled storage.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.String("user", ti.UserEmail),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
	if ti.Account != "" {
		attrs = append(attrs, slog.String("account", ti.Account))
	}
	return append(attrs, ti.sharedAttrs(true)...)
}

// sharedAttrs appends the service/operation/trace/error fields common to
// both log forms; the span ID only appears on full audit lines.
func (ti *ToolInvocation) sharedAttrs(withSpanID bool) []slog.Attr {
	var attrs []slog.Attr
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if withSpanID && ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger writes tool-invocation records through slog, choosing the
// PII or anonymized form per its configuration.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger returns an enabled logger that anonymizes user identity.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig builds an AuditLogger from configuration. A nil
// logger falls back to slog.Default.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogToolInvocation emits one record for a finished invocation: Info
// "tool_executed" on success, Warn "tool_failed" otherwise. Disabled
// loggers drop the record entirely.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if ti.Success {
		al.logger.Info("tool_executed", args...)
	} else {
		al.logger.Warn("tool_failed", args...)
	}
}
