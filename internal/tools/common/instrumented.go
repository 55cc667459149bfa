package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/workspace-tools/workspace-mcp/internal/instrumentation"
	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// ToolHandlerFunc is the mcp-go handler signature every tool in this repo
// implements.
type ToolHandlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a handler with invocation timing, the
// mcp_tool_* metrics, and audit logging. With no recorder and no audit
// logger configured the handler runs untouched.
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService additionally attributes the invocation
// to a Google service and operation, feeding the google_api_* metrics so
// per-service usage and latency are visible alongside the per-tool series.
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, serviceName, operation, sc, handler)
}

func instrumented(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		start := time.Now()
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(spanCtx)
		if serviceName != "" {
			invocation = invocation.WithService(serviceName, operation)
		}
		account := GetAccountFromArgs(ctx, request.GetArguments())
		if account != "" {
			invocation = invocation.WithAccount(account)
			span.SetAttributes(attribute.String(instrumentation.SpanAttrAccount, account))
		}

		result, err := handler(spanCtx, request)
		duration := time.Since(start)

		// A handler that returns an error result (IsError) counts as a
		// failure even though the Go error is nil; that is this repo's
		// convention for surfacing API failures to MCP clients.
		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, account, duration)
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}
		return result, err
	}
}
