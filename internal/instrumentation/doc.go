// Package instrumentation wires OpenTelemetry metrics, tracing, and audit
// logging into the workspace-mcp server.
//
// A Provider owns the SDK pipelines. It is built once at startup from a
// Config (usually DefaultConfig, which reads the OTEL_* environment) and
// hands out the pieces the rest of the server records through: a Metrics
// instance, a tracer, and the Prometheus scrape handler when that exporter
// is selected. A disabled Provider hands out no-op recorders, so call
// sites never branch on whether telemetry is on.
//
// # Metric series
//
// HTTP transport:
//   - http_requests_total, http_request_duration_seconds
//   - active_sessions
//
// Outbound Google API calls, labeled by service and operation:
//   - google_api_operations_total, google_api_operation_duration_seconds
//
// OAuth flows:
//   - oauth_auth_total, oauth_token_refresh_total, sso_token_injections_total
//
// MCP tools, labeled by tool name and status:
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds
//
// # Tracing
//
// StartToolSpan opens a tool.<name> server span per MCP invocation and
// StartGoogleAPISpan a google.<service>.<operation> client span per
// upstream call. Sampling follows OTEL_TRACES_SAMPLER_ARG (default 0.1).
//
// # Audit logging
//
// AuditLogger emits one structured line per tool invocation. By default
// user identity is reduced to the email domain; AUDIT_LOGGING_INCLUDE_PII
// switches to full addresses for deployments whose log pipeline can carry
// them.
//
// Typical startup:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	metrics := provider.Metrics()
//	metrics.RecordToolInvocation(ctx, "gmail_search_messages", instrumentation.StatusSuccess, "", time.Since(start))
package instrumentation
