package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Shared metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrResult    = "result"
	attrTool      = "tool"
	attrAccount   = "account"
)

// Result values recorded by RecordSSOTokenInjection.
const (
	SSOInjectionResultNoUser      = "no_user"
	SSOInjectionResultNoToken     = "no_token"
	SSOInjectionResultStoreFailed = "store_failed"
	SSOInjectionResultStored      = "stored"
)

// Metrics records the server's operational series: HTTP traffic, outbound
// Google API calls, OAuth outcomes, and MCP tool invocations. The zero value
// is a safe no-op, which is what a disabled Provider hands out.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram
	activeSessions      metric.Int64UpDownCounter

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	oauthAuthTotal          metric.Int64Counter
	oauthTokenRefreshTotal  metric.Int64Counter
	ssoTokenInjectionsTotal metric.Int64Counter

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels admits the account label on tool series. High
	// cardinality, so off by default.
	detailedLabels bool
}

// Histogram bucket boundaries in seconds. Local HTTP handling is fast, so
// its buckets start finer; anything calling out to Google gets the wider
// set that tops out at 30s.
var (
	httpBuckets     = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
	upstreamBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

func newCounter(meter metric.Meter, name, description, unit string) (metric.Int64Counter, error) {
	counter, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", name, err)
	}
	return counter, nil
}

func newHistogram(meter metric.Meter, name, description string, buckets []float64) (metric.Float64Histogram, error) {
	histogram, err := meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", name, err)
	}
	return histogram, nil
}

// NewMetrics registers every instrument on the given meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	var err error
	if m.httpRequestsTotal, err = newCounter(meter,
		"http_requests_total", "Total number of HTTP requests", "{request}"); err != nil {
		return nil, err
	}
	if m.httpRequestDuration, err = newHistogram(meter,
		"http_request_duration_seconds", "HTTP request duration in seconds", httpBuckets); err != nil {
		return nil, err
	}
	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	if m.googleAPIOperationsTotal, err = newCounter(meter,
		"google_api_operations_total", "Total number of Google API operations", "{operation}"); err != nil {
		return nil, err
	}
	if m.googleAPIOperationDuration, err = newHistogram(meter,
		"google_api_operation_duration_seconds", "Google API operation duration in seconds", upstreamBuckets); err != nil {
		return nil, err
	}

	if m.oauthAuthTotal, err = newCounter(meter,
		"oauth_auth_total", "Total number of OAuth authentication attempts", "{attempt}"); err != nil {
		return nil, err
	}
	if m.oauthTokenRefreshTotal, err = newCounter(meter,
		"oauth_token_refresh_total", "Total number of OAuth token refresh attempts", "{attempt}"); err != nil {
		return nil, err
	}
	if m.ssoTokenInjectionsTotal, err = newCounter(meter,
		"sso_token_injections_total", "Total number of SSO forwarded token injection attempts", "{attempt}"); err != nil {
		return nil, err
	}

	if m.toolInvocationsTotal, err = newCounter(meter,
		"mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"); err != nil {
		return nil, err
	}
	if m.toolDuration, err = newHistogram(meter,
		"mcp_tool_duration_seconds", "MCP tool execution duration in seconds", upstreamBuckets); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordHTTPRequest counts one served HTTP request and its latency.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation counts one outbound Workspace API call. Service
// takes a Service* constant, operation the verb performed (list, get,
// create, send), and status StatusSuccess or StatusError.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOAuthAuth counts one token lookup with an OAuthResult* outcome.
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return
	}
	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordOAuthTokenRefresh counts one refresh attempt with an OAuthResult*
// outcome. OAuthResultExpired means the token was expired with no refresh
// token to recover it.
func (m *Metrics) RecordOAuthTokenRefresh(ctx context.Context, result string) {
	if m.oauthTokenRefreshTotal == nil {
		return
	}
	m.oauthTokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordSSOTokenInjection counts one forwarded-token injection attempt with
// an SSOInjectionResult* outcome.
func (m *Metrics) RecordSSOTokenInjection(ctx context.Context, result string) {
	if m.ssoTokenInjectionsTotal == nil {
		return
	}
	m.ssoTokenInjectionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}

// RecordToolInvocation counts one MCP tool call and its latency. The account
// label is only emitted under detailedLabels; pass "" when no account
// applies.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}
	set := metric.WithAttributes(attrs...)
	m.toolInvocationsTotal.Add(ctx, 1, set)
	m.toolDuration.Record(ctx, duration.Seconds(), set)
}

// IncrementActiveSessions marks one session opened.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions != nil {
		m.activeSessions.Add(ctx, 1)
	}
}

// DecrementActiveSessions marks one session closed.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions != nil {
		m.activeSessions.Add(ctx, -1)
	}
}
