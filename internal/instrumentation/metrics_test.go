package instrumentation

import (
	"context"
	"testing"
	"time"
)

// newTestMetrics builds a live Metrics instance through a prometheus-backed
// provider. Recording through the real SDK catches instrument registration
// mistakes that a mock meter would hide.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		DetailedLabels:  detailedLabels,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("provider returned nil metrics")
	}
	return metrics, ctx
}

func TestMetricsRecordHTTPRequest(t *testing.T) {
	metrics, ctx := newTestMetrics(t, false)

	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetricsRecordGoogleAPIOperation(t *testing.T) {
	metrics, ctx := newTestMetrics(t, false)

	metrics.RecordGoogleAPIOperation(ctx, ServiceGmail, "list", StatusSuccess, 200*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, "create", StatusError, 500*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceDrive, "get", StatusSuccess, 100*time.Millisecond)
}

func TestMetricsRecordOAuthOutcomes(t *testing.T) {
	metrics, ctx := newTestMetrics(t, false)

	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)

	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultFailure)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultExpired)

	metrics.RecordSSOTokenInjection(ctx, SSOInjectionResultStored)
	metrics.RecordSSOTokenInjection(ctx, SSOInjectionResultNoToken)
}

func TestMetricsRecordToolInvocation(t *testing.T) {
	metrics, ctx := newTestMetrics(t, false)

	metrics.RecordToolInvocation(ctx, "gmail_search_messages", StatusSuccess, "", 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "calendar_create_event", StatusError, "", 500*time.Millisecond)

	// Without detailedLabels the account value must be silently dropped.
	metrics.RecordToolInvocation(ctx, "gmail_search_messages", StatusSuccess, "user@example.com", 100*time.Millisecond)
}

func TestMetricsRecordToolInvocationDetailedLabels(t *testing.T) {
	metrics, ctx := newTestMetrics(t, true)

	metrics.RecordToolInvocation(ctx, "gmail_search_messages", StatusSuccess, "user@example.com", 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "gmail_search_messages", StatusSuccess, "", 100*time.Millisecond)
}

func TestMetricsActiveSessions(t *testing.T) {
	metrics, ctx := newTestMetrics(t, false)

	metrics.IncrementActiveSessions(ctx)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}

func TestMetricsZeroValueIsNoop(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("disabled provider must still return usable metrics")
	}

	// Every recorder must tolerate uninitialized instruments.
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordGoogleAPIOperation(ctx, ServiceGmail, "list", StatusSuccess, 200*time.Millisecond)
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthTokenRefresh(ctx, OAuthResultSuccess)
	metrics.RecordSSOTokenInjection(ctx, SSOInjectionResultStored)
	metrics.RecordToolInvocation(ctx, "test_tool", StatusSuccess, "user@example.com", 100*time.Millisecond)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}
