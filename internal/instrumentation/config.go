package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Metric label values shared across recorders.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"
	OAuthResultExpired = "expired"
)

// Google service label values, one per Workspace service this server
// exposes tools for.
const (
	ServiceGmail    = "gmail"
	ServiceDrive    = "drive"
	ServiceDocs     = "docs"
	ServiceSheets   = "sheets"
	ServiceSlides   = "slides"
	ServiceCalendar = "calendar"
	ServiceForms    = "forms"
	ServiceChat     = "chat"
	ServiceTasks    = "tasks"
)

// Exporter selector values for Config.
const (
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)

// Config selects how telemetry leaves the process.
type Config struct {
	ServiceName       string // reported service.name (default workspace-mcp)
	ServiceVersion    string
	ServiceInstanceID string // defaults to the hostname, i.e. the pod name on Kubernetes
	K8sNamespace      string
	K8sPodName        string

	// Enabled gates all collection; off means no-op recorders everywhere.
	Enabled bool

	MetricsExporter string // prometheus, otlp, or stdout
	TracingExporter string // otlp, stdout, or none

	// OTLPEndpoint is host:port without a scheme; required for either
	// OTLP exporter. OTLPInsecure disables TLS and is for local
	// development only.
	OTLPEndpoint string
	OTLPInsecure bool

	// TraceSamplingRate is the head-sampling ratio in [0,1].
	TraceSamplingRate float64

	// DetailedLabels admits high-cardinality label values (full account
	// names). Keep off in production.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig controls the tool-invocation audit trail.
type AuditLoggingConfig struct {
	Enabled bool

	// IncludePII switches audit lines from domain-anonymized identity to
	// full email addresses. Only enable when the log destination has
	// matching access controls.
	IncludePII bool
}

// DefaultConfig reads the standard OTEL_* environment plus this server's
// own toggles, falling back to prometheus metrics, no tracing, 10% head
// sampling, and anonymized audit logging.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envString("OTEL_SERVICE_NAME", "workspace-mcp"),
		ServiceVersion:    "unknown",
		ServiceInstanceID: os.Getenv("OTEL_SERVICE_INSTANCE_ID"),
		K8sNamespace:      envString("K8S_NAMESPACE", os.Getenv("POD_NAMESPACE")),
		K8sPodName:        envString("K8S_POD_NAME", os.Getenv("HOSTNAME")),
		Enabled:           envBool("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   envString("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:   envString("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:      os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:      envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: envFloat("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    envBool("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    envBool("AUDIT_LOGGING_ENABLED", true),
			IncludePII: envBool("AUDIT_LOGGING_INCLUDE_PII", false),
		},
	}
}

// Validate rejects exporter selections NewProvider could not honor.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}
	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
