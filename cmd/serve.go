package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/instrumentation"
	"github.com/workspace-tools/workspace-mcp/internal/logging"
	"github.com/workspace-tools/workspace-mcp/internal/mcp/oauth"
	"github.com/workspace-tools/workspace-mcp/internal/resources"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/calendar_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/chat_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/docs_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/drive_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/forms_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/gmail_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/sheets_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/slides_tools"
	"github.com/workspace-tools/workspace-mcp/internal/tools/tasks_tools"
)

// serveOptions carries everything the serve command collected from flags
// and environment variables.
type serveOptions struct {
	debug            bool
	transport        string
	httpAddr         string
	yolo             bool
	disableStreaming bool
	baseURL          string

	oauth   server.OAuthConfig
	metrics server.MetricsServerConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions
	var metricsEnabled bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Workspace
tools (Gmail, Drive, Docs, Sheets, Slides, Calendar, Forms, Chat, Tasks)
for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (sending email,
  deleting files, etc.)

OAuth Configuration:
  HTTP Transports (sse, streamable-http):
    Base URL (required for deployed instances):
      --base-url https://your-domain.com OR MCP_BASE_URL env var
      Auto-detected for localhost (development only)

    Google credentials (required):
      --google-client-id and --google-client-secret flags
      OR GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET env vars

  STDIO Transport:
    Credentials are read from the local token store (see the auth command).
    GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET enable token refresh.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts.metrics.Enabled = metricsEnabled
			opts.metrics.Addr = metricsAddr
			return runServe(&opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio, sse or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", ":8080", "HTTP server address (for HTTP transports)")
	cmd.Flags().BoolVar(&opts.yolo, "yolo", false, "Enable write operations (sending email, deleting files, etc.). Default is read-only mode.")
	cmd.Flags().StringVar(&opts.oauth.GoogleClientID, "google-client-id", "", "Google OAuth Client ID. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&opts.oauth.GoogleClientSecret, "google-client-secret", "", "Google OAuth Client Secret. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().BoolVar(&opts.disableStreaming, "disable-streaming", false, "Disable streaming on the streamable-http transport (for clients that cannot consume SSE responses)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Public base URL for OAuth (HTTP transports only). Required for deployed instances. Can also use MCP_BASE_URL env var. Example: https://mcp.example.com")

	// OAuth security settings (HTTP transports only)
	cmd.Flags().BoolVar(&opts.oauth.AllowPublicClientRegistration, "oauth-allow-public-registration", false, "WARNING: Allow unauthenticated client registration (NOT recommended for production). Can also use MCP_OAUTH_ALLOW_PUBLIC_REGISTRATION env var.")
	cmd.Flags().StringVar(&opts.oauth.RegistrationAccessToken, "oauth-registration-token", "", "Registration access token required for client registration when public registration is disabled. Can also use MCP_OAUTH_REGISTRATION_TOKEN env var.")
	cmd.Flags().BoolVar(&opts.oauth.AllowInsecureAuthWithoutState, "oauth-allow-no-state", false, "WARNING: Allow authorization without state parameter (weakens CSRF protection). Can also use MCP_OAUTH_ALLOW_NO_STATE env var.")
	cmd.Flags().IntVar(&opts.oauth.MaxClientsPerIP, "oauth-max-clients-per-ip", 10, "Maximum number of clients that can be registered per IP address (prevents DoS). Can also use MCP_OAUTH_MAX_CLIENTS_PER_IP env var.")
	cmd.Flags().StringVar(&opts.oauth.EncryptionKey, "oauth-encryption-key", "", "AES-256 key for token storage at rest (32 bytes, base64 encoded). Recommended for production. Can also use MCP_OAUTH_ENCRYPTION_KEY env var. Generate with: openssl rand -base64 32")
	cmd.Flags().BoolVar(&opts.oauth.TrustProxy, "oauth-trust-proxy", false, "Trust X-Forwarded-For and X-Real-IP headers for rate limiting. Only enable behind a trusted reverse proxy. Can also use MCP_OAUTH_TRUST_PROXY env var.")

	// TLS flags for HTTPS support
	cmd.Flags().StringVar(&opts.oauth.TLSCertFile, "tls-cert-file", "", "Path to TLS certificate file (PEM). Together with --tls-key-file enables HTTPS. Can also use TLS_CERT_FILE env var.")
	cmd.Flags().StringVar(&opts.oauth.TLSKeyFile, "tls-key-file", "", "Path to TLS private key file (PEM). Together with --tls-cert-file enables HTTPS. Can also use TLS_KEY_FILE env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyServeEnv fills unset options from environment variables. Flags win
// over the environment.
func applyServeEnv(opts *serveOptions) {
	if opts.oauth.GoogleClientID == "" {
		opts.oauth.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if opts.oauth.GoogleClientSecret == "" {
		opts.oauth.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if opts.baseURL == "" {
		opts.baseURL = os.Getenv("MCP_BASE_URL")
	}

	if !opts.oauth.AllowPublicClientRegistration && os.Getenv("MCP_OAUTH_ALLOW_PUBLIC_REGISTRATION") == "true" {
		opts.oauth.AllowPublicClientRegistration = true
	}
	if opts.oauth.RegistrationAccessToken == "" {
		opts.oauth.RegistrationAccessToken = os.Getenv("MCP_OAUTH_REGISTRATION_TOKEN")
	}
	if !opts.oauth.AllowInsecureAuthWithoutState && os.Getenv("MCP_OAUTH_ALLOW_NO_STATE") == "true" {
		opts.oauth.AllowInsecureAuthWithoutState = true
	}
	if opts.oauth.EncryptionKey == "" {
		opts.oauth.EncryptionKey = os.Getenv("MCP_OAUTH_ENCRYPTION_KEY")
	}
	if !opts.oauth.TrustProxy && os.Getenv("MCP_OAUTH_TRUST_PROXY") == "true" {
		opts.oauth.TrustProxy = true
	}
	if opts.oauth.MaxClientsPerIP == 0 {
		if env := os.Getenv("MCP_OAUTH_MAX_CLIENTS_PER_IP"); env != "" {
			if n, err := strconv.Atoi(env); err == nil && n > 0 {
				opts.oauth.MaxClientsPerIP = n
			}
		}
	}

	if opts.oauth.TLSCertFile == "" {
		opts.oauth.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if opts.oauth.TLSKeyFile == "" {
		opts.oauth.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}

	if !opts.metrics.Enabled && os.Getenv("METRICS_ENABLED") == "true" {
		opts.metrics.Enabled = true
	}
	if opts.metrics.Addr == "" || opts.metrics.Addr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metrics.Addr = addr
		}
	}
}

func runServe(opts *serveOptions) error {
	logger := logging.Setup(opts.debug)

	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	applyServeEnv(opts)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Metrics live on their own listener so scrape traffic never touches
	// the OAuth-protected port. Skipped for stdio where no ports open.
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metrics.Enabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			logger.Info("metrics server listening", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// The stdio transport resolves tokens from the local filesystem store.
	// HTTP transports replace this context with one backed by the OAuth
	// session store.
	serverContext := server.NewServerContext(shutdownCtx)
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		serverContext.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	readOnly := !opts.yolo
	if opts.transport != "stdio" {
		if readOnly {
			logger.Info("starting in read-only mode (use --yolo to enable write operations)")
		} else {
			logger.Info("starting with write operations enabled")
		}
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "sse", "streamable-http":
		return runOAuthHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, provider, readOnly, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", opts.transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	if err := <-serverDone; err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers every Workspace tool family and the account
// resources on the MCP server.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	registrations := []struct {
		name     string
		register func() error
	}{
		{"Gmail", func() error { return gmail_tools.RegisterGmailTools(mcpSrv, ctx, readOnly) }},
		{"Drive", func() error { return drive_tools.RegisterDriveTools(mcpSrv, ctx, readOnly) }},
		{"Docs", func() error { return docs_tools.RegisterDocsTools(mcpSrv, ctx, readOnly) }},
		{"Sheets", func() error { return sheets_tools.RegisterSheetsTools(mcpSrv, ctx, readOnly) }},
		{"Slides", func() error { return slides_tools.RegisterSlidesTools(mcpSrv, ctx, readOnly) }},
		{"Forms", func() error { return forms_tools.RegisterFormsTools(mcpSrv, ctx, readOnly) }},
		{"Calendar", func() error { return calendar_tools.RegisterCalendarTools(mcpSrv, ctx, readOnly) }},
		{"Chat", func() error { return chat_tools.RegisterChatTools(mcpSrv, ctx, readOnly) }},
		{"Tasks", func() error { return tasks_tools.RegisterTasksTools(mcpSrv, ctx, readOnly) }},
		{"User Resources", func() error { return resources.RegisterUserResources(mcpSrv, ctx) }},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}

// resolveBaseURL picks the public base URL: explicit configuration first,
// then localhost auto-detection for development.
func resolveBaseURL(baseURL, addr string, logger *slog.Logger) string {
	if baseURL != "" {
		logger.Info("using configured base URL", "base_url", baseURL)
		return baseURL
	}

	detected := "http://" + addr
	if addr != "" && addr[0] == ':' {
		detected = "http://localhost" + addr
	}
	logger.Info("no base URL configured, auto-detected for development", "base_url", detected)
	logger.Info("for deployed instances, set --base-url or MCP_BASE_URL")
	return detected
}

func runOAuthHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, fileContext *server.ServerContext, opts *serveOptions, provider *instrumentation.Provider, readOnly bool, logger *slog.Logger) error {
	opts.oauth.BaseURL = resolveBaseURL(opts.baseURL, opts.httpAddr, logger)
	opts.oauth.DisableStreaming = opts.disableStreaming
	opts.oauth.Logger = logger
	if provider.Enabled() {
		opts.oauth.Metrics = provider.Metrics()
	}

	oauthHandler, err := server.CreateOAuthHandler(opts.oauth)
	if err != nil {
		return fmt.Errorf("failed to create OAuth handler: %w", err)
	}
	defer oauthHandler.Stop()

	var tokenProvider *oauth.TokenProvider
	if provider.Enabled() {
		tokenProvider = oauth.NewTokenProviderWithMetrics(oauthHandler.GetStore(), provider.Metrics())
	} else {
		tokenProvider = oauth.NewTokenProvider(oauthHandler.GetStore())
	}

	// Swap the file-backed context for one resolving tokens from the
	// OAuth session store, then re-register tools against it.
	fileContext.Shutdown()
	serverContext := server.NewServerContextWithProvider(ctx, tokenProvider)
	defer serverContext.Shutdown()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		auditConfig := instrumentation.AuditLoggingConfig{
			Enabled:    true,
			IncludePII: os.Getenv("AUDIT_LOGGING_INCLUDE_PII") == "true",
		}
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, auditConfig))
	}

	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	oauthServer, err := server.NewOAuthHTTPServerWithHandler(mcpSrv, opts.transport, oauthHandler, opts.oauth)
	if err != nil {
		return fmt.Errorf("failed to create OAuth HTTP server: %w", err)
	}

	healthChecker := server.NewHealthChecker(serverContext)
	healthChecker.SetSessionStats(oauthHandler.GetStore().Stats)
	oauthServer.SetHealthChecker(healthChecker)
	if provider.Enabled() {
		oauthServer.SetMetrics(provider.Metrics())
	}

	scheme := "http"
	if opts.oauth.TLSCertFile != "" && opts.oauth.TLSKeyFile != "" {
		scheme = "https"
	}
	logger.Info("starting MCP server",
		logging.Transport(opts.transport),
		"addr", opts.httpAddr,
		"scheme", scheme,
		"base_url", opts.oauth.BaseURL,
	)
	switch opts.transport {
	case "sse":
		logger.Info("MCP endpoints: /sse, /message")
	case "streamable-http":
		logger.Info("MCP endpoint: /mcp")
	}
	logger.Info("health endpoints: /healthz, /readyz")
	logger.Info("OAuth metadata: /.well-known/oauth-protected-resource")
	logger.Info("clients must authenticate with Google OAuth to access this server")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := oauthServer.Start(opts.httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		// Fail readiness first so load balancers drain before the
		// listener closes.
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := oauthServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server stopped")
	return nil
}
