package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the workspace-mcp application.
var rootCmd = &cobra.Command{
	Use:   "workspace-mcp",
	Short: "MCP server for Google Workspace",
	Long: `workspace-mcp exposes Google Workspace (Gmail, Drive, Docs, Sheets,
Slides, Calendar, Forms, Chat, Tasks) as Model Context Protocol tools
for AI assistants.

It can run over stdio for local clients or over HTTP with OAuth 2.1
authentication for deployed instances. Use 'auth' to store credentials
for the stdio transport and 'serve' to start the server.`,
	SilenceUsage: true,
}

// version is set by main at build time.
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "workspace-mcp version %s\n" .Version}}`)

	// Running without a subcommand starts the server on stdio, which is
	// what MCP client configurations expect from a bare invocation.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
