package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
)

// toolCategories maps tool name prefixes to section headings, in the order
// the sections appear in the generated document.
var toolCategories = []struct {
	prefix  string
	heading string
}{
	{"gmail", "Gmail Tools"},
	{"drive", "Google Drive Tools"},
	{"docs", "Google Docs Tools"},
	{"sheets", "Google Sheets Tools"},
	{"slides", "Google Slides Tools"},
	{"calendar", "Google Calendar Tools"},
	{"forms", "Google Forms Tools"},
	{"chat", "Google Chat Tools"},
	{"tasks", "Google Tasks Tools"},
}

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGenerateDocs(outputFile string) error {
	// Doc generation never talks to Google, it only introspects the
	// registered tool definitions
	serverContext := server.NewServerContext(context.Background())
	defer serverContext.Shutdown()

	mcpSrv := mcpserver.NewMCPServer("workspace-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register everything, including write tools, so the reference is complete
	if err := registerAllTools(mcpSrv, serverContext, false); err != nil {
		return err
	}

	tools := make([]mcp.Tool, 0)
	for _, serverTool := range mcpSrv.ListTools() {
		tools = append(tools, serverTool.Tool)
	}

	markdown := renderToolsReference(tools)

	if outputFile == "" {
		fmt.Print(markdown)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

func categoryHeading(toolName string) string {
	prefix, _, _ := strings.Cut(toolName, "_")
	for _, c := range toolCategories {
		if c.prefix == prefix {
			return c.heading
		}
	}
	return "Other"
}

func renderToolsReference(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, tool := range tools {
		heading := categoryHeading(tool.Name)
		byCategory[heading] = append(byCategory[heading], tool)
	}

	// Categories render in declaration order, with a trailing Other bucket
	// for anything unrecognized.
	headings := make([]string, 0, len(toolCategories)+1)
	for _, c := range toolCategories {
		if len(byCategory[c.heading]) > 0 {
			headings = append(headings, c.heading)
		}
	}
	if len(byCategory["Other"]) > 0 {
		headings = append(headings, "Other")
	}

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running workspace-mcp as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Table of Contents\n\n")
	for _, heading := range headings {
		anchor := strings.ToLower(strings.ReplaceAll(heading, " ", "-"))
		fmt.Fprintf(&sb, "- [%s](#%s)\n", heading, anchor)
	}
	sb.WriteString("\n")

	sb.WriteString("## Multi-Account Support\n\n")
	sb.WriteString("All tools support an optional `account` parameter to specify which Google account to use:\n\n")
	sb.WriteString("- **Default behavior:** If `account` is not specified, the `default` account is used\n")
	sb.WriteString("- **Multiple accounts:** You can manage multiple Google accounts (e.g., `work`, `personal`)\n")
	sb.WriteString("- **Per-tool specification:** Each tool call can use a different account\n\n")

	for _, heading := range headings {
		categoryTools := byCategory[heading]
		sort.Slice(categoryTools, func(i, j int) bool {
			return categoryTools[i].Name < categoryTools[j].Name
		})

		fmt.Fprintf(&sb, "## %s\n\n", heading)
		for _, tool := range categoryTools {
			writeToolSection(&sb, tool)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeToolSection(sb *strings.Builder, tool mcp.Tool) {
	fmt.Fprintf(sb, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", tool.Description)
	}

	if len(tool.InputSchema.Properties) == 0 {
		return
	}
	sb.WriteString("**Arguments:**\n")

	names := make([]string, 0, len(tool.InputSchema.Properties))
	for name := range tool.InputSchema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		schema, ok := tool.InputSchema.Properties[name].(map[string]interface{})
		if !ok {
			continue
		}

		requirement := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			requirement = "required"
		}

		description, _ := schema["description"].(string)
		if description == "" {
			propType := "any"
			if t, ok := schema["type"].(string); ok {
				propType = t
			}
			description = propType + " parameter"
		}
		fmt.Fprintf(sb, "- `%s` (%s): %s\n", name, requirement, description)
	}
	sb.WriteString("\n")
}
