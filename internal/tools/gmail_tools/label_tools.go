package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	gmail_v1 "google.golang.org/api/gmail/v1"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerLabelTools registers label listing, creation and deletion
func registerLabelTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("gmail_list_labels",
		mcp.WithDescription("List all Gmail labels (both system and custom)."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_labels", "gmail", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			labels, err := client.ListLabels(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list labels: %v", err)), nil
			}

			if len(labels) == 0 {
				return mcp.NewToolResultText("No labels found."), nil
			}

			var system, custom []*gmail_v1.Label
			for _, label := range labels {
				if label.Type == "system" {
					system = append(system, label)
				} else {
					custom = append(custom, label)
				}
			}

			var out strings.Builder
			if len(system) > 0 {
				out.WriteString("📌 System Labels:\n\n")
				for _, label := range system {
					fmt.Fprintf(&out, "  %s\n    ID: %s\n\n", label.Name, label.Id)
				}
			}
			if len(custom) > 0 {
				out.WriteString("🏷️  Custom Labels:\n\n")
				for _, label := range custom {
					fmt.Fprintf(&out, "  %s\n    ID: %s\n\n", label.Name, label.Id)
				}
			}
			return mcp.NewToolResultText(out.String()), nil
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("gmail_create_label",
		mcp.WithDescription("Create a new custom label."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name for the new label"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"gmail_create_label", "gmail", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			name, ok := args["name"].(string)
			if !ok || name == "" {
				return mcp.NewToolResultError("name is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			label, err := client.CreateLabel(ctx, name)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create label: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Label created!\nName: %s\nID: %s",
				label.Name, label.Id)), nil
		}))

	deleteTool := mcp.NewTool("gmail_delete_label",
		mcp.WithDescription("Delete a custom label."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("label_id",
			mcp.Required(),
			mcp.Description("The ID of the label to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"gmail_delete_label", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			labelID, ok := args["label_id"].(string)
			if !ok || labelID == "" {
				return mcp.NewToolResultError("label_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := client.DeleteLabel(ctx, labelID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete label: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Deleted label %s", labelID)), nil
		}))

	return nil
}
