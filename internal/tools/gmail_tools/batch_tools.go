package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/batch"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// splitCommaList splits a comma-separated list, trimming whitespace and
// dropping empty entries
func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseMessageIDs accepts the message_ids argument as a comma-separated
// string or an array of IDs and returns the flattened list
func parseMessageIDs(param any) ([]string, error) {
	values, err := batch.ParseStringOrArray(param, "message_ids")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, v := range values {
		ids = append(ids, splitCommaList(v)...)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("message_ids cannot be empty")
	}
	return ids, nil
}

// registerBatchTools registers the multi-message tools. Each message is
// processed individually so one failure does not abort the rest.
func registerBatchTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	modifyTool := mcp.NewTool("gmail_batch_modify",
		mcp.WithDescription("Modify multiple messages at once. message_ids: comma-separated IDs. Labels: comma-separated label IDs."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.Description("Comma-separated message IDs to modify"),
		),
		mcp.WithString("add_labels",
			mcp.Description("Comma-separated label IDs to add (optional)"),
		),
		mcp.WithString("remove_labels",
			mcp.Description("Comma-separated label IDs to remove (optional)"),
		),
	)

	s.AddTool(modifyTool, common.InstrumentedToolHandlerWithService(
		"gmail_batch_modify", "gmail", "modify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			ids, err := parseMessageIDs(args["message_ids"])
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			addLabels, _ := args["add_labels"].(string)
			removeLabels, _ := args["remove_labels"].(string)
			addIDs := splitCommaList(addLabels)
			removeIDs := splitCommaList(removeLabels)
			if len(addIDs) == 0 && len(removeIDs) == 0 {
				return mcp.NewToolResultError("At least one of add_labels or remove_labels must be specified"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(ids, func(id string) (string, error) {
				if err := client.ModifyMessage(ctx, id, addIDs, removeIDs); err != nil {
					return "", err
				}
				return "Labels updated", nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	deleteTool := mcp.NewTool("gmail_batch_delete",
		mcp.WithDescription("Permanently delete multiple messages at once. message_ids: comma-separated IDs. WARNING: Cannot be undone!"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_ids",
			mcp.Required(),
			mcp.Description("Comma-separated message IDs to permanently delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService(
		"gmail_batch_delete", "gmail", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			ids, err := parseMessageIDs(args["message_ids"])
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results := batch.ProcessBatch(ids, func(id string) (string, error) {
				if err := client.DeleteMessage(ctx, id); err != nil {
					return "", err
				}
				return "Permanently deleted", nil
			})

			return mcp.NewToolResultText(batch.FormatResults(results)), nil
		}))

	return nil
}
