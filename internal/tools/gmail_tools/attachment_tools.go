package gmail_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspace-tools/workspace-mcp/internal/gmail"
	"github.com/workspace-tools/workspace-mcp/internal/server"
	"github.com/workspace-tools/workspace-mcp/internal/tools/common"
)

// registerAttachmentTools registers attachment inspection and download tools.
// Downloads write to the local filesystem only, never to the mailbox, so the
// whole group is available in read-only mode.
func registerAttachmentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("gmail_list_attachments",
		mcp.WithDescription("List all attachments in a Gmail message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"gmail_list_attachments", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			attachments, err := client.ListAttachments(ctx, messageID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
			}

			if len(attachments) == 0 {
				return mcp.NewToolResultText("No attachments found in message"), nil
			}

			type attachmentOutput struct {
				AttachmentID string `json:"attachmentId"`
				Filename     string `json:"filename"`
				MimeType     string `json:"mimeType"`
				Size         int64  `json:"size"`
				SizeHuman    string `json:"sizeHuman"`
			}

			outputs := make([]attachmentOutput, len(attachments))
			for i, att := range attachments {
				outputs[i] = attachmentOutput{
					AttachmentID: att.AttachmentID,
					Filename:     att.Filename,
					MimeType:     att.MimeType,
					Size:         att.Size,
					SizeHuman:    formatSize(att.Size),
				}
			}

			jsonBytes, err := json.MarshalIndent(outputs, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Found %d attachment(s):\n%s", len(attachments), string(jsonBytes))), nil
		}))

	getTool := mcp.NewTool("gmail_get_attachment",
		mcp.WithDescription("Download an email attachment. Use gmail_read to see attachment IDs."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
		mcp.WithString("attachment_id",
			mcp.Required(),
			mcp.Description("The ID of the attachment"),
		),
		mcp.WithString("destination_path",
			mcp.Required(),
			mcp.Description("File path to save the attachment to. If it names a directory, the attachment's own filename is used."),
		),
	)

	s.AddTool(getTool, common.InstrumentedToolHandlerWithService(
		"gmail_get_attachment", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}
			attachmentID, ok := args["attachment_id"].(string)
			if !ok || attachmentID == "" {
				return mcp.NewToolResultError("attachment_id is required"), nil
			}
			destination, ok := args["destination_path"].(string)
			if !ok || destination == "" {
				return mcp.NewToolResultError("destination_path is required"), nil
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			data, size, err := client.DownloadAttachment(ctx, messageID, attachmentID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get attachment: %v", err)), nil
			}

			if info, err := os.Stat(destination); err == nil && info.IsDir() {
				destination = filepath.Join(destination, attachmentFilename(ctx, client, messageID, attachmentID))
			}

			if err := os.WriteFile(destination, data, 0o600); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to save attachment: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("✅ Attachment downloaded!\nSaved to: %s\nSize: %d bytes",
				destination, size)), nil
		}))

	extractTool := mcp.NewTool("gmail_extract_doc_links",
		mcp.WithDescription("Extract Google Docs/Drive links from a Gmail message."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("message_id",
			mcp.Required(),
			mcp.Description("The ID of the Gmail message"),
		),
		mcp.WithString("format",
			mcp.Description("Body format to search: 'text' (default) or 'html'"),
		),
	)

	s.AddTool(extractTool, common.InstrumentedToolHandlerWithService(
		"gmail_extract_doc_links", "gmail", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(ctx, args)

			messageID, ok := args["message_id"].(string)
			if !ok || messageID == "" {
				return mcp.NewToolResultError("message_id is required"), nil
			}

			format := "text"
			if v, ok := args["format"].(string); ok && v != "" {
				format = v
			}

			client, err := getGmailClient(ctx, account, sc)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			body, err := client.GetMessageBody(ctx, messageID, format)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to get message body: %v", err)), nil
			}

			docLinks := gmail.ExtractDocLinks(body)
			if len(docLinks) == 0 {
				return mcp.NewToolResultText("No Google Docs/Drive links found in message"), nil
			}

			jsonBytes, err := json.MarshalIndent(docLinks, "", "  ")
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to format output: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Found %d Google Docs/Drive link(s):\n%s", len(docLinks), string(jsonBytes))), nil
		}))

	return nil
}

// attachmentFilename resolves the stored filename of an attachment, sanitized
// for local use. Falls back to the attachment ID when the part cannot be found.
func attachmentFilename(ctx context.Context, client *gmail.Client, messageID, attachmentID string) string {
	attachments, err := client.ListAttachments(ctx, messageID)
	if err == nil {
		for _, att := range attachments {
			if att.AttachmentID == attachmentID && att.Filename != "" {
				return gmail.SanitizeFilename(att.Filename)
			}
		}
	}
	return gmail.SanitizeFilename(attachmentID)
}

// formatSize formats a byte size into human-readable format
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
