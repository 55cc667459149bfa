// Package gmail_tools provides MCP (Model Context Protocol) tools for interacting with Gmail.
//
// This package exposes Gmail functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Messages:
//   - gmail_search: Search the mailbox with Gmail query syntax
//   - gmail_read: Read a single message with its full body
//   - gmail_mark_read / gmail_mark_unread, gmail_archive / gmail_move_to_inbox,
//     gmail_star / gmail_unstar, gmail_mark_important / gmail_mark_not_important:
//     flip a single state flag on a message
//   - gmail_delete / gmail_untrash / gmail_permanently_delete: trash lifecycle
//   - gmail_add_label / gmail_remove_label: attach or detach a label
//   - gmail_batch_modify / gmail_batch_delete: the same operations across many
//     messages, with per-message success reporting
//
// Composing:
//   - gmail_send, gmail_reply, gmail_forward, gmail_send_with_attachment
//
// Organization:
//   - gmail_list_labels, gmail_create_label, gmail_delete_label
//   - gmail_create_filter, gmail_list_filters, gmail_delete_filter
//   - gmail_list_threads, gmail_get_thread
//   - gmail_list_drafts, gmail_create_draft, gmail_send_draft, gmail_delete_draft
//
// Attachments:
//   - gmail_list_attachments: List all attachments in a message
//   - gmail_get_attachment: Download an attachment to a local file
//   - gmail_extract_doc_links: Find Google Docs/Drive links in a message body
//
// Newsletter hygiene:
//   - gmail_get_unsubscribe_info, gmail_unsubscribe_via_http
//
// All tools require an authenticated Gmail client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
// Tools that mutate the mailbox are not registered when the server runs in
// read-only mode.
//
// Security Considerations:
//   - Attachment size is limited to 25MB (MaxAttachmentSize)
//   - Filenames are sanitized to prevent path traversal attacks
//   - OAuth2 tokens are securely stored and refreshed automatically
package gmail_tools
