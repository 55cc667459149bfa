// Package docs_tools registers MCP tools for working with Google Docs.
//
// Document tools:
//   - docs_create: create a new document, optionally in a folder or shared drive
//   - docs_read: read a document as plain text or Markdown
//
// Text tools:
//   - docs_append_text, docs_insert_text: add text
//   - docs_replace_text: find and replace across the document
//   - docs_format_text: bold, italic, underline and font size
//   - docs_add_hyperlink: link a text range to a URL
//   - docs_delete_content: remove a content range
//
// Structure tools:
//   - docs_insert_table, docs_update_table_cell
//   - docs_insert_image, docs_add_page_break, docs_add_bookmark
//   - docs_create_bulleted_list, docs_create_numbered_list
//   - docs_set_heading_style
//
// In read-only mode only docs_read is registered.
package docs_tools
