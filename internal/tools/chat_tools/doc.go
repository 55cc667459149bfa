// Package chat_tools registers MCP tools for working with Google Chat.
//
// Space tools:
//   - chat_list_spaces, chat_get_space
//   - chat_create_space: named spaces or group chats
//   - chat_update_space: display name and description via field masks
//   - chat_delete_space
//
// Message tools:
//   - chat_send_message: optional thread_key to reply in a thread
//   - chat_list_messages: newest first, text previews capped at 100 characters
//   - chat_get_message, chat_update_message, chat_delete_message
//
// Member tools:
//   - chat_list_members, chat_add_member (by email), chat_remove_member
//
// Reaction tools:
//   - chat_create_reaction, chat_list_reactions, chat_delete_reaction
//
// Spaces, messages, memberships and reactions are addressed by their
// resource names (spaces/AAAA, spaces/AAAA/messages/BBBB, ...), which the
// list tools print alongside each item.
//
// In read-only mode only the list and get tools are registered.
package chat_tools
