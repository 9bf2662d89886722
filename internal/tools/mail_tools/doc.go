// Package mail_tools provides MCP (Model Context Protocol) tools for interacting with Outlook mail.
//
// This package exposes mail functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Reading:
//   - mail_list_messages: List messages in a folder, optionally filtered by search text or unread state
//   - mail_get_message: Read the full body of a message
//   - mail_list_folders: List the account's mail folders
//   - mail_list_attachments: List all attachments on a message
//   - mail_get_attachment: Retrieve attachment content (base64 or text)
//
// Writing (skipped in read-only mode):
//   - mail_send_message: Send a new message
//   - mail_move_messages: Move messages to another folder
//   - mail_delete_messages: Delete messages
//   - mail_mark_read: Mark a message as read or unread
//
// All tools require an authenticated mail client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
package mail_tools
