// Package contact_tools provides MCP (Model Context Protocol) tools for interacting with Outlook contacts.
//
// This package exposes contact functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Reading:
//   - contact_list_contacts: List contacts ordered by display name
//   - contact_search_contacts: Search contacts by free text
//   - contact_get_contact: Read a single contact
//
// Writing (skipped in read-only mode):
//   - contact_create_contact: Create a contact
//   - contact_update_contact: Update fields on an existing contact
//   - contact_delete_contact: Delete a contact
//
// All tools require an authenticated contacts client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
package contact_tools
