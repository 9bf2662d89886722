// Package file_tools provides MCP (Model Context Protocol) tools for interacting with OneDrive.
//
// This package exposes drive functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Reading:
//   - file_list_children: List the contents of a folder
//   - file_search_files: Search the drive by free text
//   - file_get_item: Read metadata for a drive item
//   - file_download_file: Download a file's content
//
// Writing (skipped in read-only mode):
//   - file_upload_file: Upload content to a drive-relative path
//   - file_delete_items: Delete one or more items
//   - file_create_folder: Create a folder
//
// All tools require an authenticated files client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
package file_tools
