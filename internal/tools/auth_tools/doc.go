// Package auth_tools provides MCP tools for Microsoft OAuth authentication.
//
// This package registers OAuth-related tools that allow AI assistants to:
//   - Get the OAuth authorization URL for Microsoft Graph
//   - Save the OAuth authorization code to complete authentication
//
// These tools manage a unified OAuth token that provides access to all
// Microsoft 365 services used by graphdesk: mail, calendar, contacts and
// OneDrive files.
//
// The OAuth flow:
//  1. Check if a token exists (automatic)
//  2. If not, call graph_get_auth_url to get the authorization URL
//  3. User visits the URL and authorizes access
//  4. User provides the authorization code
//  5. Call graph_save_auth_code with the code to save the token
//
// Once authenticated, all service tools work with the saved token, which is
// automatically refreshed as needed.
package auth_tools
