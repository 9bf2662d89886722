package common

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/graphdesk/graphdesk/internal/auth"
)

// MissingAuthResult builds the tool error returned when no OAuth token
// exists for an account. It walks the user through the authorization flow.
func MissingAuthResult(account string) *mcp.CallToolResult {
	msg := fmt.Sprintf(`Microsoft OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Microsoft account
3. Grant access to the requested permissions (Mail, Calendars, Contacts, Files)
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the graph_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, auth.GetAuthURL(), account)
	return mcp.NewToolResultError(msg)
}
