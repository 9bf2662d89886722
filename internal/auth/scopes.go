package auth

// DefaultScopes are the Microsoft Graph OAuth scopes required for full MCP
// functionality. These scopes are used consistently across the application.
//
// The scopes provide access to:
//   - Outlook mail: read, send, manage folders
//   - Calendar: full access
//   - Contacts: full access
//   - OneDrive files: full access
var DefaultScopes = []string{
	// OpenID Connect scopes (required for user info and refresh tokens)
	"openid",
	"email",
	"offline_access",
	"https://graph.microsoft.com/User.Read",

	// Outlook mail scopes
	"https://graph.microsoft.com/Mail.ReadWrite",
	"https://graph.microsoft.com/Mail.Send",

	// Calendar scope
	"https://graph.microsoft.com/Calendars.ReadWrite",

	// Contacts scope
	"https://graph.microsoft.com/Contacts.ReadWrite",

	// OneDrive scope
	"https://graph.microsoft.com/Files.ReadWrite",
}
