// Package contacts provides a client for a user's contacts via the
// Microsoft Graph API.
//
// This package supports listing, searching, reading, creating, updating,
// and deleting personal contacts. The client supports multi-account
// functionality; each client instance is bound to a specific account, and
// requests are executed through the shared graph request layer, which
// handles authentication, retries, and paging.
package contacts
