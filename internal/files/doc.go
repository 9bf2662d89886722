// Package files provides a client for a user's OneDrive files via the
// Microsoft Graph API.
//
// This package enables file management operations including:
//   - Listing folder contents
//   - Searching files by free text
//   - Reading item metadata
//   - Downloading and uploading file content
//   - Creating folders
//   - Deleting items
//
// The client supports multi-account functionality. Each client instance is
// bound to a specific account; requests are executed through the shared
// graph request layer, which handles authentication, retries, and paging.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := files.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List the drive root
//	items, err := client.ListChildren(ctx, "", 0)
package files
