// Package mail provides a client for a user's mailbox via the Microsoft
// Graph API.
//
// This package supports the common mailbox operations:
//   - Listing and searching messages in a folder
//   - Reading a single message
//   - Sending mail
//   - Moving and deleting messages
//   - Listing mail folders
//   - Listing and downloading attachments
//
// The client supports multi-account functionality. Each client instance is
// bound to a specific account; requests are executed through the shared
// graph request layer, which handles authentication, retries, and paging.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := mail.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	messages, err := client.ListMessages(ctx, mail.ListOptions{
//	    Folder:     "inbox",
//	    MaxResults: 25,
//	})
package mail
