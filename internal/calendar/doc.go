// Package calendar provides a client for interacting with calendars via the
// Microsoft Graph API.
//
// This package offers functionality for managing calendars and calendar
// events, including creating, reading, and deleting events, responding to
// invitations, and listing events in a time window (with recurring events
// expanded to their occurrences, the way the calendar view works).
//
// The client supports multi-account functionality. Each client instance is
// bound to a specific account; requests are executed through the shared
// graph request layer, which handles authentication, retries, and paging.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List upcoming events
//	events, err := client.ListEvents(ctx, calendar.ListOptions{
//	    Start: time.Now(),
//	    End:   time.Now().AddDate(0, 0, 7),
//	})
package calendar
