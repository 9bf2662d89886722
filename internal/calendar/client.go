package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/graph"
)

// Client provides access to a single account's calendars
type Client struct {
	graph   *graph.Client
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider auth.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return HasTokenForAccountWithProvider(account, auth.NewFileTokenProvider())
}

// NewClientForAccountWithProvider creates a new calendar client for a
// specific account. The OAuth token is retrieved from the provided token
// provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider auth.TokenProvider) (*Client, error) {
	return NewClientForAccountWithConfig(ctx, account, tokenProvider, graph.DefaultConfig())
}

// NewClientForAccountWithConfig creates a new calendar client with an
// explicit request layer configuration.
func NewClientForAccountWithConfig(ctx context.Context, account string, tokenProvider auth.TokenProvider, cfg graph.Config) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	if _, err := tokenProvider.GetTokenForAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to get Graph token for account %s: %w", account, err)
	}

	gc, err := graph.New(tokenProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	return &Client{
		graph:   gc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new calendar client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, auth.NewFileTokenProvider())
}

// NewClient creates a new calendar client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListEvents lists events in the calendar view between opts.Start and
// opts.End, with recurring events expanded to their occurrences. Results
// are ordered by start time.
func (c *Client) ListEvents(ctx context.Context, opts ListOptions) ([]Event, error) {
	if opts.Start.IsZero() || opts.End.IsZero() {
		return nil, fmt.Errorf("start and end times are required")
	}

	path := "/me/calendarView"
	if opts.CalendarID != "" {
		path = "/me/calendars/" + url.PathEscape(opts.CalendarID) + "/calendarView"
	}

	params := map[string]string{
		"startDateTime": opts.Start.UTC().Format(time.RFC3339),
		"endDateTime":   opts.End.UTC().Format(time.RFC3339),
		"$orderby":      "start/dateTime",
		"$top":          "50",
	}

	records, err := c.graph.List(ctx, path, c.account, params, opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]Event, 0, len(records))
	for _, rec := range records {
		var e Event
		if err := json.Unmarshal(rec, &e); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, e)
	}
	return events, nil
}

// GetEvent retrieves a specific event by ID
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me/events/" + url.PathEscape(eventID),
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	var e Event
	if err := json.Unmarshal(env.Raw, &e); err != nil {
		return nil, fmt.Errorf("failed to decode event: %w", err)
	}
	return &e, nil
}

// CreateEvent creates a new calendar event and returns the created event
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	path := "/me/events"
	if input.TimeZone == "" {
		input.TimeZone = "UTC"
	}

	contentType := "text"
	if input.BodyHTML {
		contentType = "html"
	}

	event := map[string]any{
		"subject": input.Subject,
		"body": map[string]any{
			"contentType": contentType,
			"content":     input.Body,
		},
		"start": eventTime(input.Start, input.TimeZone, input.IsAllDay),
		"end":   eventTime(input.End, input.TimeZone, input.IsAllDay),
	}
	if input.IsAllDay {
		event["isAllDay"] = true
	}
	if input.Location != "" {
		event["location"] = map[string]any{"displayName": input.Location}
	}
	if len(input.Attendees) > 0 {
		attendees := make([]map[string]any, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = map[string]any{
				"emailAddress": map[string]any{"address": email},
				"type":         "required",
			}
		}
		event["attendees"] = attendees
	}
	if input.IsOnline {
		event["isOnlineMeeting"] = true
		event["onlineMeetingProvider"] = "teamsForBusiness"
	}

	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    path,
		Account: c.account,
		Body:    event,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	var created Event
	if err := json.Unmarshal(env.Raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created event: %w", err)
	}
	return &created, nil
}

// eventTime builds a Graph dateTimeTimeZone value. All-day events carry the
// date at midnight.
func eventTime(t time.Time, timeZone string, allDay bool) map[string]any {
	if allDay {
		return map[string]any{
			"dateTime": t.Format("2006-01-02") + "T00:00:00",
			"timeZone": timeZone,
		}
	}
	return map[string]any{
		"dateTime": t.Format("2006-01-02T15:04:05"),
		"timeZone": timeZone,
	}
}

// Invitation responses accepted by RespondToEvent.
const (
	ResponseAccept    = "accept"
	ResponseDecline   = "decline"
	ResponseTentative = "tentativelyAccept"
)

// RespondToEvent responds to an event invitation. The response must be one
// of ResponseAccept, ResponseDecline, or ResponseTentative. The organizer is
// notified; an optional comment is included in the response.
func (c *Client) RespondToEvent(ctx context.Context, eventID, response, comment string) error {
	switch response {
	case ResponseAccept, ResponseDecline, ResponseTentative:
	default:
		return fmt.Errorf("invalid response %q", response)
	}

	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    "/me/events/" + url.PathEscape(eventID) + "/" + response,
		Account: c.account,
		Body: map[string]any{
			"comment":      comment,
			"sendResponse": true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to respond to event: %w", err)
	}
	return nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "DELETE",
		Path:    "/me/events/" + url.PathEscape(eventID),
		Account: c.account,
	})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListCalendars lists all calendars accessible to the account
func (c *Client) ListCalendars(ctx context.Context) ([]Calendar, error) {
	records, err := c.graph.List(ctx, "/me/calendars", c.account, map[string]string{"$top": "50"}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	calendars := make([]Calendar, 0, len(records))
	for _, rec := range records {
		var cal Calendar
		if err := json.Unmarshal(rec, &cal); err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		calendars = append(calendars, cal)
	}
	return calendars, nil
}
