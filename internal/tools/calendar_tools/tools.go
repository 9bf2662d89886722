package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/graphdesk/graphdesk/internal/calendar"
	"github.com/graphdesk/graphdesk/internal/instrumentation"
	"github.com/graphdesk/graphdesk/internal/server"
	"github.com/graphdesk/graphdesk/internal/tools/common"
)

// clientForAccount returns the calendar client for an account, creating it
// on first use. A non-nil result is returned when the account is not usable.
func clientForAccount(ctx context.Context, sc *server.ServerContext, account string) (*calendar.Client, *mcp.CallToolResult) {
	if client := sc.CalendarClientForAccount(account); client != nil {
		return client, nil
	}

	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, common.MissingAuthResult(account)
	}

	client, err := calendar.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create calendar client for account %s: %v", account, err))
	}
	sc.SetCalendarClientForAccount(account, client)
	return client, nil
}

func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	s.AddTool(tool, common.InstrumentedToolHandlerWithService(tool.Name, instrumentation.ServiceCalendar, operation, sc, handler))
}

// RegisterCalendarTools registers all calendar-related tools with the MCP
// server. Write operations are skipped when readOnly is set.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List calendar events in a time window, with recurring events expanded"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID. Empty uses the default calendar."),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Window start in RFC 3339 format (e.g., '2025-03-01T00:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Window end in RFC 3339 format"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 50)"),
		),
	)
	addTool(s, sc, listEventsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListEvents(ctx, request, sc)
	})

	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Read a single calendar event"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event"),
		),
	)
	addTool(s, sc, getEventTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetEvent(ctx, request, sc)
	})

	listCalendarsTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List the account's calendars"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
	)
	addTool(s, sc, listCalendarsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListCalendars(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a calendar event, optionally with attendees and an online meeting"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("body",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Event start in RFC 3339 format"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Event end in RFC 3339 format"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the event (default: UTC)"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create an all-day event"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee address (string) or array of addresses"),
		),
		mcp.WithBoolean("online",
			mcp.Description("Attach an online meeting to the event"),
		),
	)
	addTool(s, sc, createEventTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateEvent(ctx, request, sc)
	})

	respondTool := mcp.NewTool("calendar_respond_to_event",
		mcp.WithDescription("Respond to an event invitation (accept, decline, or tentativelyAccept)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event"),
		),
		mcp.WithString("response",
			mcp.Required(),
			mcp.Description("One of 'accept', 'decline', 'tentativelyAccept'"),
		),
		mcp.WithString("comment",
			mcp.Description("Optional comment sent with the response"),
		),
	)
	addTool(s, sc, respondTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRespondToEvent(ctx, request, sc)
	})

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)
	addTool(s, sc, deleteEventTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteEvent(ctx, request, sc)
	})

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	start, err := parseTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := parseTimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := calendar.ListOptions{
		Start:      start,
		End:        end,
		MaxResults: 50,
	}
	if calendarID, ok := args["calendarId"].(string); ok {
		opts.CalendarID = calendarID
	}
	if maxResults, ok := args["maxResults"].(float64); ok && maxResults > 0 {
		opts.MaxResults = int(maxResults)
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	events, err := client.ListEvents(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list events: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d events:\n", len(events))
	for i, e := range events {
		when := "all day"
		if e.Start != nil && !e.IsAllDay {
			when = e.Start.DateTime
		}
		fmt.Fprintf(&sb, "%d. %s (%s, ID: %s)\n", i+1, e.Subject, when, e.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	e, err := client.GetEvent(ctx, eventID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get event: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s\n", e.Subject)
	if e.Start != nil && e.End != nil {
		fmt.Fprintf(&sb, "When: %s to %s (%s)\n", e.Start.DateTime, e.End.DateTime, e.Start.TimeZone)
	}
	if e.Location != nil && e.Location.DisplayName != "" {
		fmt.Fprintf(&sb, "Location: %s\n", e.Location.DisplayName)
	}
	if e.Organizer != nil {
		fmt.Fprintf(&sb, "Organizer: %s\n", e.Organizer.EmailAddress.Address)
	}
	for _, a := range e.Attendees {
		status := ""
		if a.Status != nil {
			status = " (" + a.Status.Response + ")"
		}
		fmt.Fprintf(&sb, "Attendee: %s%s\n", a.EmailAddress.Address, status)
	}
	if e.OnlineMeeting != nil && e.OnlineMeeting.JoinURL != "" {
		fmt.Fprintf(&sb, "Join: %s\n", e.OnlineMeeting.JoinURL)
	}
	if e.BodyPreview != "" {
		fmt.Fprintf(&sb, "\n%s\n", e.BodyPreview)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}

	start, err := parseTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := parseTimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	input := calendar.EventInput{
		Subject: subject,
		Start:   start,
		End:     end,
	}
	if body, ok := args["body"].(string); ok {
		input.Body = body
	}
	if location, ok := args["location"].(string); ok {
		input.Location = location
	}
	if timeZone, ok := args["timeZone"].(string); ok {
		input.TimeZone = timeZone
	}
	if allDay, ok := args["allDay"].(bool); ok {
		input.IsAllDay = allDay
	}
	if online, ok := args["online"].(bool); ok {
		input.IsOnline = online
	}
	if attendeesArg, ok := args["attendees"]; ok {
		switch v := attendeesArg.(type) {
		case string:
			if v != "" {
				input.Attendees = []string{v}
			}
		case []interface{}:
			for _, item := range v {
				if addr, ok := item.(string); ok && addr != "" {
					input.Attendees = append(input.Attendees, addr)
				}
			}
		}
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	created, err := client.CreateEvent(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	result := fmt.Sprintf("Event created: %s (ID: %s)", created.Subject, created.ID)
	if created.OnlineMeeting != nil && created.OnlineMeeting.JoinURL != "" {
		result += fmt.Sprintf("\nJoin: %s", created.OnlineMeeting.JoinURL)
	}
	return mcp.NewToolResultText(result), nil
}

func handleRespondToEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}
	response, ok := args["response"].(string)
	if !ok || response == "" {
		return mcp.NewToolResultError("response is required"), nil
	}
	comment, _ := args["comment"].(string)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.RespondToEvent(ctx, eventID, response, comment); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to respond to event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Responded %q to event %s", response, eventID)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	eventID, ok := args["eventId"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteEvent(ctx, eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted", eventID)), nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendars:\n", len(calendars))
	for i, c := range calendars {
		marker := ""
		if c.IsDefaultCalendar {
			marker = " [default]"
		}
		fmt.Fprintf(&sb, "%d. %s%s (ID: %s)\n", i+1, c.Name, marker, c.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// parseTimeArg reads a required RFC 3339 timestamp argument.
func parseTimeArg(args map[string]interface{}, name string) (time.Time, error) {
	raw, ok := args[name].(string)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be in RFC 3339 format: %v", name, err)
	}
	return t, nil
}
