// Package calendar_tools provides MCP (Model Context Protocol) tools for interacting with Outlook calendars.
//
// This package exposes calendar functionality through MCP tools that can be called by
// AI agents or other MCP clients. It provides capabilities for:
//
// Reading:
//   - calendar_list_events: List events in a time window, expanding recurring events
//   - calendar_get_event: Read a single event with attendees and response status
//   - calendar_list_calendars: List the account's calendars
//
// Writing (skipped in read-only mode):
//   - calendar_create_event: Create an event, optionally as a Teams meeting
//   - calendar_respond_to_event: Accept, decline or tentatively accept an invitation
//   - calendar_delete_event: Delete an event
//
// All tools require an authenticated calendar client which is provided through the
// server context. The client handles OAuth2 authentication and token management.
package calendar_tools
