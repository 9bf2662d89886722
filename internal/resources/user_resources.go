package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/graphdesk/graphdesk/internal/server"
	"github.com/graphdesk/graphdesk/internal/tools/common"
)

// RegisterUserResources registers session-specific user resources
// These resources provide information about the current authenticated user
func RegisterUserResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register user profile resource
	profileResource := mcp.NewResource(
		"user://profile",
		"Current User Profile",
		mcp.WithResourceDescription("Information about the currently authenticated Microsoft account"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(profileResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUserProfile(ctx, request, sc)
	})

	// Register mailbox settings resource
	settingsResource := mcp.NewResource(
		"user://mailbox/settings",
		"Mailbox Settings",
		mcp.WithResourceDescription("Mailbox settings for the current user, including automatic replies"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleMailboxSettings(ctx, request, sc)
	})

	return nil
}

// handleUserProfile returns information about the current user's profile
func handleUserProfile(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account := common.GetAccountFromArgs(ctx, nil)

	mailClient := sc.MailClientForAccount(account)
	if mailClient == nil {
		return nil, fmt.Errorf("no mail client available for account: %s", account)
	}

	profile, err := mailClient.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	profileData := map[string]interface{}{
		"account":           account,
		"displayName":       profile.DisplayName,
		"mail":              profile.Mail,
		"userPrincipalName": profile.UserPrincipalName,
		"jobTitle":          profile.JobTitle,
		"description":       "User profile for Microsoft 365",
	}

	jsonData, err := json.MarshalIndent(profileData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleMailboxSettings returns mailbox settings for the current user
func handleMailboxSettings(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account := common.GetAccountFromArgs(ctx, nil)

	mailClient := sc.MailClientForAccount(account)
	if mailClient == nil {
		return nil, fmt.Errorf("no mail client available for account: %s", account)
	}

	settings, err := mailClient.GetMailboxSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get mailbox settings: %w", err)
	}

	settingsData := map[string]interface{}{
		"account":     account,
		"timeZone":    settings.TimeZone,
		"locale":      settings.Language.Locale,
		"description": "Mailbox settings including automatic replies",
	}
	if settings.AutomaticRepliesSetting != nil {
		settingsData["automaticReplies"] = map[string]interface{}{
			"status":               settings.AutomaticRepliesSetting.Status,
			"internalReplyMessage": settings.AutomaticRepliesSetting.InternalReplyMessage,
			"externalReplyMessage": settings.AutomaticRepliesSetting.ExternalReplyMessage,
		}
	}

	jsonData, err := json.MarshalIndent(settingsData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
