package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/graph"
)

// Client provides access to a single account's mailbox
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

// NewClientForAccountWithProvider creates a new mail client for a specific
// account. The OAuth token is retrieved from the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider auth.TokenProvider) (*Client, error) {
	return NewClientForAccountWithConfig(ctx, account, tokenProvider, graph.DefaultConfig())
}

// NewClientForAccountWithConfig creates a new mail client with an explicit
// request layer configuration.
func NewClientForAccountWithConfig(ctx context.Context, account string, tokenProvider auth.TokenProvider, cfg graph.Config) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	// Fail fast when no credential exists for the account
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

// NewClientForAccount creates a new mail client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, auth.NewFileTokenProvider())
}

// NewClient creates a new mail client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// messagesPath returns the listing path for the given folder, or the
// mailbox-wide path when folder is empty.
func messagesPath(folder string) string {
	if folder == "" {
		return "/me/messages"
	}
	return "/me/mailFolders/" + url.PathEscape(folder) + "/messages"
}

// ListMessages lists messages according to opts, following continuation
// pages until the listing is exhausted or opts.MaxResults is reached.
func (c *Client) ListMessages(ctx context.Context, opts ListOptions) ([]Message, error) {
	params := map[string]string{
		"$top": "50",
	}
	switch {
	case opts.Query != "":
		params["$search"] = strconv.Quote(opts.Query)
	case opts.UnreadOnly:
		params["$filter"] = "isRead eq false"
	}

	records, err := c.graph.List(ctx, messagesPath(opts.Folder), c.account, params, opts.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]Message, 0, len(records))
	for _, rec := range records {
		var m Message
		if err := json.Unmarshal(rec, &m); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// GetMessage retrieves a single message with its full body
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me/messages/" + url.PathEscape(messageID),
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	var m Message
	if err := json.Unmarshal(env.Raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &m, nil
}

// SendMessage sends a message and saves it to the sent items folder
func (c *Client) SendMessage(ctx context.Context, input SendInput) error {
	contentType := "text"
	if input.BodyHTML {
		contentType = "html"
	}

	message := map[string]any{
		"subject": input.Subject,
		"body": map[string]any{
			"contentType": contentType,
			"content":     input.Body,
		},
		"toRecipients": toRecipients(input.To),
	}
	if len(input.Cc) > 0 {
		message["ccRecipients"] = toRecipients(input.Cc)
	}
	if len(input.Bcc) > 0 {
		message["bccRecipients"] = toRecipients(input.Bcc)
	}

	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    "/me/sendMail",
		Account: c.account,
		Body: map[string]any{
			"message":         message,
			"saveToSentItems": true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func toRecipients(addresses []string) []map[string]any {
	recipients := make([]map[string]any, len(addresses))
	for i, addr := range addresses {
		recipients[i] = map[string]any{
			"emailAddress": map[string]any{"address": addr},
		}
	}
	return recipients
}

// MoveMessage moves a message to another folder and returns the moved copy
func (c *Client) MoveMessage(ctx context.Context, messageID, destinationFolderID string) (*Message, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    "/me/messages/" + url.PathEscape(messageID) + "/move",
		Account: c.account,
		Body: map[string]any{
			"destinationId": destinationFolderID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to move message: %w", err)
	}

	var m Message
	if err := json.Unmarshal(env.Raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode moved message: %w", err)
	}
	return &m, nil
}

// DeleteMessage deletes a message
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "DELETE",
		Path:    "/me/messages/" + url.PathEscape(messageID),
		Account: c.account,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// MarkRead sets the read state of a message
func (c *Client) MarkRead(ctx context.Context, messageID string, read bool) error {
	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "PATCH",
		Path:    "/me/messages/" + url.PathEscape(messageID),
		Account: c.account,
		Body: map[string]any{
			"isRead": read,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update read state: %w", err)
	}
	return nil
}

// GetProfile retrieves the signed-in user's directory record
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me",
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(env.Raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// GetMailboxSettings retrieves the user's mailbox configuration including
// automatic reply settings
func (c *Client) GetMailboxSettings(ctx context.Context) (*MailboxSettings, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me/mailboxSettings",
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get mailbox settings: %w", err)
	}

	var s MailboxSettings
	if err := json.Unmarshal(env.Raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode mailbox settings: %w", err)
	}
	return &s, nil
}

// ListFolders lists the account's mail folders
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	records, err := c.graph.List(ctx, "/me/mailFolders", c.account, map[string]string{"$top": "50"}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	folders := make([]Folder, 0, len(records))
	for _, rec := range records {
		var f Folder
		if err := json.Unmarshal(rec, &f); err != nil {
			return nil, fmt.Errorf("failed to decode folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, nil
}

// ListAttachments lists attachment metadata for a message
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]Attachment, error) {
	path := "/me/messages/" + url.PathEscape(messageID) + "/attachments"
	records, err := c.graph.List(ctx, path, c.account, map[string]string{
		"$select": "id,name,contentType,size",
	}, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	attachments := make([]Attachment, 0, len(records))
	for _, rec := range records {
		var a Attachment
		if err := json.Unmarshal(rec, &a); err != nil {
			return nil, fmt.Errorf("failed to decode attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

// GetAttachment retrieves a single attachment including its content
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) (*Attachment, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me/messages/" + url.PathEscape(messageID) + "/attachments/" + url.PathEscape(attachmentID),
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	var a Attachment
	if err := json.Unmarshal(env.Raw, &a); err != nil {
		return nil, fmt.Errorf("failed to decode attachment: %w", err)
	}
	return &a, nil
}
