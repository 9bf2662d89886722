package contacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/graph"
)

// Client provides access to a single account's contacts
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

// NewClientForAccountWithProvider creates a new contacts client for a
// specific account. The OAuth token is retrieved from the provided token
// provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider auth.TokenProvider) (*Client, error) {
	return NewClientForAccountWithConfig(ctx, account, tokenProvider, graph.DefaultConfig())
}

// NewClientForAccountWithConfig creates a new contacts client with an
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

// NewClientForAccount creates a new contacts client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, auth.NewFileTokenProvider())
}

// NewClient creates a new contacts client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListContacts lists the account's contacts ordered by display name,
// following continuation pages until the listing is exhausted or maxResults
// is reached. A maxResults of zero means no cap.
func (c *Client) ListContacts(ctx context.Context, maxResults int) ([]Contact, error) {
	params := map[string]string{
		"$top":     "50",
		"$orderby": "displayName",
	}
	return c.list(ctx, params, maxResults)
}

// SearchContacts searches contacts by free text
func (c *Client) SearchContacts(ctx context.Context, query string, maxResults int) ([]Contact, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	params := map[string]string{
		"$top":    "50",
		"$search": strconv.Quote(query),
	}
	return c.list(ctx, params, maxResults)
}

func (c *Client) list(ctx context.Context, params map[string]string, maxResults int) ([]Contact, error) {
	records, err := c.graph.List(ctx, "/me/contacts", c.account, params, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	result := make([]Contact, 0, len(records))
	for _, rec := range records {
		var contact Contact
		if err := json.Unmarshal(rec, &contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
		result = append(result, contact)
	}
	return result, nil
}

// GetContact retrieves a single contact by ID
func (c *Client) GetContact(ctx context.Context, contactID string) (*Contact, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    "/me/contacts/" + url.PathEscape(contactID),
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	var contact Contact
	if err := json.Unmarshal(env.Raw, &contact); err != nil {
		return nil, fmt.Errorf("failed to decode contact: %w", err)
	}
	return &contact, nil
}

// CreateContact creates a new contact and returns it
func (c *Client) CreateContact(ctx context.Context, input ContactInput) (*Contact, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    "/me/contacts",
		Account: c.account,
		Body:    contactBody(input),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	var contact Contact
	if err := json.Unmarshal(env.Raw, &contact); err != nil {
		return nil, fmt.Errorf("failed to decode created contact: %w", err)
	}
	return &contact, nil
}

// UpdateContact applies the non-zero fields of input to an existing contact
// and returns the updated contact
func (c *Client) UpdateContact(ctx context.Context, contactID string, input ContactInput) (*Contact, error) {
	body := contactBody(input)
	if len(body) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "PATCH",
		Path:    "/me/contacts/" + url.PathEscape(contactID),
		Account: c.account,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	var contact Contact
	if err := json.Unmarshal(env.Raw, &contact); err != nil {
		return nil, fmt.Errorf("failed to decode updated contact: %w", err)
	}
	return &contact, nil
}

// DeleteContact deletes a contact
func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "DELETE",
		Path:    "/me/contacts/" + url.PathEscape(contactID),
		Account: c.account,
	})
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}

// contactBody builds the request body from the non-zero fields of input.
func contactBody(input ContactInput) map[string]any {
	body := map[string]any{}
	if input.GivenName != "" {
		body["givenName"] = input.GivenName
	}
	if input.Surname != "" {
		body["surname"] = input.Surname
	}
	if len(input.EmailAddresses) > 0 {
		addresses := make([]map[string]any, len(input.EmailAddresses))
		for i, addr := range input.EmailAddresses {
			addresses[i] = map[string]any{"address": addr, "name": addr}
		}
		body["emailAddresses"] = addresses
	}
	if len(input.BusinessPhones) > 0 {
		body["businessPhones"] = input.BusinessPhones
	}
	if input.MobilePhone != "" {
		body["mobilePhone"] = input.MobilePhone
	}
	if input.CompanyName != "" {
		body["companyName"] = input.CompanyName
	}
	if input.JobTitle != "" {
		body["jobTitle"] = input.JobTitle
	}
	if input.PersonalNotes != "" {
		body["personalNotes"] = input.PersonalNotes
	}
	return body
}
