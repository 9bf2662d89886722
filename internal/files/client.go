package files

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/graph"
)

// Client provides access to a single account's drive
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

// NewClientForAccountWithProvider creates a new files client for a specific
// account. The OAuth token is retrieved from the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider auth.TokenProvider) (*Client, error) {
	return NewClientForAccountWithConfig(ctx, account, tokenProvider, graph.DefaultConfig())
}

// NewClientForAccountWithConfig creates a new files client with an explicit
// request layer configuration.
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

// NewClientForAccount creates a new files client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, auth.NewFileTokenProvider())
}

// NewClient creates a new files client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// itemPath returns the path for the given item ID, or the drive root when
// itemID is empty.
func itemPath(itemID string) string {
	if itemID == "" {
		return "/me/drive/root"
	}
	return "/me/drive/items/" + url.PathEscape(itemID)
}

// ListChildren lists the contents of a folder. An empty itemID lists the
// drive root. Continuation pages are followed until the listing is
// exhausted or maxResults is reached; zero means no cap.
func (c *Client) ListChildren(ctx context.Context, itemID string, maxResults int) ([]Item, error) {
	records, err := c.graph.List(ctx, itemPath(itemID)+"/children", c.account, map[string]string{"$top": "100"}, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return decodeItems(records)
}

// SearchFiles searches the drive by free text
func (c *Client) SearchFiles(ctx context.Context, query string, maxResults int) ([]Item, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	// Single quotes in the expression are doubled per OData literal rules
	escaped := strings.ReplaceAll(query, "'", "''")
	path := "/me/drive/root/search(q='" + url.PathEscape(escaped) + "')"

	records, err := c.graph.List(ctx, path, c.account, map[string]string{"$top": "100"}, maxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}
	return decodeItems(records)
}

func decodeItems(records []json.RawMessage) ([]Item, error) {
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		var item Item
		if err := json.Unmarshal(rec, &item); err != nil {
			return nil, fmt.Errorf("failed to decode drive item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

// GetItem retrieves metadata for a single item
func (c *Client) GetItem(ctx context.Context, itemID string) (*Item, error) {
	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    itemPath(itemID),
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	var item Item
	if err := json.Unmarshal(env.Raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode drive item: %w", err)
	}
	return &item, nil
}

// DownloadFile downloads a file's content
func (c *Client) DownloadFile(ctx context.Context, itemID string) ([]byte, error) {
	if itemID == "" {
		return nil, fmt.Errorf("item ID cannot be empty")
	}

	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "GET",
		Path:    itemPath(itemID) + "/content",
		Account: c.account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	return env.Raw, nil
}

// UploadFile uploads content to the given drive-relative path, creating or
// replacing the file, and returns the resulting item. The path is relative
// to the drive root, e.g. "reports/q1.pdf".
func (c *Client) UploadFile(ctx context.Context, path string, content []byte) (*Item, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "PUT",
		Path:    "/me/drive/root:/" + strings.Join(segments, "/") + ":/content",
		Account: c.account,
		Body:    content,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	var item Item
	if err := json.Unmarshal(env.Raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode uploaded item: %w", err)
	}
	return &item, nil
}

// DeleteItem deletes a file or folder
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return fmt.Errorf("item ID cannot be empty")
	}

	_, err := c.graph.Execute(ctx, graph.Request{
		Method:  "DELETE",
		Path:    itemPath(itemID),
		Account: c.account,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// CreateFolder creates a folder under the given parent. An empty parentID
// creates the folder at the drive root. Name collisions are resolved by
// renaming the new folder.
func (c *Client) CreateFolder(ctx context.Context, parentID, name string) (*Item, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name cannot be empty")
	}

	env, err := c.graph.Execute(ctx, graph.Request{
		Method:  "POST",
		Path:    itemPath(parentID) + "/children",
		Account: c.account,
		Body: map[string]any{
			"name":                              name,
			"folder":                            map[string]any{},
			"@microsoft.graph.conflictBehavior": "rename",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	var item Item
	if err := json.Unmarshal(env.Raw, &item); err != nil {
		return nil, fmt.Errorf("failed to decode created folder: %w", err)
	}
	return &item, nil
}
