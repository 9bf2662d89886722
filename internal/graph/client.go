package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/graphdesk/graphdesk/internal/auth"
	"github.com/graphdesk/graphdesk/internal/logging"
)

// Defaults for the client configuration. The pagination field names are
// configuration, not literals baked into call sites, because they are
// dictated by the remote API.
const (
	DefaultBaseURL       = "https://graph.microsoft.com/v1.0"
	DefaultListField     = "value"
	DefaultNextLinkField = "@odata.nextLink"
	DefaultMaxRetries    = 3
	DefaultMaxPages      = 1000

	defaultTimeout        = 30 * time.Second
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API base, including the version segment.
	BaseURL string

	// ListField is the response field holding a page's records.
	ListField string

	// NextLinkField is the response field holding the continuation cursor.
	NextLinkField string

	// MaxRetries is the total attempt budget for transient failures.
	MaxRetries int

	// MaxPages bounds cursor-following before PaginationError is raised.
	MaxPages int

	// Timeout is the fixed per-request HTTP timeout.
	Timeout time.Duration

	// InitialBackoff and MaxBackoff shape the exponential retry delay.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Logger receives structured request/retry logs. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// HTTPClient overrides the underlying HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ListField:      DefaultListField,
		NextLinkField:  DefaultNextLinkField,
		MaxRetries:     DefaultMaxRetries,
		MaxPages:       DefaultMaxPages,
		Timeout:        defaultTimeout,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
	}
}

// Client is the Graph request executor and paginator. A single Client is
// safe for concurrent use; all per-call state lives on the stack.
type Client struct {
	httpClient *http.Client
	tokens     auth.TokenProvider
	config     Config
	baseOrigin string
	logger     *slog.Logger
}

// New creates a new Graph client with the given token provider. Zero-valued
// config fields fall back to DefaultConfig.
func New(tokens auth.TokenProvider, cfg Config) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ListField == "" {
		cfg.ListField = def.ListField
	}
	if cfg.NextLinkField == "" {
		cfg.NextLinkField = def.NextLinkField
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = def.MaxBackoff
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.WithService(logger, "graph")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		tokens:     tokens,
		config:     cfg,
		baseOrigin: base.Scheme + "://" + base.Host,
		logger:     logger,
	}, nil
}

// Config returns the effective client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Execute issues one logical request: it resolves the account's bearer
// token, sends the HTTP request, and classifies the response. Transient
// failures (429, 5xx, network errors, timeouts) are retried internally with
// capped exponential backoff; a 401 triggers exactly one silent token
// re-fetch and replay. All other failures surface immediately as typed
// errors.
func (c *Client) Execute(ctx context.Context, req Request) (*Envelope, error) {
	token, err := c.tokens.GetTokenForAccount(ctx, req.Account)
	if err != nil {
		return nil, &AuthError{Account: req.Account, Err: err}
	}

	target, err := c.resolveURL(req.Path, req.Params)
	if err != nil {
		return nil, err
	}

	payload, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = c.config.MaxRetries
	}

	logger := logging.WithAccount(c.logger, req.Account)

	var (
		attempts   int
		refreshed  bool
		backoff    = c.config.InitialBackoff
		lastStatus int
		lastBody   map[string]any
	)

	for {
		attempts++

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)
		httpReq.Header.Set("Accept", "application/json")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		for k, v := range req.Headers {
			httpReq.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			// Network errors and timeouts are transient.
			logger.Warn("graph request failed",
				"method", req.Method, "path", req.Path, "attempt", attempts, logging.Err(err))
			if attempts >= maxRetries {
				return nil, &TransientError{Attempts: attempts, Err: err}
			}
			if err := c.sleep(ctx, backoff, attempts); err != nil {
				return nil, &TransientError{Attempts: attempts, Err: err}
			}
			backoff = nextBackoff(backoff, c.config.MaxBackoff)
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			if attempts >= maxRetries {
				return nil, &TransientError{StatusCode: resp.StatusCode, Attempts: attempts, Err: readErr}
			}
			if err := c.sleep(ctx, backoff, attempts); err != nil {
				return nil, &TransientError{StatusCode: resp.StatusCode, Attempts: attempts, Err: err}
			}
			backoff = nextBackoff(backoff, c.config.MaxBackoff)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return c.envelope(resp.StatusCode, raw), nil

		case resp.StatusCode == http.StatusUnauthorized:
			if refreshed {
				return nil, &AuthError{Account: req.Account, StatusCode: resp.StatusCode}
			}
			refreshed = true
			logger.Debug("token rejected, attempting silent refresh", "path", req.Path)
			token, err = c.tokens.GetTokenForAccount(ctx, req.Account)
			if err != nil {
				return nil, &AuthError{Account: req.Account, StatusCode: resp.StatusCode, Err: err}
			}
			continue

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastStatus = resp.StatusCode
			lastBody = parseJSONObject(raw)
			logger.Warn("graph request returned transient status",
				"method", req.Method, "path", req.Path, "status", resp.StatusCode, "attempt", attempts)
			if attempts >= maxRetries {
				return nil, &TransientError{StatusCode: lastStatus, Body: lastBody, Attempts: attempts}
			}
			delay := retryDelay(resp.Header, backoff)
			if err := c.sleep(ctx, delay, attempts); err != nil {
				return nil, &TransientError{StatusCode: lastStatus, Body: lastBody, Attempts: attempts, Err: err}
			}
			backoff = nextBackoff(backoff, c.config.MaxBackoff)
			continue

		default:
			// Remaining 4xx are terminal: the request itself is wrong.
			return nil, &RequestError{StatusCode: resp.StatusCode, Body: parseJSONObject(raw)}
		}
	}
}

// sleep waits for the backoff delay, aborting early on context cancellation.
func (c *Client) sleep(ctx context.Context, delay time.Duration, attempt int) error {
	c.logger.Debug("retrying request after backoff", "backoff", delay, "attempt", attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// envelope builds the typed result from a 2xx response.
func (c *Client) envelope(status int, raw []byte) *Envelope {
	body := parseJSONObject(raw)
	nextLink, _ := body[c.config.NextLinkField].(string)
	return &Envelope{
		StatusCode: status,
		Body:       body,
		Raw:        raw,
		NextLink:   nextLink,
	}
}

// resolveURL builds the absolute request URL. A path that already starts
// with the API's base origin (continuation cursors) is used as-is; relative
// paths are joined with the base. Params are appended to whatever query the
// path carries.
func (c *Client) resolveURL(path string, params map[string]string) (string, error) {
	var raw string
	if strings.HasPrefix(path, c.baseOrigin) {
		raw = path
	} else {
		raw = c.config.BaseURL + "/" + strings.TrimLeft(path, "/")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// encodeBody serializes the request payload. Raw bytes pass through
// unchanged; anything else is JSON.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "application/octet-stream", nil
	case json.RawMessage:
		return b, "application/json", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// parseJSONObject parses a response body into a map. An empty or non-object
// body (e.g. downloaded file content) yields an empty map rather than an
// error.
func parseJSONObject(raw []byte) map[string]any {
	body := map[string]any{}
	if len(raw) == 0 {
		return body
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return map[string]any{}
	}
	return body
}
