package graph

import (
	"context"
	"encoding/json"
	"net/http"
)

// ForEach iterates over all records of a listing, following continuation
// cursors, and invokes fn for each record. Iteration stops when the server
// omits the cursor, when limit records have been yielded (limit <= 0 means
// unbounded), or when fn returns an error (which is propagated unchanged).
//
// When a cursor is followed it becomes the full request path and the
// original params are NOT reapplied: the cursor already encodes them.
// Mixing stale params with a cursor produces duplicate or missing items, or
// a loop. A server that keeps returning cursors past the configured page
// bound causes a PaginationError instead of a hang.
func (c *Client) ForEach(ctx context.Context, path, account string, params map[string]string, limit int, fn func(json.RawMessage) error) error {
	reqPath := path
	reqParams := params
	yielded := 0

	for page := 0; ; page++ {
		if page >= c.config.MaxPages {
			return &PaginationError{Path: path, Pages: page}
		}

		env, err := c.Execute(ctx, Request{
			Method:  http.MethodGet,
			Path:    reqPath,
			Account: account,
			Params:  reqParams,
		})
		if err != nil {
			return err
		}

		records, err := env.Records(c.config.ListField)
		if err != nil {
			return err
		}

		for _, rec := range records {
			if err := fn(rec); err != nil {
				return err
			}
			yielded++
			if limit > 0 && yielded >= limit {
				// Return immediately: no further pages are fetched once the
				// cap is satisfied.
				return nil
			}
		}

		if env.NextLink == "" {
			return nil
		}

		// The cursor is the sole next-page locator.
		reqPath = env.NextLink
		reqParams = nil
	}
}

// List collects up to limit records of a listing (limit <= 0 means all).
func (c *Client) List(ctx context.Context, path, account string, params map[string]string, limit int) ([]json.RawMessage, error) {
	var out []json.RawMessage
	err := c.ForEach(ctx, path, account, params, limit, func(rec json.RawMessage) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
