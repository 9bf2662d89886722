package graph

import (
	"encoding/json"
	"fmt"
)

// Request describes a single logical Graph API call. A Request is built per
// call and never mutated by the client; retries and the 401 replay reuse the
// same values.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, DELETE, PUT).
	Method string

	// Path is either a path relative to the API base ("/me/messages") or an
	// absolute URL starting with the base origin. Continuation cursors are
	// absolute and are passed through verbatim.
	Path string

	// Account selects the credential resolved through the TokenProvider.
	Account string

	// Params are query parameters. Keys are unique; values are encoded into
	// the URL. Must be empty when Path is a continuation cursor.
	Params map[string]string

	// Body is the request payload: nil for no body, []byte for a raw
	// passthrough (file content), anything else is JSON-encoded.
	Body any

	// Headers are additional header overrides. Authorization and
	// Content-Type are set by the client and need not be provided.
	Headers map[string]string

	// MaxRetries bounds the total attempts for transient failures. Zero
	// selects the client default.
	MaxRetries int
}

// Envelope is the classified result of a successful request.
type Envelope struct {
	// StatusCode is the HTTP status (always 2xx).
	StatusCode int

	// Body is the parsed JSON object; an empty or non-JSON body yields an
	// empty map.
	Body map[string]any

	// Raw is the unparsed response body. Service clients unmarshal typed
	// structs from it, and file downloads read it directly.
	Raw []byte

	// NextLink is the continuation cursor, or "" when the server indicated
	// no more data. It is opaque: use it verbatim as the next request path.
	NextLink string
}

// Records returns the page's list entries from the configured list field as
// raw JSON. A missing list field is an empty page, not an error.
func (e *Envelope) Records(listField string) ([]json.RawMessage, error) {
	if len(e.Raw) == 0 {
		return nil, nil
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal(e.Raw, &page); err != nil {
		return nil, fmt.Errorf("failed to parse page body: %w", err)
	}

	raw, ok := page[listField]
	if !ok {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("list field %q is not an array: %w", listField, err)
	}
	return records, nil
}
