package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// pagedServer serves a fixed sequence of pages and records every request
// URL. Page bodies may reference {{base}} for cursor URLs.
type pagedServer struct {
	srv      *httptest.Server
	pages    []string
	requests []url.URL
}

func newPagedServer(pages ...string) *pagedServer {
	ps := &pagedServer{pages: pages}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.requests = append(ps.requests, *r.URL)
		idx := len(ps.requests) - 1
		if idx >= len(ps.pages) {
			idx = len(ps.pages) - 1
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, strings.ReplaceAll(ps.pages[idx], "{{base}}", ps.srv.URL))
	}))
	return ps
}

func TestForEachFollowsCursorWithEmptyParams(t *testing.T) {
	ps := newPagedServer(
		`{"value":[{"id":"1"},{"id":"2"},{"id":"3"}],"@odata.nextLink":"{{base}}/me/messages?$skiptoken=c1"}`,
		`{"value":[{"id":"4"},{"id":"5"}]}`,
	)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)

	var ids []string
	err := c.ForEach(context.Background(), "/me/messages", "default", map[string]string{"$top": "3"}, 0, func(rec json.RawMessage) error {
		var item struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(rec, &item); err != nil {
			return err
		}
		ids = append(ids, item.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}

	if len(ids) != 5 {
		t.Fatalf("yielded %d records, want 5 (%v)", len(ids), ids)
	}
	if len(ps.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(ps.requests))
	}

	// First request carries the caller's params.
	if got := ps.requests[0].Query().Get("$top"); got != "3" {
		t.Errorf("first request $top = %q, want 3", got)
	}

	// Cursor-follow request uses the cursor verbatim: the only query it may
	// carry is what the cursor itself encodes; the original params are gone.
	second := ps.requests[1]
	if second.Query().Get("$top") != "" {
		t.Errorf("cursor request reapplied stale $top param: %q", second.RawQuery)
	}
	if second.Query().Get("$skiptoken") != "c1" {
		t.Errorf("cursor request query = %q, want the cursor's own $skiptoken", second.RawQuery)
	}
}

func TestForEachLimitStopsFetching(t *testing.T) {
	ps := newPagedServer(
		`{"value":[{"id":"1"},{"id":"2"},{"id":"3"}],"@odata.nextLink":"{{base}}/next?$skiptoken=c1"}`,
		`{"value":[{"id":"4"}]}`,
	)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)

	records, err := c.List(context.Background(), "/me/messages", "default", nil, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("yielded %d records, want 2", len(records))
	}
	// The cap was satisfied by page one; page two must never be fetched.
	if len(ps.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(ps.requests))
	}
}

func TestForEachLimitEqualsPageSize(t *testing.T) {
	ps := newPagedServer(
		`{"value":[{"id":"1"},{"id":"2"},{"id":"3"}],"@odata.nextLink":"{{base}}/next?$skiptoken=c1"}`,
		`{"value":[{"id":"4"}]}`,
	)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)

	records, err := c.List(context.Background(), "/me/messages", "default", nil, 3)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("yielded %d records, want 3", len(records))
	}
	if len(ps.requests) != 1 {
		t.Errorf("requests = %d, want 1 (limit reached on the first page)", len(ps.requests))
	}
}

func TestForEachSinglePage(t *testing.T) {
	ps := newPagedServer(`{"value":[{"id":"1"},{"id":"2"}]}`)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)
	records, err := c.List(context.Background(), "/me/contacts", "default", nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("yielded %d records, want 2", len(records))
	}
	if len(ps.requests) != 1 {
		t.Errorf("requests = %d, want exactly 1", len(ps.requests))
	}
}

func TestForEachEmptyFirstPage(t *testing.T) {
	ps := newPagedServer(`{}`)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)
	records, err := c.List(context.Background(), "/me/contacts", "default", nil, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("yielded %d records, want 0", len(records))
	}
}

func TestForEachRepeatedCursorHitsPageBound(t *testing.T) {
	// The server returns the same cursor forever (simulated server bug).
	ps := newPagedServer(`{"value":[{"id":"1"}],"@odata.nextLink":"{{base}}/me/messages?$skiptoken=loop"}`)
	defer ps.srv.Close()

	provider := &fakeTokenProvider{tokens: []string{"tok"}}
	c, err := New(provider, Config{
		BaseURL:        ps.srv.URL,
		MaxPages:       5,
		InitialBackoff: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = c.ForEach(context.Background(), "/me/messages", "default", nil, 0, func(json.RawMessage) error { return nil })
	var pageErr *PaginationError
	if !errors.As(err, &pageErr) {
		t.Fatalf("error = %v, want *PaginationError", err)
	}
	if pageErr.Pages != 5 {
		t.Errorf("Pages = %d, want 5", pageErr.Pages)
	}
	if len(ps.requests) != 5 {
		t.Errorf("requests = %d, want 5 (bounded, not hanging)", len(ps.requests))
	}
}

func TestForEachPropagatesCallbackError(t *testing.T) {
	ps := newPagedServer(`{"value":[{"id":"1"},{"id":"2"}]}`)
	defer ps.srv.Close()

	c := newTestClient(t, ps.srv.URL, nil)
	sentinel := errors.New("stop here")
	calls := 0
	err := c.ForEach(context.Background(), "/me/messages", "default", nil, 0, func(json.RawMessage) error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("error = %v, want sentinel", err)
	}
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestForEachPropagatesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	err := c.ForEach(context.Background(), "/me/messages", "default", nil, 0, func(json.RawMessage) error { return nil })
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
}

func TestEnvelopeRecords(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"normal page", `{"value":[{"a":1},{"b":2}]}`, 2, false},
		{"missing list field", `{"other":[]}`, 0, false},
		{"empty body", ``, 0, false},
		{"list field not array", `{"value":"oops"}`, 0, true},
		{"malformed body", `{not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Envelope{Raw: []byte(tt.raw)}
			records, err := env.Records("value")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Records() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(records) != tt.want {
				t.Errorf("Records() yielded %d, want %d", len(records), tt.want)
			}
		})
	}
}
