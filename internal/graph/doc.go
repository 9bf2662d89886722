// Package graph provides the core HTTP request layer for the Microsoft
// Graph REST API.
//
// Every service client in this repository goes through this package. It owns
// the only real protocol and failure-handling logic in the system:
//
//   - Execute issues a single authenticated request, classifies the
//     response, retries transient failures (429, 5xx, network errors and
//     timeouts) with capped exponential backoff honoring Retry-After, and
//     performs one silent token refresh + replay on 401.
//   - ForEach and List drive Execute across server-supplied continuation
//     cursors (@odata.nextLink), yielding records lazily. When a cursor is
//     followed it is used verbatim as the full request path with no
//     additional query parameters: the cursor already encodes them, and
//     reapplying stale parameters produces duplicate or missing items. A
//     page bound converts a misbehaving server into PaginationError instead
//     of an infinite loop.
//
// Failures surface as one of four typed errors: AuthError, RequestError,
// TransientError and PaginationError. See errors.go.
//
// Tokens come from an injected auth.TokenProvider; this package holds no
// cross-call mutable state of its own and a single Client is safe for
// concurrent use.
package graph
