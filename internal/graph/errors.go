package graph

import (
	"fmt"
)

// AuthError indicates that no valid credential could be obtained for an
// account, or that the server rejected the credential even after a silent
// refresh. It is terminal: retrying without caller intervention will not
// succeed.
type AuthError struct {
	Account    string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph auth error for account %s: %v", e.Account, e.Err)
	}
	return fmt.Sprintf("graph auth error for account %s (status %d)", e.Account, e.StatusCode)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// RequestError is a terminal 4xx failure (other than 401/429). It carries
// the status code and the parsed error body so callers can surface the
// server's own diagnostic.
type RequestError struct {
	StatusCode int
	Body       map[string]any
}

func (e *RequestError) Error() string {
	if msg := apiErrorMessage(e.Body); msg != "" {
		return fmt.Sprintf("graph request failed (status %d): %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("graph request failed (status %d)", e.StatusCode)
}

// TransientError is raised after the retry budget for a transient failure
// class (429, 5xx, network error, timeout) is exhausted. It carries the last
// observed status and body; StatusCode is 0 when the last failure never
// produced a response.
type TransientError struct {
	StatusCode int
	Body       map[string]any
	Attempts   int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph request failed after %d attempts: %v", e.Attempts, e.Err)
	}
	if msg := apiErrorMessage(e.Body); msg != "" {
		return fmt.Sprintf("graph request failed after %d attempts (status %d): %s", e.Attempts, e.StatusCode, msg)
	}
	return fmt.Sprintf("graph request failed after %d attempts (status %d)", e.Attempts, e.StatusCode)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PaginationError indicates that a listing exceeded the configured page
// bound, which means the server kept returning continuation cursors without
// ever terminating (e.g. the same cursor repeated indefinitely).
type PaginationError struct {
	Path  string
	Pages int
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("pagination of %s exceeded %d pages without terminating", e.Path, e.Pages)
}

// apiErrorMessage extracts the human-readable message from a Graph error
// body of the form {"error": {"code": ..., "message": ...}}.
func apiErrorMessage(body map[string]any) string {
	if body == nil {
		return ""
	}
	inner, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := inner["code"].(string)
	msg, _ := inner["message"].(string)
	switch {
	case code != "" && msg != "":
		return code + ": " + msg
	case msg != "":
		return msg
	default:
		return code
	}
}
