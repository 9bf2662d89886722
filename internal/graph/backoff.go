package graph

import (
	"net/http"
	"strconv"
	"time"
)

// retryDelay returns the wait before the next attempt. A server-supplied
// Retry-After header (seconds or HTTP-date) takes precedence over the
// computed exponential backoff.
func retryDelay(headers http.Header, backoff time.Duration) time.Duration {
	ra := headers.Get("Retry-After")
	if ra == "" {
		return backoff
	}

	if secs, err := strconv.Atoi(ra); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
		return 0
	}

	return backoff
}

// nextBackoff doubles the delay up to the cap.
func nextBackoff(backoff, maxBackoff time.Duration) time.Duration {
	backoff *= 2
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	return backoff
}
