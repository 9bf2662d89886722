package graph

import (
	"net/http"
	"testing"
	"time"
)

func TestRetryDelay(t *testing.T) {
	backoff := 2 * time.Second

	tests := []struct {
		name       string
		retryAfter string
		wantMin    time.Duration
		wantMax    time.Duration
	}{
		{"no header falls back to backoff", "", backoff, backoff},
		{"seconds value", "7", 7 * time.Second, 7 * time.Second},
		{"zero seconds", "0", 0, 0},
		{"http date in the future", time.Now().Add(10 * time.Second).UTC().Format(http.TimeFormat), 8 * time.Second, 10 * time.Second},
		{"http date in the past", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat), 0, 0},
		{"garbage falls back to backoff", "soon", backoff, backoff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.retryAfter != "" {
				h.Set("Retry-After", tt.retryAfter)
			}
			got := retryDelay(h, backoff)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("retryDelay() = %v, want in [%v, %v]", got, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestNextBackoff(t *testing.T) {
	tests := []struct {
		name    string
		backoff time.Duration
		max     time.Duration
		want    time.Duration
	}{
		{"doubles", time.Second, 30 * time.Second, 2 * time.Second},
		{"caps at max", 20 * time.Second, 30 * time.Second, 30 * time.Second},
		{"already at max", 30 * time.Second, 30 * time.Second, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextBackoff(tt.backoff, tt.max); got != tt.want {
				t.Errorf("nextBackoff(%v, %v) = %v, want %v", tt.backoff, tt.max, got, tt.want)
			}
		})
	}
}
