package rriharvest

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Fetcher retrieves HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET for the URL and returns the response body.
	// Transport failures are reported as *FetchError.
	// The context controls cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// FetchErrorKind classifies transport failures.
type FetchErrorKind int

// Fetch failure kinds.
const (
	FetchConnectionFailed FetchErrorKind = iota
	FetchTimeout
	FetchHTTPStatus
	FetchBodyTooLarge
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "timeout"
	case FetchHTTPStatus:
		return "http status"
	case FetchBodyTooLarge:
		return "body too large"
	default:
		return "connection failed"
	}
}

// FetchError is returned by fetchers when a request does not produce a page.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int // set for FetchHTTPStatus
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the request might succeed:
// timeouts, connection failures, 429 and 5xx responses.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case FetchTimeout, FetchConnectionFailed:
		return true
	case FetchHTTPStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	}
	return false
}

// Clock abstracts time so rate limiting can be tested without real sleeps.
type Clock interface {
	Now() time.Time

	// Sleep blocks for d or until the context is canceled.
	Sleep(ctx context.Context, d time.Duration) error
}
