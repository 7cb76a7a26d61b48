// Package http provides the HTTP transport behind rriharvest.Fetcher.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/rriharvest"
)

// Transport defaults.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	DefaultMaxBodySize  = 5 * 1024 * 1024
)

const acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// Ensure Fetcher implements rriharvest.Fetcher at compile time.
var _ rriharvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content with plain GET requests.
// Failures are classified into *rriharvest.FetchError.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest accepted response body. Larger pages
// fail with FetchBodyTooLarge.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", rriharvest.Errorf(rriharvest.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classify(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return "", &rriharvest.FetchError{
			Kind:       rriharvest.FetchHTTPStatus,
			URL:        url,
			StatusCode: resp.StatusCode,
		}
	}

	// Read one byte past the limit so a truncated page is reported rather
	// than parsed and stored.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", classify(url, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return "", &rriharvest.FetchError{
			Kind: rriharvest.FetchBodyTooLarge,
			URL:  url,
			Err:  fmt.Errorf("response exceeds %d bytes", f.maxBodySize),
		}
	}

	return string(body), nil
}

// classify maps a transport error to a FetchError. Cancellation by the
// caller is returned as is so it is not mistaken for a remote failure.
func classify(url string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := rriharvest.FetchConnectionFailed
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = rriharvest.FetchTimeout
	}
	return &rriharvest.FetchError{Kind: kind, URL: url, Err: err}
}
