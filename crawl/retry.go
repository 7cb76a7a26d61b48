package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/rriharvest"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// BackoffDelays returns n exponential backoff delays starting at 1s: 1s, 2s, 4s, ...
func BackoffDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// FetchWithRetry attempts to fetch a URL, retrying retryable transport
// failures once per entry in delays. Non-retryable failures (4xx responses,
// non-transport errors) return immediately. With no delays it makes exactly
// one attempt.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, clock rriharvest.Clock, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 || !retryable(err) {
			break
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		if err := clock.Sleep(ctx, delays[attempt]); err != nil {
			return "", err
		}
	}

	return "", lastErr
}

func retryable(err error) bool {
	var fe *rriharvest.FetchError
	return errors.As(err, &fe) && fe.Retryable()
}
