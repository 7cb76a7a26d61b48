package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/rriharvest"
	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum time between the starts of two requests.
const DefaultDelay = 1 * time.Second

var _ rriharvest.Fetcher = (*RateLimitedFetcher)(nil)

// RateLimitedFetcher serializes requests through a single token bucket so
// that consecutive request starts are at least the configured delay apart,
// regardless of which URL is fetched.
type RateLimitedFetcher struct {
	next  rriharvest.Fetcher
	clock rriharvest.Clock

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewRateLimitedFetcher wraps next with a global minimum delay between requests.
// A non-positive delay disables limiting.
func NewRateLimitedFetcher(next rriharvest.Fetcher, delay time.Duration, clock rriharvest.Clock) *RateLimitedFetcher {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &RateLimitedFetcher{
		next:    next,
		clock:   clock,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch waits for the rate limit, then delegates to the wrapped fetcher.
// It does not retry.
func (f *RateLimitedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	return f.next.Fetch(ctx, url)
}

// wait holds the lock across the sleep so the request start it admits is
// the one that owns the reservation.
func (f *RateLimitedFetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	r := f.limiter.ReserveN(now, 1)
	if !r.OK() {
		return rriharvest.Errorf(rriharvest.EINTERNAL, "rate limiter cannot grant a request")
	}
	if d := r.DelayFrom(now); d > 0 {
		if err := f.clock.Sleep(ctx, d); err != nil {
			r.CancelAt(f.clock.Now())
			return err
		}
	}
	return nil
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d or until the context is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
