package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/rriharvest"
	"github.com/fwojciec/rriharvest/crawl"
	"github.com/fwojciec/rriharvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, crawl.BackoffDelays(3))
	assert.Empty(t, crawl.BackoffDelays(0))
}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	const target = "https://www.rri.ro/ro_ar/a-id1.html"

	t.Run("single attempt without delays", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", connectionFailed(url)
		}
		clock, _ := mock.NewVirtualClock(epoch)

		_, err := crawl.FetchWithRetry(context.Background(), target, fetch, clock, nil, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error after exhausting retries", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", connectionFailed(url)
		}
		clock, elapsed := mock.NewVirtualClock(epoch)
		var logged []string
		logf := func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		}

		_, err := crawl.FetchWithRetry(context.Background(), target, fetch, clock, logf, crawl.BackoffDelays(2))

		var fe *rriharvest.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, rriharvest.FetchConnectionFailed, fe.Kind)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 3*time.Second, elapsed())
		assert.Len(t, logged, 2)
	})

	t.Run("does not retry non-transport errors", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			return "", errors.New("boom")
		}
		clock, _ := mock.NewVirtualClock(epoch)

		_, err := crawl.FetchWithRetry(context.Background(), target, fetch, clock, nil, crawl.BackoffDelays(3))

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries rate limit responses", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			if calls == 1 {
				return "", &rriharvest.FetchError{Kind: rriharvest.FetchHTTPStatus, URL: url, StatusCode: 429}
			}
			return "<html></html>", nil
		}
		clock, _ := mock.NewVirtualClock(epoch)

		html, err := crawl.FetchWithRetry(context.Background(), target, fetch, clock, nil, crawl.BackoffDelays(1))

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		fetch := func(ctx context.Context, url string) (string, error) {
			calls++
			cancel()
			return "", connectionFailed(url)
		}
		clock, _ := mock.NewVirtualClock(epoch)

		_, err := crawl.FetchWithRetry(ctx, target, fetch, clock, nil, crawl.BackoffDelays(3))

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
