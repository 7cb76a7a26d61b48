package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/rriharvest"
	rrihttp "github.com/fwojciec/rriharvest/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Habarli</body></html>"))
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Habarli</body></html>", html)
	})

	t.Run("sends user agent and accept headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher(rrihttp.WithUserAgent("rriharvest-test"))
		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		got := <-headers
		assert.Equal(t, "rriharvest-test", got.Get("User-Agent"))
		assert.Contains(t, got.Get("Accept"), "text/html")
	})

	t.Run("classifies non-2xx status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), server.URL)

		var fe *rriharvest.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, rriharvest.FetchHTTPStatus, fe.Kind)
		assert.Equal(t, http.StatusNotFound, fe.StatusCode)
		assert.Equal(t, server.URL, fe.URL)
		assert.False(t, fe.Retryable())
	})

	t.Run("server errors are retryable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher()
		_, err := fetcher.Fetch(context.Background(), server.URL)

		var fe *rriharvest.FetchError
		require.ErrorAs(t, err, &fe)
		assert.True(t, fe.Retryable())
	})

	t.Run("classifies timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher(rrihttp.WithTimeout(10 * time.Millisecond))
		_, err := fetcher.Fetch(context.Background(), server.URL)

		var fe *rriharvest.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, rriharvest.FetchTimeout, fe.Kind)
	})

	t.Run("classifies connection failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := server.URL
		server.Close()

		fetcher := rrihttp.NewFetcher(rrihttp.WithTimeout(time.Second))
		_, err := fetcher.Fetch(context.Background(), addr)

		var fe *rriharvest.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, rriharvest.FetchConnectionFailed, fe.Kind)
	})

	t.Run("returns context error when canceled", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fetcher := rrihttp.NewFetcher()
		_, err := fetcher.Fetch(ctx, server.URL)

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("rejects oversized bodies instead of truncating", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 100)))
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher(rrihttp.WithMaxBodySize(10))
		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Empty(t, html)
		var fetchErr *rriharvest.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, rriharvest.FetchBodyTooLarge, fetchErr.Kind)
		assert.False(t, fetchErr.Retryable())
	})

	t.Run("accepts body exactly at the limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("a", 10)))
		}))
		defer server.Close()

		fetcher := rrihttp.NewFetcher(rrihttp.WithMaxBodySize(10))
		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Len(t, html, 10)
	})
}
