package fetcher

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper — its a mock for http.RoundTripper.
type mockRoundTripper struct {
	response *http.Response
	err      error
}

func (m *mockRoundTripper) RoundTrip(_ *http.Request) (*http.Response, error) {
	return m.response, m.err
}

func newTestFetcher(html string, statusCode int, rtErr error) *Fetcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := New(logger, "h2.price", ".offer-price", 5*time.Second)
	f.client = &http.Client{Transport: &mockRoundTripper{
		response: &http.Response{
			StatusCode: statusCode,
			Status:     http.StatusText(statusCode),
			Body:       io.NopCloser(bytes.NewReader([]byte(html))),
		},
		err: rtErr,
	}}

	return f
}

func TestFetch(t *testing.T) {
	ctx := t.Context()

	t.Run("regular price only", func(t *testing.T) {
		html := `<html><body><h2 class="price">KES 1,299.50</h2></body></html>`
		f := newTestFetcher(html, http.StatusOK, nil)

		fetched, err := f.Fetch(ctx, "https://shop.example/a")

		require.NoError(t, err)
		assert.InDelta(t, 1299.50, fetched.Price, 0.001)
		assert.False(t, fetched.IsOffer)
	})

	t.Run("offer price wins over regular price", func(t *testing.T) {
		html := `<html><body>
			<h2 class="price">$1000.00</h2>
			<div class="offer-price">$950.00</div>
		</body></html>`
		f := newTestFetcher(html, http.StatusOK, nil)

		fetched, err := f.Fetch(ctx, "https://shop.example/a")

		require.NoError(t, err)
		assert.InDelta(t, 950.00, fetched.Price, 0.001)
		assert.True(t, fetched.IsOffer)
	})

	t.Run("no price element on page", func(t *testing.T) {
		html := `<html><body><p>out of stock</p></body></html>`
		f := newTestFetcher(html, http.StatusOK, nil)

		fetched, err := f.Fetch(ctx, "https://shop.example/a")

		require.ErrorIs(t, err, ErrPriceNotFound)
		assert.Nil(t, fetched)
	})

	t.Run("price element with unparsable text", func(t *testing.T) {
		html := `<html><body><h2 class="price">call for price</h2></body></html>`
		f := newTestFetcher(html, http.StatusOK, nil)

		_, err := f.Fetch(ctx, "https://shop.example/a")

		require.ErrorIs(t, err, ErrPriceNotFound)
	})

	t.Run("non-200 status", func(t *testing.T) {
		f := newTestFetcher("", http.StatusNotFound, nil)

		_, err := f.Fetch(ctx, "https://shop.example/a")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status code error")
	})

	t.Run("transport failure", func(t *testing.T) {
		f := newTestFetcher("", http.StatusOK, assert.AnError)

		_, err := f.Fetch(ctx, "https://shop.example/a")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to request")
	})

	t.Run("invalid URL", func(t *testing.T) {
		f := newTestFetcher("", http.StatusOK, nil)

		_, err := f.Fetch(ctx, "://not-a-url")

		require.Error(t, err)
	})
}

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "plain number", input: "950.00", expected: 950.00, ok: true},
		{name: "currency prefix", input: "KES 1299.50", expected: 1299.50, ok: true},
		{name: "dollar sign and comma", input: "$1,000.99", expected: 1000.99, ok: true},
		{name: "surrounding whitespace", input: "  499.99 ", expected: 499.99, ok: true},
		{name: "rounds to two decimals", input: "10.567", expected: 10.57, ok: true},
		{name: "no digits", input: "call for price", ok: false},
		{name: "empty string", input: "", ok: false},
		{name: "multiple dots", input: "1.2.3", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value, ok := parsePrice(tc.input)

			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.InDelta(t, tc.expected, value, 0.0001)
			}
		})
	}
}
