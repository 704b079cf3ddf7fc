package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kamirim/pricewatch/internal/config"
	"github.com/kamirim/pricewatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

func f64(v float64) *float64 {
	return &v
}

func testChanges() []models.PriceChange {
	return []models.PriceChange{{
		Name:          "Product A",
		URL:           "https://shop.example/a",
		OldPrice:      1000.00,
		NewPrice:      950.00,
		PercentChange: "-5.00",
	}}
}

func testOffers() []models.NewOffer {
	return []models.NewOffer{
		{Name: "Product B", URL: "https://shop.example/b", OfferPrice: 499.99},
		{Name: "Product C", URL: "https://shop.example/c", OfferPrice: 89.00, PreviousOfferPrice: f64(99.00)},
	}
}

func TestRenderEmailBody(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	t.Run("changes and offers", func(t *testing.T) {
		body, err := renderEmailBody(testChanges(), testOffers(), now)
		require.NoError(t, err)

		assert.Contains(t, body, "<h1>Price Tracking Update</h1>")
		assert.Contains(t, body, "Price Changes Detected")
		assert.Contains(t, body, "<strong>Product A</strong>")
		assert.Contains(t, body, "Old Price: $1000.00")
		assert.Contains(t, body, "New Price: $950.00")
		assert.Contains(t, body, "Change: -5.00%")
		assert.Contains(t, body, "New Offers Discovered")
		assert.Contains(t, body, "Offer Price: $499.99")
		assert.Contains(t, body, "<em>New Offer!</em>")
		assert.Contains(t, body, "Previous Offer Price: $99.00")
		assert.Contains(t, body, "Generated on: 2025-03-14 15:09:26")
	})

	t.Run("changes only omits the offers section", func(t *testing.T) {
		body, err := renderEmailBody(testChanges(), nil, now)
		require.NoError(t, err)

		assert.Contains(t, body, "Price Changes Detected")
		assert.NotContains(t, body, "New Offers Discovered")
	})

	t.Run("offers only omits the changes section", func(t *testing.T) {
		body, err := renderEmailBody(nil, testOffers(), now)
		require.NoError(t, err)

		assert.NotContains(t, body, "Price Changes Detected")
		assert.Contains(t, body, "New Offers Discovered")
	})
}

func TestEmailSend_EmptyIsNoOp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// An unreachable host proves nothing is dialed for empty input.
	email := NewEmail(logger, config.Email{Host: "smtp.invalid", Port: 587, From: "a@b", To: "c@d"})

	err := email.Send(t.Context(), nil, nil)

	require.NoError(t, err)
}

func TestFormatSummary(t *testing.T) {
	text := formatSummary(testChanges(), testOffers())

	assert.Contains(t, text, "Price Tracking Update")
	assert.Contains(t, text, "Product A: 1000.00 -> 950.00 (-5.00%)")
	assert.Contains(t, text, "Product B: new offer 499.99")
	assert.Contains(t, text, "Product C: offer 89.00 (was 99.00)")
	assert.Contains(t, text, "https://shop.example/a")
}

// stubSender captures the message sent through the telebot API.
type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(_ telebot.Recipient, what interface{}, _ ...interface{}) (*telebot.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, what.(string))

	return &telebot.Message{}, nil
}

func TestTelegramSend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("delivers one summary message", func(t *testing.T) {
		stub := &stubSender{}
		tg := &Telegram{log: logger, bot: stub, chat: telebot.ChatID(1)}

		err := tg.Send(t.Context(), testChanges(), nil)

		require.NoError(t, err)
		require.Len(t, stub.sent, 1)
		assert.Contains(t, stub.sent[0], "Product A")
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		stub := &stubSender{}
		tg := &Telegram{log: logger, bot: stub, chat: telebot.ChatID(1)}

		err := tg.Send(t.Context(), nil, nil)

		require.NoError(t, err)
		assert.Empty(t, stub.sent)
	})

	t.Run("delivery failure is wrapped", func(t *testing.T) {
		stub := &stubSender{err: assert.AnError}
		tg := &Telegram{log: logger, bot: stub, chat: telebot.ChatID(1)}

		err := tg.Send(t.Context(), testChanges(), nil)

		require.ErrorIs(t, err, assert.AnError)
	})
}

// stubChannel is a minimal Notifier for fan-out tests.
type stubChannel struct {
	calls int
	err   error
}

func (s *stubChannel) Send(_ context.Context, _ []models.PriceChange, _ []models.NewOffer) error {
	s.calls++
	return s.err
}

func TestMultiSend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("all channels receive the summary", func(t *testing.T) {
		first := &stubChannel{}
		second := &stubChannel{}
		multi := NewMulti(logger, first, second)

		err := multi.Send(t.Context(), testChanges(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("a failing channel does not block the others", func(t *testing.T) {
		failing := &stubChannel{err: errors.New("smtp down")}
		healthy := &stubChannel{}
		multi := NewMulti(logger, failing, healthy)

		err := multi.Send(t.Context(), testChanges(), nil)

		require.Error(t, err)
		assert.Equal(t, 1, healthy.calls)
	})

	t.Run("no channels configured", func(t *testing.T) {
		multi := NewMulti(logger)

		require.NoError(t, multi.Send(t.Context(), testChanges(), nil))
	})
}
