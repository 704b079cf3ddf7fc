package config_test

import (
	"testing"
	"time"

	"github.com/kamirim/pricewatch/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoad(t *testing.T) {
	t.Run("error - non-positive check interval", func(t *testing.T) {
		t.Setenv("PW_CHECK_INTERVAL", "0s")

		assert.PanicsWithError(t, config.ErrBadInterval.Error(), func() {
			config.MustLoad()
		})
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("PW_ENV", "local")
		t.Setenv("PW_CHECK_INTERVAL", "1m")
		t.Setenv("PW_STORAGE_PATH", "some/path/to/db")
		t.Setenv("PW_EMAIL_HOST", "smtp.example.com")
		t.Setenv("PW_EMAIL_FROM", "alerts@example.com")
		t.Setenv("PW_EMAIL_TO", "owner@example.com")
		t.Setenv("PW_TELEGRAM_TOKEN", "telegramToken")
		t.Setenv("PW_TELEGRAM_CHAT_ID", "12345")

		cfg := config.MustLoad()

		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, "some/path/to/db", cfg.StoragePath)
		assert.Equal(t, time.Minute, cfg.Check.Interval)
		assert.Equal(t, 30*time.Second, cfg.Check.FetchTimeout)
		assert.Equal(t, "h2.css-17ctnp", cfg.Check.PriceSelector)
		assert.Equal(t, ".css-1i90gmp", cfg.Check.OfferSelector)
		assert.True(t, cfg.Email.Enabled())
		assert.Equal(t, 587, cfg.Email.Port)
		assert.True(t, cfg.Tg.Enabled())
		assert.Equal(t, int64(12345), cfg.Tg.ChatID)
		assert.Equal(t, 15*time.Second, cfg.Tg.Timeout)
	})

	t.Run("notification channels disabled when not configured", func(t *testing.T) {
		t.Setenv("PW_CHECK_INTERVAL", "1m")
		t.Setenv("PW_EMAIL_HOST", "")
		t.Setenv("PW_EMAIL_FROM", "")
		t.Setenv("PW_EMAIL_TO", "")
		t.Setenv("PW_TELEGRAM_TOKEN", "")
		t.Setenv("PW_TELEGRAM_CHAT_ID", "")

		cfg := config.MustLoad()

		assert.False(t, cfg.Email.Enabled())
		assert.False(t, cfg.Tg.Enabled())
	})
}
