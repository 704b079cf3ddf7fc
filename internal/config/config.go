package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrBadInterval = errors.New("error getting PW_CHECK_INTERVAL: value must be a positive duration")

type Config struct {
	Env         string // Env is the current environment: local, development, production.
	HTTPPort    string
	StoragePath string // StoragePath is the path to the SQLite database file.
	Check       Check
	Email       Email
	Tg          Telegram
}

// Check holds the reconciliation cycle settings.
type Check struct {
	Interval      time.Duration // Interval between scheduled reconciliation cycles.
	FetchTimeout  time.Duration // FetchTimeout is the per-page HTTP timeout.
	PriceSelector string        // PriceSelector is the CSS selector of the regular price element.
	OfferSelector string        // OfferSelector is the CSS selector of the promotional price element.
}

// Email holds the SMTP notification channel settings.
type Email struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Enabled reports whether the e-mail channel is fully configured.
func (e Email) Enabled() bool {
	return e.Host != "" && e.From != "" && e.To != ""
}

// Telegram holds the Telegram notification channel settings.
type Telegram struct {
	Token   string
	ChatID  int64
	Timeout time.Duration // Timeout is the bot client timeout.
}

// Enabled reports whether the Telegram channel is fully configured.
func (t Telegram) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("PW")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("STORAGE_PATH", "./pricewatch.db")
	viper.SetDefault("CHECK_INTERVAL", "5m")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("PRICE_SELECTOR", "h2.css-17ctnp")
	viper.SetDefault("OFFER_SELECTOR", ".css-1i90gmp")
	viper.SetDefault("EMAIL_PORT", 587)
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")

	if viper.GetDuration("CHECK_INTERVAL") <= 0 {
		panic(ErrBadInterval)
	}

	return &Config{
		Env:         viper.GetString("ENV"),
		HTTPPort:    viper.GetString("HTTP_PORT"),
		StoragePath: viper.GetString("STORAGE_PATH"),
		Check: Check{
			Interval:      viper.GetDuration("CHECK_INTERVAL"),
			FetchTimeout:  viper.GetDuration("FETCH_TIMEOUT"),
			PriceSelector: viper.GetString("PRICE_SELECTOR"),
			OfferSelector: viper.GetString("OFFER_SELECTOR"),
		},
		Email: Email{
			Host:     viper.GetString("EMAIL_HOST"),
			Port:     viper.GetInt("EMAIL_PORT"),
			Username: viper.GetString("EMAIL_USER"),
			Password: viper.GetString("EMAIL_PASSWORD"),
			From:     viper.GetString("EMAIL_FROM"),
			To:       viper.GetString("EMAIL_TO"),
		},
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			ChatID:  viper.GetInt64("TELEGRAM_CHAT_ID"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}
}
