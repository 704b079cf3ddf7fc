package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kamirim/pricewatch/internal/models"
	"gopkg.in/telebot.v4"
)

// sender is the subset of the telebot API used by the channel.
type sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Telegram sends reconciliation summaries to a fixed chat.
type Telegram struct {
	log  *slog.Logger
	bot  sender
	chat telebot.ChatID
}

// NewTelegram creates the Telegram notification channel. The bot is
// send-only; no update poller is started.
func NewTelegram(log *slog.Logger, token string, chatID int64, timeout time.Duration) (*Telegram, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	log.Info("Authorized on account", "account", bot.Me.Username)

	return &Telegram{log: log, bot: bot, chat: telebot.ChatID(chatID)}, nil
}

// Send delivers a plain-text summary message. Empty input is a no-op.
func (t *Telegram) Send(ctx context.Context, changes []models.PriceChange, offers []models.NewOffer) error {
	if len(changes) == 0 && len(offers) == 0 {
		return nil
	}

	if _, err := t.bot.Send(t.chat, formatSummary(changes, offers)); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}

	t.log.InfoContext(ctx, "Telegram notification sent",
		"price_changes", len(changes), "new_offers", len(offers))

	return nil
}

func formatSummary(changes []models.PriceChange, offers []models.NewOffer) string {
	var sb strings.Builder
	sb.WriteString("Price Tracking Update\n")

	if len(changes) > 0 {
		sb.WriteString("\nPrice changes detected:\n")
		for _, change := range changes {
			fmt.Fprintf(&sb, "- %s: %.2f -> %.2f (%s%%)\n  %s\n",
				change.Name, change.OldPrice, change.NewPrice, change.PercentChange, change.URL)
		}
	}

	if len(offers) > 0 {
		sb.WriteString("\nNew offers discovered:\n")
		for _, offer := range offers {
			if offer.PreviousOfferPrice != nil {
				fmt.Fprintf(&sb, "- %s: offer %.2f (was %.2f)\n  %s\n",
					offer.Name, offer.OfferPrice, *offer.PreviousOfferPrice, offer.URL)
			} else {
				fmt.Fprintf(&sb, "- %s: new offer %.2f\n  %s\n",
					offer.Name, offer.OfferPrice, offer.URL)
			}
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
