package notifier

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kamirim/pricewatch/internal/models"
)

// Notifier delivers a reconciliation summary to one channel. Implementations
// must treat delivery as best-effort and never panic past this boundary.
type Notifier interface {
	Send(ctx context.Context, changes []models.PriceChange, offers []models.NewOffer) error
}

// Multi fans a summary out to every configured channel. A failing channel
// does not prevent delivery to the others.
type Multi struct {
	log      *slog.Logger
	channels []Notifier
}

// NewMulti creates a fan-out notifier over the given channels.
func NewMulti(log *slog.Logger, channels ...Notifier) *Multi {
	return &Multi{log: log, channels: channels}
}

// Send delivers to all channels and joins their errors.
func (m *Multi) Send(ctx context.Context, changes []models.PriceChange, offers []models.NewOffer) error {
	var errs []error
	for _, channel := range m.channels {
		if err := channel.Send(ctx, changes, offers); err != nil {
			m.log.ErrorContext(ctx, "notification channel failed", "error", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
