package notifier

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/kamirim/pricewatch/internal/config"
	"github.com/kamirim/pricewatch/internal/models"
	"gopkg.in/gomail.v2"
)

// emailBody renders the notification summary. Layout mirrors the alert mail
// sent by the tracker: a price-changes section and a new-offers section,
// each present only when non-empty.
var emailBody = template.Must(template.New("email").Funcs(template.FuncMap{
	"deref": func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	},
}).Parse(`
<html>
<body>
  <h1>Price Tracking Update</h1>
{{- if .Changes}}
  <h2>Price Changes Detected</h2>
  <ul>
  {{- range .Changes}}
    <li>
      <strong>{{.Name}}</strong>
      <br>Old Price: ${{printf "%.2f" .OldPrice}}
      <br>New Price: ${{printf "%.2f" .NewPrice}}
      <br>Change: {{.PercentChange}}%
      <br>Product URL: <a href="{{.URL}}">{{.URL}}</a>
    </li>
  {{- end}}
  </ul>
{{- end}}
{{- if .Offers}}
  <h2>New Offers Discovered</h2>
  <ul>
  {{- range .Offers}}
    <li>
      <strong>{{.Name}}</strong>
      <br>Offer Price: ${{printf "%.2f" .OfferPrice}}
      {{- if .PreviousOfferPrice}}
      <br>Previous Offer Price: ${{printf "%.2f" (deref .PreviousOfferPrice)}}
      {{- else}}
      <br><em>New Offer!</em>
      {{- end}}
      <br>Product URL: <a href="{{.URL}}">{{.URL}}</a>
    </li>
  {{- end}}
  </ul>
{{- end}}
  <p><small>Generated on: {{.GeneratedAt}}</small></p>
</body>
</html>
`))

type emailData struct {
	Changes     []models.PriceChange
	Offers      []models.NewOffer
	GeneratedAt string
}

// Email sends reconciliation summaries over SMTP.
type Email struct {
	log    *slog.Logger
	dialer *gomail.Dialer
	from   string
	to     string
}

// NewEmail creates the SMTP notification channel from config.
func NewEmail(log *slog.Logger, cfg config.Email) *Email {
	return &Email{
		log:    log,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// Send builds and delivers the HTML summary mail. Empty input is a no-op.
func (e *Email) Send(ctx context.Context, changes []models.PriceChange, offers []models.NewOffer) error {
	if len(changes) == 0 && len(offers) == 0 {
		e.log.DebugContext(ctx, "No changes to report. Skipping email.")
		return nil
	}

	body, err := renderEmailBody(changes, offers, time.Now())
	if err != nil {
		return fmt.Errorf("failed to render email body: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", e.from)
	msg.SetHeader("To", e.to)
	msg.SetHeader("Subject",
		fmt.Sprintf("Price Tracker Alert: %d Changes, %d Offers", len(changes), len(offers)))
	msg.SetBody("text/html", body)

	if err = e.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email notification: %w", err)
	}

	e.log.InfoContext(ctx, "Email notification sent",
		"price_changes", len(changes), "new_offers", len(offers))

	return nil
}

func renderEmailBody(changes []models.PriceChange, offers []models.NewOffer, now time.Time) (string, error) {
	var buf strings.Builder
	err := emailBody.Execute(&buf, emailData{
		Changes:     changes,
		Offers:      offers,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}

	return buf.String(), nil
}
