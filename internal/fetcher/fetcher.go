package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kamirim/pricewatch/internal/models"
)

// ErrPriceNotFound is returned when a page contains neither a parsable
// regular price nor a parsable offer price.
var ErrPriceNotFound = errors.New("no price element found on page")

// priceNoise matches everything that is not part of a decimal number, so
// currency symbols and thousands separators can be stripped before parsing.
var priceNoise = regexp.MustCompile(`[^0-9.]`)

// Fetcher scrapes a product page and extracts its current price. The offer
// price element wins over the regular one when both are present.
type Fetcher struct {
	log           *slog.Logger
	client        *http.Client
	priceSelector string
	offerSelector string
}

// New creates a Fetcher with its own HTTP client enforcing the per-page
// timeout.
func New(log *slog.Logger, priceSelector, offerSelector string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		log:           log,
		client:        &http.Client{Timeout: timeout},
		priceSelector: priceSelector,
		offerSelector: offerSelector,
	}
}

// Fetch downloads the page at pageURL and returns the extracted price
// together with the offer flag. Any failure, including a page missing both
// price elements, is reported as an error; the caller treats it as a skip.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*models.FetchedPrice, error) {
	resp, err := f.getHTMLResponse(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get html response: %w", err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	if offerPrice, ok := f.extractPrice(doc, f.offerSelector); ok {
		f.log.DebugContext(ctx, "Extracted offer price", "url", pageURL, "price", offerPrice)
		return &models.FetchedPrice{Price: offerPrice, IsOffer: true}, nil
	}

	if normalPrice, ok := f.extractPrice(doc, f.priceSelector); ok {
		f.log.DebugContext(ctx, "Extracted regular price", "url", pageURL, "price", normalPrice)
		return &models.FetchedPrice{Price: normalPrice, IsOffer: false}, nil
	}

	return nil, ErrPriceNotFound
}

func (f *Fetcher) getHTMLResponse(ctx context.Context, pageURL string) (*http.Response, error) {
	reqURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")

	f.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", pageURL, err)
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	return res, nil
}

// extractPrice reads the first element matching the selector and parses its
// text as a 2-decimal price.
func (f *Fetcher) extractPrice(doc *goquery.Document, selector string) (float64, bool) {
	if selector == "" {
		return 0, false
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return 0, false
	}

	return parsePrice(sel.Text())
}

// parsePrice strips currency noise from raw element text and parses the
// remainder as a price rounded to 2 decimal places.
func parsePrice(raw string) (float64, bool) {
	cleaned := priceNoise.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return math.Round(value*100) / 100, true
}
