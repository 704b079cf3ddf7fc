package models

import "time"

// Product is a competitor product whose price is tracked.
type Product struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	CompetitorName string     `json:"competitorName"`
	CurrentPrice   *float64   `json:"currentPrice"`
	PreviousPrice  *float64   `json:"previousPrice,omitempty"`
	IsOffer        bool       `json:"isOffer"`
	LastChecked    *time.Time `json:"lastChecked,omitempty"`
	LastUpdated    time.Time  `json:"lastUpdated"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// PriceObservation is one timestamped price reading for a product.
// History is append-only: the latest reading is derived by ordering on
// ObservedAt, never by mutating recorded prices.
type PriceObservation struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"productId"`
	Price         float64   `json:"price"`
	PreviousPrice *float64  `json:"previousPrice,omitempty"`
	ObservedAt    time.Time `json:"observedAt"`
}

// Offer is a recorded promotional price for a product URL. Offer rows are
// never updated in place; a changed offer price produces a new row.
type Offer struct {
	ID         int64     `json:"id"`
	ProductID  *int64    `json:"productId,omitempty"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	OfferPrice float64   `json:"offerPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FetchedPrice is the result of scraping a product page.
type FetchedPrice struct {
	Price   float64
	IsOffer bool
}

// PriceChange describes one detected price movement for notification.
type PriceChange struct {
	Name          string  `json:"name"`
	URL           string  `json:"url"`
	OldPrice      float64 `json:"oldPrice"`
	NewPrice      float64 `json:"newPrice"`
	PercentChange string  `json:"percentChange"`
}

// NewOffer describes one newly recorded promotional price for notification.
type NewOffer struct {
	Name               string   `json:"name"`
	URL                string   `json:"url"`
	OfferPrice         float64  `json:"offerPrice"`
	PreviousOfferPrice *float64 `json:"previousOfferPrice"`
}

// Result is the aggregated outcome of one reconciliation cycle.
type Result struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	PriceChanges []PriceChange `json:"priceChanges"`
	NewOffers    []NewOffer    `json:"newOffers"`
}

// ProductLatest pairs a product with its most recent observation, if any.
type ProductLatest struct {
	Product
	Latest *PriceObservation `json:"latestObservation,omitempty"`
}
