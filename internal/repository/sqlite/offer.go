package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kamirim/pricewatch/internal/models"
	"github.com/kamirim/pricewatch/internal/repository"
)

// LatestOfferByURL returns the most recently recorded offer for a product
// URL, or repository.ErrOfferNotFound when none exists.
func (r *Repository) LatestOfferByURL(ctx context.Context, url string) (*models.Offer, error) {
	const opn = "repository.sqlite.LatestOfferByURL"

	row := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, name, url, offer_price, created_at
		 FROM offers
		 WHERE url = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`, url)

	offer, err := scanOffer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrOfferNotFound
		}
		return nil, fmt.Errorf("%s: failed to get offer for url %s: %w", opn, url, err)
	}

	return offer, nil
}

// CreateOffer appends a new offer row. Offers are never updated in place.
func (r *Repository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	const opn = "repository.sqlite.CreateOffer"

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO offers (product_id, name, url, offer_price, created_at) VALUES (?, ?, ?, ?, ?)",
		offer.ProductID, offer.Name, offer.URL, offer.OfferPrice, now)
	if err != nil {
		return fmt.Errorf("%s: failed to insert offer for %s: %w", opn, offer.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: failed to get inserted id: %w", opn, err)
	}

	offer.ID = id
	offer.CreatedAt = now

	return nil
}

// ListOffers returns all recorded offers, newest first.
func (r *Repository) ListOffers(ctx context.Context) ([]models.Offer, error) {
	const opn = "repository.sqlite.ListOffers"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, url, offer_price, created_at
		 FROM offers
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query offers: %w", opn, err)
	}
	defer rows.Close()

	var offers []models.Offer
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan offer: %w", opn, err)
		}
		offers = append(offers, *offer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return offers, nil
}

func scanOffer(row rowScanner) (*models.Offer, error) {
	var (
		offer     models.Offer
		productID sql.NullInt64
	)

	if err := row.Scan(&offer.ID, &productID, &offer.Name, &offer.URL, &offer.OfferPrice, &offer.CreatedAt); err != nil {
		return nil, err
	}

	if productID.Valid {
		offer.ProductID = &productID.Int64
	}

	return &offer, nil
}
