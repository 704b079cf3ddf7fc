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

// LatestObservation returns the most recent observation for a product, or
// repository.ErrObservationNotFound when none has been recorded yet.
func (r *Repository) LatestObservation(ctx context.Context, productID int64) (*models.PriceObservation, error) {
	const opn = "repository.sqlite.LatestObservation"

	row := r.db.QueryRowContext(ctx,
		`SELECT id, product_id, price, previous_price, observed_at
		 FROM price_observations
		 WHERE product_id = ?
		 ORDER BY observed_at DESC, id DESC
		 LIMIT 1`, productID)

	obs, err := scanObservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrObservationNotFound
		}
		return nil, fmt.Errorf("%s: failed to get latest observation for product %d: %w", opn, productID, err)
	}

	return obs, nil
}

// InsertObservation appends a new observation row and fills in its
// generated id and timestamp.
func (r *Repository) InsertObservation(ctx context.Context, obs *models.PriceObservation) error {
	const opn = "repository.sqlite.InsertObservation"

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO price_observations (product_id, price, previous_price, observed_at) VALUES (?, ?, ?, ?)",
		obs.ProductID, obs.Price, obs.PreviousPrice, now)
	if err != nil {
		return fmt.Errorf("%s: failed to insert observation for product %d: %w", opn, obs.ProductID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: failed to get inserted id: %w", opn, err)
	}

	obs.ID = id
	obs.ObservedAt = now

	return nil
}

// TouchObservation refreshes the timestamp of an observation without
// touching its recorded price.
func (r *Repository) TouchObservation(ctx context.Context, id int64) error {
	const opn = "repository.sqlite.TouchObservation"

	_, err := r.db.ExecContext(ctx,
		"UPDATE price_observations SET observed_at = ? WHERE id = ?", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("%s: failed to touch observation %d: %w", opn, id, err)
	}

	return nil
}

// ObservationsByProduct returns the full price history of a product,
// oldest first.
func (r *Repository) ObservationsByProduct(ctx context.Context, productID int64) ([]models.PriceObservation, error) {
	const opn = "repository.sqlite.ObservationsByProduct"

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, price, previous_price, observed_at
		 FROM price_observations
		 WHERE product_id = ?
		 ORDER BY observed_at ASC, id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query observations: %w", opn, err)
	}
	defer rows.Close()

	var history []models.PriceObservation
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan observation: %w", opn, err)
		}
		history = append(history, *obs)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return history, nil
}

// ProductsWithLatest returns every product joined with its most recent
// observation, if one exists.
func (r *Repository) ProductsWithLatest(ctx context.Context) ([]models.ProductLatest, error) {
	const opn = "repository.sqlite.ProductsWithLatest"

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.name, p.url, p.competitor_name, p.current_price, p.previous_price,
			p.is_offer, p.last_checked, p.last_updated, p.created_at,
			o.id, o.product_id, o.price, o.previous_price, o.observed_at
		 FROM products p
		 LEFT JOIN price_observations o ON o.id = (
			SELECT id FROM price_observations
			WHERE product_id = p.id
			ORDER BY observed_at DESC, id DESC
			LIMIT 1)
		 ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query products with latest observation: %w", opn, err)
	}
	defer rows.Close()

	var result []models.ProductLatest
	for rows.Next() {
		var (
			entry         models.ProductLatest
			currentPrice  sql.NullFloat64
			previousPrice sql.NullFloat64
			lastChecked   sql.NullTime
			obsID         sql.NullInt64
			obsProductID  sql.NullInt64
			obsPrice      sql.NullFloat64
			obsPrevious   sql.NullFloat64
			obsTime       sql.NullTime
		)

		err = rows.Scan(
			&entry.ID, &entry.Name, &entry.URL, &entry.CompetitorName,
			&currentPrice, &previousPrice, &entry.IsOffer,
			&lastChecked, &entry.LastUpdated, &entry.CreatedAt,
			&obsID, &obsProductID, &obsPrice, &obsPrevious, &obsTime,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", opn, err)
		}

		if currentPrice.Valid {
			entry.CurrentPrice = &currentPrice.Float64
		}
		if previousPrice.Valid {
			entry.PreviousPrice = &previousPrice.Float64
		}
		if lastChecked.Valid {
			entry.LastChecked = &lastChecked.Time
		}
		if obsID.Valid {
			obs := models.PriceObservation{
				ID:         obsID.Int64,
				ProductID:  obsProductID.Int64,
				Price:      obsPrice.Float64,
				ObservedAt: obsTime.Time,
			}
			if obsPrevious.Valid {
				obs.PreviousPrice = &obsPrevious.Float64
			}
			entry.Latest = &obs
		}

		result = append(result, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return result, nil
}

func scanObservation(row rowScanner) (*models.PriceObservation, error) {
	var (
		obs      models.PriceObservation
		previous sql.NullFloat64
	)

	if err := row.Scan(&obs.ID, &obs.ProductID, &obs.Price, &previous, &obs.ObservedAt); err != nil {
		return nil, err
	}

	if previous.Valid {
		obs.PreviousPrice = &previous.Float64
	}

	return &obs, nil
}
