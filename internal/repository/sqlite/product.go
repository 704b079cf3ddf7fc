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

// CreateProduct inserts a new tracked product and fills in its generated
// id and timestamps.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	const opn = "repository.sqlite.CreateProduct"

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, url, competitor_name, current_price, is_offer, last_updated, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.Name, product.URL, product.CompetitorName, product.CurrentPrice, product.IsOffer, now, now)
	if err != nil {
		return fmt.Errorf("%s: failed to insert product %s: %w", opn, product.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: failed to get inserted id: %w", opn, err)
	}

	product.ID = id
	product.LastUpdated = now
	product.CreatedAt = now

	return nil
}

// ListProducts returns every tracked product.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	const opn = "repository.sqlite.ListProducts"

	rows, err := r.db.QueryContext(ctx, productSelect+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query products: %w", opn, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan product: %w", opn, err)
		}
		products = append(products, *product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", opn, err)
	}

	return products, nil
}

// ProductByID returns a single product or repository.ErrProductNotFound.
func (r *Repository) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	const opn = "repository.sqlite.ProductByID"

	row := r.db.QueryRowContext(ctx, productSelect+" WHERE id = ?", id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: failed to get product %d: %w", opn, id, err)
	}

	return product, nil
}

// UpdateProductPrice records a new current price on the product row. The
// previous price is nil on a first observation.
func (r *Repository) UpdateProductPrice(
	ctx context.Context,
	id int64,
	current float64,
	previous *float64,
	isOffer bool,
) error {
	const opn = "repository.sqlite.UpdateProductPrice"

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET current_price = ?, previous_price = ?, is_offer = ?, last_checked = ?, last_updated = ?
		 WHERE id = ?`,
		current, previous, isOffer, now, now, id)
	if err != nil {
		return fmt.Errorf("%s: failed to update product %d: %w", opn, id, err)
	}

	return nil
}

// TouchProduct refreshes the check timestamps without touching price fields.
func (r *Repository) TouchProduct(ctx context.Context, id int64) error {
	const opn = "repository.sqlite.TouchProduct"

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"UPDATE products SET last_checked = ?, last_updated = ? WHERE id = ?", now, now, id)
	if err != nil {
		return fmt.Errorf("%s: failed to touch product %d: %w", opn, id, err)
	}

	return nil
}

const productSelect = `SELECT id, name, url, competitor_name, current_price, previous_price,
	is_offer, last_checked, last_updated, created_at FROM products`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		product       models.Product
		currentPrice  sql.NullFloat64
		previousPrice sql.NullFloat64
		lastChecked   sql.NullTime
	)

	err := row.Scan(
		&product.ID, &product.Name, &product.URL, &product.CompetitorName,
		&currentPrice, &previousPrice, &product.IsOffer,
		&lastChecked, &product.LastUpdated, &product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if currentPrice.Valid {
		product.CurrentPrice = &currentPrice.Float64
	}
	if previousPrice.Valid {
		product.PreviousPrice = &previousPrice.Float64
	}
	if lastChecked.Valid {
		product.LastChecked = &lastChecked.Time
	}

	return &product, nil
}
