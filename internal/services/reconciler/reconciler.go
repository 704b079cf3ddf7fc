package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/kamirim/pricewatch/internal/models"
	"github.com/kamirim/pricewatch/internal/repository"
)

// ErrCycleInProgress is returned when a reconciliation cycle is already
// running. Cycles never overlap: a reentrant trigger is rejected, not
// queued, so a single change cannot be counted or mailed twice.
var ErrCycleInProgress = errors.New("reconciliation cycle already in progress")

// priceTolerance absorbs floating-point noise from decimal conversions.
// Prices are treated as fixed 2-decimal values throughout.
const priceTolerance = 0.001

// Fetcher returns the current price shown on a product page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*models.FetchedPrice, error)
}

// Repository is the persistence surface the engine mutates.
type Repository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id int64) (*models.Product, error)
	UpdateProductPrice(ctx context.Context, id int64, current float64, previous *float64, isOffer bool) error
	TouchProduct(ctx context.Context, id int64) error
	LatestObservation(ctx context.Context, productID int64) (*models.PriceObservation, error)
	InsertObservation(ctx context.Context, obs *models.PriceObservation) error
	TouchObservation(ctx context.Context, id int64) error
	LatestOfferByURL(ctx context.Context, url string) (*models.Offer, error)
	CreateOffer(ctx context.Context, offer *models.Offer) error
}

// Notifier delivers the aggregated change set. Delivery failure never
// affects the reconciliation result.
type Notifier interface {
	Send(ctx context.Context, changes []models.PriceChange, offers []models.NewOffer) error
}

// Reconciler orchestrates fetch -> compare -> persist -> notify for the
// products in scope. Products are processed one at a time; a failure in one
// product never aborts the rest of the cycle.
type Reconciler struct {
	log      *slog.Logger
	fetcher  Fetcher
	repo     Repository
	notifier Notifier
	busy     sync.Mutex
}

// New creates a new Reconciler instance.
func New(log *slog.Logger, fetcher Fetcher, repo Repository, notifier Notifier) *Reconciler {
	return &Reconciler{log: log, fetcher: fetcher, repo: repo, notifier: notifier}
}

// ReconcileAll runs one cycle over every tracked product.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*models.Result, error) {
	return r.reconcile(ctx, nil)
}

// ReconcileProduct runs one cycle scoped to a single product id.
func (r *Reconciler) ReconcileProduct(ctx context.Context, productID int64) (*models.Result, error) {
	return r.reconcile(ctx, &productID)
}

func (r *Reconciler) reconcile(ctx context.Context, productID *int64) (*models.Result, error) {
	const opn = "reconciler.Reconcile"

	if !r.busy.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer r.busy.Unlock()

	log := r.log.With("op", opn)

	products, err := r.resolveScope(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve scope: %w", opn, err)
	}
	if len(products) == 0 {
		log.InfoContext(ctx, "No products found to check")
		return &models.Result{Success: false, Message: "No products found to check"}, nil
	}

	var (
		changes []models.PriceChange
		offers  []models.NewOffer
	)

	for _, product := range products {
		// Cancellation is cooperative and coarse-grained: checked between
		// products, never inside a product's fetch-and-persist sequence.
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: cycle cancelled: %w", opn, err)
		}

		change, offer, err := r.reconcileProduct(ctx, product)
		if err != nil {
			log.ErrorContext(ctx, "Failed to process product",
				"product", product.Name, "url", product.URL, "error", err)
			continue
		}
		if change != nil {
			changes = append(changes, *change)
		}
		if offer != nil {
			offers = append(offers, *offer)
		}
	}

	if len(changes) > 0 || len(offers) > 0 {
		if err = r.notifier.Send(ctx, changes, offers); err != nil {
			log.ErrorContext(ctx, "Failed to send notification", "error", err)
		}
	}

	message := "Prices checked, no changes detected"
	if len(changes) > 0 || len(offers) > 0 {
		message = "Price changes or new offers detected"
	}

	return &models.Result{
		Success:      true,
		Message:      message,
		PriceChanges: changes,
		NewOffers:    offers,
	}, nil
}

// resolveScope loads the products targeted by this cycle: all tracked
// products, or exactly one by id.
func (r *Reconciler) resolveScope(ctx context.Context, productID *int64) ([]models.Product, error) {
	if productID == nil {
		return r.repo.ListProducts(ctx)
	}

	product, err := r.repo.ProductByID(ctx, *productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return []models.Product{*product}, nil
}

// reconcileProduct runs the decision tree for one product. A nil change and
// nil offer with nil error means the product was skipped or unchanged.
func (r *Reconciler) reconcileProduct(
	ctx context.Context,
	product models.Product,
) (*models.PriceChange, *models.NewOffer, error) {
	fetched, err := r.fetcher.Fetch(ctx, product.URL)
	if err != nil || fetched == nil {
		// A fetch failure only skips this product for the cycle.
		r.log.WarnContext(ctx, "Failed to fetch price, skipping product",
			"product", product.Name, "url", product.URL, "error", err)
		return nil, nil, nil
	}

	newPrice := round2(fetched.Price)

	latest, err := r.repo.LatestObservation(ctx, product.ID)
	if err != nil && !errors.Is(err, repository.ErrObservationNotFound) {
		return nil, nil, fmt.Errorf("failed to get latest observation: %w", err)
	}

	var lastPrice *float64
	if latest != nil {
		lastPrice = &latest.Price
	}

	r.log.DebugContext(ctx, "Comparing prices",
		"product", product.Name, "last_price", lastPrice, "new_price", newPrice)

	var offerEntry *models.NewOffer
	if fetched.IsOffer {
		offerEntry, err = r.recordOffer(ctx, product, newPrice)
		if err != nil {
			return nil, nil, err
		}
	}

	switch {
	case lastPrice != nil && math.Abs(*lastPrice-newPrice) > priceTolerance:
		change, err := r.applyPriceChange(ctx, product, *lastPrice, newPrice, fetched.IsOffer)
		if err != nil {
			return nil, nil, err
		}
		return change, offerEntry, nil

	case lastPrice == nil:
		if err = r.applyFirstObservation(ctx, product, newPrice, fetched.IsOffer); err != nil {
			return nil, nil, err
		}
		// An initial observation is not a change.
		return nil, offerEntry, nil

	default:
		// Unchanged within tolerance: only timestamps move.
		if err = r.repo.TouchObservation(ctx, latest.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to refresh observation: %w", err)
		}
		if err = r.repo.TouchProduct(ctx, product.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to refresh product: %w", err)
		}
		return nil, offerEntry, nil
	}
}

// applyPriceChange persists a detected price movement: the product row gets
// the new current price with the prior one snapshotted, and a new
// observation row is appended (history is append-only; "latest" is derived
// by ordering, never by mutating recorded prices).
func (r *Reconciler) applyPriceChange(
	ctx context.Context,
	product models.Product,
	lastPrice, newPrice float64,
	isOffer bool,
) (*models.PriceChange, error) {
	r.log.InfoContext(ctx, "Price changed",
		"product", product.Name, "old_price", lastPrice, "new_price", newPrice)

	if err := r.repo.UpdateProductPrice(ctx, product.ID, newPrice, &lastPrice, isOffer); err != nil {
		return nil, fmt.Errorf("failed to update product price: %w", err)
	}

	obs := &models.PriceObservation{
		ProductID:     product.ID,
		Price:         newPrice,
		PreviousPrice: &lastPrice,
	}
	if err := r.repo.InsertObservation(ctx, obs); err != nil {
		return nil, fmt.Errorf("failed to insert observation: %w", err)
	}

	return &models.PriceChange{
		Name:          product.Name,
		URL:           product.URL,
		OldPrice:      lastPrice,
		NewPrice:      newPrice,
		PercentChange: fmt.Sprintf("%.2f", (newPrice-lastPrice)/lastPrice*100),
	}, nil
}

// applyFirstObservation persists a product's very first successful reading.
func (r *Reconciler) applyFirstObservation(
	ctx context.Context,
	product models.Product,
	newPrice float64,
	isOffer bool,
) error {
	r.log.InfoContext(ctx, "Initial price set", "product", product.Name, "price", newPrice)

	obs := &models.PriceObservation{ProductID: product.ID, Price: newPrice}
	if err := r.repo.InsertObservation(ctx, obs); err != nil {
		return fmt.Errorf("failed to insert first observation: %w", err)
	}

	if err := r.repo.UpdateProductPrice(ctx, product.ID, newPrice, nil, isOffer); err != nil {
		return fmt.Errorf("failed to set initial product price: %w", err)
	}

	return nil
}

// recordOffer appends an offer row when no offer exists for the URL yet or
// the stored offer price differs from the new one. Offer detection is
// independent of price-change detection.
func (r *Reconciler) recordOffer(
	ctx context.Context,
	product models.Product,
	newPrice float64,
) (*models.NewOffer, error) {
	existing, err := r.repo.LatestOfferByURL(ctx, product.URL)
	if err != nil && !errors.Is(err, repository.ErrOfferNotFound) {
		return nil, fmt.Errorf("failed to look up existing offer: %w", err)
	}

	var previousPrice *float64
	if existing != nil {
		if math.Abs(existing.OfferPrice-newPrice) <= priceTolerance {
			// Same promotional price already on record.
			return nil, nil
		}
		previousPrice = &existing.OfferPrice
	}

	offer := &models.Offer{
		ProductID:  &product.ID,
		Name:       product.Name,
		URL:        product.URL,
		OfferPrice: newPrice,
	}
	if err = r.repo.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	r.log.InfoContext(ctx, "New offer recorded",
		"product", product.Name, "offer_price", newPrice)

	return &models.NewOffer{
		Name:               product.Name,
		URL:                product.URL,
		OfferPrice:         newPrice,
		PreviousOfferPrice: previousPrice,
	}, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
