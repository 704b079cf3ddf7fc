package sqlite_test

import (
	"testing"

	"github.com/kamirim/pricewatch/internal/models"
	"github.com/kamirim/pricewatch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffers(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	product := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")

	t.Run("lookup on empty table", func(t *testing.T) {
		_, err := repo.LatestOfferByURL(ctx, product.URL)
		require.ErrorIs(t, err, repository.ErrOfferNotFound)
	})

	first := models.Offer{ProductID: &product.ID, Name: product.Name, URL: product.URL, OfferPrice: 90.00}
	require.NoError(t, repo.CreateOffer(ctx, &first))
	assert.Positive(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := models.Offer{ProductID: &product.ID, Name: product.Name, URL: product.URL, OfferPrice: 85.00}
	require.NoError(t, repo.CreateOffer(ctx, &second))

	t.Run("lookup returns the most recent offer for the URL", func(t *testing.T) {
		offer, err := repo.LatestOfferByURL(ctx, product.URL)
		require.NoError(t, err)
		assert.Equal(t, second.ID, offer.ID)
		assert.InDelta(t, 85.00, offer.OfferPrice, 0.001)
		require.NotNil(t, offer.ProductID)
		assert.Equal(t, product.ID, *offer.ProductID)
	})

	t.Run("rows are append-only, both offers remain", func(t *testing.T) {
		offers, err := repo.ListOffers(ctx)
		require.NoError(t, err)
		require.Len(t, offers, 2)
		// Newest first.
		assert.Equal(t, second.ID, offers[0].ID)
		assert.Equal(t, first.ID, offers[1].ID)
	})

	t.Run("legacy offer without product id", func(t *testing.T) {
		legacy := models.Offer{Name: "Legacy", URL: "https://shop.example/legacy", OfferPrice: 10.00}
		require.NoError(t, repo.CreateOffer(ctx, &legacy))

		offer, err := repo.LatestOfferByURL(ctx, legacy.URL)
		require.NoError(t, err)
		assert.Nil(t, offer.ProductID)
	})
}
