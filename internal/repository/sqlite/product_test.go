package sqlite_test

import (
	"testing"

	"github.com/kamirim/pricewatch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	product := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")

	assert.Positive(t, product.ID)
	assert.False(t, product.CreatedAt.IsZero())
	assert.False(t, product.LastUpdated.IsZero())

	t.Run("duplicate URL is rejected", func(t *testing.T) {
		price := 50.00
		dup := product
		dup.ID = 0
		dup.CurrentPrice = &price

		err := repo.CreateProduct(ctx, &dup)
		require.Error(t, err)
	})
}

func TestListProducts(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	t.Run("empty table", func(t *testing.T) {
		products, err := repo.ListProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	first := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")
	second := mustCreateProduct(t, repo, "Product B", "https://shop.example/b")

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first.Name, products[0].Name)
	assert.Equal(t, second.Name, products[1].Name)
}

func TestProductByID(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	created := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")

	t.Run("found", func(t *testing.T) {
		product, err := repo.ProductByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, product.Name)
		assert.Equal(t, created.URL, product.URL)
		require.NotNil(t, product.CurrentPrice)
		assert.InDelta(t, 100.00, *product.CurrentPrice, 0.001)
		assert.Nil(t, product.PreviousPrice)
		assert.Nil(t, product.LastChecked)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.ProductByID(ctx, 9999)
		require.ErrorIs(t, err, repository.ErrProductNotFound)
	})
}

func TestUpdateProductPrice(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	created := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")

	previous := 100.00
	require.NoError(t, repo.UpdateProductPrice(ctx, created.ID, 95.50, &previous, true))

	product, err := repo.ProductByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, product.CurrentPrice)
	assert.InDelta(t, 95.50, *product.CurrentPrice, 0.001)
	require.NotNil(t, product.PreviousPrice)
	assert.InDelta(t, 100.00, *product.PreviousPrice, 0.001)
	assert.True(t, product.IsOffer)
	require.NotNil(t, product.LastChecked)
	assert.False(t, product.LastUpdated.Before(created.LastUpdated))
}

func TestTouchProduct(t *testing.T) {
	repo := newTestDB(t)
	ctx := t.Context()

	created := mustCreateProduct(t, repo, "Product A", "https://shop.example/a")

	require.NoError(t, repo.TouchProduct(ctx, created.ID))

	product, err := repo.ProductByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, product.LastChecked)
	// Price fields are untouched by a timestamp refresh.
	require.NotNil(t, product.CurrentPrice)
	assert.InDelta(t, 100.00, *product.CurrentPrice, 0.001)
	assert.Nil(t, product.PreviousPrice)
}
