package server

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kamirim/pricewatch/internal/models"
)

// Reconciler is the trigger surface exposed over HTTP.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*models.Result, error)
	ReconcileProduct(ctx context.Context, productID int64) (*models.Result, error)
}

// Repository is the read/registration surface the API serves.
type Repository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	ProductsWithLatest(ctx context.Context) ([]models.ProductLatest, error)
	ObservationsByProduct(ctx context.Context, productID int64) ([]models.PriceObservation, error)
	ListOffers(ctx context.Context) ([]models.Offer, error)
}

// NewRouter builds the gin engine with all API routes registered.
func NewRouter(log *slog.Logger, repo Repository, rec Reconciler) *gin.Engine {
	h := &handler{log: log, repo: repo, rec: rec}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/products", h.createProducts)
		api.GET("/products", h.listProducts)

		prices := api.Group("/prices")
		{
			prices.POST("/scrape", h.scrapeAll)
			prices.POST("/check/:productId", h.checkProduct)
			prices.GET("/latest", h.latestPrices)
			prices.GET("/history/:productId", h.priceHistory)
			prices.GET("/offers", h.listOffers)
		}
	}

	return router
}
