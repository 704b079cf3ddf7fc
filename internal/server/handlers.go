package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kamirim/pricewatch/internal/models"
	"github.com/kamirim/pricewatch/internal/services/reconciler"
)

type handler struct {
	log  *slog.Logger
	repo Repository
	rec  Reconciler
}

// productInput is the registration payload for one product.
type productInput struct {
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	CurrentPrice   *float64 `json:"currentPrice"`
	CompetitorName string   `json:"competitorName"`
}

func (p productInput) valid() bool {
	return p.Name != "" && p.URL != "" && p.CurrentPrice != nil && p.CompetitorName != ""
}

// createProducts registers one product or a bulk array of products. Entries
// missing a required field are dropped; an all-invalid payload is a 400.
func (h *handler) createProducts(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
		return
	}

	var inputs []productInput
	if err = json.Unmarshal(body, &inputs); err != nil {
		var single productInput
		if err = json.Unmarshal(body, &single); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload"})
			return
		}
		inputs = []productInput{single}
	}

	var valid []productInput
	for _, input := range inputs {
		if input.valid() {
			valid = append(valid, input)
		}
	}

	if len(valid) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Each product must have 'name', 'url', 'currentPrice', and 'competitorName'.",
		})
		return
	}

	ctx := c.Request.Context()
	created := make([]models.Product, 0, len(valid))
	for _, input := range valid {
		product := models.Product{
			Name:           input.Name,
			URL:            input.URL,
			CurrentPrice:   input.CurrentPrice,
			CompetitorName: input.CompetitorName,
		}
		if err = h.repo.CreateProduct(ctx, &product); err != nil {
			h.log.ErrorContext(ctx, "Failed to create product", "product", product.Name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to insert product"})
			return
		}
		created = append(created, product)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "products": created})
}

func (h *handler) listProducts(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.repo.ListProducts(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// scrapeAll triggers a reconciliation cycle over every tracked product.
func (h *handler) scrapeAll(c *gin.Context) {
	ctx := c.Request.Context()
	result, err := h.rec.ReconcileAll(ctx)
	if err != nil {
		h.renderReconcileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Price checking completed", "result": result})
}

// checkProduct triggers a reconciliation cycle scoped to one product.
func (h *handler) checkProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid product id"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.rec.ReconcileProduct(ctx, productID)
	if err != nil {
		h.renderReconcileError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *handler) renderReconcileError(c *gin.Context, err error) {
	if errors.Is(err, reconciler.ErrCycleInProgress) {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.log.ErrorContext(c.Request.Context(), "Reconciliation failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
}

func (h *handler) latestPrices(c *gin.Context) {
	ctx := c.Request.Context()
	latest, err := h.repo.ProductsWithLatest(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to fetch latest prices", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch latest prices"})
		return
	}

	c.JSON(http.StatusOK, latest)
}

func (h *handler) priceHistory(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid product id"})
		return
	}

	ctx := c.Request.Context()
	history, err := h.repo.ObservationsByProduct(ctx, productID)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to fetch price history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *handler) listOffers(c *gin.Context) {
	ctx := c.Request.Context()
	offers, err := h.repo.ListOffers(ctx)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to fetch offers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, offers)
}
