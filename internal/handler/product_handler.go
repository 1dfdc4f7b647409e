package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
	"github.com/namostri/catalog_api/internal/service"
	"github.com/namostri/catalog_api/internal/utils"
)

// ProductHandler handles product-related HTTP endpoints, including the
// per-source sync triggers.
type ProductHandler struct {
	productService *service.ProductService
	syncService    *service.SyncService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService, syncService *service.SyncService) *ProductHandler {
	return &ProductHandler{productService: productService, syncService: syncService}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := listFilterFromQuery(c)

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// ListProductsBySource handles GET /api/products/source/:source
func (h *ProductHandler) ListProductsBySource(c *gin.Context) {
	source := models.SourceCode(c.Param("source"))
	if !source.Valid() {
		utils.Error(c, 400, "INVALID_SOURCE", "Source must be 'shopify' or 'amazon'")
		return
	}

	filter := listFilterFromQuery(c)
	filter.Source = string(source)

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve products")
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, filter.Page, filter.Limit, total)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve product")
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	created, err := h.productService.Create(c.Request.Context(), &product)
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}
	utils.Success(c, 201, "Product created successfully", created)
}

// UpdateProduct handles PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}
	utils.Success(c, 200, "Product updated successfully", product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}
	utils.Success(c, 200, "Product deleted", nil)
}

// SyncShopify handles POST /api/products/sync/shopify
func (h *ProductHandler) SyncShopify(c *gin.Context) {
	h.sync(c, models.SourceShopify)
}

// SyncAmazon handles POST /api/products/sync/amazon
func (h *ProductHandler) SyncAmazon(c *gin.Context) {
	h.sync(c, models.SourceAmazon)
}

func (h *ProductHandler) sync(c *gin.Context, source models.SourceCode) {
	result, err := h.syncService.Sync(c.Request.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrStoreUnavailable):
			utils.Error(c, 503, "STORE_UNAVAILABLE", "Database not available - sync not attempted")
		case errors.Is(err, utils.ErrUnknownSource):
			utils.Error(c, 400, "UNKNOWN_SOURCE", err.Error())
		case errors.Is(err, utils.ErrUpstream):
			utils.Error(c, 502, "UPSTREAM_ERROR", err.Error())
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Sync failed")
		}
		return
	}

	msg := "Synced " + strconv.Itoa(result.Count) + " products from " + string(source)
	utils.Success(c, 200, msg, result)
}

// listFilterFromQuery parses the shared list query parameters.
func listFilterFromQuery(c *gin.Context) repository.ListFilter {
	filter := repository.ListFilter{
		Search: c.Query("search"),
		Source: c.Query("source"),
		Status: c.Query("status"),
		Page:   1,
		Limit:  20,
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	return filter
}

// respondServiceError maps service errors to the response envelope.
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, utils.ErrStoreUnavailable):
		utils.Error(c, 503, "STORE_UNAVAILABLE", "Database not available")
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, utils.ErrValidation):
		utils.Error(c, 400, "VALIDATION_ERROR", err.Error())
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", fallbackMsg)
	}
}
