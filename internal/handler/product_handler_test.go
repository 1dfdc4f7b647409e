package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/namostri/catalog_api/internal/service"
	"github.com/namostri/catalog_api/internal/utils"
)

type staticAvail struct {
	up bool
}

func (a staticAvail) Available() bool { return a.up }

// newFallbackRouter wires the product routes against services with no
// database behind them. List endpoints serve synthetic data; everything
// else reports the store as unavailable.
func newFallbackRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	avail := staticAvail{up: false}
	productSvc := service.NewProductService(nil, avail, service.NewFallbackGenerator(nil), nil)
	syncSvc := service.NewSyncService(nil, avail, nil)
	h := NewProductHandler(productSvc, syncSvc)

	router := gin.New()
	p := router.Group("/api/products")
	p.GET("", h.ListProducts)
	p.GET("/source/:source", h.ListProductsBySource)
	p.GET("/:id", h.GetProduct)
	p.DELETE("/:id", h.DeleteProduct)
	p.POST("/sync/shopify", h.SyncShopify)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return w, body
}

func TestListProductsServesFallbackData(t *testing.T) {
	router := newFallbackRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/products?page=2&limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !body.Success {
		t.Fatalf("success = false: %+v", body)
	}
	pg := body.Meta.Pagination
	if pg == nil {
		t.Fatal("missing pagination metadata")
	}
	if pg.Page != 2 || pg.Limit != 10 {
		t.Errorf("pagination = %+v", pg)
	}
	if pg.TotalItems != 60 || pg.TotalPages != 6 {
		t.Errorf("totals = %d/%d, want 60/6", pg.TotalItems, pg.TotalPages)
	}
}

func TestListProductsBySourceValidatesSource(t *testing.T) {
	router := newFallbackRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/products/source/ebay")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Error == nil || body.Error.Code != "INVALID_SOURCE" {
		t.Errorf("error = %+v", body.Error)
	}

	w, body = doRequest(t, router, http.MethodGet, "/api/products/source/amazon")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Meta.Pagination == nil || body.Meta.Pagination.TotalItems != 30 {
		t.Errorf("pagination = %+v", body.Meta.Pagination)
	}
}

func TestGetProductUnavailableStore(t *testing.T) {
	router := newFallbackRouter()

	w, body := doRequest(t, router, http.MethodGet, "/api/products/some-id")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Error == nil || body.Error.Code != "STORE_UNAVAILABLE" {
		t.Errorf("error = %+v", body.Error)
	}
}

func TestSyncUnavailableStore(t *testing.T) {
	router := newFallbackRouter()

	w, body := doRequest(t, router, http.MethodPost, "/api/products/sync/shopify")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Error == nil || body.Error.Code != "STORE_UNAVAILABLE" {
		t.Errorf("error = %+v", body.Error)
	}
	if !strings.Contains(body.Error.Message, "sync not attempted") {
		t.Errorf("message = %q", body.Error.Message)
	}
}
