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

// newExportRouter wires the export routes against a service with no database
// behind it, so downloads are served from synthetic data.
func newExportRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := service.NewExportService(nil, staticAvail{up: false}, service.NewFallbackGenerator(nil))
	h := NewExportHandler(svc)

	router := gin.New()
	e := router.Group("/api/export")
	e.POST("/excel", h.ExportAll)
	e.POST("/excel/filtered", h.ExportFiltered)
	e.POST("/excel/:source", h.ExportBySource)
	return router
}

func postExport(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestExportAllDownloads(t *testing.T) {
	router := newExportRouter()

	w := postExport(t, router, "/api/export/excel", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != service.ContentTypeXLSX {
		t.Errorf("content-type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "products_all_export_") || !strings.Contains(cd, ".xlsx") {
		t.Errorf("content-disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}

func TestExportFilteredRejectsUnknownSource(t *testing.T) {
	router := newExportRouter()

	w := postExport(t, router, "/api/export/excel/filtered", `{"source":"shopify/amazon"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_SOURCE" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestExportFilteredAcceptsValidAndEmptySource(t *testing.T) {
	router := newExportRouter()

	w := postExport(t, router, "/api/export/excel/filtered", `{"source":"amazon","status":"active"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("amazon filter status = %d (body: %s)", w.Code, w.Body.String())
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "products_amazon_export_") {
		t.Errorf("content-disposition = %q", cd)
	}

	// Empty body means an unfiltered export.
	w = postExport(t, router, "/api/export/excel/filtered", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty body status = %d (body: %s)", w.Code, w.Body.String())
	}
}

func TestExportBySourceValidatesSource(t *testing.T) {
	router := newExportRouter()

	w := postExport(t, router, "/api/export/excel/ebay", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	w = postExport(t, router, "/api/export/excel/shopify", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body: %s)", w.Code, w.Body.String())
	}
}
