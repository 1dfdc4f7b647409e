package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/namostri/catalog_api/internal/cache"
	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
	"github.com/namostri/catalog_api/internal/utils"
)

// ProductService serves filtered, paginated product views and single-record
// CRUD. List queries transparently degrade to synthetic fallback data when
// the store is unavailable; single-record operations fail instead.
type ProductService struct {
	store    ProductStore
	avail    StoreAvailability
	fallback *FallbackGenerator
	cache    *cache.CatalogCache
}

// NewProductService constructs a ProductService.
func NewProductService(store ProductStore, avail StoreAvailability, fallback *FallbackGenerator, listCache *cache.CatalogCache) *ProductService {
	return &ProductService{store: store, avail: avail, fallback: fallback, cache: listCache}
}

// List returns one page of products matching the filter plus the total match
// count. Both backing paths apply the same predicates and the same
// pagination arithmetic, so the response shape is identical with or without
// a live store.
func (s *ProductService) List(ctx context.Context, filter repository.ListFilter) ([]models.Product, int, error) {
	filter.Normalize()

	if !s.avail.Available() {
		corpus := s.fallbackCorpus(filter.Source, FallbackListCount, FallbackListSourceCount)
		matched := filterProducts(corpus, filter.Search, filter.Source, filter.Status)
		return pageSlice(matched, filter.Page, filter.Limit), len(matched), nil
	}

	if cached, ok := s.cache.GetList(ctx, filter.Search, filter.Source, filter.Status, filter.Page, filter.Limit); ok {
		return cached.Products, cached.Total, nil
	}

	products, total, err := s.store.ListPaged(filter)
	if err != nil {
		return nil, 0, err
	}
	s.cache.SetList(ctx, filter.Search, filter.Source, filter.Status, filter.Page, filter.Limit, products, total)
	return products, total, nil
}

// Get returns one product by internal id.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	if !s.avail.Available() {
		return nil, utils.ErrStoreUnavailable
	}
	p, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create validates and persists a manually entered product.
func (s *ProductService) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if !s.avail.Available() {
		return nil, utils.ErrStoreUnavailable
	}

	p.Clean()
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if p.Price != "" {
		p.Price = models.FormatPrice(p.Price)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}

	if err := s.store.Create(p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return p, nil
}

// UpdateProductRequest carries a partial update; nil fields are left
// untouched. Source and external identifiers are immutable.
type UpdateProductRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	BodyHTML    *string `json:"body_html"`
	Price       *string `json:"price"`
	Vendor      *string `json:"vendor"`
	ProductType *string `json:"product_type"`
	Status      *string `json:"status"`
}

// Update applies a partial update to one product.
func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	if !s.avail.Available() {
		return nil, utils.ErrStoreUnavailable
	}

	p, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.BodyHTML != nil {
		p.BodyHTML = *req.BodyHTML
	}
	if req.Price != nil {
		p.Price = models.FormatPrice(*req.Price)
	}
	if req.Vendor != nil {
		p.Vendor = *req.Vendor
	}
	if req.ProductType != nil {
		p.ProductType = *req.ProductType
	}
	if req.Status != nil {
		p.Status = models.Status(*req.Status)
	}

	p.Clean()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	if err := s.store.Update(p); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return p, nil
}

// Delete removes one product by internal id.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if !s.avail.Available() {
		return utils.ErrStoreUnavailable
	}
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// fallbackCorpus produces the fixed-size synthetic corpus for list queries.
func (s *ProductService) fallbackCorpus(source string, allCount, sourceCount int) []models.Product {
	if source != "" {
		return s.fallback.Generate(sourceCount, models.SourceCode(source))
	}
	return s.fallback.Generate(allCount, "")
}

// filterProducts applies the three list predicates in process: text search
// OR-matched over title/description/vendor, source and status exact,
// AND-combined. Used only on the fallback path; the store path filters in
// SQL.
func filterProducts(products []models.Product, search, source, status string) []models.Product {
	search = strings.ToLower(search)
	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if source != "" && string(p.Source) != source {
			continue
		}
		if status != "" && string(p.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.Vendor), search) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// pageSlice slices one page out of an in-memory result set. An out-of-range
// page yields an empty slice; the caller still reports the full total.
func pageSlice(products []models.Product, page, limit int) []models.Product {
	skip := (page - 1) * limit
	if skip >= len(products) {
		return []models.Product{}
	}
	end := skip + limit
	if end > len(products) {
		end = len(products)
	}
	return products[skip:end]
}
