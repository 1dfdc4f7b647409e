package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
)

// In-memory fakes shared by the service tests.

type fakeAvail struct {
	up bool
}

func (f *fakeAvail) Available() bool { return f.up }

type fakeStore struct {
	products []models.Product

	createCalls int
	updateCalls int
	failCreate  error
}

func newFakeStore(products ...models.Product) *fakeStore {
	return &fakeStore{products: products}
}

func (f *fakeStore) ListPaged(filter repository.ListFilter) ([]models.Product, int, error) {
	matched := filterProducts(f.products, filter.Search, filter.Source, filter.Status)
	return pageSlice(matched, filter.Page, filter.Limit), len(matched), nil
}

func (f *fakeStore) ListAll(filter repository.ListFilter) ([]models.Product, error) {
	return filterProducts(f.products, filter.Search, filter.Source, filter.Status), nil
}

func (f *fakeStore) GetByID(id string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) GetBySourceExternalID(source models.SourceCode, externalID string) (*models.Product, error) {
	for i := range f.products {
		if f.products[i].Source == source && f.products[i].ExternalID() == externalID {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStore) Create(p *models.Product) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.createCalls++
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	// Matches the repository: carried timestamps persist, zero values take
	// the store clock.
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeStore) Update(p *models.Product) error {
	f.updateCalls++
	for i := range f.products {
		if f.products[i].ID == p.ID {
			p.UpdatedAt = time.Now()
			f.products[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeStore) Delete(id string) error {
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeSource struct {
	code       models.SourceCode
	products   []models.Product
	skipped    []error
	err        error
	fetchCalls int
}

func (f *fakeSource) Code() models.SourceCode { return f.code }

func (f *fakeSource) Fetch(ctx context.Context) ([]models.Product, []error, error) {
	f.fetchCalls++
	if f.err != nil {
		return nil, nil, f.err
	}
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out, f.skipped, nil
}

func strPtr(s string) *string { return &s }

func shopifyProduct(externalID, title string) models.Product {
	return models.Product{
		Title:     title,
		Price:     "1499.00",
		Vendor:    "Namostri",
		Status:    models.StatusActive,
		Source:    models.SourceShopify,
		ShopifyID: strPtr(externalID),
	}
}

func amazonProduct(asin, title string) models.Product {
	return models.Product{
		Title:    title,
		Price:    "999.00",
		Vendor:   "Amazon",
		Status:   models.StatusActive,
		Source:   models.SourceAmazon,
		AmazonID: strPtr(asin),
		ASIN:     asin,
	}
}
