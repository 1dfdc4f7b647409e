package service

import (
	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
)

// ProductStore is the persistence surface the services depend on. It is
// implemented by *repository.ProductRepository; tests substitute in-memory
// stores. Lookup methods report a missing row as sql.ErrNoRows.
type ProductStore interface {
	ListPaged(filter repository.ListFilter) ([]models.Product, int, error)
	ListAll(filter repository.ListFilter) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySourceExternalID(source models.SourceCode, externalID string) (*models.Product, error)
	Create(p *models.Product) error
	Update(p *models.Product) error
	Delete(id string) error
}
