package service

import (
	"context"

	"github.com/namostri/catalog_api/internal/models"
)

// Source fetches a batch of raw products from one upstream catalog and
// normalizes them into canonical records.
//
// Fetch returns the normalized batch plus per-record normalization failures
// (records that could not be mapped, e.g. no derivable title). A non-nil
// error means the upstream call itself failed and no partial results are
// returned.
type Source interface {
	Code() models.SourceCode
	Fetch(ctx context.Context) ([]models.Product, []error, error)
}

// StoreAvailability reports whether the persistent store can be reached.
// It must be cheap and non-blocking; services consult it on every call so
// tests can simulate outages deterministically.
type StoreAvailability interface {
	Available() bool
}
