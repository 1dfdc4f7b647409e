package utils

import "errors"

// Common application errors used across services.
var (
	ErrStoreUnavailable = errors.New("STORE_UNAVAILABLE")
	ErrNotFound         = errors.New("PRODUCT_NOT_FOUND")
	ErrValidation       = errors.New("VALIDATION_ERROR")
	ErrUnknownSource    = errors.New("UNKNOWN_SOURCE")
	ErrUpstream         = errors.New("UPSTREAM_ERROR")
)
