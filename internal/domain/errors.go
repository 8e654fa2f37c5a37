package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEcommerce is the parent of every precondition failure in the sync flow
	ErrEcommerce = errors.New("ecommerce error")

	// ErrIncorrectProductType is returned when a product kind has no sync path
	ErrIncorrectProductType = fmt.Errorf("%w: incorrect product type", ErrEcommerce)

	// ErrProductNotMapped is returned when an update targets a product that was never created remotely
	ErrProductNotMapped = fmt.Errorf("%w: product is not mapped", ErrEcommerce)

	// ErrProductVariantsNotFound is returned when a cart variant has no remote match
	ErrProductVariantsNotFound = errors.New("product variants not found")
)

// APIError is a failed call to the remote marketing API
type APIError struct {
	Operation  string `json:"-"`
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api %s failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("remote api %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}
