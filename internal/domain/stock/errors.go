// internal/domain/stock/errors.go
package stock

import "fmt"

// InsufficientError is returned when the requested quantity exceeds the
// last-known available stock. Recoverable: the caller can retry with a
// smaller quantity. Available carries the concrete remaining count so the
// UI can tell the user what is still possible.
type InsufficientError struct {
	SizeKey   string
	Requested int
	Available int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("stock: insufficient for %s (requested %d, available %d)",
		e.SizeKey, e.Requested, e.Available)
}

// ChangedError is returned when stock dropped between the advisory check and
// the re-check right before the cart mutation. Available is the newer count.
type ChangedError struct {
	SizeKey   string
	Requested int
	Available int
}

func (e *ChangedError) Error() string {
	return fmt.Sprintf("stock: changed for %s (requested %d, now available %d)",
		e.SizeKey, e.Requested, e.Available)
}

// ProductNotFoundError is returned when the product document itself no longer
// exists. The caller should flag or drop the referencing line item.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("stock: product not found: %s", e.ProductID)
}
