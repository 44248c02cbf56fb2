// internal/domain/product/repository_port.go
package product

import "context"

// Repository is the read port over the product catalog.
// The storefront never writes products; admin tooling owns the write path.
type Repository interface {
	// GetByID returns ErrNotFound when the document does not exist.
	GetByID(ctx context.Context, id string) (Product, error)

	// List returns up to limit products (catalog page).
	List(ctx context.Context, limit int) ([]Product, error)
}
