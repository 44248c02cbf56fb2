// internal/domain/stock/repository_port.go
package stock

import "context"

// Reader is the read port onto the product inventory map (the stock oracle).
//
// Storage (Firestore):
// - collection: products
// - docId: productId
// - field: inventory (map sizeKey -> int)
//
// An absent sizeKey and an explicit 0 both mean "no stock": the admin write
// path filters zero entries out, so readers must tolerate either shape.
//
// Readers never mutate the inventory map. The only writer besides admin edits
// is the checkout transaction (atomic decrement), see order.Committer.
type Reader interface {
	// GetAvailable returns the remaining stock for (productId, size).
	// Returns 0 (not an error) when the sizeKey is absent from the map.
	// Returns *ProductNotFoundError when the product document does not exist.
	GetAvailable(ctx context.Context, productID, size string) (int, error)
}
