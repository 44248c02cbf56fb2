// internal/domain/order/repository_port.go
package order

import (
	"context"

	cartdom "tienda/internal/domain/cart"
)

// Committer is the single write path into the order collection and the
// product inventory maps.
//
// Commit must apply, atomically:
//  1. read the buyer's order counter, compute next = count + 1
//  2. create orders/<uid>__orden<next> with the full item snapshot
//  3. write the counter back
//  4. for every line item, decrement products/<productId>.inventory.<sizeKey>
//     by the purchased quantity using the store's atomic increment (no
//     read-modify-write)
//
// All-or-nothing: any failure leaves the order collection and every
// inventory map untouched, and surfaces as *ConflictError (or a validation
// error for malformed input, before any write). The advisory checks the cart
// engine ran earlier are NOT re-validated here; the atomic decrement is the
// sole correctness boundary against oversell.
type Committer interface {
	// Commit runs the checkout transaction for pre-validated items.
	// The returned order carries the assigned id and number.
	Commit(ctx context.Context, buyer BuyerSnapshot, shippingMethod, paymentMethod string, items []cartdom.LineItem) (Order, error)
}

// Repository is the read port over committed orders (storefront order
// history). A PostgreSQL mirror of this port exists for reporting
// deployments; Firestore is the default.
type Repository interface {
	// GetByID returns ErrNotFound when the order does not exist.
	GetByID(ctx context.Context, id string) (Order, error)

	// ListByUserID returns the user's orders, newest first.
	ListByUserID(ctx context.Context, userID string, limit int) ([]Order, error)
}
