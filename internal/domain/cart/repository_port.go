// internal/domain/cart/repository_port.go
package cart

import "context"

// Repository is the persistence port for Cart.
//
// Storage (Firestore):
// - authenticated owner: users/<uid>, field "cart" (merge write; the profile
//   document carries other fields the cart engine must not clobber)
// - guest owner: guestCarts/<guestCartId> (dedicated document)
//
// The engine writes the LATEST in-memory snapshot (last-write-wins against
// the document), never an accumulation of diffs.
type Repository interface {
	// GetByOwner returns (nil, nil) when no cart document exists yet
	// (carts are created lazily on first add).
	GetByOwner(ctx context.Context, owner Owner) (*Cart, error)

	// Upsert saves the full cart snapshot (create or overwrite).
	Upsert(ctx context.Context, c *Cart) error

	// Delete removes the owner's cart document.
	// Used for guest-cart cleanup after migration.
	Delete(ctx context.Context, owner Owner) error
}
