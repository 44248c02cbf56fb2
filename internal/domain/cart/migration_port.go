// internal/domain/cart/migration_port.go
package cart

import "context"

// MigrationLatch guards the one-shot guest→user cart migration.
//
// Acquire returns true exactly once per (userId, guestCartId) pair; a second
// call (re-render, double effect, page reload) returns false so the merge is
// never applied twice.
//
// Storage (Firestore): cartMigrations/<userId>__<guestCartId>, written with
// Create; AlreadyExists means the latch was taken earlier.
type MigrationLatch interface {
	Acquire(ctx context.Context, userID, guestCartID string) (bool, error)
}
