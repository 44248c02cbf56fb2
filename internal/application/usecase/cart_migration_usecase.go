// internal/application/usecase/cart_migration_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	cartdom "tienda/internal/domain/cart"
	"tienda/internal/domain/stock"
)

var ErrMigrationInvalidArgument = errors.New("cart_migration_usecase: invalid argument")

// CartMigrationUsecase merges a guest cart into a freshly authenticated
// user's cart, exactly once per (user, guest cart) pair.
type CartMigrationUsecase struct {
	engine *CartUsecase
	repo   cartdom.Repository
	latch  cartdom.MigrationLatch
}

func NewCartMigrationUsecase(engine *CartUsecase, repo cartdom.Repository, latch cartdom.MigrationLatch) *CartMigrationUsecase {
	return &CartMigrationUsecase{engine: engine, repo: repo, latch: latch}
}

// MigrationResult reports what the merge did.
type MigrationResult struct {
	AlreadyMigrated bool
	Merged          int
	// Skipped lists sizeKeys that could not be merged (insufficient stock,
	// vanished product). The guest cart entry for them is dropped, the same
	// outcome as the user retrying the add by hand.
	Skipped []string
}

// Migrate applies the guest cart's line items onto the user's cart through
// the regular add path (same quantity merge, same advisory stock checks).
//
// The latch is taken BEFORE merging: idempotency against double-invocation
// outweighs the rare case of a latched-but-failed merge, which the user can
// repair by re-adding items.
func (uc *CartMigrationUsecase) Migrate(ctx context.Context, userID, guestCartID string) (MigrationResult, error) {
	uid := strings.TrimSpace(userID)
	gid := strings.TrimSpace(guestCartID)
	if uid == "" || gid == "" {
		return MigrationResult{}, ErrMigrationInvalidArgument
	}

	userOwner, err := cartdom.UserOwner(uid)
	if err != nil {
		return MigrationResult{}, ErrMigrationInvalidArgument
	}
	guestOwner, err := cartdom.GuestOwner(gid)
	if err != nil {
		return MigrationResult{}, ErrMigrationInvalidArgument
	}

	taken, err := uc.latch.Acquire(ctx, uid, gid)
	if err != nil {
		return MigrationResult{}, err
	}
	if !taken {
		return MigrationResult{AlreadyMigrated: true}, nil
	}

	guestCart, err := uc.repo.GetByOwner(ctx, guestOwner)
	if err != nil {
		return MigrationResult{}, err
	}
	if guestCart.IsEmpty() {
		return MigrationResult{}, nil
	}

	res := MigrationResult{}
	for _, it := range guestCart.SortedItems() {
		_, addErr := uc.engine.AddToCart(ctx, userOwner, AddItemInput{
			ProductID: it.ProductID,
			Size:      it.Size(),
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Quantity:  it.Quantity,
		})
		if addErr != nil {
			var insuf *stock.InsufficientError
			var changed *stock.ChangedError
			var gone *stock.ProductNotFoundError
			if errors.As(addErr, &insuf) || errors.As(addErr, &changed) || errors.As(addErr, &gone) {
				log.Printf("[cart_migration] skip %s qty=%d: %v", it.SizeKey, it.Quantity, addErr)
				res.Skipped = append(res.Skipped, it.SizeKey)
				continue
			}
			return res, addErr
		}
		res.Merged++
	}

	uc.engine.Flush(userOwner)

	// Cleanup: the guest cart id is no longer referenced by any session.
	// Deleting the orphan is optional per the migration contract; we do.
	if err := uc.repo.Delete(ctx, guestOwner); err != nil {
		log.Printf("[cart_migration] WARN: guest cart cleanup failed id=%s err=%v", gid, err)
	}
	uc.engine.DisposeSession(guestOwner)

	log.Printf("[cart_migration] OK: user=%s guest=%s merged=%d skipped=%d", uid, gid, res.Merged, len(res.Skipped))
	return res, nil
}
