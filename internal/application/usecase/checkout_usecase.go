// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

var (
	ErrCheckoutNotConfigured = errors.New("checkout_usecase: committer is not configured")
	ErrCheckoutUserRequired  = errors.New("checkout_usecase: authenticated user required")
)

// OrderMailer sends the post-checkout confirmation. Best-effort: a mail
// failure never fails the checkout.
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, o orderdom.Order) error
}

// CheckoutUsecase drives the order commit protocol:
//
//	flush pending cart writes -> snapshot -> fail-fast item validation ->
//	atomic commit (order + counter + inventory decrements) -> clear cart ->
//	best-effort confirmation mail
//
// On any commit failure the cart is left untouched so the user can retry.
type CheckoutUsecase struct {
	carts     *CartUsecase
	committer orderdom.Committer
	mailer    OrderMailer // optional
}

func NewCheckoutUsecase(carts *CartUsecase, committer orderdom.Committer, mailer OrderMailer) *CheckoutUsecase {
	return &CheckoutUsecase{carts: carts, committer: committer, mailer: mailer}
}

// CheckoutInput is the app-level input for one checkout attempt.
type CheckoutInput struct {
	Buyer          orderdom.BuyerSnapshot
	ShippingMethod string
	PaymentMethod  string
}

func (uc *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (orderdom.Order, error) {
	if uc.committer == nil || uc.carts == nil {
		return orderdom.Order{}, ErrCheckoutNotConfigured
	}

	uid := strings.TrimSpace(in.Buyer.UserID)
	if uid == "" {
		return orderdom.Order{}, ErrCheckoutUserRequired
	}
	owner, err := cartdom.UserOwner(uid)
	if err != nil {
		return orderdom.Order{}, ErrCheckoutUserRequired
	}

	// The persisted snapshot must match what we are about to commit.
	uc.carts.Flush(owner)

	snap, err := uc.carts.GetCart(ctx, owner)
	if err != nil {
		return orderdom.Order{}, err
	}
	if snap.IsEmpty() {
		return orderdom.Order{}, orderdom.ErrEmptyCart
	}

	items := snap.SortedItems()

	// Fail fast: a single malformed item aborts the whole attempt before
	// any write, even when the rest of the cart is valid.
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return orderdom.Order{}, err
		}
	}

	ord, err := uc.committer.Commit(ctx, in.Buyer, in.ShippingMethod, in.PaymentMethod, items)
	if err != nil {
		// nothing was applied; the cart stays as-is for retry
		return orderdom.Order{}, err
	}

	if err := uc.carts.clearAfterCheckout(ctx, owner); err != nil {
		// the order is committed; an unclear cart is recoverable noise
		log.Printf("[checkout_uc] WARN: cart clear failed after commit orderId=%s err=%v", ord.ID, err)
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendOrderConfirmation(ctx, ord); err != nil {
			log.Printf("[checkout_uc] WARN: confirmation mail failed orderId=%s err=%v", ord.ID, err)
		}
	}

	log.Printf("[checkout_uc] OK: order committed orderId=%s items=%d total=%s", ord.ID, len(ord.Items), ord.Total.StringFixed(2))
	return ord, nil
}
