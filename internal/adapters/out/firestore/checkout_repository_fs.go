// internal/adapters/out/firestore/checkout_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

// CheckoutRepositoryFS implements order.Committer: the one transaction that
// turns a cart snapshot into an order and decrements inventory.
//
// Collections touched:
// - orderCounters/<uid>  {count}        read + write
// - orders/<uid>__orden<N>              create
// - products/<productId>                inventory.<sizeKey> atomic increment
//
// Firestore runs the closure with transactional read/write handles and
// retries internally on contention; when it gives up the whole body is
// discarded, so there is never a partial order or partial decrement.
type CheckoutRepositoryFS struct {
	Client *firestore.Client
}

func NewCheckoutRepositoryFS(client *firestore.Client) *CheckoutRepositoryFS {
	return &CheckoutRepositoryFS{Client: client}
}

func (r *CheckoutRepositoryFS) Commit(ctx context.Context, buyer orderdom.BuyerSnapshot, shippingMethod, paymentMethod string, items []cartdom.LineItem) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("checkout_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(buyer.UserID)
	if uid == "" {
		return orderdom.Order{}, orderdom.ErrInvalidUserID
	}

	// Fail fast before opening the transaction: one malformed item aborts
	// the attempt, valid siblings notwithstanding.
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return orderdom.Order{}, err
		}
	}

	counterRef := r.Client.Collection("orderCounters").Doc(uid)
	ordersCol := r.Client.Collection("orders")
	productsCol := r.Client.Collection("products")

	var committed orderdom.Order

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// a. next per-user order number (reads must precede writes)
		count := 0
		snap, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
		} else {
			count = asInt(snap.Data()["count"])
		}
		next := count + 1

		// b–c. deterministic id + order document
		ord, err := orderdom.New(buyer, next, shippingMethod, paymentMethod, items, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := tx.Create(ordersCol.Doc(ord.ID), orderToDoc(ord)); err != nil {
			return err
		}

		// d. counter
		if err := tx.Set(counterRef, map[string]any{"count": next}); err != nil {
			return err
		}

		// e. atomic decrement per line item; no read-modify-write, so
		// concurrent checkouts cannot lose updates
		for _, it := range ord.Items {
			err := tx.Update(productsCol.Doc(it.ProductID), []firestore.Update{
				{Path: "inventory." + it.SizeKey, Value: firestore.Increment(-int64(it.Quantity))},
			})
			if err != nil {
				return err
			}
		}

		committed = ord
		return nil
	})
	if err != nil {
		var invalid *cartdom.InvalidItemError
		if errors.As(err, &invalid) {
			return orderdom.Order{}, err
		}
		log.Printf("[checkout_fs] commit failed user=%s err=%v", uid, err)
		return orderdom.Order{}, &orderdom.ConflictError{OrderID: committed.ID, Err: err}
	}

	return committed, nil
}
