// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartdom "tienda/internal/domain/cart"
)

// StatusPendiente is the initial status of every committed order.
// Later transitions are handled by the back office, not here.
const StatusPendiente = "Pendiente"

// IDInfix sits between the user id and the per-user order number.
// Order ids are deterministic: "<userId>__orden<N>".
const IDInfix = "__orden"

var (
	ErrNotFound       = errors.New("order: not found")
	ErrInvalidID      = errors.New("order: invalid id")
	ErrInvalidUserID  = errors.New("order: invalid userId")
	ErrEmptyCart      = errors.New("order: cart is empty")
	ErrInvalidNumber  = errors.New("order: invalid order number")
	ErrInvalidCreated = errors.New("order: invalid createdAt")
)

// ConflictError wraps a failed commit transaction (contention or store-level
// rejection). The whole checkout failed, nothing was applied, safe to retry.
type ConflictError struct {
	OrderID string
	Err     error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order: commit conflict for %s: %v", e.OrderID, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// BuyerSnapshot is the identity snapshot stored on the order.
type BuyerSnapshot struct {
	UserID string `json:"userId" firestore:"userId"`
	Email  string `json:"email,omitempty" firestore:"email,omitempty"`
	Name   string `json:"name,omitempty" firestore:"name,omitempty"`
}

// Order is one committed checkout. The item list is a verbatim snapshot of
// the cart at commit time and is immutable afterwards.
type Order struct {
	ID     string
	Number int

	Buyer BuyerSnapshot

	ShippingMethod string
	PaymentMethod  string

	Items []cartdom.LineItem
	Total decimal.Decimal

	Status    string
	Confirmed bool
	CreatedAt time.Time
}

// BuildID returns the deterministic order id for (userId, number).
func BuildID(userID string, number int) (string, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return "", ErrInvalidUserID
	}
	if number < 1 {
		return "", ErrInvalidNumber
	}
	return fmt.Sprintf("%s%s%d", uid, IDInfix, number), nil
}

// New assembles an order from a cart snapshot.
//
// Fail-fast: every line item is validated BEFORE the id is built so a
// malformed snapshot aborts the whole checkout without touching storage.
func New(buyer BuyerSnapshot, number int, shippingMethod, paymentMethod string, items []cartdom.LineItem, now time.Time) (Order, error) {
	uid := strings.TrimSpace(buyer.UserID)
	if uid == "" {
		return Order{}, ErrInvalidUserID
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return Order{}, err
		}
	}

	id, err := BuildID(uid, number)
	if err != nil {
		return Order{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	total := decimal.Zero
	snap := make([]cartdom.LineItem, len(items))
	copy(snap, items)
	for _, it := range snap {
		total = total.Add(it.Subtotal())
	}

	buyer.UserID = uid
	buyer.Email = strings.TrimSpace(buyer.Email)
	buyer.Name = strings.TrimSpace(buyer.Name)

	return Order{
		ID:             id,
		Number:         number,
		Buyer:          buyer,
		ShippingMethod: strings.TrimSpace(shippingMethod),
		PaymentMethod:  strings.TrimSpace(paymentMethod),
		Items:          snap,
		Total:          total,
		Status:         StatusPendiente,
		Confirmed:      false,
		CreatedAt:      now.UTC(),
	}, nil
}
