// internal/domain/cart/line_item.go
package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/domain/stock"
)

// LineItem is one (product, size) entry in a cart.
//
// Name / Price / Image are a denormalized snapshot of the product at
// add-time; they are NOT re-synced when the catalog changes.
type LineItem struct {
	ProductID string          `json:"productId" firestore:"productId"`
	SizeKey   string          `json:"sizeKey" firestore:"sizeKey"`
	Name      string          `json:"name" firestore:"name"`
	Price     decimal.Decimal `json:"price" firestore:"-"`
	Image     string          `json:"image,omitempty" firestore:"image,omitempty"`
	Quantity  int             `json:"quantity" firestore:"quantity"`
	CreatedAt time.Time       `json:"createdAt" firestore:"createdAt"`
}

// InvalidItemError reports a malformed line item. At checkout this aborts the
// whole commit before any writes.
type InvalidItemError struct {
	SizeKey string
	Reason  string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("cart: invalid line item %q: %s", e.SizeKey, e.Reason)
}

// NewLineItem validates and normalizes a line item once, at creation.
// Malformed input is rejected immediately instead of being defaulted ad hoc
// further down the line.
func NewLineItem(productID, size, name string, price decimal.Decimal, image string, quantity int, now time.Time) (LineItem, error) {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)

	key, err := stock.BuildSizeKey(pid, sz)
	if err != nil {
		return LineItem{}, &InvalidItemError{SizeKey: pid + stock.SizeKeySep + sz, Reason: "missing productId or size"}
	}
	if quantity < 1 {
		return LineItem{}, &InvalidItemError{SizeKey: key, Reason: "quantity must be >= 1"}
	}
	if price.IsNegative() {
		return LineItem{}, &InvalidItemError{SizeKey: key, Reason: "negative price"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return LineItem{
		ProductID: pid,
		SizeKey:   key,
		Name:      strings.TrimSpace(name),
		Price:     price,
		Image:     strings.TrimSpace(image),
		Quantity:  quantity,
		CreatedAt: now.UTC(),
	}, nil
}

// Size returns the size component of the sizeKey.
func (it LineItem) Size() string {
	_, sz, err := stock.ParseSizeKey(it.SizeKey)
	if err != nil {
		return ""
	}
	return sz
}

// Validate re-checks the invariants on an item read back from storage.
// Used at checkout to fail fast on malformed snapshots.
func (it LineItem) Validate() error {
	pid, _, err := stock.ParseSizeKey(it.SizeKey)
	if err != nil {
		return &InvalidItemError{SizeKey: it.SizeKey, Reason: "sizeKey must be <productId>__<size>"}
	}
	if strings.TrimSpace(it.ProductID) == "" {
		return &InvalidItemError{SizeKey: it.SizeKey, Reason: "missing productId"}
	}
	if pid != strings.TrimSpace(it.ProductID) {
		return &InvalidItemError{SizeKey: it.SizeKey, Reason: "sizeKey does not match productId"}
	}
	if it.Quantity < 1 {
		return &InvalidItemError{SizeKey: it.SizeKey, Reason: "quantity must be >= 1"}
	}
	if it.Price.IsNegative() {
		return &InvalidItemError{SizeKey: it.SizeKey, Reason: "negative price"}
	}
	return nil
}

// Subtotal is price * quantity.
func (it LineItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
