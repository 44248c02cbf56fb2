// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidCart = errors.New("cart: invalid")

// Cart is the authoritative list of line items for one shopping session.
//
// Invariants:
// - items are keyed by sizeKey; at most one entry per (product, size) pair
// - quantities are always >= 1; a decrement to zero removes the entry
// - created lazily on first add, emptied on successful checkout or clear
type Cart struct {
	Owner Owner

	// Items: sizeKey -> LineItem
	Items map[string]LineItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCart(owner Owner, now time.Time) (*Cart, error) {
	if !owner.Valid() {
		return nil, ErrInvalidOwner
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return &Cart{
		Owner:     owner,
		Items:     map[string]LineItem{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Get returns the line item for sizeKey, if present.
func (c *Cart) Get(sizeKey string) (LineItem, bool) {
	if c == nil || c.Items == nil {
		return LineItem{}, false
	}
	it, ok := c.Items[sizeKey]
	return it, ok
}

// Quantity returns the current quantity for sizeKey (0 when absent).
func (c *Cart) Quantity(sizeKey string) int {
	it, ok := c.Get(sizeKey)
	if !ok {
		return 0
	}
	return it.Quantity
}

// Upsert merges item into the cart: if a line item with the same sizeKey
// exists its quantity is increased, keeping the original add-time snapshot;
// otherwise the item is inserted as-is.
func (c *Cart) Upsert(item LineItem, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if c.Items == nil {
		c.Items = map[string]LineItem{}
	}

	if existing, ok := c.Items[item.SizeKey]; ok {
		existing.Quantity += item.Quantity
		c.Items[item.SizeKey] = existing
	} else {
		c.Items[item.SizeKey] = item
	}

	c.touch(now)
	return nil
}

// SetQuantity replaces the quantity for sizeKey.
// qty <= 0 removes the entry (a zero-quantity record is never kept).
// Returns the previous quantity.
func (c *Cart) SetQuantity(sizeKey string, qty int, now time.Time) (previous int, err error) {
	if c == nil {
		return 0, ErrInvalidCart
	}
	it, ok := c.Get(sizeKey)
	if !ok {
		return 0, nil
	}

	previous = it.Quantity
	if qty <= 0 {
		delete(c.Items, sizeKey)
	} else {
		it.Quantity = qty
		c.Items[sizeKey] = it
	}
	c.touch(now)
	return previous, nil
}

// Remove deletes the entry for sizeKey and returns the removed quantity
// (0 when the entry was absent; removal of an absent item is a no-op).
func (c *Cart) Remove(sizeKey string, now time.Time) int {
	if c == nil {
		return 0
	}
	it, ok := c.Get(sizeKey)
	if !ok {
		return 0
	}
	delete(c.Items, sizeKey)
	c.touch(now)
	return it.Quantity
}

// Clear empties the cart and returns the removed items (stable order).
func (c *Cart) Clear(now time.Time) []LineItem {
	if c == nil {
		return nil
	}
	snap := c.SortedItems()
	c.Items = map[string]LineItem{}
	c.touch(now)
	return snap
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// TotalItems folds the sum of quantities. Read-only, never fails.
func (c *Cart) TotalItems() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// TotalPrice folds the sum of price*quantity. Read-only, never fails.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// SortedItems returns the line items ordered by sizeKey (stable output for
// persistence, checkout snapshots and responses).
func (c *Cart) SortedItems() []LineItem {
	if c == nil || len(c.Items) == 0 {
		return []LineItem{}
	}
	keys := make([]string, 0, len(c.Items))
	for k := range c.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]LineItem, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.Items[k])
	}
	return out
}

// Snapshot returns a deep copy of the cart (the engine hands copies to the
// debounced persister so later mutations do not leak into an in-flight write).
func (c *Cart) Snapshot() *Cart {
	if c == nil {
		return nil
	}
	items := make(map[string]LineItem, len(c.Items))
	for k, v := range c.Items {
		items[k] = v
	}
	return &Cart{
		Owner:     c.Owner,
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (c *Cart) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	c.UpdatedAt = now.UTC()
}
