// internal/domain/product/entity.go
package product

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tienda/internal/domain/stock"
)

var (
	ErrNotFound  = errors.New("product: not found")
	ErrInvalidID = errors.New("product: invalid id")
)

// Product is one catalog document.
//
// Inventory maps sizeKey ("<productId>__<size>") to remaining stock. The
// admin write path filters zero entries out, so an absent key and an
// explicit 0 both mean "no stock"; Available handles either shape.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string

	// Inventory: sizeKey -> remaining units
	Inventory map[string]int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available returns remaining stock for size (0 when absent).
func (p Product) Available(size string) int {
	key, err := stock.BuildSizeKey(p.ID, size)
	if err != nil {
		return 0
	}
	return p.Inventory[key]
}

// Sizes returns the sizes with stock > 0, sorted.
func (p Product) Sizes() []string {
	out := make([]string, 0, len(p.Inventory))
	for key, qty := range p.Inventory {
		if qty <= 0 {
			continue
		}
		_, sz, err := stock.ParseSizeKey(key)
		if err != nil {
			continue
		}
		out = append(out, sz)
	}
	sort.Strings(out)
	return out
}

// InStockInventory returns the inventory map with zero/absent entries
// filtered out (the shape the storefront exposes).
func (p Product) InStockInventory() map[string]int {
	out := map[string]int{}
	for key, qty := range p.Inventory {
		if qty <= 0 || strings.TrimSpace(key) == "" {
			continue
		}
		out[key] = qty
	}
	return out
}
