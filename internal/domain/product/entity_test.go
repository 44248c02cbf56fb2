// internal/domain/product/entity_test.go
package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductAvailability(t *testing.T) {
	p := Product{
		ID: "P1",
		Inventory: map[string]int{
			"P1__M": 5,
			"P1__L": 0,
		},
	}

	assert.Equal(t, 5, p.Available("M"))
	assert.Equal(t, 0, p.Available("L"))
	assert.Equal(t, 0, p.Available("XL")) // absent key
	assert.Equal(t, 0, p.Available(""))

	assert.Equal(t, []string{"M"}, p.Sizes())
	assert.Equal(t, map[string]int{"P1__M": 5}, p.InStockInventory())
}
