// internal/domain/cart/line_item_test.go
package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNewLineItem(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	it, err := NewLineItem(" P1 ", " M ", " Camiseta ", mustDecimal(t, "19.99"), "img.jpg", 2, now)
	require.NoError(t, err)
	assert.Equal(t, "P1", it.ProductID)
	assert.Equal(t, "P1__M", it.SizeKey)
	assert.Equal(t, "M", it.Size())
	assert.Equal(t, "Camiseta", it.Name)
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, now, it.CreatedAt)
}

func TestNewLineItemRejectsMalformedInput(t *testing.T) {
	now := time.Now()
	var invalid *InvalidItemError

	_, err := NewLineItem("", "M", "x", decimal.Zero, "", 1, now)
	require.ErrorAs(t, err, &invalid)

	_, err = NewLineItem("P1", "M", "x", decimal.Zero, "", 0, now)
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "quantity")

	_, err = NewLineItem("P1", "M", "x", mustDecimal(t, "-1"), "", 1, now)
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "price")
}

func TestLineItemValidate(t *testing.T) {
	good := LineItem{ProductID: "P1", SizeKey: "P1__M", Quantity: 1, Price: decimal.Zero}
	require.NoError(t, good.Validate())

	var invalid *InvalidItemError

	bad := good
	bad.SizeKey = "P1"
	assert.ErrorAs(t, bad.Validate(), &invalid)

	bad = good
	bad.SizeKey = "P2__M"
	assert.ErrorAs(t, bad.Validate(), &invalid)

	bad = good
	bad.Quantity = 0
	assert.ErrorAs(t, bad.Validate(), &invalid)
}

func TestLineItemSubtotal(t *testing.T) {
	it := LineItem{Price: mustDecimal(t, "29.99"), Quantity: 3}
	assert.Equal(t, "89.97", it.Subtotal().StringFixed(2))
}
