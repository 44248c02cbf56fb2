// internal/domain/order/entity_test.go
package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "tienda/internal/domain/cart"
)

func testItems(t *testing.T) []cartdom.LineItem {
	t.Helper()
	now := time.Now()
	a, err := cartdom.NewLineItem("P1", "M", "Camiseta", decimal.RequireFromString("19.99"), "", 2, now)
	require.NoError(t, err)
	b, err := cartdom.NewLineItem("P2", "L", "Sudadera", decimal.RequireFromString("29.99"), "", 1, now)
	require.NoError(t, err)
	return []cartdom.LineItem{a, b}
}

func TestBuildID(t *testing.T) {
	id, err := BuildID("u1", 3)
	require.NoError(t, err)
	assert.Equal(t, "u1__orden3", id)

	_, err = BuildID("  ", 1)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = BuildID("u1", 0)
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	buyer := BuyerSnapshot{UserID: " u1 ", Email: " u1@example.com ", Name: " Ana "}

	ord, err := New(buyer, 7, "standard", "card", testItems(t), now)
	require.NoError(t, err)

	assert.Equal(t, "u1__orden7", ord.ID)
	assert.Equal(t, 7, ord.Number)
	assert.Equal(t, "u1", ord.Buyer.UserID)
	assert.Equal(t, "u1@example.com", ord.Buyer.Email)
	assert.Equal(t, StatusPendiente, ord.Status)
	assert.False(t, ord.Confirmed)
	assert.Equal(t, now, ord.CreatedAt)
	assert.Equal(t, "69.97", ord.Total.StringFixed(2))
	assert.Len(t, ord.Items, 2)
}

func TestNewOrderFailsFastOnMalformedItem(t *testing.T) {
	items := testItems(t)
	items[1].Quantity = 0 // malformed snapshot

	_, err := New(BuyerSnapshot{UserID: "u1"}, 1, "", "", items, time.Now())

	var invalid *cartdom.InvalidItemError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "P2__L", invalid.SizeKey)
}

func TestNewOrderRejectsEmptyCart(t *testing.T) {
	_, err := New(BuyerSnapshot{UserID: "u1"}, 1, "", "", nil, time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConflictErrorUnwrap(t *testing.T) {
	inner := ErrNotFound
	ce := &ConflictError{OrderID: "u1__orden1", Err: inner}
	assert.ErrorIs(t, ce, inner)
	assert.Contains(t, ce.Error(), "u1__orden1")
}
