// internal/application/usecase/order_usecase_test.go
package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

func seedOrder(t *testing.T, uid string, number int) orderdom.Order {
	t.Helper()
	it, err := cartdom.NewLineItem("P1", "M", "Camiseta", decimal.RequireFromString("29.99"), "", 1, time.Now())
	require.NoError(t, err)
	o, err := orderdom.New(orderdom.BuyerSnapshot{UserID: uid}, number, "standard", "card", []cartdom.LineItem{it}, time.Now())
	require.NoError(t, err)
	return o
}

func TestOrderGetEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	o := seedOrder(t, "u1", 1)
	uc := NewOrderUsecase(&fakeOrderRepo{orders: map[string]orderdom.Order{o.ID: o}})

	got, err := uc.Get(ctx, "u1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	// someone else's order id leaks nothing
	_, err = uc.Get(ctx, "u2", o.ID)
	assert.ErrorIs(t, err, ErrOrderForbidden)

	_, err = uc.Get(ctx, "u1", "u1__orden99")
	assert.ErrorIs(t, err, orderdom.ErrNotFound)

	_, err = uc.Get(ctx, "", o.ID)
	assert.ErrorIs(t, err, ErrOrderInvalidArgument)
}

func TestOrderList(t *testing.T) {
	ctx := context.Background()
	a := seedOrder(t, "u1", 1)
	b := seedOrder(t, "u1", 2)
	other := seedOrder(t, "u2", 1)
	uc := NewOrderUsecase(&fakeOrderRepo{orders: map[string]orderdom.Order{
		a.ID: a, b.ID: b, other.ID: other,
	}})

	got, err := uc.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = uc.List(ctx, "  ", 10)
	assert.ErrorIs(t, err, ErrOrderInvalidArgument)
}
