// internal/application/usecase/checkout_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

func checkoutInput(uid string) CheckoutInput {
	return CheckoutInput{
		Buyer:          orderdom.BuyerSnapshot{UserID: uid, Email: uid + "@example.com", Name: "Ana"},
		ShippingMethod: "standard",
		PaymentMethod:  "card",
	}
}

func TestCheckoutCommitsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, map[string]int{"P1__M": 5, "P2__L": 3})
	owner := userOwner(t, "u1")

	_, err := engine.AddToCart(ctx, owner, addInput("P1", "M", "29.99", 2))
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, owner, addInput("P2", "L", "49.99", 1))
	require.NoError(t, err)

	committer := &fakeCommitter{}
	mailer := &fakeMailer{}
	uc := NewCheckoutUsecase(engine, committer, mailer)

	ord, err := uc.Checkout(ctx, checkoutInput("u1"))
	require.NoError(t, err)

	assert.Equal(t, "u1__orden1", ord.ID)
	assert.Equal(t, orderdom.StatusPendiente, ord.Status)
	assert.Equal(t, "109.97", ord.Total.StringFixed(2))
	require.Len(t, ord.Items, 2)
	// the commit snapshot is ordered by sizeKey
	assert.Equal(t, "P1__M", ord.Items[0].SizeKey)
	assert.Equal(t, "P2__L", ord.Items[1].SizeKey)

	// cart emptied in memory and persisted empty immediately
	c, err := engine.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	stored := repo.stored(owner)
	require.NotNil(t, stored)
	assert.True(t, stored.IsEmpty())

	// the purchased units are NOT restored into the local stock view
	p1, _ := engine.StockCache().Peek("P1", "M")
	assert.Equal(t, 3, p1)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, ord.ID, mailer.sent[0].ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _ := newTestEngine(t, nil)
	uc := NewCheckoutUsecase(engine, &fakeCommitter{}, nil)

	_, err := uc.Checkout(ctx, checkoutInput("u1"))
	assert.ErrorIs(t, err, orderdom.ErrEmptyCart)
}

func TestCheckoutRequiresUser(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _ := newTestEngine(t, nil)
	uc := NewCheckoutUsecase(engine, &fakeCommitter{}, nil)

	_, err := uc.Checkout(ctx, checkoutInput("  "))
	assert.ErrorIs(t, err, ErrCheckoutUserRequired)
}

func TestCheckoutMalformedItemAbortsWholeCommit(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, map[string]int{"P1__M": 5})
	owner := userOwner(t, "u1")

	// a persisted snapshot with one valid and one malformed item (bare
	// product id in the sizeKey slot, the classic corrupt-document shape)
	good, err := cartdom.NewLineItem("P1", "M", "Camiseta", decimal.RequireFromString("29.99"), "", 1, time.Now())
	require.NoError(t, err)
	corrupt, err := cartdom.NewCart(owner, time.Now())
	require.NoError(t, err)
	corrupt.Items[good.SizeKey] = good
	corrupt.Items["P2"] = cartdom.LineItem{ProductID: "P2", SizeKey: "P2", Quantity: 1, Price: decimal.Zero}
	require.NoError(t, repo.Upsert(ctx, corrupt))

	committer := &fakeCommitter{}
	uc := NewCheckoutUsecase(engine, committer, nil)

	_, err = uc.Checkout(ctx, checkoutInput("u1"))
	var invalid *cartdom.InvalidItemError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "P2", invalid.SizeKey)

	// no order was created and the cart survived for repair
	assert.Empty(t, committer.orders)
	c, err := engine.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, len(c.Items))
}

func TestCheckoutCommitFailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _ := newTestEngine(t, map[string]int{"P1__M": 5})
	owner := userOwner(t, "u1")

	_, err := engine.AddToCart(ctx, owner, addInput("P1", "M", "29.99", 2))
	require.NoError(t, err)

	conflict := &orderdom.ConflictError{OrderID: "u1__orden1", Err: errors.New("tx contention")}
	uc := NewCheckoutUsecase(engine, &fakeCommitter{fail: conflict}, nil)

	_, err = uc.Checkout(ctx, checkoutInput("u1"))
	var ce *orderdom.ConflictError
	require.ErrorAs(t, err, &ce)

	c, err := engine.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity("P1__M"))
}

func TestCheckoutMailFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	engine, _, _, _ := newTestEngine(t, map[string]int{"P1__M": 5})
	owner := userOwner(t, "u1")

	_, err := engine.AddToCart(ctx, owner, addInput("P1", "M", "29.99", 1))
	require.NoError(t, err)

	mailer := &fakeMailer{fail: errors.New("smtp down")}
	uc := NewCheckoutUsecase(engine, &fakeCommitter{}, mailer)

	ord, err := uc.Checkout(ctx, checkoutInput("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1__orden1", ord.ID)

	c, err := engine.GetCart(ctx, owner)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
