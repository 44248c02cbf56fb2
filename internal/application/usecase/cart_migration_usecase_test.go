// internal/application/usecase/cart_migration_usecase_test.go
package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "tienda/internal/domain/cart"
)

func guestOwner(t *testing.T, gid string) cartdom.Owner {
	t.Helper()
	o, err := cartdom.GuestOwner(gid)
	require.NoError(t, err)
	return o
}

func seedGuestCart(t *testing.T, engine *CartUsecase, gid string) cartdom.Owner {
	t.Helper()
	ctx := context.Background()
	owner := guestOwner(t, gid)
	_, err := engine.AddToCart(ctx, owner, addInput("P1", "M", "29.99", 2))
	require.NoError(t, err)
	_, err = engine.AddToCart(ctx, owner, addInput("P2", "L", "49.99", 1))
	require.NoError(t, err)
	engine.Flush(owner)
	return owner
}

func TestMigrateMergesGuestCartIntoUserCart(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, map[string]int{"P1__M": 10, "P2__L": 10})
	gid := cartdom.NewGuestID()
	guest := seedGuestCart(t, engine, gid)

	// the user already holds one unit of P1/M; migration merges quantities
	user := userOwner(t, "u1")
	_, err := engine.AddToCart(ctx, user, addInput("P1", "M", "29.99", 1))
	require.NoError(t, err)

	uc := NewCartMigrationUsecase(engine, repo, newFakeLatch())
	res, err := uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)

	assert.False(t, res.AlreadyMigrated)
	assert.Equal(t, 2, res.Merged)
	assert.Empty(t, res.Skipped)

	c, err := engine.GetCart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Quantity("P1__M"))
	assert.Equal(t, 1, c.Quantity("P2__L"))

	// the guest document is gone and the user cart was persisted
	assert.Contains(t, repo.deleted, guest.Key())
	stored := repo.stored(user)
	require.NotNil(t, stored)
	assert.Equal(t, 3, stored.Quantity("P1__M"))
}

func TestMigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, map[string]int{"P1__M": 10, "P2__L": 10})
	gid := cartdom.NewGuestID()
	seedGuestCart(t, engine, gid)

	uc := NewCartMigrationUsecase(engine, repo, newFakeLatch())

	first, err := uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)
	require.False(t, first.AlreadyMigrated)

	// a double-invocation (two tabs signing in) must not double quantities
	second, err := uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)
	assert.True(t, second.AlreadyMigrated)
	assert.Equal(t, 0, second.Merged)

	c, err := engine.GetCart(ctx, userOwner(t, "u1"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity("P1__M"))
}

func TestMigrateSkipsItemsWithoutStock(t *testing.T) {
	ctx := context.Background()
	engine, repo, reader, _ := newTestEngine(t, map[string]int{"P1__M": 10, "P2__L": 1})
	gid := cartdom.NewGuestID()
	seedGuestCart(t, engine, gid)

	// the last P2/L unit is gone by the time the user signs in; that guest
	// item is dropped, the rest merges
	reader.set("P2__L", 0)
	engine.StockCache().Set("P2", "L", 0)

	uc := NewCartMigrationUsecase(engine, repo, newFakeLatch())
	res, err := uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, []string{"P2__L"}, res.Skipped)

	c, err := engine.GetCart(ctx, userOwner(t, "u1"))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity("P1__M"))
	assert.Equal(t, 0, c.Quantity("P2__L"))
}

func TestMigrateEmptyGuestCartStillLatches(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, nil)
	gid := cartdom.NewGuestID()

	latch := newFakeLatch()
	uc := NewCartMigrationUsecase(engine, repo, latch)

	res, err := uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)
	assert.False(t, res.AlreadyMigrated)
	assert.Equal(t, 0, res.Merged)

	res, err = uc.Migrate(ctx, "u1", gid)
	require.NoError(t, err)
	assert.True(t, res.AlreadyMigrated)
}

func TestMigrateInvalidArguments(t *testing.T) {
	ctx := context.Background()
	engine, repo, _, _ := newTestEngine(t, nil)
	uc := NewCartMigrationUsecase(engine, repo, newFakeLatch())

	_, err := uc.Migrate(ctx, "", cartdom.NewGuestID())
	assert.ErrorIs(t, err, ErrMigrationInvalidArgument)

	_, err = uc.Migrate(ctx, "u1", "not-a-guest-id")
	assert.ErrorIs(t, err, ErrMigrationInvalidArgument)
}
