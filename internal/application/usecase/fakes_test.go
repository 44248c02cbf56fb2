// internal/application/usecase/fakes_test.go
package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
	"tienda/internal/domain/stock"
)

// ------------------------------------------------------------------
// Fakes
// ------------------------------------------------------------------

type fakeCartRepo struct {
	mu         sync.Mutex
	carts      map[string]*cartdom.Cart
	upserts    int
	deleted    []string
	failUpsert error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*cartdom.Cart{}}
}

func (f *fakeCartRepo) GetByOwner(_ context.Context, owner cartdom.Owner) (*cartdom.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[owner.Key()]
	if !ok {
		return nil, nil
	}
	return c.Snapshot(), nil
}

func (f *fakeCartRepo) Upsert(_ context.Context, c *cartdom.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert != nil {
		return f.failUpsert
	}
	f.carts[c.Owner.Key()] = c.Snapshot()
	f.upserts++
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, owner cartdom.Owner) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, owner.Key())
	f.deleted = append(f.deleted, owner.Key())
	return nil
}

func (f *fakeCartRepo) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts
}

func (f *fakeCartRepo) stored(owner cartdom.Owner) *cartdom.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[owner.Key()]
	if !ok {
		return nil
	}
	return c.Snapshot()
}

type fakeStockReader struct {
	mu      sync.Mutex
	stock   map[string]int // sizeKey -> available
	missing map[string]bool
	reads   int
}

func newFakeStockReader(avail map[string]int) *fakeStockReader {
	if avail == nil {
		avail = map[string]int{}
	}
	return &fakeStockReader{stock: avail, missing: map[string]bool{}}
}

func (f *fakeStockReader) GetAvailable(_ context.Context, productID, size string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.missing[productID] {
		return 0, &stock.ProductNotFoundError{ProductID: productID}
	}
	key, err := stock.BuildSizeKey(productID, size)
	if err != nil {
		return 0, err
	}
	return f.stock[key], nil
}

func (f *fakeStockReader) set(sizeKey string, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[sizeKey] = qty
}

type fakeUcClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeUcClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeUcClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fakeCommitter struct {
	mu      sync.Mutex
	fail    error
	counter int
	orders  []orderdom.Order
}

func (f *fakeCommitter) Commit(_ context.Context, buyer orderdom.BuyerSnapshot, shippingMethod, paymentMethod string, items []cartdom.LineItem) (orderdom.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return orderdom.Order{}, f.fail
	}
	f.counter++
	ord, err := orderdom.New(buyer, f.counter, shippingMethod, paymentMethod, items, time.Now())
	if err != nil {
		return orderdom.Order{}, err
	}
	f.orders = append(f.orders, ord)
	return ord, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []orderdom.Order
	fail error
}

func (f *fakeMailer) SendOrderConfirmation(_ context.Context, o orderdom.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, o)
	return nil
}

type fakeLatch struct {
	mu       sync.Mutex
	acquired map[string]bool
	fail     error
}

func newFakeLatch() *fakeLatch {
	return &fakeLatch{acquired: map[string]bool{}}
}

func (f *fakeLatch) Acquire(_ context.Context, userID, guestCartID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return false, f.fail
	}
	key := userID + "__" + guestCartID
	if f.acquired[key] {
		return false, nil
	}
	f.acquired[key] = true
	return true, nil
}

type fakeOrderRepo struct {
	orders map[string]orderdom.Order
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) ListByUserID(_ context.Context, userID string, limit int) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range f.orders {
		if o.Buyer.UserID == userID {
			out = append(out, o)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// ------------------------------------------------------------------
// Builders
// ------------------------------------------------------------------

// newTestEngine wires an engine with a manual-flush debounce (the window is
// far in the future; tests call Flush explicitly).
func newTestEngine(t *testing.T, avail map[string]int) (*CartUsecase, *fakeCartRepo, *fakeStockReader, *fakeUcClock) {
	t.Helper()
	repo := newFakeCartRepo()
	reader := newFakeStockReader(avail)
	clk := &fakeUcClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	cache := stock.NewCacheWithOptions(reader, stock.DefaultFreshness, clk.Now)
	uc := NewCartUsecaseWithOptions(repo, reader, cache, time.Hour, clk)
	t.Cleanup(uc.Close)
	return uc, repo, reader, clk
}

func userOwner(t *testing.T, uid string) cartdom.Owner {
	t.Helper()
	o, err := cartdom.UserOwner(uid)
	require.NoError(t, err)
	return o
}

func addInput(pid, size, price string, qty int) AddItemInput {
	return AddItemInput{
		ProductID: pid,
		Size:      size,
		Name:      pid + " " + size,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}
