// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	cartdom "tienda/internal/domain/cart"
	"tienda/internal/domain/stock"
)

var (
	ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")
)

// DefaultPersistDebounce coalesces rapid cart edits into one document write.
const DefaultPersistDebounce = 1000 * time.Millisecond

// CartUsecase is the cart engine. It owns the per-owner sessions, the
// advisory stock cache and the debounced persistence of cart snapshots.
//
// One instance lives for the process; sessions are created on first use and
// disposed on sign-out / after migration. All stock checks here are
// best-effort UX; the checkout transaction is the sole oversell guard.
type CartUsecase struct {
	repo        cartdom.Repository
	stockCache  *stock.Cache
	stockReader stock.Reader
	clock       Clock
	debounce    time.Duration

	mu       sync.Mutex
	sessions map[string]*cartSession
}

func NewCartUsecase(repo cartdom.Repository, reader stock.Reader) *CartUsecase {
	return NewCartUsecaseWithOptions(repo, reader, stock.NewCache(reader), DefaultPersistDebounce, systemClock{})
}

// NewCartUsecaseWithOptions is useful for tests (short debounce, fake clock,
// pre-seeded cache).
func NewCartUsecaseWithOptions(repo cartdom.Repository, reader stock.Reader, cache *stock.Cache, debounce time.Duration, clock Clock) *CartUsecase {
	if cache == nil {
		cache = stock.NewCache(reader)
	}
	if debounce <= 0 {
		debounce = DefaultPersistDebounce
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{
		repo:        repo,
		stockCache:  cache,
		stockReader: reader,
		clock:       clock,
		debounce:    debounce,
		sessions:    map[string]*cartSession{},
	}
}

// StockCache exposes the advisory cache (checkout keeps it coherent).
func (uc *CartUsecase) StockCache() *stock.Cache { return uc.stockCache }

// ------------------------------------------------------------------
// Session handling
// ------------------------------------------------------------------

// session returns the owner's session, loading the persisted cart on first
// use. A missing document is NOT an error: the cart is created lazily in
// memory and only persisted on the first mutation.
func (uc *CartUsecase) session(ctx context.Context, owner cartdom.Owner) (*cartSession, error) {
	if !owner.Valid() {
		return nil, ErrCartInvalidArgument
	}

	uc.mu.Lock()
	if s, ok := uc.sessions[owner.Key()]; ok {
		uc.mu.Unlock()
		return s, nil
	}
	uc.mu.Unlock()

	// Load outside the map lock (network read).
	loaded, err := uc.repo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		loaded, err = cartdom.NewCart(owner, uc.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if s, ok := uc.sessions[owner.Key()]; ok {
		// lost the race against a concurrent first call; keep the winner
		return s, nil
	}
	s := &cartSession{owner: owner, cart: loaded}
	uc.sessions[owner.Key()] = s
	return s, nil
}

// DisposeSession drops the in-memory session after flushing any pending
// write. Called on sign-out and after guest-cart migration.
func (uc *CartUsecase) DisposeSession(owner cartdom.Owner) {
	uc.mu.Lock()
	s, ok := uc.sessions[owner.Key()]
	if ok {
		delete(uc.sessions, owner.Key())
	}
	uc.mu.Unlock()

	if ok {
		s.flush(uc.repo.Upsert)
		s.stop()
	}
}

// Flush forces any pending debounced write for owner to happen now.
// Checkout calls this so the persisted snapshot matches the commit snapshot.
func (uc *CartUsecase) Flush(owner cartdom.Owner) {
	uc.mu.Lock()
	s, ok := uc.sessions[owner.Key()]
	uc.mu.Unlock()
	if ok {
		s.flush(uc.repo.Upsert)
	}
}

// Close flushes and stops every session (process shutdown).
func (uc *CartUsecase) Close() {
	uc.mu.Lock()
	all := make([]*cartSession, 0, len(uc.sessions))
	for _, s := range uc.sessions {
		all = append(all, s)
	}
	uc.sessions = map[string]*cartSession{}
	uc.mu.Unlock()

	for _, s := range all {
		s.flush(uc.repo.Upsert)
		s.stop()
	}
}

// ------------------------------------------------------------------
// Reads
// ------------------------------------------------------------------

// GetCart returns a snapshot of the owner's cart.
func (uc *CartUsecase) GetCart(ctx context.Context, owner cartdom.Owner) (*cartdom.Cart, error) {
	s, err := uc.session(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot(), nil
}

// TotalItems is a pure fold over the current line items.
func (uc *CartUsecase) TotalItems(ctx context.Context, owner cartdom.Owner) (int, error) {
	c, err := uc.GetCart(ctx, owner)
	if err != nil {
		return 0, err
	}
	return c.TotalItems(), nil
}

// TotalPrice is a pure fold over the current line items.
func (uc *CartUsecase) TotalPrice(ctx context.Context, owner cartdom.Owner) (decimal.Decimal, error) {
	c, err := uc.GetCart(ctx, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return c.TotalPrice(), nil
}

// ------------------------------------------------------------------
// Mutations
// ------------------------------------------------------------------

// AddItemInput carries the product snapshot taken at add-time.
type AddItemInput struct {
	ProductID string
	Size      string
	Name      string
	Price     decimal.Decimal
	Image     string
	Quantity  int // defaults to 1 when 0
}

// AddToCart upserts a line item after a two-phase advisory stock check:
//
//  1. the intended total (existing qty + requested) is checked against the
//     cached availability (refreshed from the oracle when stale);
//     *stock.InsufficientError carries the count the user can still get
//  2. immediately before mutating, availability is re-read from the oracle;
//     a drop in between surfaces as *stock.ChangedError with the newer count
//
// On success the local cache is overwritten with
// freshOracleValue - totalNowInCart, keeping this session's reservations
// subtracted from its own view. The oracle itself is not touched here.
func (uc *CartUsecase) AddToCart(ctx context.Context, owner cartdom.Owner, in AddItemInput) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(in.ProductID)
	sz := strings.TrimSpace(in.Size)
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if pid == "" || sz == "" || qty < 1 {
		return nil, ErrCartInvalidArgument
	}

	s, err := uc.session(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := stock.BuildSizeKey(pid, sz)
	if err != nil {
		return nil, ErrCartInvalidArgument
	}
	intended := s.cart.Quantity(key) + qty

	available, err := uc.stockCache.Get(ctx, pid, sz)
	if err != nil {
		return nil, err
	}
	if available < intended {
		return nil, &stock.InsufficientError{SizeKey: key, Requested: intended, Available: available}
	}

	fresh, err := uc.stockCache.Refresh(ctx, pid, sz)
	if err != nil {
		return nil, err
	}
	if fresh < intended {
		return nil, &stock.ChangedError{SizeKey: key, Requested: intended, Available: fresh}
	}

	item, err := cartdom.NewLineItem(pid, sz, in.Name, in.Price, in.Image, qty, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.cart.Upsert(item, uc.clock.Now()); err != nil {
		return nil, err
	}

	uc.stockCache.Set(pid, sz, fresh-intended)
	s.schedulePersist(uc.debounce, uc.repo.Upsert)
	return s.cart.Snapshot(), nil
}

// UpdateQuantity replaces the quantity of an existing line item.
// newQty <= 0 is equivalent to RemoveFromCart. Only a positive delta is
// stock-checked: the cached view (which already nets out this session's
// in-cart units) is checked against the delta, then the raw oracle value
// against the new total. A negative delta releases units back into the
// local cache. Updating an absent item is a no-op.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, owner cartdom.Owner, productID, size string, newQty int) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return nil, ErrCartInvalidArgument
	}
	if newQty <= 0 {
		return uc.RemoveFromCart(ctx, owner, pid, sz)
	}

	s, err := uc.session(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := stock.BuildSizeKey(pid, sz)
	if err != nil {
		return nil, ErrCartInvalidArgument
	}

	current := s.cart.Quantity(key)
	if current == 0 {
		// nothing to update; adding goes through AddToCart (which carries
		// the product snapshot)
		return s.cart.Snapshot(), nil
	}

	delta := newQty - current
	if delta > 0 {
		available, err := uc.stockCache.Get(ctx, pid, sz)
		if err != nil {
			return nil, err
		}
		if available < delta {
			return nil, &stock.InsufficientError{SizeKey: key, Requested: delta, Available: available}
		}

		// The oracle value still includes this session's in-cart units, so
		// the re-check compares against the intended total, not the delta.
		fresh, err := uc.stockCache.Refresh(ctx, pid, sz)
		if err != nil {
			return nil, err
		}
		if fresh < newQty {
			return nil, &stock.ChangedError{SizeKey: key, Requested: newQty, Available: fresh}
		}

		if _, err := s.cart.SetQuantity(key, newQty, uc.clock.Now()); err != nil {
			return nil, err
		}
		uc.stockCache.Set(pid, sz, fresh-newQty)
	} else {
		if _, err := s.cart.SetQuantity(key, newQty, uc.clock.Now()); err != nil {
			return nil, err
		}
		// releasing units: best-effort local bookkeeping only
		if delta < 0 && !uc.stockCache.Add(pid, sz, -delta) {
			log.Printf("[cart_engine] no cache entry to restore for %s (released %d)", key, -delta)
		}
	}

	s.schedulePersist(uc.debounce, uc.repo.Upsert)
	return s.cart.Snapshot(), nil
}

// RemoveFromCart drops the line item unconditionally (no stock check;
// removing an absent item is a no-op) and restores the removed quantity
// into the local cache, best-effort.
func (uc *CartUsecase) RemoveFromCart(ctx context.Context, owner cartdom.Owner, productID, size string) (*cartdom.Cart, error) {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return nil, ErrCartInvalidArgument
	}

	s, err := uc.session(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := stock.BuildSizeKey(pid, sz)
	if err != nil {
		return nil, ErrCartInvalidArgument
	}

	removed := s.cart.Remove(key, uc.clock.Now())
	if removed == 0 {
		return s.cart.Snapshot(), nil
	}

	if !uc.stockCache.Add(pid, sz, removed) {
		log.Printf("[cart_engine] no cache entry to restore for %s (released %d)", key, removed)
	}

	s.schedulePersist(uc.debounce, uc.repo.Upsert)
	return s.cart.Snapshot(), nil
}

// ClearCart empties the cart, restoring every quantity into the local cache.
func (uc *CartUsecase) ClearCart(ctx context.Context, owner cartdom.Owner) (*cartdom.Cart, error) {
	s, err := uc.session(ctx, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.cart.Clear(uc.clock.Now())
	for _, it := range removed {
		if !uc.stockCache.Add(it.ProductID, it.Size(), it.Quantity) {
			log.Printf("[cart_engine] no cache entry to restore for %s (released %d)", it.SizeKey, it.Quantity)
		}
	}

	s.schedulePersist(uc.debounce, uc.repo.Upsert)
	return s.cart.Snapshot(), nil
}

// clearAfterCheckout empties the cart WITHOUT restoring the local stock
// cache (the units were purchased, not released) and persists immediately
// rather than debounced, so no window exists where the committed cart could
// be read back and retried.
func (uc *CartUsecase) clearAfterCheckout(ctx context.Context, owner cartdom.Owner) error {
	s, err := uc.session(ctx, owner)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cart.Clear(uc.clock.Now())
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	return uc.repo.Upsert(ctx, snap)
}
