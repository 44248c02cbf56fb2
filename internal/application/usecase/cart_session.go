// internal/application/usecase/cart_session.go
package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	cartdom "tienda/internal/domain/cart"
)

// cartSession serializes mutations for one cart and owns its debounce timer.
//
// Nothing stops two HTTP requests from racing on the same cart (two rapid
// clicks land as two in-flight calls), so every mutation runs under mu; the
// in-memory line-item list is never updated concurrently.
type cartSession struct {
	mu    sync.Mutex
	owner cartdom.Owner
	cart  *cartdom.Cart

	// debounce state (guarded by mu)
	timer   *time.Timer
	pending bool
}

// schedulePersist arms (or re-arms) the debounce timer. Rapid successive
// mutations inside the window collapse into one write of the latest
// snapshot. Caller holds s.mu.
func (s *cartSession) schedulePersist(window time.Duration, persist func(ctx context.Context, snap *cartdom.Cart) error) {
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(window, func() {
		s.flush(persist)
	})
}

// flush writes the latest snapshot now, if one is pending.
// The timer fires outside any request, so the write uses Background context;
// an unmounting caller never cancels an in-flight cart write.
func (s *cartSession) flush(persist func(ctx context.Context, snap *cartdom.Cart) error) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snap := s.cart.Snapshot()
	s.mu.Unlock()

	if snap == nil {
		return
	}
	if err := persist(context.Background(), snap); err != nil {
		log.Printf("[cart_engine] WARN: persist failed owner=%s err=%v", snap.Owner.Key(), err)
	}
}

// stop cancels any armed timer without writing. Used on dispose.
func (s *cartSession) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
