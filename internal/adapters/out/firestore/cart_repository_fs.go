// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "tienda/internal/domain/cart"
)

// CartRepositoryFS implements cart.Repository.
//
// Two storage shapes, by owner kind:
// - user:  users/<uid>, field "cart" (merged; the profile doc has other
//   fields this repository must not clobber)
// - guest: guestCarts/<guestCartId>, whole document
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) users() *firestore.CollectionRef {
	return r.Client.Collection("users")
}

func (r *CartRepositoryFS) guestCarts() *firestore.CollectionRef {
	return r.Client.Collection("guestCarts")
}

// GetByOwner returns (nil, nil) when no cart has been persisted yet.
func (r *CartRepositoryFS) GetByOwner(ctx context.Context, owner cartdom.Owner) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	if !owner.Valid() {
		return nil, cartdom.ErrInvalidOwner
	}

	var raw map[string]any
	if owner.IsUser() {
		snap, err := r.users().Doc(owner.ID).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, nil
			}
			return nil, err
		}
		raw = asMap(snap.Data()["cart"])
		if raw == nil {
			// profile exists, cart never persisted
			return nil, nil
		}
	} else {
		snap, err := r.guestCarts().Doc(owner.ID).Get(ctx)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return nil, nil
			}
			return nil, err
		}
		raw = snap.Data()
	}

	return cartFromData(owner, raw), nil
}

// Upsert writes the full latest snapshot (last-write-wins).
func (r *CartRepositoryFS) Upsert(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil || !c.Owner.Valid() {
		return cartdom.ErrInvalidOwner
	}

	doc := cartToDoc(c)

	if c.Owner.IsUser() {
		_, err := r.users().Doc(c.Owner.ID).Set(ctx, map[string]any{"cart": doc}, firestore.MergeAll)
		return err
	}
	_, err := r.guestCarts().Doc(c.Owner.ID).Set(ctx, doc)
	return err
}

func (r *CartRepositoryFS) Delete(ctx context.Context, owner cartdom.Owner) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if !owner.Valid() {
		return cartdom.ErrInvalidOwner
	}

	if owner.IsUser() {
		// drop only the cart field, not the profile
		_, err := r.users().Doc(owner.ID).Update(ctx, []firestore.Update{
			{Path: "cart", Value: firestore.Delete},
		})
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return err
	}

	_, err := r.guestCarts().Doc(owner.ID).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartDoc struct {
	Items     map[string]cartItemDoc `firestore:"items"`
	CreatedAt time.Time              `firestore:"createdAt"`
	UpdatedAt time.Time              `firestore:"updatedAt"`
}

type cartItemDoc struct {
	ProductID string    `firestore:"productId"`
	Name      string    `firestore:"name"`
	Price     float64   `firestore:"price"`
	Image     string    `firestore:"image,omitempty"`
	Quantity  int       `firestore:"quantity"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func cartToDoc(c *cartdom.Cart) cartDoc {
	items := map[string]cartItemDoc{}
	for key, it := range c.Items {
		k := strings.TrimSpace(key)
		if k == "" || it.Quantity <= 0 {
			continue
		}
		items[k] = cartItemDoc{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Image:     it.Image,
			Quantity:  it.Quantity,
			CreatedAt: it.CreatedAt,
		}
	}
	return cartDoc{
		Items:     items,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// cartFromData parses a cart map defensively (see helper_repository_fs.go).
// Entries with a non-positive quantity or a blank key are dropped rather
// than surfaced as errors: a half-broken cart should still load.
func cartFromData(owner cartdom.Owner, raw map[string]any) *cartdom.Cart {
	c := &cartdom.Cart{
		Owner: owner,
		Items: map[string]cartdom.LineItem{},
	}

	if t, ok := asTime(raw["createdAt"]); ok {
		c.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		c.UpdatedAt = t
	}

	for key, v := range asMap(raw["items"]) {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		m := asMap(v)
		if m == nil {
			continue
		}
		qty := asInt(m["quantity"])
		if qty <= 0 {
			continue
		}

		item := cartdom.LineItem{
			ProductID: strings.TrimSpace(asString(m["productId"])),
			SizeKey:   k,
			Name:      strings.TrimSpace(asString(m["name"])),
			Price:     decimal.NewFromFloat(asFloat(m["price"])),
			Image:     strings.TrimSpace(asString(m["image"])),
			Quantity:  qty,
		}
		if t, ok := asTime(m["createdAt"]); ok {
			item.CreatedAt = t
		}
		c.Items[k] = item
	}

	return c
}
