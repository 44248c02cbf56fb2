// internal/domain/cart/owner.go
package cart

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// GuestIDPrefix marks locally generated guest cart ids.
const GuestIDPrefix = "guest_"

var ErrInvalidOwner = errors.New("cart: invalid owner")

type OwnerKind string

const (
	OwnerUser  OwnerKind = "user"
	OwnerGuest OwnerKind = "guest"
)

// Owner identifies who a cart belongs to: an authenticated user (uid) or an
// unauthenticated guest session (generated id, persisted client-side).
// Ownership is exclusive; migration transfers it from guest to user.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func UserOwner(uid string) (Owner, error) {
	id := strings.TrimSpace(uid)
	if id == "" {
		return Owner{}, ErrInvalidOwner
	}
	return Owner{Kind: OwnerUser, ID: id}, nil
}

func GuestOwner(guestCartID string) (Owner, error) {
	id := strings.TrimSpace(guestCartID)
	if id == "" || !strings.HasPrefix(id, GuestIDPrefix) {
		return Owner{}, ErrInvalidOwner
	}
	return Owner{Kind: OwnerGuest, ID: id}, nil
}

// NewGuestID mints a fresh guest cart id ("guest_" + random).
func NewGuestID() string {
	return GuestIDPrefix + uuid.NewString()
}

func (o Owner) IsUser() bool  { return o.Kind == OwnerUser }
func (o Owner) IsGuest() bool { return o.Kind == OwnerGuest }

func (o Owner) Valid() bool {
	if strings.TrimSpace(o.ID) == "" {
		return false
	}
	return o.Kind == OwnerUser || o.Kind == OwnerGuest
}

// Key is a stable map key for per-owner session lookup.
func (o Owner) Key() string {
	return string(o.Kind) + ":" + o.ID
}
