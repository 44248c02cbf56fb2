// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	orderdom "tienda/internal/domain/order"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderForbidden       = errors.New("order_usecase: order belongs to another user")
)

// OrderUsecase serves the storefront order history (read-only; orders are
// written exclusively by the checkout commit).
type OrderUsecase struct {
	repo orderdom.Repository
}

func NewOrderUsecase(repo orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{repo: repo}
}

// Get returns one order, enforcing that it belongs to userID.
func (uc *OrderUsecase) Get(ctx context.Context, userID, orderID string) (orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	oid := strings.TrimSpace(orderID)
	if uid == "" || oid == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}

	o, err := uc.repo.GetByID(ctx, oid)
	if err != nil {
		return orderdom.Order{}, err
	}
	if o.Buyer.UserID != uid {
		return orderdom.Order{}, ErrOrderForbidden
	}
	return o, nil
}

// List returns the user's orders, newest first.
func (uc *OrderUsecase) List(ctx context.Context, userID string, limit int) ([]orderdom.Order, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrOrderInvalidArgument
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.repo.ListByUserID(ctx, uid, limit)
}
