// internal/adapters/out/firestore/order_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

// OrderRepositoryFS implements order.Repository (read side). Writes go
// exclusively through CheckoutRepositoryFS.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("orders")
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}

	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}

	return docToOrder(oid, snap.Data()), nil
}

func (r *OrderRepositoryFS) ListByUserID(ctx context.Context, userID string, limit int) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, orderdom.ErrInvalidUserID
	}
	if limit <= 0 {
		limit = 50
	}

	it := r.col().
		Where("userId", "==", uid).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer it.Stop()

	out := make([]orderdom.Order, 0, limit)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToOrder(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

// -----------------------------------------
// Mappers
// -----------------------------------------

type orderItemDoc struct {
	ProductID string    `firestore:"productId"`
	SizeKey   string    `firestore:"sizeKey"`
	Name      string    `firestore:"name"`
	Price     float64   `firestore:"price"`
	Image     string    `firestore:"image,omitempty"`
	Quantity  int       `firestore:"quantity"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type orderDoc struct {
	UserID         string         `firestore:"userId"`
	Email          string         `firestore:"email,omitempty"`
	Name           string         `firestore:"name,omitempty"`
	Number         int            `firestore:"number"`
	ShippingMethod string         `firestore:"shippingMethod,omitempty"`
	PaymentMethod  string         `firestore:"paymentMethod,omitempty"`
	Items          []orderItemDoc `firestore:"items"`
	Total          float64        `firestore:"total"`
	Status         string         `firestore:"status"`
	Confirmed      bool           `firestore:"confirmed"`
	CreatedAt      time.Time      `firestore:"createdAt"`
}

func orderToDoc(o orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDoc{
			ProductID: it.ProductID,
			SizeKey:   it.SizeKey,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Image:     it.Image,
			Quantity:  it.Quantity,
			CreatedAt: it.CreatedAt,
		})
	}
	return orderDoc{
		UserID:         o.Buyer.UserID,
		Email:          o.Buyer.Email,
		Name:           o.Buyer.Name,
		Number:         o.Number,
		ShippingMethod: o.ShippingMethod,
		PaymentMethod:  o.PaymentMethod,
		Items:          items,
		Total:          o.Total.InexactFloat64(),
		Status:         o.Status,
		Confirmed:      o.Confirmed,
		CreatedAt:      o.CreatedAt,
	}
}

func docToOrder(id string, raw map[string]any) orderdom.Order {
	o := orderdom.Order{
		ID: id,
		Buyer: orderdom.BuyerSnapshot{
			UserID: strings.TrimSpace(asString(raw["userId"])),
			Email:  strings.TrimSpace(asString(raw["email"])),
			Name:   strings.TrimSpace(asString(raw["name"])),
		},
		Number:         asInt(raw["number"]),
		ShippingMethod: strings.TrimSpace(asString(raw["shippingMethod"])),
		PaymentMethod:  strings.TrimSpace(asString(raw["paymentMethod"])),
		Total:          decimal.NewFromFloat(asFloat(raw["total"])),
		Status:         strings.TrimSpace(asString(raw["status"])),
		Confirmed:      raw["confirmed"] == true,
	}
	if t, ok := asTime(raw["createdAt"]); ok {
		o.CreatedAt = t
	}

	if itemsAny, ok := raw["items"].([]any); ok {
		for _, v := range itemsAny {
			m := asMap(v)
			if m == nil {
				continue
			}
			item := cartdom.LineItem{
				ProductID: strings.TrimSpace(asString(m["productId"])),
				SizeKey:   strings.TrimSpace(asString(m["sizeKey"])),
				Name:      strings.TrimSpace(asString(m["name"])),
				Price:     decimal.NewFromFloat(asFloat(m["price"])),
				Image:     strings.TrimSpace(asString(m["image"])),
				Quantity:  asInt(m["quantity"]),
			}
			if t, ok := asTime(m["createdAt"]); ok {
				item.CreatedAt = t
			}
			o.Items = append(o.Items, item)
		}
	}
	return o
}
