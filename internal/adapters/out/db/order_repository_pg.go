// internal/adapters/out/db/order_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	cartdom "tienda/internal/domain/cart"
	orderdom "tienda/internal/domain/order"
)

// OrderRepositoryPG is the PostgreSQL mirror of order.Repository, used by
// reporting deployments where the order history is replicated into Cloud
// SQL. The storefront default stays on Firestore; this adapter is selected
// by config (ORDERS_PG_DSN).
//
// Expected schema:
//
//	CREATE TABLE orders (
//	  id              text PRIMARY KEY,
//	  user_id         text NOT NULL,
//	  email           text NOT NULL DEFAULT '',
//	  buyer_name      text NOT NULL DEFAULT '',
//	  number          integer NOT NULL,
//	  shipping_method text NOT NULL DEFAULT '',
//	  payment_method  text NOT NULL DEFAULT '',
//	  items           jsonb NOT NULL,
//	  total           numeric(12,2) NOT NULL,
//	  status          text NOT NULL,
//	  confirmed       boolean NOT NULL DEFAULT false,
//	  created_at      timestamptz NOT NULL
//	);
type OrderRepositoryPG struct {
	DB *sql.DB
}

func NewOrderRepositoryPG(db *sql.DB) *OrderRepositoryPG {
	return &OrderRepositoryPG{DB: db}
}

// Open dials PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const orderColumns = `
  id,
  user_id,
  email,
  buyer_name,
  number,
  shipping_method,
  payment_method,
  items,
  total,
  status,
  confirmed,
  created_at
`

func (r *OrderRepositoryPG) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.DB == nil {
		return orderdom.Order{}, errors.New("order_repository_pg: db is nil")
	}

	const q = `SELECT` + orderColumns + `FROM orders WHERE id = $1`
	row := r.DB.QueryRowContext(ctx, q, strings.TrimSpace(id))

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return o, nil
}

func (r *OrderRepositoryPG) ListByUserID(ctx context.Context, userID string, limit int) ([]orderdom.Order, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("order_repository_pg: db is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	const q = `SELECT` + orderColumns + `FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, q, strings.TrimSpace(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []orderdom.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// pgOrderItem is the jsonb shape of one line item inside orders.items.
type pgOrderItem struct {
	ProductID string          `json:"productId"`
	SizeKey   string          `json:"sizeKey"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

func scanOrder(row rowScanner) (orderdom.Order, error) {
	var (
		o         orderdom.Order
		itemsJSON []byte
		totalStr  string
	)
	err := row.Scan(
		&o.ID,
		&o.Buyer.UserID,
		&o.Buyer.Email,
		&o.Buyer.Name,
		&o.Number,
		&o.ShippingMethod,
		&o.PaymentMethod,
		&itemsJSON,
		&totalStr,
		&o.Status,
		&o.Confirmed,
		&o.CreatedAt,
	)
	if err != nil {
		return orderdom.Order{}, err
	}

	o.Total, err = decimal.NewFromString(strings.TrimSpace(totalStr))
	if err != nil {
		return orderdom.Order{}, err
	}

	var items []pgOrderItem
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &items); err != nil {
			return orderdom.Order{}, err
		}
	}
	for _, it := range items {
		o.Items = append(o.Items, cartdom.LineItem{
			ProductID: it.ProductID,
			SizeKey:   it.SizeKey,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Quantity:  it.Quantity,
		})
	}
	return o, nil
}
