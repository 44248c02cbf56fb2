// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "tienda/internal/domain/product"
)

// ProductRepositoryFS implements product.Repository over the products
// collection. Read-only: the storefront never writes product documents.
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("products")
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(id)
	if pid == "" {
		return productdom.Product{}, productdom.ErrInvalidID
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}

	return docToProduct(pid, snap.Data()), nil
}

func (r *ProductRepositoryFS) List(ctx context.Context, limit int) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	it := r.col().Limit(limit).Documents(ctx)
	defer it.Stop()

	out := make([]productdom.Product, 0, limit)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, docToProduct(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

func docToProduct(id string, raw map[string]any) productdom.Product {
	p := productdom.Product{
		ID:          id,
		Name:        strings.TrimSpace(asString(raw["name"])),
		Description: strings.TrimSpace(asString(raw["description"])),
		Price:       decimal.NewFromFloat(asFloat(raw["price"])),
		Image:       strings.TrimSpace(asString(raw["image"])),
		Inventory:   map[string]int{},
	}
	if t, ok := asTime(raw["createdAt"]); ok {
		p.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		p.UpdatedAt = t
	}

	for key, v := range asMap(raw["inventory"]) {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		p.Inventory[k] = asInt(v)
	}
	return p
}
