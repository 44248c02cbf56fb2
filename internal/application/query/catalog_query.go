// internal/application/query/catalog_query.go
package query

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	productdom "tienda/internal/domain/product"
)

var ErrCatalogInvalidArgument = errors.New("catalog_query: invalid argument")

// ImageURLResolver turns a stored image object path into a URL the
// storefront can render (public URL, or V4 signed URL when configured).
type ImageURLResolver interface {
	Resolve(ctx context.Context, objectPath string) (string, error)
}

// ProductView is the storefront read model for one product: per-size
// availability with zero entries filtered, image resolved to a URL.
type ProductView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Sizes       []string        `json:"sizes"`
	Inventory   map[string]int  `json:"inventory"`
}

// CatalogQuery is the read side of the product catalog.
type CatalogQuery struct {
	products productdom.Repository
	images   ImageURLResolver // optional
}

func NewCatalogQuery(products productdom.Repository, images ImageURLResolver) *CatalogQuery {
	return &CatalogQuery{products: products, images: images}
}

func (q *CatalogQuery) GetProduct(ctx context.Context, id string) (ProductView, error) {
	pid := strings.TrimSpace(id)
	if pid == "" {
		return ProductView{}, ErrCatalogInvalidArgument
	}

	p, err := q.products.GetByID(ctx, pid)
	if err != nil {
		return ProductView{}, err
	}
	return q.toView(ctx, p), nil
}

func (q *CatalogQuery) ListProducts(ctx context.Context, limit int) ([]ProductView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	ps, err := q.products.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, q.toView(ctx, p))
	}
	return out, nil
}

func (q *CatalogQuery) toView(ctx context.Context, p productdom.Product) ProductView {
	image := p.Image
	if q.images != nil && strings.TrimSpace(image) != "" {
		resolved, err := q.images.Resolve(ctx, image)
		if err != nil {
			// keep the stored path; a broken image never breaks the page
			log.Printf("[catalog_query] WARN: image resolve failed product=%s err=%v", p.ID, err)
		} else {
			image = resolved
		}
	}

	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       image,
		Sizes:       p.Sizes(),
		Inventory:   p.InStockInventory(),
	}
}
