// internal/application/query/catalog_query_test.go
package query

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdom "tienda/internal/domain/product"
)

type fakeProductRepo struct {
	products map[string]productdom.Product
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) List(_ context.Context, limit int) ([]productdom.Product, error) {
	out := []productdom.Product{}
	for _, p := range f.products {
		out = append(out, p)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeResolver struct {
	fail bool
}

func (f *fakeResolver) Resolve(_ context.Context, objectPath string) (string, error) {
	if f.fail {
		return "", errors.New("resolver down")
	}
	return "https://cdn.example.com/" + objectPath, nil
}

func testProduct() productdom.Product {
	return productdom.Product{
		ID:    "P1",
		Name:  "Camiseta",
		Price: decimal.RequireFromString("29.99"),
		Image: "products/P1/main.jpg",
		Inventory: map[string]int{
			"P1__M":  5,
			"P1__L":  0, // sold out: excluded from the view
			"P1__XL": 2,
		},
	}
}

func TestGetProductView(t *testing.T) {
	q := NewCatalogQuery(&fakeProductRepo{products: map[string]productdom.Product{"P1": testProduct()}}, &fakeResolver{})

	v, err := q.GetProduct(context.Background(), "P1")
	require.NoError(t, err)

	assert.Equal(t, "P1", v.ID)
	assert.Equal(t, "https://cdn.example.com/products/P1/main.jpg", v.Image)
	assert.Equal(t, []string{"M", "XL"}, v.Sizes)
	assert.Equal(t, map[string]int{"P1__M": 5, "P1__XL": 2}, v.Inventory)
}

func TestGetProductResolverFailureKeepsStoredPath(t *testing.T) {
	q := NewCatalogQuery(&fakeProductRepo{products: map[string]productdom.Product{"P1": testProduct()}}, &fakeResolver{fail: true})

	v, err := q.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "products/P1/main.jpg", v.Image)
}

func TestGetProductNotFound(t *testing.T) {
	q := NewCatalogQuery(&fakeProductRepo{products: map[string]productdom.Product{}}, nil)

	_, err := q.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, productdom.ErrNotFound)

	_, err = q.GetProduct(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrCatalogInvalidArgument)
}

func TestListProducts(t *testing.T) {
	q := NewCatalogQuery(&fakeProductRepo{products: map[string]productdom.Product{"P1": testProduct()}}, nil)

	views, err := q.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Camiseta", views[0].Name)
}
