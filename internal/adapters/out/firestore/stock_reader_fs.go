// internal/adapters/out/firestore/stock_reader_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tienda/internal/domain/stock"
)

// StockReaderFS implements stock.Reader against the products collection.
// It reads only the inventory map; an absent sizeKey is 0, a missing
// product document is *stock.ProductNotFoundError.
type StockReaderFS struct {
	Client *firestore.Client
}

func NewStockReaderFS(client *firestore.Client) *StockReaderFS {
	return &StockReaderFS{Client: client}
}

func (r *StockReaderFS) GetAvailable(ctx context.Context, productID, size string) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("stock_reader_fs: firestore client is nil")
	}

	pid := strings.TrimSpace(productID)
	key, err := stock.BuildSizeKey(pid, size)
	if err != nil {
		return 0, err
	}

	snap, err := r.Client.Collection("products").Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, &stock.ProductNotFoundError{ProductID: pid}
		}
		return 0, err
	}

	inv := asMap(snap.Data()["inventory"])
	if inv == nil {
		return 0, nil
	}
	return asInt(inv[key]), nil
}
