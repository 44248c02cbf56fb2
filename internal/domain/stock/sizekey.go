// internal/domain/stock/sizekey.go
package stock

import (
	"errors"
	"strings"
)

// SizeKeySep separates productId and size inside a sizeKey.
// A sizeKey looks like "<productId>__<size>" and is the unique key for both
// cart line items and inventory map entries.
const SizeKeySep = "__"

var ErrInvalidSizeKey = errors.New("stock: invalid sizeKey")

// BuildSizeKey joins productId and size into a sizeKey.
func BuildSizeKey(productID, size string) (string, error) {
	pid := strings.TrimSpace(productID)
	sz := strings.TrimSpace(size)
	if pid == "" || sz == "" {
		return "", ErrInvalidSizeKey
	}
	return pid + SizeKeySep + sz, nil
}

// ParseSizeKey splits a sizeKey back into (productId, size).
// Sizes never contain "__"; product ids may, so the split is on the LAST
// separator occurrence.
func ParseSizeKey(sizeKey string) (productID, size string, err error) {
	k := strings.TrimSpace(sizeKey)
	if k == "" {
		return "", "", ErrInvalidSizeKey
	}

	idx := strings.LastIndex(k, SizeKeySep)
	if idx <= 0 {
		return "", "", ErrInvalidSizeKey
	}

	pid := strings.TrimSpace(k[:idx])
	sz := strings.TrimSpace(k[idx+len(SizeKeySep):])
	if pid == "" || sz == "" {
		return "", "", ErrInvalidSizeKey
	}
	return pid, sz, nil
}

// CacheKey is the stock-cache key for (productId, size).
// Note the single underscore: the cache is keyed by "<productId>_<size>",
// not by the sizeKey itself.
func CacheKey(productID, size string) string {
	return strings.TrimSpace(productID) + "_" + strings.TrimSpace(size)
}
