// internal/domain/stock/sizekey_test.go
package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSizeKey(t *testing.T) {
	key, err := BuildSizeKey("P1", "M")
	require.NoError(t, err)
	assert.Equal(t, "P1__M", key)

	_, err = BuildSizeKey("", "M")
	assert.ErrorIs(t, err, ErrInvalidSizeKey)

	_, err = BuildSizeKey("P1", "  ")
	assert.ErrorIs(t, err, ErrInvalidSizeKey)
}

func TestParseSizeKey(t *testing.T) {
	pid, size, err := ParseSizeKey("P1__M")
	require.NoError(t, err)
	assert.Equal(t, "P1", pid)
	assert.Equal(t, "M", size)

	// product ids may themselves contain the separator; the split happens
	// on the LAST occurrence
	pid, size, err = ParseSizeKey("P__special__XL")
	require.NoError(t, err)
	assert.Equal(t, "P__special", pid)
	assert.Equal(t, "XL", size)

	for _, bad := range []string{"", "P1", "P1__", "__M", "P1_M"} {
		_, _, err := ParseSizeKey(bad)
		assert.ErrorIs(t, err, ErrInvalidSizeKey, "sizeKey=%q", bad)
	}
}

func TestCacheKey(t *testing.T) {
	// the cache key uses a single underscore, unlike the sizeKey
	assert.Equal(t, "P1_M", CacheKey("P1", "M"))
	assert.Equal(t, "P1_M", CacheKey(" P1 ", " M "))
}
