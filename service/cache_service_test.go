package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *CacheService {
	t.Helper()
	cache, err := NewCacheService(filepath.Join(t.TempDir(), "cache"), zap.NewNop().Sugar())
	require.NoError(t, err)
	return cache
}

func TestCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	_, ok := cache.LookupExtraction("deadbeef")
	assert.False(t, ok)
	_, ok = cache.LookupEnrichment("deadbeef")
	assert.False(t, ok)
}

func TestCacheStoreAndLookup(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.StoreExtraction("abc123", "extracted text"))
	text, ok := cache.LookupExtraction("abc123")
	require.True(t, ok)
	assert.Equal(t, "extracted text", text)
}

func TestCacheNamespacesAreSeparate(t *testing.T) {
	cache := newTestCache(t)

	require.NoError(t, cache.StoreExtraction("samekey", "extraction result"))
	require.NoError(t, cache.StoreEnrichment("samekey", "enrichment result"))

	extracted, ok := cache.LookupExtraction("samekey")
	require.True(t, ok)
	enriched, ok := cache.LookupEnrichment("samekey")
	require.True(t, ok)
	assert.Equal(t, "extraction result", extracted)
	assert.Equal(t, "enrichment result", enriched)
}

func TestCacheFileLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCacheService(dir, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, cache.StoreExtraction("abc123", "x"))
	require.NoError(t, cache.StoreEnrichment("def456", "y"))

	_, err = os.Stat(filepath.Join(dir, "abc123.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "tags_def456.txt"))
	assert.NoError(t, err)
}
