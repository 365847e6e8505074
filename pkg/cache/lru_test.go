package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/forgekit/pkg/cache"
)

func TestLRU_SetGet(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	var evicted []string
	c := cache.NewLRU[string, int](2, cache.WithEvictCallback(func(k string, _ int) {
		evicted = append(evicted, k)
	}))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
}

func TestLRU_TTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewLRU[string, string](4,
		cache.WithTTL[string, string](time.Minute),
		cache.WithClock[string, string](clock),
	)

	c.Set("k", "v")
	now = now.Add(59 * time.Second)
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_DeletePurge(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](3)
	c.Set(1, 1)
	c.Set(2, 2)

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))
	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestLRU_InvalidCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRU[string, int](0) })
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](16)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%20, i)
			c.Get(i % 7)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
