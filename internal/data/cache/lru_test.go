package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetPut(t *testing.T) {
	c := NewLRU[string, int](3)

	_, ok := c.Get("a")
	assert.False(t, ok, "empty cache must miss")

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	require.Equal(t, 3, c.Len())

	for k, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		v, ok := c.Get(k)
		require.True(t, ok, "expected hit for %q", k)
		assert.Equal(t, want, v)
	}
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Put("c", 3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRU_UpdateKeepsSize(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Put("a", 1)
	c.Put("a", 10)

	assert.Equal(t, 1, c.Len())
	v, _ := c.Get("a")
	assert.Equal(t, 10, v)
}

func TestLRU_NonPositiveCapacity(t *testing.T) {
	c := NewLRU[int, string](0)
	assert.Equal(t, 1, c.Cap())

	c.Put(1, "one")
	c.Put(2, "two")
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(1)
	assert.False(t, ok)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](16)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n+j)%32)
				c.Put(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
