package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_evictsOldest(t *testing.T) {
	c, err := NewLRU[int](2)
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	_, _ = c.Get("a") // a becomes most recent
	evicted := c.Put("c", 3)

	assert.True(t, evicted)
	_, ok := c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []int{1, 3}, c.Values())
	assert.Equal(t, 2, c.Len())
}

func TestLRU_peekAndRemove(t *testing.T) {
	c, err := NewLRU[string](4)
	require.NoError(t, err)

	c.Put("x", "one")
	v, ok := c.Peek("x")
	require.True(t, ok)
	assert.Equal(t, "one", v)

	assert.True(t, c.Remove("x"))
	assert.False(t, c.Remove("x"))
	assert.Equal(t, 0, c.Len())
}

func TestNewLRU_invalidSize(t *testing.T) {
	_, err := NewLRU[int](0)
	assert.Error(t, err)
}
