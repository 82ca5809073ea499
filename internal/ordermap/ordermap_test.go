package ordermap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPreservesOrderAndShadowsLookup(t *testing.T) {
	m := New[string, int]()
	m.Add("a", 1)
	m.Add("b", 2)
	m.Add("a", 3) // second insertion under an existing key

	require.Equal(t, 3, m.Len())

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v, "lookup should return the later insertion")

	keys := m.Keys()
	assert.Equal(t, []string{"a", "b", "a"}, keys, "both entries must remain in iteration order")
}

func TestUpdateInPlaceElseAppend(t *testing.T) {
	m := New[string, int]()
	m.Add("a", 1)
	m.Update("a", 2)
	m.Update("b", 5)

	require.Equal(t, 2, m.Len())
	v, _ := m.Get("a")
	assert.Equal(t, 2, v)
	v, _ = m.Get("b")
	assert.Equal(t, 5, v)
}

func TestSortReordersAndRewritesIndex(t *testing.T) {
	m := New[string, int]()
	m.Add("c", 3)
	m.Add("a", 1)
	m.Add("b", 2)

	m.Sort()

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	assert.Equal(t, 0, m.IndexOf("a"))
	assert.Equal(t, 1, m.IndexOf("b"))
	assert.Equal(t, 2, m.IndexOf("c"))
}

func TestContainsAndIndexOf(t *testing.T) {
	m := New[string, int]()
	assert.False(t, m.Contains("x"))
	m.Add("x", 42)
	assert.True(t, m.Contains("x"))
	assert.Equal(t, 0, m.IndexOf("x"))
	assert.Equal(t, -1, m.IndexOf("nope"))
}
