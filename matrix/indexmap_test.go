package matrix

import (
	"testing"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/stretchr/testify/require"
)

func TestIndexMap_Identity(t *testing.T) {
	require := require.New(t)

	m := Identity(4)
	require.Equal(4, m.Len())
	for i := 0; i < 4; i++ {
		require.Equal(i, m.Get(i))
		require.True(m.IsMapped(i))
	}
	require.Equal(4, m.MappedCount())
}

func TestIndexMap_FromRemovals(t *testing.T) {
	require := require.New(t)

	removed := treeset.NewWithIntComparator()
	removed.Add(1)
	removed.Add(3)

	m := FromRemovals(6, removed)
	require.Equal(6, m.Len())
	require.Equal(4, m.MappedCount())

	require.Equal(0, m.Get(0))
	require.Equal(Unmapped, m.Get(1))
	require.Equal(1, m.Get(2))
	require.Equal(Unmapped, m.Get(3))
	require.Equal(2, m.Get(4))
	require.Equal(3, m.Get(5))

	// survivors keep their order: current positions strictly increase
	prev := -1
	for i := 0; i < m.Len(); i++ {
		if !m.IsMapped(i) {
			continue
		}
		require.Greater(m.Get(i), prev)
		prev = m.Get(i)
	}
}

func TestIndexMap_SetAndUnmapped(t *testing.T) {
	require := require.New(t)

	m := NewIndexMap(3)
	require.Zero(m.MappedCount())
	require.False(m.IsMapped(0))

	m.Set(2, 0)
	require.Equal(0, m.Get(2))
	require.Equal(1, m.MappedCount())

	require.Panics(func() { m.Get(3) })
	require.Panics(func() { m.Set(-1, 0) })
}
