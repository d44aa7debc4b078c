package matrix

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

// Unmapped marks an original position with no current position: an
// eliminated column, or a row not yet seen in the input.
const Unmapped = -1

// IndexMap translates original 0-based positions into current positions
// after removals. Surviving positions keep their original order, so
// current positions are strictly increasing across surviving originals.
type IndexMap struct {
	pos []int
}

// NewIndexMap creates an IndexMap of n positions, all Unmapped.
func NewIndexMap(n int) *IndexMap {
	m := &IndexMap{pos: make([]int, n)}
	for i := range m.pos {
		m.pos[i] = Unmapped
	}
	return m
}

// Identity creates an IndexMap of n positions where every original
// position maps to itself.
func Identity(n int) *IndexMap {
	m := &IndexMap{pos: make([]int, n)}
	for i := range m.pos {
		m.pos[i] = i
	}
	return m
}

// FromRemovals creates an IndexMap of n positions in which the members
// of removed (0-based originals) are Unmapped and the survivors are
// renumbered consecutively from 0.
func FromRemovals(n int, removed *treeset.Set) *IndexMap {
	m := &IndexMap{pos: make([]int, n)}
	next := 0
	for i := range m.pos {
		if removed != nil && removed.Contains(i) {
			m.pos[i] = Unmapped
			continue
		}
		m.pos[i] = next
		next++
	}
	return m
}

// Len returns the number of original positions.
func (m *IndexMap) Len() int {
	return len(m.pos)
}

// Get returns the current position of original position orig, or
// Unmapped.
func (m *IndexMap) Get(orig int) int {
	m.check(orig)
	return m.pos[orig]
}

// Set records current as the current position of original position orig.
func (m *IndexMap) Set(orig, current int) {
	m.check(orig)
	m.pos[orig] = current
}

// IsMapped reports whether original position orig has a current
// position.
func (m *IndexMap) IsMapped(orig int) bool {
	m.check(orig)
	return m.pos[orig] != Unmapped
}

// MappedCount returns the number of original positions with a current
// position.
func (m *IndexMap) MappedCount() int {
	n := 0
	for _, p := range m.pos {
		if p != Unmapped {
			n++
		}
	}
	return n
}

func (m *IndexMap) check(orig int) {
	if orig < 0 || orig >= len(m.pos) {
		panic(fmt.Sprintf("matrix: original position %d out of range [0..%d)", orig, len(m.pos)))
	}
}
