// Package matrix provides compact storage for discrete character data:
// a dense two-dimensional store of per-cell state sets, and the index
// maps used to translate original row and column numbers after
// eliminations.
package matrix

import (
	"github.com/phylogo/go-nexus/internal/util"
)

// Cell stores the states recorded for one taxon/character combination.
// The zero value is the missing state. A cell with no states but a
// non-nil state list is the gap state. Cells holding two or more states
// represent either polymorphism (all states present) or uncertainty
// (exactly one of the states present, not known which).
type Cell struct {
	states      []int
	polymorphic bool
}

// IsMissing reports whether the cell holds the missing state.
func (c *Cell) IsMissing() bool {
	return c.states == nil
}

// IsGap reports whether the cell holds the gap state.
func (c *Cell) IsGap() bool {
	return c.states != nil && len(c.states) == 0
}

// NumStates returns the number of states stored. It is 0 for both the
// missing and the gap state.
func (c *Cell) NumStates() int {
	return len(c.states)
}

// State returns the kth stored state code. It panics if the cell holds
// the missing or gap state, or if k is out of range; call NumStates
// first.
func (c *Cell) State(k int) int {
	if c.IsMissing() {
		panic("matrix: State called on missing cell")
	}
	if c.IsGap() {
		panic("matrix: State called on gap cell")
	}
	if k < 0 || k >= len(c.states) {
		panic("matrix: state index out of range")
	}
	return c.states[k]
}

// States returns a copy of the stored state codes.
func (c *Cell) States() []int {
	if c.states == nil {
		return nil
	}
	return util.CloneSlice(c.states, 0)
}

// IsPolymorphic reports whether the cell holds two or more states marked
// as polymorphic rather than uncertain.
func (c *Cell) IsPolymorphic() bool {
	return len(c.states) >= 2 && c.polymorphic
}

// SetMissing assigns the missing state, erasing anything stored before.
func (c *Cell) SetMissing() {
	c.states = nil
	c.polymorphic = false
}

// SetGap assigns the gap state, erasing anything stored before.
func (c *Cell) SetGap() {
	c.states = []int{}
	c.polymorphic = false
}

// SetState overwrites the cell with the single state value.
func (c *Cell) SetState(value int) {
	c.states = []int{value}
	c.polymorphic = false
}

// AddState adds value to the states already stored. A missing or gap
// cell becomes a single-state cell. A cell holding two or more states is
// assumed uncertain rather than polymorphic until SetPolymorphic is
// called.
func (c *Cell) AddState(value int) {
	if len(c.states) == 0 {
		c.states = []int{value}
		c.polymorphic = false
		return
	}
	c.states = append(c.states, value)
	c.polymorphic = false
}

// SetPolymorphic marks a multi-state cell as polymorphic (value true) or
// uncertain (value false). It has no effect on cells with fewer than two
// states.
func (c *Cell) SetPolymorphic(value bool) {
	if len(c.states) < 2 {
		return
	}
	c.polymorphic = value
}

// CopyFrom overwrites the cell with the contents of other.
func (c *Cell) CopyFrom(other *Cell) {
	if other.states == nil {
		c.states = nil
	} else {
		c.states = util.CloneSlice(other.states, 0)
	}
	c.polymorphic = other.polymorphic
}
