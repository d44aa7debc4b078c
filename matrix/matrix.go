package matrix

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/sets/treeset"
)

// Matrix is a dense rows-by-columns store of Cells. Rows correspond to
// taxa and columns to characters. Out-of-range indices indicate a defect
// in the calling parser, not bad data, and panic.
type Matrix struct {
	nrows int
	ncols int
	cells [][]Cell
}

// New creates a rows-by-cols Matrix with every cell missing. Both
// dimensions must be positive.
func New(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matrix: invalid dimensions %dx%d", rows, cols))
	}
	m := &Matrix{nrows: rows, ncols: cols}
	m.cells = make([][]Cell, rows)
	for i := range m.cells {
		m.cells[i] = make([]Cell, cols)
	}
	return m
}

// NumRows returns the number of rows.
func (m *Matrix) NumRows() int {
	return m.nrows
}

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int {
	return m.ncols
}

// Cell returns the cell at row i, column j.
func (m *Matrix) Cell(i, j int) *Cell {
	m.check(i, j)
	return &m.cells[i][j]
}

// IsMissing reports whether the cell at row i, column j holds the
// missing state.
func (m *Matrix) IsMissing(i, j int) bool {
	return m.Cell(i, j).IsMissing()
}

// IsGap reports whether the cell at row i, column j holds the gap state.
func (m *Matrix) IsGap(i, j int) bool {
	return m.Cell(i, j).IsGap()
}

// IsPolymorphic reports whether the cell at row i, column j is
// polymorphic.
func (m *Matrix) IsPolymorphic(i, j int) bool {
	return m.Cell(i, j).IsPolymorphic()
}

// NumStates returns the number of states stored at row i, column j.
func (m *Matrix) NumStates(i, j int) int {
	return m.Cell(i, j).NumStates()
}

// State returns the kth state stored at row i, column j.
func (m *Matrix) State(i, j, k int) int {
	return m.Cell(i, j).State(k)
}

// SetMissing assigns the missing state to the cell at row i, column j.
func (m *Matrix) SetMissing(i, j int) {
	m.Cell(i, j).SetMissing()
}

// SetGap assigns the gap state to the cell at row i, column j.
func (m *Matrix) SetGap(i, j int) {
	m.Cell(i, j).SetGap()
}

// SetState overwrites the cell at row i, column j with the single state
// value.
func (m *Matrix) SetState(i, j, value int) {
	m.Cell(i, j).SetState(value)
}

// AddState adds value to the states stored at row i, column j.
func (m *Matrix) AddState(i, j, value int) {
	m.Cell(i, j).AddState(value)
}

// SetPolymorphic marks the multi-state cell at row i, column j as
// polymorphic or uncertain.
func (m *Matrix) SetPolymorphic(i, j int, value bool) {
	m.Cell(i, j).SetPolymorphic(value)
}

// CopyStatesFromFirstRow overwrites the cell at row i, column j with the
// contents of the cell at row 0, column j. It backs the match-character
// feature of matrix readers.
func (m *Matrix) CopyStatesFromFirstRow(i, j int) {
	m.check(i, j)
	m.cells[i][j].CopyFrom(&m.cells[0][j])
}

// ObsNumStates returns the number of distinct states observed in column
// j across all rows, ignoring missing and gap cells.
func (m *Matrix) ObsNumStates(j int) int {
	if j < 0 || j >= m.ncols {
		panic(fmt.Sprintf("matrix: column %d out of range [0..%d)", j, m.ncols))
	}
	seen := treeset.NewWithIntComparator()
	for i := 0; i < m.nrows; i++ {
		for _, s := range m.cells[i][j].states {
			seen.Add(s)
		}
	}
	return seen.Size()
}

// AddRows grows the matrix by n rows of missing cells at the bottom,
// preserving existing contents.
func (m *Matrix) AddRows(n int) {
	for i := 0; i < n; i++ {
		m.cells = append(m.cells, make([]Cell, m.ncols))
	}
	m.nrows += n
}

// DuplicateRow copies columns startCol through endCol (inclusive) of the
// given row into the count-1 rows that follow it, growing the matrix as
// needed. count includes the row already present. An endCol of -1 means
// the last column. It returns the number of rows added.
func (m *Matrix) DuplicateRow(row, count, startCol, endCol int) int {
	if endCol == -1 {
		endCol = m.ncols - 1
	}
	if row < 0 || row >= m.nrows || startCol < 0 || startCol >= m.ncols ||
		endCol < startCol || endCol >= m.ncols {
		panic(fmt.Sprintf("matrix: invalid DuplicateRow(%d, %d, %d, %d)", row, count, startCol, endCol))
	}

	added := 0
	if row+count > m.nrows {
		added = row + count - m.nrows
		m.AddRows(added)
	}

	for i := 1; i < count; i++ {
		for col := startCol; col <= endCol; col++ {
			m.cells[row+i][col].CopyFrom(&m.cells[row][col])
		}
	}
	return added
}

// DebugSave dumps the raw state codes to w, one row per line, with each
// cell right-justified in colWidth columns. Missing cells print as '?'
// and gap cells as '-'.
func (m *Matrix) DebugSave(w io.Writer, colWidth int) {
	fmt.Fprintf(w, "nrows = %d\n", m.nrows)
	fmt.Fprintf(w, "ncols = %d\n", m.ncols)
	for i := 0; i < m.nrows; i++ {
		for j := 0; j < m.ncols; j++ {
			c := &m.cells[i][j]
			switch {
			case c.IsMissing():
				fmt.Fprintf(w, "%*s", colWidth, "?")
			case c.IsGap():
				fmt.Fprintf(w, "%*s", colWidth, "-")
			default:
				fmt.Fprintf(w, "%*d", colWidth, c.states[0])
			}
		}
		fmt.Fprintln(w)
	}
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.nrows || j < 0 || j >= m.ncols {
		panic(fmt.Sprintf("matrix: cell (%d, %d) out of range for %dx%d matrix", i, j, m.nrows, m.ncols))
	}
}
