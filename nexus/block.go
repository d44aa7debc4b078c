package nexus

import "io"

// Block is implemented by every NEXUS block reader. The Document reads
// through the BEGIN command and the block name; Read is responsible for
// everything after the name, including the END or ENDBLOCK command and
// its trailing semicolon.
type Block interface {
	// ID returns the block name, e.g. "TAXA" or "CHARACTERS".
	ID() string
	// IsEmpty reports whether the block holds no data, i.e. Read has not
	// succeeded since the last Reset.
	IsEmpty() bool
	// IsEnabled reports whether the Document should read blocks of this
	// type rather than skip them.
	IsEnabled() bool
	// Enable allows blocks of this type to be read.
	Enable()
	// Disable makes the Document skip blocks of this type.
	Disable()
	// Reset returns the block to its freshly-constructed state, ready to
	// read another block of the same type.
	Reset()
	// Read consumes the block contents from tk.
	Read(tk *Tokenizer) error
	// Report writes a brief human-readable summary of the block contents.
	Report(w io.Writer)
}

// BlockBase carries the state common to all Block implementations and is
// meant to be embedded in them.
type BlockBase struct {
	id      string
	empty   bool
	enabled bool
}

// NewBlockBase creates an enabled, empty BlockBase with the given id.
func NewBlockBase(id string) BlockBase {
	return BlockBase{id: id, empty: true, enabled: true}
}

func (b *BlockBase) ID() string {
	return b.id
}

func (b *BlockBase) IsEmpty() bool {
	return b.empty
}

// SetEmpty records whether the block currently holds data. Read
// implementations call SetEmpty(false) once data has been stored, Reset
// implementations call SetEmpty(true).
func (b *BlockBase) SetEmpty(empty bool) {
	b.empty = empty
}

func (b *BlockBase) IsEnabled() bool {
	return b.enabled
}

func (b *BlockBase) Enable() {
	b.enabled = true
}

func (b *BlockBase) Disable() {
	b.enabled = false
}
