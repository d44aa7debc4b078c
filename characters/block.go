// Package characters reads the NEXUS CHARACTERS block (and its DATA
// variant): dimensions, format settings, eliminated columns, labels and
// the data matrix itself. Cells are stored in a matrix.Matrix; original
// row and column indices are mapped to matrix positions through
// matrix.IndexMap values.
package characters

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/phylogo/go-nexus/logger"
	"github.com/phylogo/go-nexus/matrix"
	"github.com/phylogo/go-nexus/nexus"
	"github.com/phylogo/go-nexus/taxa"
)

// DataType identifies the alphabet declared with FORMAT DATATYPE.
type DataType int

const (
	Standard DataType = iota
	DNA
	RNA
	Nucleotide
	Protein
	Continuous
)

func (d DataType) String() string {
	switch d {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	case Nucleotide:
		return "nucleotide"
	case Protein:
		return "protein"
	case Continuous:
		return "continuous"
	default:
		return "standard"
	}
}

// MatrixObserver is notified once a data matrix has been stored, at
// which point the block becomes the current character-containing block.
type MatrixObserver func(b *Block)

// Block handles reading and storage of the CHARACTERS block. Character
// and taxon indices come in two flavors: original indices refer to
// positions in the data file, current indices to rows and columns of
// the stored matrix. The two differ when characters are removed with
// ELIMINATE or taxa listed in the TAXA block are absent from MATRIX.
type Block struct {
	nexus.BlockBase
	taxa     *taxa.Block
	onMatrix MatrixObserver
	log      logger.Logger

	// true for the DATA variant, which implies NEWTAXA and flushes
	// the taxa registry on Reset
	dataVariant bool

	ntax       int
	ntaxTotal  int
	nchar      int
	ncharTotal int
	newtaxa    bool
	newchar    bool

	datatype       DataType
	respectingCase bool
	missing        byte
	gap            byte
	matchchar      byte
	symbols        []byte
	equates        map[string]string
	labels         bool
	transposing    bool
	interleaving   bool
	tokens         bool

	charLabels []string
	charStates map[int][]string

	mtx         *matrix.Matrix
	eliminated  *treeset.Set
	charPos     *matrix.IndexMap
	taxonPos    *matrix.IndexMap
	activeChar  []bool
	activeTaxon []bool
}

// NewBlock creates an empty CHARACTERS block reader resolving taxon
// labels against tb. onMatrix may be nil.
func NewBlock(tb *taxa.Block, onMatrix MatrixObserver) *Block {
	b := &Block{
		BlockBase: nexus.NewBlockBase("CHARACTERS"),
		taxa:      tb,
		onMatrix:  onMatrix,
		log:       logger.GetLogger(),
	}
	b.Reset()
	b.SetEmpty(true)
	return b
}

// NewDataBlock creates a reader for the DATA block, which differs from
// CHARACTERS only in that NEWTAXA is implied.
func NewDataBlock(tb *taxa.Block, onMatrix MatrixObserver) *Block {
	b := NewBlock(tb, onMatrix)
	b.BlockBase = nexus.NewBlockBase("DATA")
	b.dataVariant = true
	b.newtaxa = true
	return b
}

// Reset restores the block to its freshly-constructed state in
// preparation for reading a new block of the same kind.
func (b *Block) Reset() {
	b.SetEmpty(true)
	b.ntax = 0
	b.ntaxTotal = 0
	b.nchar = 0
	b.ncharTotal = 0
	b.newchar = true
	b.newtaxa = b.dataVariant
	b.interleaving = false
	b.transposing = false
	b.respectingCase = false
	b.tokens = false
	b.labels = true
	b.datatype = Standard
	b.missing = '?'
	b.gap = 0
	b.matchchar = 0

	b.charLabels = nil
	b.charStates = make(map[int][]string)
	b.resetSymbols()

	b.mtx = nil
	b.charPos = nil
	b.taxonPos = nil
	b.activeChar = nil
	b.activeTaxon = nil
	b.eliminated = treeset.NewWithIntComparator()

	if b.dataVariant && b.taxa != nil {
		b.taxa.Reset()
	}
}

// Read consumes the block contents following the block name, through
// the END or ENDBLOCK command.
func (b *Block) Read(tk *nexus.Tokenizer) error {
	b.SetEmpty(false)

	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' after %s block name, but found %s instead", b.ID(), tok.Text)
	}

	b.ntax = b.taxa.NumTaxa()

	for {
		tok, err = b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}

		switch {
		case tok.Equals("DIMENSIONS"):
			err = b.handleDimensions(tk)
		case tok.Equals("FORMAT"):
			err = b.handleFormat(tk)
		case tok.Equals("ELIMINATE"):
			err = b.handleEliminate(tk)
		case tok.Equals("TAXLABELS"):
			err = b.handleTaxlabels(tk)
		case tok.Equals("CHARSTATELABELS"):
			err = b.handleCharstatelabels(tk)
		case tok.Equals("CHARLABELS"):
			err = b.handleCharlabels(tk)
		case tok.Equals("STATELABELS"):
			err = b.handleStatelabels(tk)
		case tok.Equals("MATRIX"):
			err = b.handleMatrix(tk)
		case tok.Equals("END") || tok.Equals("ENDBLOCK"):
			return b.handleEndblock(tk)
		default:
			b.log.Warn("skipping unknown command", "block", b.ID(), "command", tok.Text)
			err = b.skipCommand(tk)
		}
		if err != nil {
			return err
		}
	}
}

// next pulls a token and turns end of input into a block-level error.
func (b *Block) next(tk *nexus.Tokenizer, opts nexus.Options) (nexus.Token, error) {
	tok, err := tk.Next(opts)
	if err != nil {
		return tok, err
	}
	if tok.AtEOF() {
		return tok, nexus.Errorf(tok.Pos, "unexpected end of file in %s block", b.ID())
	}
	return tok, nil
}

// demandEquals consumes the '=' that must follow the given keyword.
func (b *Block) demandEquals(tk *nexus.Tokenizer, keyword string) error {
	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals("=") {
		return nexus.Errorf(tok.Pos, "expecting '=' after keyword %s but found %s instead", keyword, tok.Text)
	}
	return nil
}

func (b *Block) skipCommand(tk *nexus.Tokenizer) error {
	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if tok.Equals(";") {
			return nil
		}
	}
}

func (b *Block) handleDimensions(tk *nexus.Tokenizer) error {
	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}

		switch {
		case tok.Equals("NEWTAXA"):
			b.newtaxa = true
			b.taxa.Reset()

		case tok.Equals("NTAX"):
			if err := b.demandEquals(tk, "NTAX"); err != nil {
				return err
			}
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			n, convErr := strconv.Atoi(tok.Text)
			if convErr != nil || n <= 0 {
				return nexus.Errorf(tok.Pos, "NTAX must be a number greater than 0 (%s was specified)", tok.Text)
			}
			b.ntax = n
			if b.newtaxa {
				b.ntaxTotal = n
			} else {
				b.ntaxTotal = b.taxa.NumTaxa()
				if b.ntaxTotal < b.ntax {
					return nexus.Errorf(tok.Pos, "NTAX in %s block must be less than or equal to NTAX in TAXA block", b.ID())
				}
			}

		case tok.Equals("NCHAR"):
			if err := b.demandEquals(tk, "NCHAR"); err != nil {
				return err
			}
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			n, convErr := strconv.Atoi(tok.Text)
			if convErr != nil || n <= 0 {
				return nexus.Errorf(tok.Pos, "NCHAR must be a number greater than 0 (%s was specified)", tok.Text)
			}
			b.nchar = n
			b.ncharTotal = n

		case tok.Equals(";"):
			return nil
		}
	}
}

// handleTaxlabels fills the taxa registry from within the block. Only
// legal when NEWTAXA was declared, since otherwise the labels belong to
// a preceding TAXA block.
func (b *Block) handleTaxlabels(tk *nexus.Tokenizer) error {
	if !b.newtaxa {
		return nexus.Errorf(tk.Pos(), "NEWTAXA must have been specified in DIMENSIONS command to use the TAXLABELS command in a %s block", b.ID())
	}

	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if tok.Equals(";") {
			break
		}
		if b.taxa.NumTaxa() >= b.ntaxTotal {
			return nexus.NewError("number of taxon labels exceeds NTAX specified in DIMENSIONS command", tok.Pos)
		}
		b.taxa.Add(tok.Text)
	}

	b.newtaxa = false
	return nil
}

// handleEndblock checks the terminating semicolon and, if only state
// labels were provided, synthesizes character labels so that the two
// label stores are either both empty or both populated.
func (b *Block) handleEndblock(tk *nexus.Tokenizer) error {
	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' to terminate the END or ENDBLOCK command, but found %s instead", tok.Text)
	}

	if len(b.charLabels) == 0 && len(b.charStates) > 0 {
		for k := 0; k < b.ncharTotal; k++ {
			b.charLabels = append(b.charLabels, "Character "+strconv.Itoa(k+1))
		}
	}
	return nil
}

// NumChar returns the number of stored matrix columns, which is smaller
// than NumCharTotal when characters were eliminated.
func (b *Block) NumChar() int { return b.nchar }

// NumCharTotal returns the number of characters declared with NCHAR.
func (b *Block) NumCharTotal() int { return b.ncharTotal }

// NumTaxa returns the number of stored matrix rows.
func (b *Block) NumTaxa() int { return b.ntax }

// NumTaxaTotal returns the number of taxa in the taxa registry.
func (b *Block) NumTaxaTotal() int { return b.ntaxTotal }

// DataType returns the declared datatype.
func (b *Block) DataType() DataType { return b.datatype }

// Missing returns the missing data symbol.
func (b *Block) Missing() byte { return b.missing }

// Gap returns the gap symbol, or 0 if none was declared.
func (b *Block) Gap() byte { return b.gap }

// Matchchar returns the match character, or 0 if none was declared.
func (b *Block) Matchchar() byte { return b.matchchar }

// Symbols returns the state symbol alphabet in order.
func (b *Block) Symbols() string { return string(b.symbols) }

func (b *Block) IsRespectCase() bool { return b.respectingCase }
func (b *Block) IsTokens() bool      { return b.tokens }
func (b *Block) IsTranspose() bool   { return b.transposing }
func (b *Block) IsInterleave() bool  { return b.interleaving }
func (b *Block) IsLabels() bool      { return b.labels }

// Matrix returns the stored data matrix, or nil before MATRIX is read.
func (b *Block) Matrix() *matrix.Matrix { return b.mtx }

// NumEliminated returns the number of characters removed by ELIMINATE.
func (b *Block) NumEliminated() int { return b.ncharTotal - b.nchar }

// NumEquates returns the number of equate macros in effect.
func (b *Block) NumEquates() int { return len(b.equates) }

// IsEliminated reports whether the character with the given original
// index was removed by ELIMINATE.
func (b *Block) IsEliminated(origCharIndex int) bool {
	return b.eliminated.Contains(origCharIndex)
}

// CharPos returns the current column of the character with the given
// original index, or matrix.Unmapped if it was eliminated.
func (b *Block) CharPos(origCharIndex int) int {
	if b.charPos == nil {
		return origCharIndex
	}
	return b.charPos.Get(origCharIndex)
}

// TaxonPos returns the matrix row of the taxon with the given original
// index, or matrix.Unmapped if no row was provided for it.
func (b *Block) TaxonPos(origTaxonIndex int) int {
	return b.taxonPos.Get(origTaxonIndex)
}

// OrigCharIndex returns the original index of current column j.
func (b *Block) OrigCharIndex(j int) int {
	if b.charPos == nil {
		return j
	}
	k := j
	for k < b.ncharTotal && b.charPos.Get(k) < j {
		k++
	}
	return k
}

// OrigCharNumber returns the 1-based character number, as used in the
// data file, of current column j.
func (b *Block) OrigCharNumber(j int) int { return 1 + b.OrigCharIndex(j) }

// OrigTaxonIndex returns the original index of current row i.
func (b *Block) OrigTaxonIndex(i int) int {
	k := i
	for k < b.ntaxTotal && b.taxonPos.Get(k) < i {
		k++
	}
	return k
}

// OrigTaxonNumber returns the 1-based taxon number, as used in the data
// file, of current row i.
func (b *Block) OrigTaxonNumber(i int) int { return 1 + b.OrigTaxonIndex(i) }

// ExcludeCharacter deactivates current column j. Excluding an already
// excluded character has no effect.
func (b *Block) ExcludeCharacter(j int) { b.activeChar[j] = false }

// IncludeCharacter reactivates current column j.
func (b *Block) IncludeCharacter(j int) { b.activeChar[j] = true }

// DeleteTaxon deactivates current row i. Deleting an already deleted
// taxon has no effect.
func (b *Block) DeleteTaxon(i int) { b.activeTaxon[i] = false }

// RestoreTaxon reactivates current row i.
func (b *Block) RestoreTaxon(i int) { b.activeTaxon[i] = true }

// IsActiveChar reports whether current column j is active.
func (b *Block) IsActiveChar(j int) bool { return b.activeChar[j] }

// IsExcluded reports whether current column j has been excluded.
func (b *Block) IsExcluded(j int) bool { return !b.activeChar[j] }

// IsActiveTaxon reports whether current row i is active.
func (b *Block) IsActiveTaxon(i int) bool { return b.activeTaxon[i] }

// IsDeleted reports whether current row i has been deleted.
func (b *Block) IsDeleted(i int) bool { return !b.activeTaxon[i] }

// NumActiveChar counts the currently active characters.
func (b *Block) NumActiveChar() int {
	n := 0
	for _, a := range b.activeChar {
		if a {
			n++
		}
	}
	return n
}

// NumActiveTaxa counts the currently active taxa.
func (b *Block) NumActiveTaxa() int {
	n := 0
	for _, a := range b.activeTaxon {
		if a {
			n++
		}
	}
	return n
}

// ApplyExset excludes the characters in exset, given as original
// indices. Eliminated members are skipped. Returns the number of
// characters whose status actually changed.
func (b *Block) ApplyExset(exset *treeset.Set) int {
	return b.applyCharSet(exset, false)
}

// ApplyIncludeset reactivates the characters in inset, given as
// original indices. Returns the number actually changed.
func (b *Block) ApplyIncludeset(inset *treeset.Set) int {
	return b.applyCharSet(inset, true)
}

func (b *Block) applyCharSet(set *treeset.Set, active bool) int {
	changed := 0
	for _, v := range set.Values() {
		j := b.CharPos(v.(int))
		if j == matrix.Unmapped {
			continue
		}
		if b.activeChar[j] != active {
			b.activeChar[j] = active
			changed++
		}
	}
	return changed
}

// ApplyDelset deletes the taxa in delset, given as original indices.
// Taxa without a matrix row are skipped. Returns the number actually
// changed.
func (b *Block) ApplyDelset(delset *treeset.Set) int {
	return b.applyTaxonSet(delset, false)
}

// ApplyRestoreset restores the taxa in restoreset, given as original
// indices. Returns the number actually changed.
func (b *Block) ApplyRestoreset(restoreset *treeset.Set) int {
	return b.applyTaxonSet(restoreset, true)
}

func (b *Block) applyTaxonSet(set *treeset.Set, active bool) int {
	changed := 0
	for _, v := range set.Values() {
		i := b.taxonPos.Get(v.(int))
		if i == matrix.Unmapped {
			continue
		}
		if b.activeTaxon[i] != active {
			b.activeTaxon[i] = active
			changed++
		}
	}
	return changed
}

// CharLabelToNumber returns the 1-based number of the character with
// the given label, or 0 if no character has that label.
func (b *Block) CharLabelToNumber(label string) int {
	for i, l := range b.charLabels {
		if strings.EqualFold(l, label) {
			return i + 1
		}
	}
	return 0
}

// TaxonLabelToNumber returns the 1-based number of the taxon with the
// given label, or 0 if the label is unknown.
func (b *Block) TaxonLabelToNumber(label string) int {
	if i, ok := b.taxa.Find(label); ok {
		return i + 1
	}
	return 0
}
