// Package assumptions reads the NEXUS ASSUMPTIONS block: named character
// sets, taxon sets, and exclusion sets, with one optional default per
// kind. A default exclusion set is applied to the character matrix as
// soon as it is read.
package assumptions

import (
	"fmt"
	"io"
	"sort"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/phylogo/go-nexus/logger"
	"github.com/phylogo/go-nexus/nexus"
	"github.com/phylogo/go-nexus/taxa"
)

// Matrix is the character-matrix surface the block resolves character
// sets against. *characters.Block satisfies it.
type Matrix interface {
	// NumCharTotal returns the number of characters in the matrix
	// including eliminated ones.
	NumCharTotal() int

	// ApplyExset excludes the characters whose original indices are in
	// set, returning how many characters changed state.
	ApplyExset(set *treeset.Set) int

	// CharLabelToNumber returns the 1-based original number of the
	// character with the given label, or 0 if there is none.
	CharLabelToNumber(label string) int
}

// Block handles reading and storage of the ASSUMPTIONS block.
type Block struct {
	nexus.BlockBase

	taxa *taxa.Block
	mtx  Matrix
	log  logger.Logger

	charsets map[string]*treeset.Set
	taxsets  map[string]*treeset.Set
	exsets   map[string]*treeset.Set

	defCharset string
	defTaxset  string
	defExset   string
}

// NewBlock creates an empty ASSUMPTIONS block reader. The character
// matrix is attached later through SetMatrix, once a CHARACTERS or DATA
// block has been read.
func NewBlock(tb *taxa.Block) *Block {
	b := &Block{
		BlockBase: nexus.NewBlockBase("ASSUMPTIONS"),
		taxa:      tb,
		log:       logger.GetLogger(),
	}
	b.Reset()
	b.SetEmpty(true)
	return b
}

// SetMatrix attaches the character matrix that CHARSET and EXSET
// definitions are resolved against.
func (b *Block) SetMatrix(m Matrix) {
	b.mtx = m
}

// Reset flushes all stored sets and default markers.
func (b *Block) Reset() {
	b.SetEmpty(true)
	b.charsets = make(map[string]*treeset.Set)
	b.taxsets = make(map[string]*treeset.Set)
	b.exsets = make(map[string]*treeset.Set)
	b.defCharset = ""
	b.defTaxset = ""
	b.defExset = ""
}

// Read consumes the block contents following the block name, through
// the END or ENDBLOCK command.
func (b *Block) Read(tk *nexus.Tokenizer) error {
	b.SetEmpty(false)

	tok, err := b.next(tk)
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' after %s block name, but found %s instead", b.ID(), tok.Text)
	}

	for {
		tok, err = b.next(tk)
		if err != nil {
			return err
		}

		switch {
		case tok.Equals("CHARSET"):
			err = b.handleCharset(tk)
		case tok.Equals("TAXSET"):
			err = b.handleTaxset(tk)
		case tok.Equals("EXSET"):
			err = b.handleExset(tk)
		case tok.Equals("END") || tok.Equals("ENDBLOCK"):
			tok, err = b.next(tk)
			if err != nil {
				return err
			}
			if !tok.Equals(";") {
				return nexus.Errorf(tok.Pos, "expecting ';' to terminate the END command, but found %s instead", tok.Text)
			}
			return nil
		default:
			b.log.Warn("skipping unknown command in ASSUMPTIONS block", "command", tok.Text)
			err = b.skipCommand(tk)
		}
		if err != nil {
			return err
		}
	}
}

// readSetName reads the optional '*' default marker, the set name, and
// the '=' that follows it. It reports whether the set is the default.
func (b *Block) readSetName(tk *nexus.Tokenizer, keyword string) (name string, isDefault bool, err error) {
	tok, err := b.next(tk)
	if err != nil {
		return "", false, err
	}
	if tok.Equals("*") {
		isDefault = true
		tok, err = b.next(tk)
		if err != nil {
			return "", false, err
		}
	}
	if tok.IsPunct() {
		return "", false, nexus.Errorf(tok.Pos, "expecting a name for the %s, but found %s instead", keyword, tok.Text)
	}
	name = tok.Text

	tok, err = b.next(tk)
	if err != nil {
		return "", false, err
	}
	if !tok.Equals("=") {
		return "", false, nexus.Errorf(tok.Pos, "expecting '=' after %s name, but found %s instead", keyword, tok.Text)
	}
	return name, isDefault, nil
}

func (b *Block) handleCharset(tk *nexus.Tokenizer) error {
	if b.mtx == nil {
		return nexus.NewError("a CHARACTERS or DATA block must be read before a CHARSET command can be used", tk.Pos())
	}

	name, isDefault, err := b.readSetName(tk, "CHARSET")
	if err != nil {
		return err
	}

	set, _, err := nexus.NewSetReader(tk, b.mtx.NumCharTotal(), b.mtx.CharLabelToNumber).Run()
	if err != nil {
		return err
	}

	b.charsets[name] = set
	if isDefault {
		b.defCharset = name
	}
	return nil
}

func (b *Block) handleTaxset(tk *nexus.Tokenizer) error {
	if b.taxa.NumTaxa() == 0 {
		return nexus.NewError("a TAXA block must be read before a TAXSET command can be used", tk.Pos())
	}

	name, isDefault, err := b.readSetName(tk, "TAXSET")
	if err != nil {
		return err
	}

	set, _, err := nexus.NewSetReader(tk, b.taxa.NumTaxa(), b.taxonLabelToNumber).Run()
	if err != nil {
		return err
	}

	b.taxsets[name] = set
	if isDefault {
		b.defTaxset = name
	}
	return nil
}

// handleExset stores an exclusion set. A default exclusion set takes
// effect immediately: its characters are excluded from the matrix.
func (b *Block) handleExset(tk *nexus.Tokenizer) error {
	if b.mtx == nil {
		return nexus.NewError("a CHARACTERS or DATA block must be read before an EXSET command can be used", tk.Pos())
	}

	name, isDefault, err := b.readSetName(tk, "EXSET")
	if err != nil {
		return err
	}

	set, _, err := nexus.NewSetReader(tk, b.mtx.NumCharTotal(), b.mtx.CharLabelToNumber).Run()
	if err != nil {
		return err
	}

	b.exsets[name] = set
	if isDefault {
		b.defExset = name
		n := b.mtx.ApplyExset(set)
		b.log.Debug("applied default exclusion set", "name", name, "excluded", n)
	}
	return nil
}

func (b *Block) taxonLabelToNumber(label string) int {
	if i, ok := b.taxa.Find(label); ok {
		return i + 1
	}
	return 0
}

func (b *Block) next(tk *nexus.Tokenizer) (nexus.Token, error) {
	tok, err := tk.Next(nexus.Options{})
	if err != nil {
		return tok, err
	}
	if tok.AtEOF() {
		return tok, nexus.Errorf(tok.Pos, "unexpected end of file in %s block", b.ID())
	}
	return tok, nil
}

func (b *Block) skipCommand(tk *nexus.Tokenizer) error {
	for {
		tok, err := b.next(tk)
		if err != nil {
			return err
		}
		if tok.Equals(";") {
			return nil
		}
	}
}

// NumCharsets returns the number of stored character sets.
func (b *Block) NumCharsets() int { return len(b.charsets) }

// NumTaxsets returns the number of stored taxon sets.
func (b *Block) NumTaxsets() int { return len(b.taxsets) }

// NumExsets returns the number of stored exclusion sets.
func (b *Block) NumExsets() int { return len(b.exsets) }

// Charset returns the character set with the given name, or nil.
func (b *Block) Charset(name string) *treeset.Set { return b.charsets[name] }

// Taxset returns the taxon set with the given name, or nil.
func (b *Block) Taxset(name string) *treeset.Set { return b.taxsets[name] }

// Exset returns the exclusion set with the given name, or nil.
func (b *Block) Exset(name string) *treeset.Set { return b.exsets[name] }

// CharsetNames returns the stored character set names in sorted order.
func (b *Block) CharsetNames() []string { return sortedKeys(b.charsets) }

// TaxsetNames returns the stored taxon set names in sorted order.
func (b *Block) TaxsetNames() []string { return sortedKeys(b.taxsets) }

// ExsetNames returns the stored exclusion set names in sorted order.
func (b *Block) ExsetNames() []string { return sortedKeys(b.exsets) }

// DefaultCharset returns the name of the default character set, or "".
func (b *Block) DefaultCharset() string { return b.defCharset }

// DefaultTaxset returns the name of the default taxon set, or "".
func (b *Block) DefaultTaxset() string { return b.defTaxset }

// DefaultExset returns the name of the default exclusion set, or "".
func (b *Block) DefaultExset() string { return b.defExset }

func sortedKeys(m map[string]*treeset.Set) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Report writes a brief description of the block contents.
func (b *Block) Report(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s block contains the following:\n", b.ID())

	b.reportSets(w, "char sets", b.charsets, b.defCharset)
	b.reportSets(w, "taxon sets", b.taxsets, b.defTaxset)
	b.reportSets(w, "exclusion sets", b.exsets, b.defExset)
}

func (b *Block) reportSets(w io.Writer, what string, sets map[string]*treeset.Set, def string) {
	switch len(sets) {
	case 0:
		fmt.Fprintf(w, "  No %s were defined\n", what)
		return
	case 1:
		fmt.Fprintf(w, "  1 %s was defined:\n", what[:len(what)-1])
	default:
		fmt.Fprintf(w, "  %d %s were defined:\n", len(sets), what)
	}
	for _, name := range sortedKeys(sets) {
		fmt.Fprintf(w, "    %s (%d members)", name, sets[name].Size())
		if name == def {
			fmt.Fprint(w, " (default)")
		}
		fmt.Fprintln(w)
	}
}
