package characters

import (
	"strings"

	"github.com/phylogo/go-nexus/matrix"
	"github.com/phylogo/go-nexus/nexus"
)

// handleMatrix allocates the data matrix and dispatches to the standard
// or transposed reader. Once the matrix is stored the block announces
// itself as the current character-containing block.
func (b *Block) handleMatrix(tk *nexus.Tokenizer) error {
	pos := tk.Pos()

	if b.ntax == 0 {
		return nexus.Errorf(pos, "must precede %s block with a TAXA block or specify NEWTAXA and NTAX in the DIMENSIONS command", b.ID())
	}
	if b.ncharTotal == 0 {
		return nexus.NewError("NCHAR must be specified in the DIMENSIONS command before the MATRIX command", pos)
	}
	if b.nchar == 0 {
		return nexus.NewError("all characters have been eliminated, leaving nothing for the MATRIX command to read", pos)
	}
	if b.datatype == Continuous {
		return nexus.NewError("continuous character matrices are not supported", pos)
	}

	if b.ntaxTotal == 0 {
		b.ntaxTotal = b.taxa.NumTaxa()
	}
	// the transposed reader fills a column for every known taxon, so a
	// matrix narrower than the taxa registry cannot be read
	if b.transposing && b.ntax != b.ntaxTotal {
		return nexus.Errorf(pos, "NTAX must equal the number of taxa in the TAXA block (%d) when the matrix is transposed", b.ntaxTotal)
	}

	b.mtx = matrix.New(b.ntax, b.nchar)

	b.activeTaxon = make([]bool, b.ntax)
	for i := range b.activeTaxon {
		b.activeTaxon[i] = true
	}
	b.activeChar = make([]bool, b.nchar)
	for j := range b.activeChar {
		b.activeChar[j] = true
	}

	if b.charPos == nil {
		b.buildCharPos(false)
	}
	b.taxonPos = matrix.NewIndexMap(b.ntaxTotal)

	var err error
	if b.transposing {
		err = b.readTransposedMatrix(tk)
	} else {
		err = b.readStdMatrix(tk)
	}
	if err != nil {
		return err
	}

	if b.onMatrix != nil {
		b.onMatrix(b)
	}

	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' at the end of the MATRIX command; found %s instead", tok.Text)
	}
	return nil
}

// readStdMatrix reads a row-major matrix, one row per taxon, over one
// or more interleave pages. A page break is a newline encountered where
// a state was expected; every row of a page must cover the same column
// range.
func (b *Block) readStdMatrix(tk *nexus.Tokenizer) error {
	firstChar := 0
	lastChar := b.ncharTotal
	nextFirst := 0
	page := 0
	var currChar int

	for {
		for i := 0; i < b.ntax; i++ {
			if b.labels {
				tok, err := b.next(tk, nexus.Options{})
				if err != nil {
					return err
				}

				if page == 0 && b.newtaxa {
					if b.taxa.IsDefined(tok.Text) {
						return nexus.Errorf(tok.Pos, "data for this taxon (%s) has already been saved", tok.Text)
					}
					b.taxa.Add(tok.Text)
					b.taxonPos.Set(i, i)
				} else {
					position, ok := b.taxa.Find(tok.Text)
					if !ok {
						return nexus.Errorf(tok.Pos, "could not find taxon named %s among stored taxon labels", tok.Text)
					}
					if page == 0 {
						if b.taxonPos.IsMapped(position) {
							return nexus.Errorf(tok.Pos, "data for this taxon (%s) has already been saved", tok.Text)
						}
						if position != i {
							return nexus.NewError("relative order of taxa must be the same in both the TAXA and CHARACTERS blocks", tok.Pos)
						}
						b.taxonPos.Set(position, i)
					} else if b.taxonPos.Get(position) != i {
						return nexus.NewError("ordering of taxa must be identical to that in first interleave page", tok.Pos)
					}
				}
			} else if page == 0 {
				// without labels the row order is the taxa block order
				b.taxonPos.Set(i, i)
			}

			for currChar = firstChar; currChar < lastChar; currChar++ {
				// j is Unmapped for eliminated characters, whose states
				// are read but not stored
				j := b.charPos.Get(currChar)
				ok, err := b.readNextState(tk, i, j)
				if err != nil {
					return err
				}
				if b.interleaving && !ok {
					if lastChar < b.ncharTotal && currChar != lastChar {
						return nexus.NewError("each line within an interleave page must comprise the same number of characters", tk.Pos())
					}
					nextFirst = currChar
					lastChar = currChar
				}
			}
		}

		firstChar = nextFirst
		lastChar = b.ncharTotal
		if currChar == b.ncharTotal {
			return nil
		}
		page++
	}
}

// readTransposedMatrix reads a column-major matrix, one row per
// character, over one or more interleave pages. Without labels every
// taxon must have a column, so the taxa block order is assumed.
func (b *Block) readTransposedMatrix(tk *nexus.Tokenizer) error {
	firstTaxon := 0
	lastTaxon := b.ntaxTotal
	nextFirst := 0
	page := 0
	var i int

	for {
		for currChar := 0; currChar < b.ncharTotal; currChar++ {
			j := b.charPos.Get(currChar)

			if b.labels {
				tok, err := b.next(tk, nexus.Options{})
				if err != nil {
					return err
				}

				if page == 0 && b.newchar {
					if b.charLabelIndex(tok.Text) != matrix.Unmapped {
						return nexus.Errorf(tok.Pos, "data for this character (%s) has already been saved", tok.Text)
					}
					// labels are stored even for eliminated characters so
					// that later pages can be checked for ordering
					b.charLabels = append(b.charLabels, tok.Text)
				} else {
					position := b.charLabelIndex(tok.Text)
					if position == matrix.Unmapped {
						return nexus.Errorf(tok.Pos, "could not find character named %s among stored character labels", tok.Text)
					}
					if position != currChar {
						if page == 0 {
							return nexus.Errorf(tok.Pos, "data for this character (%s) has already been saved", tok.Text)
						}
						return nexus.NewError("ordering of characters must be identical to that in first interleave page", tok.Pos)
					}
				}
			}

			for i = firstTaxon; i < lastTaxon; i++ {
				if page == 0 {
					b.taxonPos.Set(i, i)
				}
				ok, err := b.readNextState(tk, i, j)
				if err != nil {
					return err
				}
				if b.interleaving && !ok {
					if lastTaxon < b.ntaxTotal && i != lastTaxon {
						return nexus.NewError("each line within an interleave page must comprise the same number of taxa", tk.Pos())
					}
					nextFirst = i
					lastTaxon = i
				}
			}
		}

		firstTaxon = nextFirst
		lastTaxon = b.ntaxTotal
		if i == b.ntaxTotal {
			return nil
		}
		page++
	}
}

// readNextState reads the state for row i, current column j, and stores
// it in the matrix. It returns false when interleaving is on and a
// newline arrived where the state was expected, marking a page break.
// A negative j means the character was eliminated: its state is read
// and discarded.
func (b *Block) readNextState(tk *nexus.Tokenizer, i, j int) (bool, error) {
	var opts nexus.Options
	if !b.tokens {
		opts.ParentheticalToken = true
		opts.CurlyBracketedToken = true
		opts.SingleCharacterToken = true
	}
	if b.interleaving {
		opts.NewlineIsToken = true
	}

	tok, err := tk.Next(opts)
	if err != nil {
		return false, err
	}
	if b.interleaving && tok.AtEOL() {
		return false, nil
	}
	if tok.AtEOF() {
		return false, nexus.NewError("unexpected end of file in MATRIX command", tok.Pos)
	}

	if j < 0 {
		return true, nil
	}

	// apply any equate macro before interpreting the token
	text := tok.Text
	key := text
	if !b.respectingCase {
		key = strings.ToUpper(key)
	}
	if v, ok := b.equates[key]; ok {
		text = v
	}

	switch {
	case !b.tokens && len(text) == 1:
		return true, b.storeSymbolState(tok.Pos, i, j, text[0])
	case !b.tokens:
		return true, b.storeSymbolSet(tok.Pos, i, j, text)
	default:
		return true, b.storeTokenState(tk, tok, i, j)
	}
}

// storeSymbolState stores a single-symbol cell: missing, matchchar,
// gap, or a state from the alphabet.
func (b *Block) storeSymbolState(pos nexus.Position, i, j int, ch byte) error {
	switch {
	case ch == b.missing:
		b.mtx.SetMissing(i, j)
	case b.matchchar != 0 && ch == b.matchchar:
		b.mtx.CopyStatesFromFirstRow(i, j)
	case b.gap != 0 && ch == b.gap:
		b.mtx.SetGap(i, j)
	default:
		p := b.positionInSymbols(ch)
		if p < 0 {
			return nexus.Errorf(pos, "state specified (%c) for taxon %d, character %d, not found in list of valid symbols", ch, i+1, j+1)
		}
		b.mtx.AddState(i, j, p)
		b.mtx.SetPolymorphic(i, j, false)
	}
	return nil
}

// storeSymbolSet stores a multi-state cell written as (...) or {...}:
// parentheses mean polymorphism, curly brackets uncertainty. A '~'
// between two symbols selects the inclusive run of alphabet states
// between them.
func (b *Block) storeSymbolSet(pos nexus.Position, i, j int, text string) error {
	poly := text[0] == '('
	if !poly && text[0] != '{' {
		return nexus.Errorf(pos, "state set (%s) for taxon %d, character %d must be enclosed in () or {}", text, i+1, j+1)
	}

	first := -1
	tildeFound := false
	for k := 1; k < len(text); k++ {
		ch := text[k]
		switch {
		case ch == ')' || ch == '}':
			if tildeFound {
				return nexus.Errorf(pos, "%s does not represent a valid range of states", text)
			}
			b.mtx.SetPolymorphic(i, j, poly)
			return nil

		case ch == ' ' || ch == '\t':

		case ch == '~':
			if first == -1 {
				return nexus.Errorf(pos, "%s does not represent a valid range of states", text)
			}
			tildeFound = true

		default:
			p := b.positionInSymbols(ch)
			if p < 0 {
				return nexus.Errorf(pos, "state specified (%c) for taxon %d, character %d, not found in list of valid symbols", ch, i+1, j+1)
			}
			if tildeFound {
				if p <= first {
					return nexus.Errorf(pos, "last state in specified range (%c) must be greater than the first", ch)
				}
				for s := first + 1; s <= p; s++ {
					b.mtx.AddState(i, j, s)
				}
				tildeFound = false
			} else {
				b.mtx.AddState(i, j, p)
			}
			first = p
		}
	}

	return nexus.Errorf(pos, "%s does not represent a valid state set", text)
}

// storeTokenState stores a TOKENS-mode cell: a state name, or a
// parenthesized/curly list of state names with '~' ranges.
func (b *Block) storeTokenState(tk *nexus.Tokenizer, tok nexus.Token, i, j int) error {
	polymorphism := tok.Equals("(")
	uncertainty := tok.Equals("{")

	if !polymorphism && !uncertainty {
		k, err := b.stateIndex(tok, j)
		if err != nil {
			return err
		}
		b.mtx.AddState(i, j, k)
		return nil
	}

	first := -1
	tildeFound := false
	for {
		tok, err := b.next(tk, nexus.Options{TildeIsPunctuation: true})
		if err != nil {
			return err
		}

		switch {
		case polymorphism && tok.Equals(")"):
			if tildeFound {
				return nexus.NewError("range of states still being specified when ')' encountered", tok.Pos)
			}
			b.mtx.SetPolymorphic(i, j, true)
			return nil

		case uncertainty && tok.Equals("}"):
			if tildeFound {
				return nexus.NewError("range of states still being specified when '}' encountered", tok.Pos)
			}
			return nil

		case tok.Equals("~"):
			if first == -1 {
				return nexus.NewError("tilde character ('~') cannot precede token indicating beginning of range", tok.Pos)
			}
			tildeFound = true

		case tildeFound:
			last, err := b.stateIndex(tok, j)
			if err != nil {
				return err
			}
			if last <= first {
				return nexus.Errorf(tok.Pos, "last state in specified range (%s) must be greater than the first", tok.Text)
			}
			for k := first + 1; k <= last; k++ {
				b.mtx.AddState(i, j, k)
			}
			tildeFound = false
			first = -1

		default:
			first, err = b.stateIndex(tok, j)
			if err != nil {
				return err
			}
			b.mtx.AddState(i, j, first)
		}
	}
}
