package characters

import (
	"github.com/phylogo/go-nexus/matrix"
	"github.com/phylogo/go-nexus/nexus"
)

// maxStates caps the symbol alphabet length; states are indexed by
// their position in the alphabet.
const maxStates = 76

// resetSymbols installs the default symbol alphabet and equate macros
// for the current datatype.
func (b *Block) resetSymbols() {
	switch b.datatype {
	case DNA, Nucleotide:
		b.symbols = []byte("ACGT")
	case RNA:
		b.symbols = []byte("ACGU")
	case Protein:
		b.symbols = []byte("ACDEFGHIKLMNPQRSTVWY*")
	default:
		b.symbols = []byte("01")
	}

	b.equates = make(map[string]string)
	switch b.datatype {
	case DNA, RNA, Nucleotide:
		b.equates["R"] = "{AG}"
		b.equates["Y"] = "{CT}"
		b.equates["M"] = "{AC}"
		b.equates["K"] = "{GT}"
		b.equates["S"] = "{CG}"
		b.equates["W"] = "{AT}"
		b.equates["H"] = "{ACT}"
		b.equates["B"] = "{CGT}"
		b.equates["V"] = "{ACG}"
		b.equates["D"] = "{AGT}"
		b.equates["N"] = "{ACGT}"
		b.equates["X"] = "{ACGT}"
	case Protein:
		b.equates["B"] = "{DN}"
		b.equates["Z"] = "{EQ}"
	}
}

// isInSymbols reports whether ch is in the symbol alphabet, honoring
// the RESPECTCASE setting.
func (b *Block) isInSymbols(ch byte) bool {
	return b.positionInSymbols(ch) >= 0
}

// positionInSymbols returns the alphabet position of ch, or -1. The
// search is case insensitive unless RESPECTCASE is in effect.
func (b *Block) positionInSymbols(ch byte) int {
	for i, s := range b.symbols {
		if b.respectingCase {
			if s == ch {
				return i
			}
		} else if upper(s) == upper(ch) {
			return i
		}
	}
	return -1
}

func upper(ch byte) byte {
	if ch >= 'a' && ch <= 'z' {
		return ch - 'a' + 'A'
	}
	return ch
}

func (b *Block) handleFormat(tk *nexus.Tokenizer) error {
	// DATATYPE must come first since it reseeds symbols and equates;
	// RESPECTCASE must precede the subcommands that interpret symbols
	standardDataTypeAssumed := false
	ignoreCaseAssumed := false

	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}

		switch {
		case tok.Equals("DATATYPE"):
			if err := b.demandEquals(tk, "DATATYPE"); err != nil {
				return err
			}
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			switch {
			case tok.Equals("STANDARD"):
				b.datatype = Standard
			case tok.Equals("DNA"):
				b.datatype = DNA
			case tok.Equals("RNA"):
				b.datatype = RNA
			case tok.Equals("NUCLEOTIDE"):
				b.datatype = Nucleotide
			case tok.Equals("PROTEIN"):
				b.datatype = Protein
			case tok.Equals("CONTINUOUS"):
				b.datatype = Continuous
			default:
				return nexus.Errorf(tok.Pos, "%s is not a valid DATATYPE within a %s block", tok.Text, b.ID())
			}
			if standardDataTypeAssumed && b.datatype != Standard {
				return nexus.NewError("DATATYPE must be specified first in FORMAT command", tok.Pos)
			}
			b.resetSymbols()
			if b.datatype == Continuous {
				b.tokens = true
			}

		case tok.Equals("RESPECTCASE"):
			if ignoreCaseAssumed {
				return nexus.NewError("RESPECTCASE must be specified before MISSING, GAP, SYMBOLS, and MATCHCHAR in FORMAT command", tok.Pos)
			}
			b.respectingCase = true
			standardDataTypeAssumed = true

		case tok.Equals("MISSING"):
			ch, err := b.readSymbolSetting(tk, "MISSING")
			if err != nil {
				return err
			}
			b.missing = ch
			ignoreCaseAssumed = true
			standardDataTypeAssumed = true

		case tok.Equals("GAP"):
			ch, err := b.readSymbolSetting(tk, "GAP")
			if err != nil {
				return err
			}
			b.gap = ch
			ignoreCaseAssumed = true
			standardDataTypeAssumed = true

		case tok.Equals("MATCHCHAR"):
			ch, err := b.readSymbolSetting(tk, "MATCHCHAR")
			if err != nil {
				return err
			}
			b.matchchar = ch
			ignoreCaseAssumed = true
			standardDataTypeAssumed = true

		case tok.Equals("SYMBOLS"):
			if err := b.handleSymbols(tk, tok.Pos); err != nil {
				return err
			}
			ignoreCaseAssumed = true
			standardDataTypeAssumed = true

		case tok.Equals("EQUATE"):
			if err := b.handleEquate(tk); err != nil {
				return err
			}
			standardDataTypeAssumed = true

		case tok.Equals("LABELS"):
			b.labels = true
			standardDataTypeAssumed = true

		case tok.Equals("NOLABELS"):
			b.labels = false
			standardDataTypeAssumed = true

		case tok.Equals("TRANSPOSE"):
			b.transposing = true
			standardDataTypeAssumed = true

		case tok.Equals("INTERLEAVE"):
			b.interleaving = true
			standardDataTypeAssumed = true

		case tok.Equals("TOKENS"):
			b.tokens = true
			standardDataTypeAssumed = true

		case tok.Equals("NOTOKENS"):
			b.tokens = false
			standardDataTypeAssumed = true

		case tok.Equals("ITEMS"):
			if err := b.demandEquals(tk, "ITEMS"); err != nil {
				return err
			}
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			if !tok.Equals("STATES") {
				return nexus.NewError("only ITEMS=STATES is supported", tok.Pos)
			}
			standardDataTypeAssumed = true

		case tok.Equals("STATESFORMAT"):
			if err := b.demandEquals(tk, "STATESFORMAT"); err != nil {
				return err
			}
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			if !tok.Equals("STATESPRESENT") {
				return nexus.NewError("only STATESFORMAT=STATESPRESENT is supported", tok.Pos)
			}
			standardDataTypeAssumed = true

		case tok.Equals(";"):
			if !b.tokens && b.datatype == Continuous {
				return nexus.NewError("TOKENS must be defined for DATATYPE=CONTINUOUS", tok.Pos)
			}
			if b.tokens && (b.datatype == DNA || b.datatype == RNA || b.datatype == Nucleotide) {
				return nexus.NewError("TOKENS not allowed for the DATATYPEs DNA, RNA, or NUCLEOTIDE", tok.Pos)
			}
			return nil
		}
	}
}

// readSymbolSetting reads "= <single character>" for the MISSING, GAP
// and MATCHCHAR subcommands.
func (b *Block) readSymbolSetting(tk *nexus.Tokenizer, keyword string) (byte, error) {
	if err := b.demandEquals(tk, keyword); err != nil {
		return 0, err
	}
	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return 0, err
	}
	if tok.Len() != 1 {
		return 0, nexus.Errorf(tok.Pos, "%s symbol should be a single character, but %s was specified", keyword, tok.Text)
	}
	if tok.IsPunct() && !tok.IsPlusMinus() {
		return 0, nexus.Errorf(tok.Pos, "%s symbol specified cannot be a punctuation token (%s was specified)", keyword, tok.Text)
	}
	return tok.Text[0], nil
}

// handleSymbols reads the SYMBOLS subcommand. For the standard datatype
// the list replaces the alphabet; for molecular and protein datatypes
// it extends the predefined one.
func (b *Block) handleSymbols(tk *nexus.Tokenizer, pos nexus.Position) error {
	if b.datatype == Continuous {
		return nexus.NewError("SYMBOLS subcommand not allowed for DATATYPE=CONTINUOUS", pos)
	}

	var numDefStates int
	switch b.datatype {
	case DNA, RNA, Nucleotide:
		numDefStates = 4
	case Protein:
		numDefStates = 21
	default:
		numDefStates = 0
	}

	if err := b.demandEquals(tk, "SYMBOLS"); err != nil {
		return err
	}
	tok, err := b.next(tk, nexus.Options{DoubleQuotedToken: true})
	if err != nil {
		return err
	}

	stripped := stripWhitespace(tok.Text)
	if len(stripped) > maxStates-numDefStates {
		return nexus.Errorf(tok.Pos, "SYMBOLS defines %d new states but only %d new states allowed for this DATATYPE", len(stripped), maxStates-numDefStates)
	}
	for i := 0; i < len(stripped); i++ {
		if b.isInSymbols(stripped[i]) {
			return nexus.Errorf(tok.Pos, "the character %c defined in SYMBOLS has already been predefined for this DATATYPE", stripped[i])
		}
	}

	b.symbols = append(b.symbols[:numDefStates], stripped...)
	return nil
}

// handleEquate reads EQUATE = "k=v k=v ...". Values may be single
// symbols or parenthesized/curly state sets.
func (b *Block) handleEquate(tk *nexus.Tokenizer) error {
	if err := b.demandEquals(tk, "EQUATE"); err != nil {
		return err
	}
	tok, err := b.next(tk, nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(`"`) {
		return nexus.Errorf(tok.Pos, "expecting '\"' after keyword EQUATE but found %s instead", tok.Text)
	}

	for {
		tok, err = b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if tok.Equals(`"`) {
			return nil
		}

		if tok.Len() != 1 {
			return nexus.Errorf(tok.Pos, "expecting single-character EQUATE symbol but found %s instead", tok.Text)
		}
		ch := tok.Text[0]
		bad := ch == '^' ||
			(tok.IsPunct() && !tok.IsPlusMinus()) ||
			ch == b.missing || ch == b.matchchar || ch == b.gap ||
			b.isInSymbols(ch)
		if bad {
			return nexus.Errorf(tok.Pos, "EQUATE symbol specified (%s) is not valid; must not be same as missing, matchchar, gap, state symbols, or any of the following: ()[]{}/\\,;:=*'\"`<>^", tok.Text)
		}
		key := tok.Text

		tok, err = b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if !tok.Equals("=") {
			return nexus.Errorf(tok.Pos, "expecting '=' in EQUATE definition but found %s instead", tok.Text)
		}

		tok, err = b.next(tk, nexus.Options{ParentheticalToken: true, CurlyBracketedToken: true})
		if err != nil {
			return err
		}
		b.equates[key] = tok.Text
	}
}

// handleEliminate reads the set of characters to drop from the matrix.
// At most one ELIMINATE command is allowed, and it must come before
// labels and the MATRIX command since it renumbers the columns.
func (b *Block) handleEliminate(tk *nexus.Tokenizer) error {
	pos := tk.Pos()
	set, _, err := nexus.NewSetReader(tk, b.ncharTotal, b.CharLabelToNumber).Run()
	if err != nil {
		return err
	}
	b.eliminated = set
	b.nchar = b.ncharTotal - set.Size()

	if b.nchar != b.ncharTotal && (len(b.charLabels) > 0 || len(b.charStates) > 0) {
		return nexus.NewError("the ELIMINATE command must appear before character (or character state) labels are specified", pos)
	}
	if b.charPos != nil {
		return nexus.NewError("only one ELIMINATE command is allowed, and it must appear before the MATRIX command", pos)
	}

	b.buildCharPos(true)
	return nil
}

// buildCharPos maps original column indices to matrix columns. With
// checkEliminated false the map is the identity.
func (b *Block) buildCharPos(checkEliminated bool) {
	if checkEliminated {
		b.charPos = matrix.FromRemovals(b.ncharTotal, b.eliminated)
	} else {
		b.charPos = matrix.Identity(b.ncharTotal)
	}
}

func stripWhitespace(s string) []byte {
	var out []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n':
		default:
			out = append(out, s[i])
		}
	}
	return out
}
