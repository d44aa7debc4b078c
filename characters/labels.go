package characters

import (
	"strconv"
	"strings"

	"github.com/phylogo/go-nexus/matrix"
	"github.com/phylogo/go-nexus/nexus"
)

// CharLabel returns the label of current column j, or " " if no label
// was provided.
func (b *Block) CharLabel(j int) string {
	if j < len(b.charLabels) {
		return b.charLabels[j]
	}
	return " "
}

// StateLabel returns the label of state k at current column j, or " "
// if no label was provided.
func (b *Block) StateLabel(j, k int) string {
	if states, ok := b.charStates[j]; ok && k < len(states) {
		return states[k]
	}
	return " "
}

// HasCharLabels reports whether any character labels are stored.
func (b *Block) HasCharLabels() bool { return len(b.charLabels) > 0 }

// handleCharlabels reads one label per character, in order. Labels for
// eliminated characters are read but not stored.
func (b *Block) handleCharlabels(tk *nexus.Tokenizer) error {
	b.charLabels = nil
	if b.charPos == nil {
		b.buildCharPos(false)
	}

	read := 0
	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if tok.Equals(";") {
			break
		}
		read++
		if read > b.ncharTotal {
			return nexus.NewError("number of character labels exceeds NCHAR specified in DIMENSIONS command", tok.Pos)
		}
		if !b.IsEliminated(read - 1) {
			b.charLabels = append(b.charLabels, tok.Text)
		}
	}

	b.newchar = false
	return nil
}

// handleCharstatelabels reads entries of the form
//
//	<number> <label> [/ <state label> ...]
//
// separated by commas. Character numbers must be ascending; gaps are
// padded with blank labels. Entries for eliminated characters are read
// but not stored.
func (b *Block) handleCharstatelabels(tk *nexus.Tokenizer) error {
	b.charLabels = nil
	b.charStates = make(map[int][]string)
	if b.charPos == nil {
		b.buildCharPos(false)
	}

	currChar := 0
	var tok nexus.Token
	var err error
	tokenAlreadyRead := false

outer:
	for {
		if tokenAlreadyRead {
			tokenAlreadyRead = false
		} else {
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
		}
		if tok.Equals(";") {
			break
		}

		n, convErr := strconv.Atoi(tok.Text)
		if convErr != nil || n < 1 || n > b.ncharTotal || n <= currChar {
			return nexus.Errorf(tok.Pos, "invalid character number (%s) found in CHARSTATELABELS command (either out of range or not interpretable as an integer)", tok.Text)
		}

		// pad labels for characters that were skipped over
		for n-currChar > 1 {
			currChar++
			if !b.IsEliminated(currChar - 1) {
				b.charLabels = append(b.charLabels, " ")
			}
		}
		currChar++
		save := !b.IsEliminated(currChar - 1)

		tok, err = b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if save {
			b.charLabels = append(b.charLabels, tok.Text)
		}

		tok, err = b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if !tok.Equals("/") {
			if !tok.Equals(",") && !tok.Equals(";") {
				return nexus.Errorf(tok.Pos, "expecting a comma or semicolon here, but found (%s) instead", tok.Text)
			}
			if tok.Equals(",") {
				tok, err = b.next(tk, nexus.Options{})
				if err != nil {
					return err
				}
			}
			tokenAlreadyRead = true
			continue
		}

		for {
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			if tok.Equals(";") {
				break outer
			}
			if tok.Equals(",") {
				break
			}
			if save {
				k := b.charPos.Get(n - 1)
				b.charStates[k] = append(b.charStates[k], tok.Text)
			}
		}
	}

	b.newchar = false
	return nil
}

// handleStatelabels reads entries of the form
//
//	<number> <state label> ...
//
// separated by commas. Entries for eliminated characters are read but
// not stored.
func (b *Block) handleStatelabels(tk *nexus.Tokenizer) error {
	b.charStates = make(map[int][]string)
	if b.charPos == nil {
		b.buildCharPos(false)
	}

	for {
		tok, err := b.next(tk, nexus.Options{})
		if err != nil {
			return err
		}
		if tok.Equals(";") {
			return nil
		}

		n, convErr := strconv.Atoi(tok.Text)
		if convErr != nil || n < 1 || n > b.ncharTotal {
			return nexus.Errorf(tok.Pos, "invalid character number (%s) found in STATELABELS command (either out of range or not interpretable as an integer)", tok.Text)
		}

		for {
			tok, err = b.next(tk, nexus.Options{})
			if err != nil {
				return err
			}
			if tok.Equals(";") {
				return nil
			}
			if tok.Equals(",") {
				break
			}
			if !b.IsEliminated(n - 1) {
				k := b.charPos.Get(n - 1)
				b.charStates[k] = append(b.charStates[k], tok.Text)
			}
		}
	}
}

// charLabelIndex returns the position of label in the stored character
// labels, or matrix.Unmapped. The transposed matrix reader matches
// labels exactly as written.
func (b *Block) charLabelIndex(label string) int {
	for i, l := range b.charLabels {
		if l == label {
			return i
		}
	}
	return matrix.Unmapped
}

// stateIndex resolves a TOKENS-mode state name against the state labels
// of current column j.
func (b *Block) stateIndex(tok nexus.Token, j int) (int, error) {
	states, ok := b.charStates[j]
	if !ok {
		return 0, nexus.Errorf(tok.Pos, "no states were defined for character %d", 1+b.OrigCharIndex(j))
	}
	for k, s := range states {
		if b.respectingCase {
			if s == tok.Text {
				return k, nil
			}
		} else if strings.EqualFold(s, tok.Text) {
			return k, nil
		}
	}
	return 0, nexus.Errorf(tok.Pos, "character state %s not defined for character %d", tok.Text, 1+b.OrigCharIndex(j))
}
