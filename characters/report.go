package characters

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Report writes a brief description of the block contents, including a
// dump of the data matrix.
func (b *Block) Report(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s block contains ", b.ID())
	switch b.ntax {
	case 0:
		fmt.Fprint(w, "no taxa")
	case 1:
		fmt.Fprint(w, "one taxon")
	default:
		fmt.Fprintf(w, "%d taxa", b.ntax)
	}
	fmt.Fprint(w, " and ")
	switch b.nchar {
	case 0:
		fmt.Fprintln(w, "no characters")
	case 1:
		fmt.Fprintln(w, "one character")
	default:
		fmt.Fprintf(w, "%d characters\n", b.nchar)
	}

	fmt.Fprintf(w, "  Data type is %q\n", b.datatype.String())

	if b.respectingCase {
		fmt.Fprintln(w, "  Respecting case")
	} else {
		fmt.Fprintln(w, "  Ignoring case")
	}

	if b.tokens {
		fmt.Fprintln(w, "  Multicharacter tokens allowed in data matrix")
	} else {
		fmt.Fprintln(w, "  Data matrix entries are expected to be single symbols")
	}

	switch {
	case b.labels && b.transposing:
		fmt.Fprintln(w, "  Character labels are expected on left side of matrix")
	case b.labels:
		fmt.Fprintln(w, "  Taxon labels are expected on left side of matrix")
	default:
		fmt.Fprintln(w, "  No labels are expected on left side of matrix")
	}

	if len(b.charLabels) > 0 {
		fmt.Fprintln(w, "  Character and character state labels:")
		for k := 0; k < b.nchar && k < len(b.charLabels); k++ {
			if b.charLabels[k] == "" {
				fmt.Fprintf(w, "\t%d\t(no label provided for this character)\n", 1+b.OrigCharIndex(k))
			} else {
				fmt.Fprintf(w, "\t%d\t%s\n", 1+b.OrigCharIndex(k), b.charLabels[k])
			}
			for _, s := range b.charStates[k] {
				fmt.Fprintf(w, "\t\t%s\n", s)
			}
		}
	}

	switch {
	case b.transposing && b.interleaving:
		fmt.Fprintln(w, "  Matrix transposed and interleaved")
	case b.transposing:
		fmt.Fprintln(w, "  Matrix transposed but not interleaved")
	case b.interleaving:
		fmt.Fprintln(w, "  Matrix interleaved but not transposed")
	default:
		fmt.Fprintln(w, "  Matrix neither transposed nor interleaved")
	}

	fmt.Fprintf(w, "  Missing data symbol is '%c'\n", b.missing)

	if b.matchchar != 0 {
		fmt.Fprintf(w, "  Match character is '%c'\n", b.matchchar)
	} else {
		fmt.Fprintln(w, "  No match character specified")
	}

	if b.gap != 0 {
		fmt.Fprintf(w, "  Gap character specified is '%c'\n", b.gap)
	} else {
		fmt.Fprintln(w, "  No gap character specified")
	}

	fmt.Fprintf(w, "  Valid symbols are: %s\n", b.symbols)

	if len(b.equates) > 0 {
		fmt.Fprintln(w, "  Equate macros in effect:")
		keys := make([]string, 0, len(b.equates))
		for k := range b.equates {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "    %s = %s\n", k, b.equates[k])
		}
	} else {
		fmt.Fprintln(w, "  No equate macros have been defined")
	}

	if b.ncharTotal == b.nchar {
		fmt.Fprintln(w, "  No characters were eliminated")
	} else {
		fmt.Fprintln(w, "  The following characters were eliminated:")
		for _, v := range b.eliminated.Values() {
			fmt.Fprintf(w, "    %d\n", v.(int)+1)
		}
	}

	fmt.Fprintln(w, "  The following characters have been excluded:")
	nx := 0
	for j := 0; j < b.nchar; j++ {
		if b.activeChar[j] {
			continue
		}
		fmt.Fprintf(w, "    %d\n", j+1)
		nx++
	}
	if nx == 0 {
		fmt.Fprintln(w, "    (no characters excluded)")
	}

	fmt.Fprintln(w, "  The following taxa have been deleted:")
	nx = 0
	for i := 0; i < b.ntax; i++ {
		if b.activeTaxon[i] {
			continue
		}
		fmt.Fprintf(w, "    %d\n", i+1)
		nx++
	}
	if nx == 0 {
		fmt.Fprintln(w, "    (no taxa deleted)")
	}

	fmt.Fprintln(w, "  Data matrix:")
	b.DebugShowMatrix(w, "    ")
}

// DebugShowMatrix dumps the matrix contents in taxa block order, one
// taxon per line prefixed with margin.
func (b *Block) DebugShowMatrix(w io.Writer, margin string) {
	if b.mtx == nil {
		return
	}
	width := 0
	for orig := 0; orig < b.ntaxTotal; orig++ {
		if !b.taxonPos.IsMapped(orig) {
			continue
		}
		if n := len(b.taxonLabel(orig)); n > width {
			width = n
		}
	}

	for orig := 0; orig < b.ntaxTotal; orig++ {
		if !b.taxonPos.IsMapped(orig) {
			continue
		}
		i := b.taxonPos.Get(orig)
		label := b.taxonLabel(orig)
		fmt.Fprint(w, margin, label, strings.Repeat(" ", width-len(label)+5))

		for currChar := 0; currChar < b.ncharTotal; currChar++ {
			j := b.charPos.Get(currChar)
			if j < 0 {
				continue
			}
			b.writeCell(w, i, j)
		}
		fmt.Fprintln(w)
	}
}

// taxonLabel returns the registered label of the taxon with the given
// original index. A matrix read without labels and without TAXLABELS
// leaves the registry empty, so a label is synthesized from the number.
func (b *Block) taxonLabel(orig int) string {
	if orig < b.taxa.NumTaxa() {
		return b.taxa.Label(orig)
	}
	return "taxon " + strconv.Itoa(orig+1)
}

// writeCell writes the state(s) at row i, column j: the defined state
// labels under TOKENS, the alphabet symbols otherwise. Multi-state
// cells are wrapped in parentheses (polymorphism) or curly brackets
// (uncertainty).
func (b *Block) writeCell(w io.Writer, i, j int) {
	n := b.mtx.NumStates(i, j)

	if b.tokens {
		switch {
		case b.mtx.IsGap(i, j):
			fmt.Fprintf(w, "  %c", b.gap)
		case b.mtx.IsMissing(i, j):
			fmt.Fprintf(w, "  %c", b.missing)
		case n == 1:
			fmt.Fprintf(w, "  %s", b.stateLabelOrValue(i, j, 0))
		default:
			opening, closing := "{", "}"
			if b.mtx.IsPolymorphic(i, j) {
				opening, closing = "(", ")"
			}
			fmt.Fprint(w, "  ", opening)
			for k := 0; k < n; k++ {
				fmt.Fprint(w, " ", b.stateLabelOrValue(i, j, k))
			}
			fmt.Fprint(w, " ", closing)
		}
		return
	}

	switch {
	case b.mtx.IsMissing(i, j):
		fmt.Fprintf(w, "%c", b.missing)
	case b.mtx.IsGap(i, j):
		fmt.Fprintf(w, "%c", b.gap)
	case n == 1:
		fmt.Fprintf(w, "%c", b.symbols[b.mtx.State(i, j, 0)])
	default:
		opening, closing := byte('{'), byte('}')
		if b.mtx.IsPolymorphic(i, j) {
			opening, closing = '(', ')'
		}
		fmt.Fprintf(w, "%c", opening)
		for k := 0; k < n; k++ {
			fmt.Fprintf(w, "%c", b.symbols[b.mtx.State(i, j, k)])
		}
		fmt.Fprintf(w, "%c", closing)
	}
}

func (b *Block) stateLabelOrValue(i, j, k int) string {
	s := b.mtx.State(i, j, k)
	states, ok := b.charStates[j]
	if !ok || s >= len(states) {
		return fmt.Sprintf("%d[<-no label found]", s)
	}
	return states[s]
}
