// Package taxa reads the NEXUS TAXA block and maintains the registry of
// taxon labels that other blocks resolve row labels against.
package taxa

import (
	"fmt"
	"io"
	"strconv"

	"github.com/phylogo/go-nexus/logger"
	"github.com/phylogo/go-nexus/nexus"
)

// Block handles reading and storage of the TAXA block: the declared
// taxon count from DIMENSIONS and the ordered labels from TAXLABELS.
type Block struct {
	nexus.BlockBase
	ntax   int
	labels []string
	log    logger.Logger
}

// NewBlock creates an empty TAXA block reader.
func NewBlock() *Block {
	return &Block{
		BlockBase: nexus.NewBlockBase("TAXA"),
		log:       logger.GetLogger(),
	}
}

// Reset flushes the labels and the declared count in preparation for
// reading a new TAXA block.
func (b *Block) Reset() {
	b.SetEmpty(true)
	b.labels = nil
	b.ntax = 0
}

// Read consumes the block contents following the block name, through the
// END or ENDBLOCK command.
func (b *Block) Read(tk *nexus.Tokenizer) error {
	b.SetEmpty(false)

	tok, err := tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' after TAXA block name, but found %s instead", tok.Text)
	}

	for {
		tok, err = tk.Next(nexus.Options{})
		if err != nil {
			return err
		}
		if tok.AtEOF() {
			return nexus.NewError("unexpected end of file in TAXA block", tok.Pos)
		}

		switch {
		case tok.Equals("DIMENSIONS"):
			if err := b.handleDimensions(tk); err != nil {
				return err
			}
		case tok.Equals("TAXLABELS"):
			if err := b.handleTaxLabels(tk); err != nil {
				return err
			}
		case tok.Equals("END") || tok.Equals("ENDBLOCK"):
			tok, err = tk.Next(nexus.Options{})
			if err != nil {
				return err
			}
			if !tok.Equals(";") {
				return nexus.Errorf(tok.Pos, "expecting ';' to terminate the END command, but found %s instead", tok.Text)
			}
			return nil
		default:
			b.log.Warn("skipping unknown command in TAXA block", "command", tok.Text)
			if err := skipCommand(tk); err != nil {
				return err
			}
		}
	}
}

func (b *Block) handleDimensions(tk *nexus.Tokenizer) error {
	tok, err := tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals("NTAX") {
		return nexus.Errorf(tok.Pos, "expecting NTAX keyword, but found %s instead", tok.Text)
	}

	tok, err = tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals("=") {
		return nexus.Errorf(tok.Pos, "expecting '=', but found %s instead", tok.Text)
	}

	tok, err = tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	n, convErr := strconv.Atoi(tok.Text)
	if convErr != nil || n <= 0 {
		return nexus.Errorf(tok.Pos, "NTAX should be greater than zero (%s was specified)", tok.Text)
	}
	b.ntax = n

	tok, err = tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' to terminate DIMENSIONS command, but found %s instead", tok.Text)
	}
	return nil
}

func (b *Block) handleTaxLabels(tk *nexus.Tokenizer) error {
	if b.ntax <= 0 {
		return nexus.NewError("NTAX must be specified before TAXLABELS command", tk.Pos())
	}

	for i := 0; i < b.ntax; i++ {
		tok, err := tk.Next(nexus.Options{})
		if err != nil {
			return err
		}
		if tok.AtEOF() {
			return nexus.NewError("unexpected end of file in TAXLABELS command", tok.Pos)
		}
		b.labels = append(b.labels, tok.Text)
	}

	tok, err := tk.Next(nexus.Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return nexus.Errorf(tok.Pos, "expecting ';' to terminate TAXLABELS command, but found %s instead", tok.Text)
	}
	return nil
}

// skipCommand consumes tokens through the semicolon ending an
// unrecognized command.
func skipCommand(tk *nexus.Tokenizer) error {
	for {
		tok, err := tk.Next(nexus.Options{})
		if err != nil {
			return err
		}
		if tok.AtEOF() {
			return nexus.NewError("unexpected end of file while skipping command", tok.Pos)
		}
		if tok.Equals(";") {
			return nil
		}
	}
}

// Report writes a brief description of the block contents.
func (b *Block) Report(w io.Writer) {
	fmt.Fprintln(w)
	switch b.ntax {
	case 0:
		fmt.Fprintf(w, "%s block contains no taxa\n", b.ID())
	case 1:
		fmt.Fprintf(w, "%s block contains one taxon\n", b.ID())
	default:
		fmt.Fprintf(w, "%s block contains %d taxa\n", b.ID(), b.ntax)
	}
	for i, label := range b.labels {
		fmt.Fprintf(w, "\t%d\t%s\n", i+1, label)
	}
}

// NumTaxa returns the number of taxon labels currently stored.
func (b *Block) NumTaxa() int {
	return len(b.labels)
}

// Label returns the label of taxon i (0-based). It panics if i is out of
// range.
func (b *Block) Label(i int) string {
	return b.labels[i]
}

// Labels returns the stored labels in order.
func (b *Block) Labels() []string {
	return b.labels
}

// Add appends a taxon label and bumps the declared count.
func (b *Block) Add(label string) {
	b.SetEmpty(false)
	b.labels = append(b.labels, label)
	b.ntax++
}

// ChangeLabel replaces the label of taxon i (0-based). It panics if i is
// out of range.
func (b *Block) ChangeLabel(i int, label string) {
	b.labels[i] = label
}

// Find returns the 0-based position of the taxon with the given label.
func (b *Block) Find(label string) (int, bool) {
	for i, l := range b.labels {
		if l == label {
			return i, true
		}
	}
	return 0, false
}

// IsDefined reports whether a taxon with the given label is stored.
func (b *Block) IsDefined(label string) bool {
	_, ok := b.Find(label)
	return ok
}

// MaxLabelLength returns the length of the longest stored label, for
// lining up matrix dumps.
func (b *Block) MaxLabelLength() int {
	maxLen := 0
	for _, l := range b.labels {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	return maxLen
}
