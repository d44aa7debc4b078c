package nexus

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBlock records the command names it encounters until END and fails
// on a FAIL command, for exercising the Document dispatcher.
type fakeBlock struct {
	BlockBase
	commands []string
	reads    int
	resets   int
}

func newFakeBlock(id string) *fakeBlock {
	return &fakeBlock{BlockBase: NewBlockBase(id)}
}

func (b *fakeBlock) Reset() {
	b.resets++
	b.commands = nil
	b.SetEmpty(true)
}

func (b *fakeBlock) Read(tk *Tokenizer) error {
	b.reads++

	// first token must be the semicolon ending the BEGIN command
	tok, err := tk.Next(Options{})
	if err != nil {
		return err
	}
	if !tok.Equals(";") {
		return Errorf(tok.Pos, "expecting ';' after block name, but found %s instead", tok.Text)
	}

	for {
		tok, err = tk.Next(Options{})
		if err != nil {
			return err
		}
		if tok.AtEOF() {
			return NewError("unexpected end of file in block", tok.Pos)
		}
		if tok.Equals("END") || tok.Equals("ENDBLOCK") {
			tok, err = tk.Next(Options{})
			if err != nil {
				return err
			}
			if !tok.Equals(";") {
				return Errorf(tok.Pos, "expecting ';' after END, but found %s instead", tok.Text)
			}
			b.SetEmpty(false)
			return nil
		}
		if tok.Equals("FAIL") {
			return NewError("induced failure", tok.Pos)
		}
		b.commands = append(b.commands, strings.ToUpper(tok.Text))
	}
}

func (b *fakeBlock) Report(w io.Writer) {
	_, _ = io.WriteString(w, b.ID()+" block\n")
}

func execute(t *testing.T, doc *Document, input string) error {
	t.Helper()
	return doc.Execute(NewTokenizer(strings.NewReader(input)))
}

func TestDocument_Execute(t *testing.T) {
	require := require.New(t)

	blk := newFakeBlock("WIDGETS")
	doc := NewDocument()
	doc.Add(blk)

	err := execute(t, doc, "#NEXUS\nbegin widgets; alpha beta end;")
	require.NoError(err)
	require.False(blk.IsEmpty())
	require.Equal([]string{"ALPHA", "BETA"}, blk.commands)
	require.Equal(1, blk.reads)
	require.Equal(1, blk.resets)
}

func TestDocument_MissingHeader(t *testing.T) {
	require := require.New(t)

	doc := NewDocument()
	var hookMsg string
	doc.SetHooks(Hooks{Error: func(msg string, pos Position) { hookMsg = msg }})

	err := execute(t, doc, "begin widgets; end;")
	require.Error(err)
	require.Contains(err.Error(), "expecting #NEXUS")
	require.Contains(hookMsg, "expecting #NEXUS")
}

func TestDocument_SkipsUnknownBlock(t *testing.T) {
	require := require.New(t)

	blk := newFakeBlock("WIDGETS")
	doc := NewDocument()
	doc.Add(blk)

	var skipped []string
	doc.SetHooks(Hooks{SkippingBlock: func(name string) { skipped = append(skipped, name) }})

	err := execute(t, doc, "#NEXUS begin trees; tree one; end; begin widgets; x end;")
	require.NoError(err)
	require.Equal([]string{"trees"}, skipped)
	require.Equal([]string{"X"}, blk.commands)
}

func TestDocument_SkipsDisabledBlock(t *testing.T) {
	require := require.New(t)

	blk := newFakeBlock("WIDGETS")
	blk.Disable()
	doc := NewDocument()
	doc.Add(blk)

	var skippedDisabled []string
	doc.SetHooks(Hooks{
		SkippingDisabledBlock: func(name string) { skippedDisabled = append(skippedDisabled, name) },
	})

	err := execute(t, doc, "#NEXUS begin widgets; x end;")
	require.NoError(err)
	require.Equal([]string{"widgets"}, skippedDisabled)
	require.Zero(blk.reads)

	blk.Enable()
	err = execute(t, doc, "#NEXUS begin widgets; x end;")
	require.NoError(err)
	require.Equal(1, blk.reads)
}

func TestDocument_BlockErrorStopsExecution(t *testing.T) {
	require := require.New(t)

	first := newFakeBlock("WIDGETS")
	second := newFakeBlock("GADGETS")
	doc := NewDocument()
	doc.Add(first)
	doc.Add(second)

	var hookMsg string
	doc.SetHooks(Hooks{Error: func(msg string, pos Position) { hookMsg = msg }})

	err := execute(t, doc, "#NEXUS begin widgets; fail end; begin gadgets; x end;")
	require.Error(err)
	require.Contains(err.Error(), "induced failure")
	require.Equal("induced failure", hookMsg)

	// the failed block is reset to empty and later blocks are not read
	require.True(first.IsEmpty())
	require.Equal(2, first.resets)
	require.Zero(second.reads)
}

func TestDocument_CommandComments(t *testing.T) {
	require := require.New(t)

	blk := newFakeBlock("WIDGETS")
	doc := NewDocument()
	doc.Add(blk)

	var reported []string
	doc.SetHooks(Hooks{DebugReport: func(b Block) { reported = append(reported, b.ID()) }})

	// [&SHOWALL] dumps every block, [&LEAVE] stops execution early
	err := execute(t, doc, "#NEXUS begin widgets; a end; [&showall] [&leave] begin widgets; fail end;")
	require.NoError(err)
	require.Equal([]string{"WIDGETS"}, reported)
	require.Equal([]string{"A"}, blk.commands)
}

func TestDocument_EndBlockVariants(t *testing.T) {
	require := require.New(t)

	doc := NewDocument()
	err := execute(t, doc, "#NEXUS begin trees; endblock;")
	require.NoError(err)

	err = execute(t, doc, "#NEXUS begin trees; end")
	require.Error(err)
	require.Contains(err.Error(), "expecting ';' after END")

	err = execute(t, doc, "#NEXUS begin trees; tree one")
	require.Error(err)
	require.Contains(err.Error(), "end of file before END")
}

func TestDocument_Remove(t *testing.T) {
	require := require.New(t)

	blk := newFakeBlock("WIDGETS")
	doc := NewDocument()
	doc.Add(blk)
	require.Len(doc.Blocks(), 1)

	doc.Remove(blk)
	require.Empty(doc.Blocks())

	var skipped []string
	doc.SetHooks(Hooks{SkippingBlock: func(name string) { skipped = append(skipped, name) }})
	err := execute(t, doc, "#NEXUS begin widgets; x end;")
	require.NoError(err)
	require.Equal([]string{"widgets"}, skipped)
	require.Zero(blk.reads)
}

func TestDocument_OutputComments(t *testing.T) {
	require := require.New(t)

	doc := NewDocument()
	var comments []string
	doc.SetHooks(Hooks{OutputComment: func(c string) { comments = append(comments, c) }})

	err := execute(t, doc, "#NEXUS [!reading the file] begin trees; end;")
	require.NoError(err)
	require.Equal([]string{"reading the file"}, comments)
}
