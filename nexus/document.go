package nexus

import (
	"strings"

	"github.com/phylogo/go-nexus/logger"
)

// Hooks let the host observe progress while a Document executes. Any
// field may be nil.
type Hooks struct {
	// ExecuteStarting is called after #NEXUS has been read, before any
	// block is processed.
	ExecuteStarting func()
	// ExecuteStopping is called when execution finishes normally.
	ExecuteStopping func()
	// EnteringBlock is called when a known, enabled block is about to be
	// read.
	EnteringBlock func(name string)
	// ExitingBlock is called when a block has been read successfully.
	ExitingBlock func(name string)
	// SkippingBlock is called when an unknown block is skipped.
	SkippingBlock func(name string)
	// SkippingDisabledBlock is called when a known but disabled block is
	// skipped.
	SkippingDisabledBlock func(name string)
	// OutputComment receives the text of [!...] output comments.
	OutputComment func(comment string)
	// Error is called with every data error encountered during Execute.
	Error func(msg string, pos Position)
	// DebugReport is called for every registered block when a [&SHOWALL]
	// command comment appears between blocks.
	DebugReport func(b Block)
}

// Document orchestrates the reading of a NEXUS file. Register a block
// reader for every block type of interest with Add, then call Execute.
// Unknown block types are skipped.
type Document struct {
	blocks []Block
	hooks  Hooks
	log    logger.Logger
}

// NewDocument creates a Document with no registered blocks.
func NewDocument() *Document {
	return &Document{log: logger.GetLogger()}
}

// SetHooks installs the host progress hooks.
func (d *Document) SetHooks(hooks Hooks) {
	d.hooks = hooks
}

// SetLogger replaces the logger used for progress notices.
func (d *Document) SetLogger(l logger.Logger) {
	d.log = l
}

// Add appends b to the end of the block registry. Blocks are matched
// against block names in registration order.
func (d *Document) Add(b Block) {
	d.blocks = append(d.blocks, b)
}

// Remove detaches b from the block registry. Removing a block that is
// not registered is a no-op.
func (d *Document) Remove(b Block) {
	for i, registered := range d.blocks {
		if registered == b {
			d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
			return
		}
	}
}

// Blocks returns the registered blocks in registration order.
func (d *Document) Blocks() []Block {
	return d.blocks
}

// Execute reads the NEXUS input provided by tk. It reads through the
// name of each block and hands the remainder of known, enabled blocks to
// the matching registered reader; everything else is skipped. The first
// data error is forwarded to the Error hook, the failing block is reset
// to empty, and execution stops.
func (d *Document) Execute(tk *Tokenizer) error {
	if d.hooks.OutputComment != nil {
		tk.SetCommentHandler(d.hooks.OutputComment)
	}

	tok, err := tk.Next(Options{})
	if err != nil {
		return d.fail(err)
	}
	if !tok.Equals("#NEXUS") {
		return d.fail(Errorf(tok.Pos, "expecting #NEXUS to be the first token in the file, but found %s instead", tok.Text))
	}

	if d.hooks.ExecuteStarting != nil {
		d.hooks.ExecuteStarting()
	}

	for {
		tok, err = tk.Next(Options{SaveCommandComments: true})
		if err != nil {
			return d.fail(err)
		}
		if tok.AtEOF() {
			break
		}

		switch {
		case tok.Equals("BEGIN"):
			if err := d.executeBlock(tk); err != nil {
				return err
			}

		case tok.Equals("&SHOWALL"):
			if d.hooks.DebugReport != nil {
				for _, b := range d.blocks {
					d.hooks.DebugReport(b)
				}
			}

		case tok.Equals("&LEAVE"):
			goto stopped
		}
	}

stopped:
	if d.hooks.ExecuteStopping != nil {
		d.hooks.ExecuteStopping()
	}
	return nil
}

// executeBlock reads one block, whose BEGIN command has already been
// consumed.
func (d *Document) executeBlock(tk *Tokenizer) error {
	nameTok, err := tk.Next(Options{})
	if err != nil {
		return d.fail(err)
	}
	if nameTok.AtEOF() {
		return d.fail(NewError("unexpected end of file after BEGIN command", nameTok.Pos))
	}

	disabled := false
	for _, b := range d.blocks {
		if !nameTok.Equals(b.ID()) {
			continue
		}

		if !b.IsEnabled() {
			disabled = true
			d.log.Info("skipping disabled block", "block", nameTok.Text)
			if d.hooks.SkippingDisabledBlock != nil {
				d.hooks.SkippingDisabledBlock(nameTok.Text)
			}
			continue
		}

		d.log.Debug("entering block", "block", b.ID())
		if d.hooks.EnteringBlock != nil {
			d.hooks.EnteringBlock(b.ID())
		}
		b.Reset()
		if err := b.Read(tk); err != nil {
			b.Reset()
			return d.fail(err)
		}
		if d.hooks.ExitingBlock != nil {
			d.hooks.ExitingBlock(b.ID())
		}
		d.log.Debug("exiting block", "block", b.ID())
		return nil
	}

	// no registered reader handled the block, so skip its body
	name := strings.ReplaceAll(nameTok.Text, " ", "_")
	if !disabled {
		d.log.Info("skipping unknown block", "block", name)
		if d.hooks.SkippingBlock != nil {
			d.hooks.SkippingBlock(name)
		}
	}
	return d.skipBlock(tk, name)
}

// skipBlock consumes tokens through the END or ENDBLOCK command and its
// trailing semicolon.
func (d *Document) skipBlock(tk *Tokenizer, name string) error {
	for {
		tok, err := tk.Next(Options{})
		if err != nil {
			return d.fail(err)
		}
		if tok.AtEOF() {
			return d.fail(Errorf(tok.Pos, "encountered end of file before END or ENDBLOCK in block %s", name))
		}
		if tok.Equals("END") || tok.Equals("ENDBLOCK") {
			tok, err = tk.Next(Options{})
			if err != nil {
				return d.fail(err)
			}
			if !tok.Equals(";") {
				return d.fail(Errorf(tok.Pos, "expecting ';' after END or ENDBLOCK command, but found %s instead", tok.Text))
			}
			return nil
		}
	}
}

// fail forwards err to the Error hook and returns it.
func (d *Document) fail(err error) error {
	if d.hooks.Error != nil {
		if nexusErr, ok := err.(*Error); ok {
			d.hooks.Error(nexusErr.Msg, nexusErr.Pos)
		} else {
			d.hooks.Error(err.Error(), Position{})
		}
	}
	d.log.Error("nexus execution failed", "error", err)
	return err
}
