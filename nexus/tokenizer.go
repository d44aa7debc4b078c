package nexus

import (
	"bufio"
	"io"
	"strings"
)

// Options alter the behavior of a single call to Tokenizer.Next. Every
// option applies only to the token being pulled, mirroring the one-shot
// nature of the format's context-sensitive lexing rules.
type Options struct {
	// SaveCommandComments returns [&X] command comments as tokens
	// (without the square brackets) instead of skipping them.
	SaveCommandComments bool
	// ParentheticalToken makes a token starting with '(' span to the
	// matching ')', including nested parenthetical phrases.
	ParentheticalToken bool
	// CurlyBracketedToken makes a token starting with '{' span to the
	// matching '}', including nested curly-bracketed phrases.
	CurlyBracketedToken bool
	// DoubleQuotedToken makes a token starting with '"' span to the next
	// '"'; the quotes are not part of the token.
	DoubleQuotedToken bool
	// SingleCharacterToken returns the next non-whitespace character as
	// the complete token.
	SingleCharacterToken bool
	// NewlineIsToken treats newline as darkspace, returned as its own
	// token.
	NewlineIsToken bool
	// TildeIsPunctuation adds '~' to the punctuation set.
	TildeIsPunctuation bool
	// UseSpecialPunctuation adds Special to the punctuation set.
	UseSpecialPunctuation bool
	// Special is the ad hoc punctuation character enabled by
	// UseSpecialPunctuation.
	Special byte
	// HyphenNotPunctuation removes '-' from the punctuation set, needed
	// when reading values that may carry a minus sign.
	HyphenNotPunctuation bool
}

const punctuation = "()[]{}/\\,;:=*'\"`+-<>"

func isPunctuation(ch byte, opts Options) bool {
	switch {
	case opts.TildeIsPunctuation && ch == '~':
		return true
	case opts.UseSpecialPunctuation && ch == opts.Special:
		return true
	case opts.HyphenNotPunctuation && ch == '-':
		return false
	}
	return strings.IndexByte(punctuation, ch) >= 0
}

func isWhitespace(ch byte, opts Options) bool {
	if ch == '\n' {
		return !opts.NewlineIsToken
	}
	return ch == ' ' || ch == '\t'
}

// Tokenizer reads NEXUS tokens from an input stream. Comments are
// consumed as whitespace, underscores become blanks, carriage returns
// and CRLF pairs are normalized to a single newline, and punctuation
// characters are returned as individual tokens.
type Tokenizer struct {
	r         *bufio.Reader
	pos       Position // position of the next unread character
	saved     byte
	savedPos  Position
	hasSaved  bool
	onComment func(comment string)
}

// NewTokenizer creates a Tokenizer reading from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	return &Tokenizer{
		r:   bufio.NewReader(r),
		pos: Position{Offset: 0, Line: 1, Col: 1},
	}
}

// SetCommentHandler registers fn to receive the text of [!...] output
// comments as they are encountered. A nil handler discards them.
func (t *Tokenizer) SetCommentHandler(fn func(comment string)) {
	t.onComment = fn
}

// Pos returns the position of the next character to be read.
func (t *Tokenizer) Pos() Position {
	if t.hasSaved {
		return t.savedPos
	}
	return t.pos
}

// Next reads the next token, applying opts to this call only. At the end
// of the input it returns a token whose AtEOF method reports true. An
// error is returned for malformed input such as an unterminated quote or
// comment.
func (t *Tokenizer) Next(opts Options) (Token, error) {
	var sb strings.Builder
	var tok Token

	for {
		if opts.SingleCharacterToken && sb.Len() > 0 {
			break
		}

		var ch byte
		var chPos Position
		if t.hasSaved {
			ch, chPos = t.saved, t.savedPos
			t.hasSaved = false
		} else {
			var err error
			chPos = t.pos
			ch, err = t.readChar()
			if err == io.EOF {
				if sb.Len() == 0 {
					return Token{Pos: chPos, eof: true}, nil
				}
				break
			} else if err != nil {
				return Token{}, err
			}
		}

		switch {
		case ch == '\n' && opts.NewlineIsToken:
			if sb.Len() > 0 {
				// newline ends the token in progress; report it as a
				// separate token next time
				t.pushBack(ch, chPos)
				tok.stop = ch
			} else {
				tok.Pos = chPos
				sb.WriteByte(ch)
			}
			goto done

		case isWhitespace(ch, opts):
			// break only if the token has begun; there may be more
			// whitespace between a comment and the next token
			if sb.Len() > 0 {
				goto done
			}

		case ch == '_':
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			sb.WriteByte(' ')

		case ch == '[':
			// comments count as whitespace unless this is a command
			// comment being saved, in which case readComment fills sb
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			if err := t.readComment(&sb, opts); err != nil {
				return Token{}, err
			}
			if sb.Len() > 0 {
				goto done
			}

		case ch == '(' && opts.ParentheticalToken:
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			sb.WriteByte(ch)
			if err := t.readBracketed(&sb, '(', ')'); err != nil {
				return Token{}, err
			}
			goto done

		case ch == '{' && opts.CurlyBracketedToken:
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			sb.WriteByte(ch)
			if err := t.readBracketed(&sb, '{', '}'); err != nil {
				return Token{}, err
			}
			goto done

		case ch == '"' && opts.DoubleQuotedToken:
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			if err := t.readDoubleQuoted(&sb); err != nil {
				return Token{}, err
			}
			goto done

		case ch == '\'':
			if sb.Len() > 0 {
				// a single quote inside an unquoted token must be one of
				// a tandem pair
				ch2, err := t.readChar()
				if err != nil || ch2 != '\'' {
					return Token{}, NewError("expecting second single quote character", chPos)
				}
				sb.WriteByte('\'')
				goto done
			}
			tok.Pos = chPos
			stop, err := t.readQuoted(&sb)
			if err != nil {
				return Token{}, err
			}
			tok.stop = stop
			goto done

		case isPunctuation(ch, opts):
			if sb.Len() > 0 {
				// punctuation ends the token in progress; save it for
				// the next read
				t.pushBack(ch, chPos)
				tok.stop = ch
				goto done
			}
			tok.Pos = chPos
			sb.WriteByte(ch)
			goto done

		default:
			if sb.Len() == 0 {
				tok.Pos = chPos
			}
			sb.WriteByte(ch)
		}
	}

done:
	tok.Text = sb.String()
	return tok, nil
}

// readChar consumes one character, normalizing CR and CRLF to '\n' and
// advancing the position. CRLF counts as two bytes of offset.
func (t *Tokenizer) readChar() (byte, error) {
	b, err := t.r.ReadByte()
	if err != nil {
		return 0, err
	}
	t.pos.Offset++

	if b == '\r' || b == '\n' {
		t.pos.Line++
		t.pos.Col = 1
		if b == '\r' {
			nb, err := t.r.ReadByte()
			if err == nil {
				if nb == '\n' {
					t.pos.Offset++
				} else {
					_ = t.r.UnreadByte()
				}
			}
		}
		return '\n', nil
	}

	t.pos.Col++
	return b, nil
}

func (t *Tokenizer) pushBack(ch byte, pos Position) {
	t.saved = ch
	t.savedPos = pos
	t.hasSaved = true
}

// readComment consumes a [...] comment whose opening bracket has already
// been read, tracking nested brackets. Text of a [!...] output comment
// goes to the comment handler; a [&X] command comment is appended to sb
// when opts.SaveCommandComments is set.
func (t *Tokenizer) readComment(sb *strings.Builder, opts Options) error {
	start := t.pos

	ch, err := t.readChar()
	if err != nil {
		return NewError("unexpected end of file inside comment", start)
	}

	printing := false
	command := false
	switch {
	case ch == '!':
		printing = true
	case ch == '&' && opts.SaveCommandComments:
		command = true
		sb.WriteByte(ch)
	}

	var comment strings.Builder
	level := 1
	consume := func(ch byte) bool {
		switch ch {
		case ']':
			level--
		case '[':
			level++
		}
		if level == 0 {
			return true
		}
		switch {
		case printing:
			comment.WriteByte(ch)
		case command:
			sb.WriteByte(ch)
		}
		return false
	}

	closed := false
	if !printing && !command {
		closed = consume(ch)
	}
	for !closed {
		ch, err = t.readChar()
		if err != nil {
			return NewError("unexpected end of file inside comment", start)
		}
		closed = consume(ch)
	}

	if printing && t.onComment != nil {
		t.onComment(comment.String())
	}
	return nil
}

// readBracketed consumes the remainder of a bracketed token up to and
// including the close character matching the already-consumed open.
func (t *Tokenizer) readBracketed(sb *strings.Builder, open, close byte) error {
	start := t.pos
	level := 1
	for {
		ch, err := t.readChar()
		if err != nil {
			return NewError("unexpected end of file inside bracketed token", start)
		}
		switch ch {
		case close:
			level--
		case open:
			level++
		}
		sb.WriteByte(ch)
		if level == 0 {
			return nil
		}
	}
}

// readDoubleQuoted consumes the remainder of a double-quoted word whose
// opening quote has already been read. The quotes do not become part of
// the token.
func (t *Tokenizer) readDoubleQuoted(sb *strings.Builder) error {
	start := t.pos
	for {
		ch, err := t.readChar()
		if err != nil {
			return NewError("unexpected end of file inside double-quoted token", start)
		}
		if ch == '"' {
			return nil
		}
		if ch == '_' {
			ch = ' '
		}
		sb.WriteByte(ch)
	}
}

// readQuoted consumes the remainder of a single-quoted word whose opening
// quote has already been read. Tandem single quotes become one literal
// quote; an isolated single quote ends the word. The character following
// the closing quote, if any, is pushed back and returned so callers can
// see what terminated the word.
func (t *Tokenizer) readQuoted(sb *strings.Builder) (byte, error) {
	start := t.pos
	for {
		ch, err := t.readChar()
		if err != nil {
			return 0, NewError("unexpected end of file inside quoted token", start)
		}
		switch ch {
		case '\'':
			chPos := t.pos
			ch2, err := t.readChar()
			if err != nil {
				// quoted word ends flush with the input
				return 0, nil
			}
			if ch2 == '\'' {
				sb.WriteByte('\'')
				continue
			}
			t.pushBack(ch2, chPos)
			return ch2, nil
		case '_':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(ch)
		}
	}
}
