package nexus

import (
	"fmt"
	"strings"
)

// Position identifies a location in a NEXUS input stream.
// Offset is the number of bytes consumed before the location,
// Line and Col are 1-based.
type Position struct {
	Offset int64
	Line   int
	Col    int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Col)
}

// Token is a single NEXUS token. Underscores in the input appear as
// blanks in Text, and paired single quotes inside quoted words appear
// as one single quote.
type Token struct {
	Text string
	Pos  Position

	eof  bool
	stop byte
}

// AtEOF reports whether this token marks the end of the input.
// An end-of-input token has empty Text.
func (t Token) AtEOF() bool {
	return t.eof
}

// AtEOL reports whether this token is a newline token, which can only be
// produced under Options.NewlineIsToken.
func (t Token) AtEOL() bool {
	return t.Text == "\n"
}

// Len returns the token length in bytes.
func (t Token) Len() int {
	return len(t.Text)
}

// Equals reports whether the token matches s, ignoring case.
func (t Token) Equals(s string) bool {
	return strings.EqualFold(t.Text, s)
}

// Begins reports whether the token begins with s, ignoring case.
func (t Token) Begins(s string) bool {
	if len(s) > len(t.Text) {
		return false
	}
	return strings.EqualFold(t.Text[:len(s)], s)
}

// Abbreviation reports whether the token is a valid abbreviation of s,
// where the upper-case portion of s is mandatory and the lower-case
// remainder is optional. The comparison ignores case, so
// Abbreviation("DIMensions") accepts "dim", "DIMEN" and "dimensions"
// but rejects "di" and "dimensionsx".
func (t Token) Abbreviation(s string) bool {
	mlen := 0
	for mlen < len(s) && s[mlen] >= 'A' && s[mlen] <= 'Z' {
		mlen++
	}
	if len(t.Text) < mlen || len(t.Text) > len(s) {
		return false
	}
	return strings.EqualFold(t.Text, s[:len(t.Text)])
}

// IsPunct reports whether the token is a single standard punctuation
// character.
func (t Token) IsPunct() bool {
	return len(t.Text) == 1 && isPunctuation(t.Text[0], Options{})
}

// IsPlusMinus reports whether the token is a single '+' or '-'.
func (t Token) IsPlusMinus() bool {
	return t.Text == "+" || t.Text == "-"
}

// StoppedOn reports whether ch is the character that terminated this
// token and was pushed back for the next read. It is false for tokens
// terminated by whitespace or end of input.
func (t Token) StoppedOn(ch byte) bool {
	return t.stop == ch && t.stop != 0
}
