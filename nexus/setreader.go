package nexus

import (
	"strconv"

	"github.com/emirpasic/gods/sets/treeset"
)

// LabelResolver translates a set element label into its 1-based number.
// It returns 0 when the label is unknown.
type LabelResolver func(label string) int

// SetReader reads a NEXUS set definition such as
//
//	4-7 15 20-.\3;
//
// where '-' defines a range, '.' stands for the maximum value, '\N'
// keeps every Nth member of the preceding range, and ALL selects the
// whole range [1..max]. Elements are 1-based in the input and stored
// 0-based in the resulting set.
type SetReader struct {
	tk      *Tokenizer
	max     int
	resolve LabelResolver
}

// NewSetReader creates a SetReader pulling tokens from tk. Elements may
// range over [1..max]. resolve translates non-numeric elements to
// numbers and may be nil if labels are not permitted in this context.
func NewSetReader(tk *Tokenizer, max int, resolve LabelResolver) *SetReader {
	return &SetReader{tk: tk, max: max, resolve: resolve}
}

// Run reads one set definition, consuming its terminator. It returns the
// set and whether the definition ended with ';' rather than ','.
func (r *SetReader) Run() (*treeset.Set, bool, error) {
	set := treeset.NewWithIntComparator()

	rangeBegin := -1
	rangeEnd := -1
	insideRange := false
	modulus := 0

	for {
		// the next token is one of:
		//   ';' or ','  set definition finished
		//   '-'         range being defined
		//   '.'         stands for the value max
		//   '\'         modulus value follows
		//   int/label   member of the set, or a range boundary
		tok, err := r.tk.Next(Options{})
		if err != nil {
			return nil, false, err
		}
		if tok.AtEOF() {
			return nil, false, NewError("unexpected end of file in set definition", tok.Pos)
		}

		switch {
		case tok.Text == "-":
			// the hyphen is what puts us inside a range
			if insideRange {
				return nil, false, NewError("the symbol '-' is out of place here", tok.Pos)
			}
			insideRange = true

		case tok.Text == ".":
			if !insideRange {
				return nil, false, NewError("the symbol '.' can only be used to specify the end of a range", tok.Pos)
			}
			rangeEnd = r.max

		case tok.Text == `\`:
			if !insideRange {
				return nil, false, NewError(`the symbol '\' can only be used after the end of a range has been specified`, tok.Pos)
			}
			modTok, err := r.tk.Next(Options{})
			if err != nil {
				return nil, false, err
			}
			m, convErr := strconv.Atoi(modTok.Text)
			if convErr != nil || m <= 0 {
				return nil, false, Errorf(modTok.Pos, "the modulus value specified (%s) is invalid; must be greater than 0", modTok.Text)
			}
			modulus = m

		case insideRange && rangeEnd == -1:
			// the range beginning and the hyphen have been read already;
			// this token is the end of the range
			rangeEnd, err = r.tokenValue(tok)
			if err != nil {
				return nil, false, err
			}

		case insideRange:
			if !addRange(set, rangeBegin, rangeEnd, modulus, r.max) {
				return nil, false, NewError("number out of range (or range incorrectly specified) in set specification", tok.Pos)
			}
			modulus = 0
			if tok.Text == ";" {
				return set, true, nil
			}
			if tok.Text == "," {
				return set, false, nil
			}
			rangeBegin, err = r.tokenValue(tok)
			if err != nil {
				return nil, false, err
			}
			rangeEnd = -1
			insideRange = false

		case rangeBegin != -1:
			// a single value was read previously; add it now
			if !addRange(set, rangeBegin, rangeBegin, modulus, r.max) {
				return nil, false, NewError("number out of range (or range incorrectly specified) in set specification", tok.Pos)
			}
			modulus = 0
			if tok.Text == ";" {
				return set, true, nil
			}
			if tok.Text == "," {
				return set, false, nil
			}
			rangeBegin, err = r.tokenValue(tok)
			if err != nil {
				return nil, false, err
			}
			rangeEnd = -1

		case tok.Text == ";":
			return set, true, nil

		case tok.Text == ",":
			return set, false, nil

		case tok.Equals("ALL"):
			addRange(set, 1, r.max, 0, r.max)
			rangeBegin = -1
			rangeEnd = -1

		default:
			rangeBegin, err = r.tokenValue(tok)
			if err != nil {
				return nil, false, err
			}
			rangeEnd = -1
		}
	}
}

// tokenValue interprets tok as a number, falling back to the label
// resolver for non-numeric elements.
func (r *SetReader) tokenValue(tok Token) (int, error) {
	if v, err := strconv.Atoi(tok.Text); err == nil && v > 0 {
		return v, nil
	}
	if r.resolve != nil {
		if v := r.resolve(tok.Text); v > 0 {
			return v, nil
		}
	}
	return 0, &Error{
		Msg: "set element (" + tok.Text + ") is not a number and not a known label",
		Pos: tok.Pos,
		Err: ErrLabelNotFound,
	}
}

// addRange inserts the members of [first..last] into set, keeping only
// members i with (i-first) divisible by modulus when modulus is positive.
// first and last are 1-based; members are stored 0-based. It reports
// whether the range was valid.
func addRange(set *treeset.Set, first, last, modulus, max int) bool {
	if last > max || first < 1 || first > last {
		return false
	}
	for i := first - 1; i < last; i++ {
		if modulus > 0 && (i-first+1)%modulus != 0 {
			continue
		}
		set.Add(i)
	}
	return true
}
