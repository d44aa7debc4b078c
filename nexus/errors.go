package nexus

import (
	"errors"
	"fmt"
)

// ErrLabelNotFound reports that a set element could not be resolved to a
// number through the supplied label resolver. Use errors.Is to test for it.
var ErrLabelNotFound = errors.New("label not found")

// Error is a NEXUS data error tagged with the input position where it was
// detected.
type Error struct {
	Msg string
	Pos Position
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s)", e.Msg, e.Pos)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error with the given message and position.
func NewError(msg string, pos Position) *Error {
	return &Error{Msg: msg, Pos: pos}
}

// Errorf creates an Error with a formatted message and position.
func Errorf(pos Position, format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: pos}
}
