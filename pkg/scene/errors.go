package scene

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	ErrMalformed        ErrorKind = iota + 1 // Missing terminator, empty or multi-character tag
	ErrUnknownDirective                      // Tag is not one of c, l, p, m, o, X
	ErrArity                                 // Wrong number of fields for the directive
	ErrNumber                                // Field is not a finite number or integer
	ErrValue                                 // Field parses but is not an accepted value
	ErrUnknownTransform                      // Transform op code is not Rx, Ry, Rz, S or T
)

var errorKindNames = map[ErrorKind]string{
	ErrMalformed:        "malformed statement",
	ErrUnknownDirective: "unknown directive",
	ErrArity:            "wrong field count",
	ErrNumber:           "bad number",
	ErrValue:            "bad value",
	ErrUnknownTransform: "unknown transform",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError reports a statement that could not be parsed.
type ParseError struct {
	Line int    // 1-based line number
	Text string // The statement as written
	Tag  string // Directive tag, empty if the line had none
	Kind ErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Tag != "" {
		return fmt.Sprintf("line %d (%s): %s: %q", e.Line, e.Tag, msg, e.Text)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kinds of entries a ReferenceError may name.
const (
	RefPrimitive = "primitive"
	RefMaterial  = "material"
	RefObject    = "object"
)

// ReferenceError reports a statement naming an entry that has not been
// declared yet.
type ReferenceError struct {
	Line int
	Tag  string
	Kind string // RefPrimitive, RefMaterial or RefObject
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("line %d (%s): undefined %s %q", e.Line, e.Tag, e.Kind, e.Name)
}

// IsParseError reports whether err is or wraps a *ParseError of the given kind.
func IsParseError(err error, kind ErrorKind) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Kind == kind
}

// AsReferenceError unwraps err to a *ReferenceError.
func AsReferenceError(err error) (*ReferenceError, bool) {
	var re *ReferenceError
	ok := errors.As(err, &re)
	return re, ok
}
