package rtfstream

import (
	"fmt"

	jujuerrors "github.com/juju/errors"
)

// ErrorKind classifies the reportable error conditions this package can
// produce. It is not a type hierarchy — every *Error carries exactly one
// Kind alongside its location and wrapped cause.
type ErrorKind int

const (
	// ErrConfiguration indicates a required callback was missing when the
	// Parser was constructed. Construction-time only.
	ErrConfiguration ErrorKind = iota

	// ErrUnbalancedBrace indicates a '}' was encountered with only the root
	// scope remaining on the stack. Fatal; aborts Parse().
	ErrUnbalancedBrace

	// ErrMalformedEscape indicates a '\' appeared at end-of-input, or some
	// other unrecoverable tokenizer state. Fatal; aborts Parse().
	ErrMalformedEscape
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConfiguration:
		return "ConfigurationError"
	case ErrUnbalancedBrace:
		return "UnbalancedBrace"
	case ErrMalformedEscape:
		return "MalformedEscape"
	default:
		return "UnknownError"
	}
}

// Error is the error type returned by New and Parse. OpenFile instead
// returns the file-read error annotated with juju/errors. Fill in as much detail as you have; Sender should always
// identify where the error originated (e.g. "tokenizer", "parser:pop").
type Error struct {
	Kind   ErrorKind
	Sender string

	// Pos is the rune offset into the document where the error was
	// detected, or -1 if not applicable (e.g. ConfigurationError).
	Pos int

	// OrigError is the underlying cause, annotated via juju/errors so a
	// trace survives being wrapped here.
	OrigError error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[rtfstream %s", e.Kind)
	if e.Sender != "" {
		s += " (where: " + e.Sender + ")"
	}
	if e.Pos >= 0 {
		s += fmt.Sprintf(" | offset %d", e.Pos)
	}
	s += "] "
	if e.OrigError != nil {
		s += e.OrigError.Error()
	}
	return s
}

// Unwrap lets errors.Is/errors.As reach the annotated cause.
func (e *Error) Unwrap() error {
	return e.OrigError
}

func newConfigurationError(sender, msg string) *Error {
	return &Error{
		Kind:      ErrConfiguration,
		Sender:    sender,
		Pos:       -1,
		OrigError: jujuerrors.New(msg),
	}
}

func newUnbalancedBraceError(pos int) *Error {
	return &Error{
		Kind:      ErrUnbalancedBrace,
		Sender:    "scopeStack.pop",
		Pos:       pos,
		OrigError: jujuerrors.Annotatef(jujuerrors.New("only the root scope remains"), "'}' at offset %d", pos),
	}
}

func newMalformedEscapeError(pos int, msg string) *Error {
	return &Error{
		Kind:      ErrMalformedEscape,
		Sender:    "tokenizer",
		Pos:       pos,
		OrigError: jujuerrors.Annotatef(jujuerrors.New(msg), "at offset %d", pos),
	}
}
