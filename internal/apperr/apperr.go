// Package apperr defines the tagged error kinds surfaced by gamematch.
// Callers dispatch on Kind with a switch rather than on concrete types:
//
//	switch apperr.KindOf(err) {
//	case apperr.Validation:
//	    // bad user input, report and move on
//	case apperr.Search:
//	    // marketplace lookup failed, skip this title
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the stage that produced it.
type Kind int

const (
	Unknown Kind = iota
	Validation
	Update
	Recommendation
	Search
	Import
	Export
	NotFound
	Storage
)

var kindNames = map[Kind]string{
	Unknown:        "unknown",
	Validation:     "validation",
	Update:         "update",
	Recommendation: "recommendation",
	Search:         "search",
	Import:         "import",
	Export:         "export",
	NotFound:       "not found",
	Storage:        "storage",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failure tagged with its Kind. Op names the operation that
// failed, Message is human readable and Err is the optional cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind with no Op and no Message,
// which lets the package-level sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrValidation     = &Error{Kind: Validation}
	ErrUpdate         = &Error{Kind: Update}
	ErrRecommendation = &Error{Kind: Recommendation}
	ErrSearch         = &Error{Kind: Search}
	ErrImport         = &Error{Kind: Import}
	ErrExport         = &Error{Kind: Export}
	ErrNotFound       = &Error{Kind: NotFound}
	ErrStorage        = &Error{Kind: Storage}
)

// New creates a tagged error without a cause.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Newf creates a tagged error with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
