// Package errs defines the error taxonomy shared across the decoder, the
// batch layer, and the builders.
//
// Every error the codec returns belongs to one of five kinds: FormatError
// (the wire bytes are malformed), Unsupported (the bytes are well-formed but
// name a feature this build cannot honor), InvalidArgument (caller-supplied
// parameters are invalid), RangeError (a value cannot be represented safely
// in the requested form), and Mixed (type inference saw incompatible
// values). Call sites wrap a sentinel with one of the five kinds and add
// context with fmt.Errorf("%w: ...", sentinel); callers distinguish kinds
// with errors.As and specific failures with errors.Is.
package errs

import "fmt"

// Kind classifies an error into one of the five taxonomy buckets.
type Kind uint8

const (
	KindFormat Kind = iota + 1
	KindUnsupported
	KindInvalidArgument
	KindRange
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "FormatError"
	case KindUnsupported:
		return "Unsupported"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindRange:
		return "RangeError"
	case KindMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// TaxonomyError wraps a sentinel error with its taxonomy Kind.
type TaxonomyError struct {
	Kind Kind
	Err  error
}

func (e *TaxonomyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TaxonomyError) Unwrap() error { return e.Err }

func newKind(kind Kind, err error) error {
	return &TaxonomyError{Kind: kind, Err: err}
}

// FormatError wraps err as a FormatError-kind error.
func FormatError(err error) error { return newKind(KindFormat, err) }

// Unsupported wraps err as an Unsupported-kind error.
func Unsupported(err error) error { return newKind(KindUnsupported, err) }

// InvalidArgument wraps err as an InvalidArgument-kind error.
func InvalidArgument(err error) error { return newKind(KindInvalidArgument, err) }

// RangeError wraps err as a RangeError-kind error.
func RangeError(err error) error { return newKind(KindRange, err) }

// Mixed wraps err as a Mixed-kind error.
func Mixed(err error) error { return newKind(KindMixed, err) }
