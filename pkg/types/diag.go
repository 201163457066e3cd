package types

import (
	"fmt"

	"stilt/pkg/syntax"
)

// TypingError is a hard checking failure, always carrying the source span
// it was raised at. Errors are accumulated, never thrown: the walk keeps
// going so a user sees every problem in one pass.
type TypingError struct {
	Span syntax.Span
	Msg  string
}

func Errorf(span syntax.Span, format string, args ...any) TypingError {
	return TypingError{Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e TypingError) Error() string { return fmt.Sprintf("%s: %s", e.Span, e.Msg) }

// Approximation records that a typing operation couldn't produce a
// precise result. Not an error; surfaced as an informational diagnostic.
type Approximation struct {
	// Category of the approximation, e.g. "Unknown type".
	Category string
	// Free-form detail, e.g. which type was unknown.
	Message string
}

func NewApproximation(category, message string) Approximation {
	return Approximation{Category: category, Message: message}
}

func (a Approximation) String() string {
	return fmt.Sprintf("Approximation: %s = %q", a.Category, a.Message)
}
