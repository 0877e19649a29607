package typesystem

import "fmt"

// MismatchReason classifies why two terms failed to relate.
type MismatchReason int

const (
	ReasonMismatch  MismatchReason = iota // Different shapes or constants
	ReasonArgCount                        // Argument lists of different length
	ReasonCyclic                          // Binding would create an infinite type
	ReasonOpaque                          // Distinct opaque definitions
)

func (r MismatchReason) String() string {
	switch r {
	case ReasonMismatch:
		return "type mismatch"
	case ReasonArgCount:
		return "argument count mismatch"
	case ReasonCyclic:
		return "cyclic type"
	case ReasonOpaque:
		return "opaque type mismatch"
	default:
		return "unknown"
	}
}

// TypeError is the relation error raised when two terms cannot be related.
type TypeError struct {
	Reason   MismatchReason
	Expected Type
	Found    Type
	Detail   string
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("%s: expected %s, found %s", e.Reason, e.Expected, e.Found)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// NewTypeError builds a TypeError. When expected is false the roles of
// a and b are swapped so that diagnostics always name the expected side first.
func NewTypeError(reason MismatchReason, a, b Type, aIsExpected bool) *TypeError {
	if !aIsExpected {
		a, b = b, a
	}
	return &TypeError{Reason: reason, Expected: a, Found: b}
}
