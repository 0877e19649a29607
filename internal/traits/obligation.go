// Package traits holds deferred proof obligations produced while relating
// types, and the sinks that collect them for the solver.
package traits

import (
	"fmt"
	"strings"

	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/typesystem"
)

// CauseKind records why a constraint was generated.
type CauseKind int

const (
	MiscObligation CauseKind = iota
	IfExpression
	MatchArm
	Coercion
	ReturnValue
)

func (k CauseKind) String() string {
	switch k {
	case MiscObligation:
		return "misc"
	case IfExpression:
		return "if expression"
	case MatchArm:
		return "match arm"
	case Coercion:
		return "coercion"
	case ReturnValue:
		return "return value"
	default:
		return "unknown"
	}
}

// Cause is provenance attached to every generated constraint. It never
// affects the outcome of a relation.
type Cause struct {
	Span infer.Span
	Kind CauseKind
}

func (c Cause) String() string {
	return fmt.Sprintf("%s at %s", c.Kind, c.Span)
}

// ParamEnv lists the generic parameters in scope where a constraint arose.
type ParamEnv struct {
	Params []string
}

func (e ParamEnv) String() string {
	return "[" + strings.Join(e.Params, ", ") + "]"
}

// Predicate is the statement an obligation asks the solver to prove.
type Predicate interface {
	String() string
	isPredicate()
}

// OpaqueHidden requires the hidden type behind the opaque side of (A, B) to
// relate to the other side. AIsExpected preserves the orientation for
// diagnostics.
type OpaqueHidden struct {
	A, B        typesystem.Type
	AIsExpected bool
}

func (OpaqueHidden) isPredicate() {}

func (p OpaqueHidden) String() string {
	return fmt.Sprintf("hidden(%s) ~ %s", p.A, p.B)
}

// Opaque returns the opaque side of the predicate and the term it must
// relate to.
func (p OpaqueHidden) Opaque() (typesystem.TOpaque, typesystem.Type) {
	if o, ok := p.A.(typesystem.TOpaque); ok {
		return o, p.B
	}
	o, _ := p.B.(typesystem.TOpaque)
	return o, p.A
}

// Subtype requires Sub <: Super. It is left behind when two unresolved
// variables are related by subtyping.
type Subtype struct {
	Sub, Super typesystem.Type
}

func (Subtype) isPredicate() {}

func (p Subtype) String() string {
	return fmt.Sprintf("%s <: %s", p.Sub, p.Super)
}

// Obligation pairs a predicate with the cause and environment it arose in.
type Obligation struct {
	Cause     Cause
	Env       ParamEnv
	Predicate Predicate
}

func (o Obligation) String() string {
	return fmt.Sprintf("%s (%s)", o.Predicate, o.Cause)
}

// Sink receives obligations. Once pushed, obligations belong to the sink.
type Sink interface {
	Push(obligations []Obligation)
}
