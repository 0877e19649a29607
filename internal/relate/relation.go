// Package relate implements the structural relation algorithm shared by
// every type relation (equate, subtype, join and meet): variable
// instantiation, variance-directed recursion over term shapes and the
// handling of opaque references.
package relate

import (
	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Relation relates two terms and returns the term representing the result.
type Relation interface {
	// Tag names the relation in traces and diagnostics.
	Tag() string
	Fields() *Fields
	// AIsExpected reports whether the left operand is the expected side.
	AIsExpected() bool
	Tys(a, b typesystem.Type) (typesystem.Type, error)
	// RelateWithVariance relates a nested position whose variance is v.
	RelateWithVariance(v typesystem.Variance, a, b typesystem.Type) (typesystem.Type, error)
}

// Fields is the state shared by all relations created for one top-level
// comparison.
type Fields struct {
	Infcx *infer.Context
	Cause traits.Cause
	Env   traits.ParamEnv
	Sink  traits.Sink

	// AIsExpected orients diagnostics for the top-level comparison.
	AIsExpected bool

	// DefineOpaqueTypes allows constraining the hidden type of local opaque
	// types. It is off when checking signatures.
	DefineOpaqueTypes bool
}

// NewFields creates Fields with the default orientation (left is expected).
// A sink that is also an infer.Journal is tracked by infcx, so obligations
// pushed inside a rolled back snapshot are discarded with it.
func NewFields(infcx *infer.Context, cause traits.Cause, env traits.ParamEnv, sink traits.Sink, defineOpaqueTypes bool) *Fields {
	if j, ok := sink.(infer.Journal); ok {
		infcx.Track(j)
	}
	return &Fields{
		Infcx:             infcx,
		Cause:             cause,
		Env:               env,
		Sink:              sink,
		AIsExpected:       true,
		DefineOpaqueTypes: defineOpaqueTypes,
	}
}

// AddObligations forwards obligations to the sink.
func (f *Fields) AddObligations(obligations []traits.Obligation) {
	if len(obligations) == 0 {
		return
	}
	f.Sink.Push(obligations)
}

// Equate returns an invariant relation over these fields.
func (f *Fields) Equate(aIsExpected bool) *Equate {
	return &Equate{fields: f, aIsExpected: aIsExpected}
}

// Sub returns a subtyping relation (a <: b) over these fields.
func (f *Fields) Sub(aIsExpected bool) *Sub {
	return &Sub{fields: f, aIsExpected: aIsExpected}
}

// OpaqueObligation builds the obligation that defers relating the opaque
// side of (a, b) to the other side until its hidden type is known.
func (f *Fields) OpaqueObligation(a, b typesystem.Type, aIsExpected bool) traits.Obligation {
	return traits.Obligation{
		Cause:     f.Cause,
		Env:       f.Env,
		Predicate: traits.OpaqueHidden{A: a, B: b, AIsExpected: aIsExpected},
	}
}

// ShouldDeferOpaque reports whether relating a and b should be deferred to
// an opaque hidden-type obligation: at least one side is an opaque reference
// declared in the current unit, and the policy allows defining opaque types.
// Two references to the same definition are never deferred; they relate
// structurally.
func ShouldDeferOpaque(infcx *infer.Context, defineOpaqueTypes bool, a, b typesystem.Type) bool {
	if !defineOpaqueTypes {
		return false
	}
	ao, aok := a.(typesystem.TOpaque)
	bo, bok := b.(typesystem.TOpaque)
	if aok && bok && ao.Def == bo.Def {
		return false
	}
	return (aok && infcx.IsLocal(ao.Def)) || (bok && infcx.IsLocal(bo.Def))
}

// SameOpaque reports whether a and b reference the same opaque definition.
func SameOpaque(a, b typesystem.Type) bool {
	ao, aok := a.(typesystem.TOpaque)
	bo, bok := b.(typesystem.TOpaque)
	return aok && bok && ao.Def == bo.Def
}
