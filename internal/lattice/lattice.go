// Package lattice computes the least upper bound (join) and greatest lower
// bound (meet) of two types, as needed when the arms of a conditional must
// be reconciled into a single inferred type.
//
// The algorithm is written once and parameterised by a Direction. Identical
// terms need no work. An unresolved variable is related through a fresh
// pivot variable, and a local opaque reference may be deferred to an
// obligation. Everything else goes to the structural relator.
package lattice

import (
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/relate"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Direction is implemented by Join and Meet.
type Direction interface {
	relate.Relation

	Infcx() *infer.Context

	// Cause is attached to every obligation generated by the computation.
	Cause() traits.Cause

	AddObligations(obligations []traits.Obligation)

	// DefineOpaqueTypes reports whether the hidden type of a local opaque
	// type may be constrained here.
	DefineOpaqueTypes() bool

	// RelateBound relates v to a, then to b, so that v is an upper bound
	// (Join) or lower bound (Meet) of both. It stops at the first failure.
	// Relating v to a first matters; see Compute.
	RelateBound(v, a, b typesystem.Type) error
}

// Compute returns the join or meet of a and b, as chosen by dir.
func Compute(dir Direction, a, b typesystem.Type) (typesystem.Type, error) {
	infcx := dir.Infcx()

	a = infcx.Resolve(a)
	b = infcx.Resolve(b)
	infcx.Log().WithFields(logrus.Fields{"rel": dir.Tag(), "a": a, "b": b}).Debug("lattice")

	if typesystem.Equal(a, b) {
		return a, nil
	}

	// When exactly one side is a variable, the result is a fresh pivot v
	// related to the non-variable side first. For ?x and Box<Int>, relating
	// v to Box<Int> instantiates v, and relating v to ?x then instantiates
	// ?x to Box<Int> as well. The opposite order would relate two variables
	// and leave a subtype obligation behind, so callers such as coercion
	// would not learn that ?x is Box<Int> without another solver round.
	switch aVar, bVar := typesystem.IsVar(a), typesystem.IsVar(b); {
	case aVar && !bVar:
		v := newPivot(dir)
		if err := dir.RelateBound(v, b, a); err != nil {
			return nil, err
		}
		return v, nil
	case bVar && !aVar:
		v := newPivot(dir)
		if err := dir.RelateBound(v, a, b); err != nil {
			return nil, err
		}
		return v, nil
	}

	if relate.SameOpaque(a, b) {
		return relate.SuperRelate(dir, a, b)
	}

	// The hidden type is not known yet. The obligation will relate it once
	// it is, and a stands in for the result until then.
	if relate.ShouldDeferOpaque(infcx, dir.DefineOpaqueTypes(), a, b) {
		dir.AddObligations([]traits.Obligation{{
			Cause:     dir.Cause(),
			Env:       dir.Fields().Env,
			Predicate: traits.OpaqueHidden{A: a, B: b, AIsExpected: dir.AIsExpected()},
		}})
		return a, nil
	}

	return relate.Combine(dir, a, b)
}

func newPivot(dir Direction) typesystem.TVar {
	return dir.Infcx().FreshVar(infer.VarOrigin{
		Kind: infer.LatticeVariable,
		Span: dir.Cause().Span,
	})
}

// Lub returns the least upper bound of a and b.
func Lub(fields *relate.Fields, a, b typesystem.Type) (typesystem.Type, error) {
	return NewJoin(fields, fields.AIsExpected).Tys(a, b)
}

// Glb returns the greatest lower bound of a and b.
func Glb(fields *relate.Fields, a, b typesystem.Type) (typesystem.Type, error) {
	return NewMeet(fields, fields.AIsExpected).Tys(a, b)
}
