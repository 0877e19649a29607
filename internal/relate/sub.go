package relate

import (
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Sub requires a <: b.
//
// An unbound variable related to a term is instantiated to that term
// directly. Two unbound variables cannot be decided yet, so the relation
// leaves a Subtype obligation behind for the solver.
type Sub struct {
	fields      *Fields
	aIsExpected bool
}

func (s *Sub) Tag() string       { return config.TagSub }
func (s *Sub) Fields() *Fields   { return s.fields }
func (s *Sub) AIsExpected() bool { return s.aIsExpected }

func (s *Sub) RelateWithVariance(v typesystem.Variance, a, b typesystem.Type) (typesystem.Type, error) {
	switch v {
	case typesystem.Covariant:
		return s.Tys(a, b)
	case typesystem.Contravariant:
		return s.fields.Sub(!s.aIsExpected).Tys(b, a)
	case typesystem.Invariant:
		return s.fields.Equate(s.aIsExpected).Tys(a, b)
	default:
		return a, nil
	}
}

func (s *Sub) Tys(a, b typesystem.Type) (typesystem.Type, error) {
	infcx := s.fields.Infcx
	a = infcx.Resolve(a)
	b = infcx.Resolve(b)
	infcx.Log().WithFields(logrus.Fields{"rel": s.Tag(), "a": a, "b": b}).Debug("tys")

	if typesystem.Equal(a, b) {
		return a, nil
	}
	if typesystem.IsVar(a) && typesystem.IsVar(b) {
		s.fields.AddObligations([]traits.Obligation{{
			Cause:     s.fields.Cause,
			Env:       s.fields.Env,
			Predicate: traits.Subtype{Sub: a, Super: b},
		}})
		return a, nil
	}
	if typesystem.IsVar(a) || typesystem.IsVar(b) {
		return Combine(s, a, b)
	}
	if ShouldDeferOpaque(infcx, s.fields.DefineOpaqueTypes, a, b) {
		s.fields.AddObligations([]traits.Obligation{s.fields.OpaqueObligation(a, b, s.aIsExpected)})
		return a, nil
	}
	return Combine(s, a, b)
}
