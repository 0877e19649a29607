package relate

import (
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Equate requires both terms to be the same type.
type Equate struct {
	fields      *Fields
	aIsExpected bool
}

func (e *Equate) Tag() string       { return config.TagEquate }
func (e *Equate) Fields() *Fields   { return e.fields }
func (e *Equate) AIsExpected() bool { return e.aIsExpected }

// RelateWithVariance ignores variance: every position of an equated term is
// itself equated, except bivariant ones which are unconstrained.
func (e *Equate) RelateWithVariance(v typesystem.Variance, a, b typesystem.Type) (typesystem.Type, error) {
	if v == typesystem.Bivariant {
		return a, nil
	}
	return e.Tys(a, b)
}

func (e *Equate) Tys(a, b typesystem.Type) (typesystem.Type, error) {
	infcx := e.fields.Infcx
	a = infcx.Resolve(a)
	b = infcx.Resolve(b)
	infcx.Log().WithFields(logrus.Fields{"rel": e.Tag(), "a": a, "b": b}).Debug("tys")

	if typesystem.Equal(a, b) {
		return a, nil
	}
	if typesystem.IsVar(a) || typesystem.IsVar(b) {
		return Combine(e, a, b)
	}
	if ShouldDeferOpaque(infcx, e.fields.DefineOpaqueTypes, a, b) {
		e.fields.AddObligations([]traits.Obligation{e.fields.OpaqueObligation(a, b, e.aIsExpected)})
		return a, nil
	}
	return Combine(e, a, b)
}
