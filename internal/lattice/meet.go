package lattice

import (
	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/relate"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Meet computes greatest lower bounds: the result is a subtype of both
// operands.
type Meet struct {
	fields      *relate.Fields
	aIsExpected bool
}

// NewMeet returns the meet direction over fields.
func NewMeet(fields *relate.Fields, aIsExpected bool) *Meet {
	return &Meet{fields: fields, aIsExpected: aIsExpected}
}

func (m *Meet) Tag() string             { return config.TagGlb }
func (m *Meet) Fields() *relate.Fields  { return m.fields }
func (m *Meet) AIsExpected() bool       { return m.aIsExpected }
func (m *Meet) Infcx() *infer.Context   { return m.fields.Infcx }
func (m *Meet) Cause() traits.Cause     { return m.fields.Cause }
func (m *Meet) DefineOpaqueTypes() bool { return m.fields.DefineOpaqueTypes }
func (m *Meet) AddObligations(obligations []traits.Obligation) {
	m.fields.AddObligations(obligations)
}

func (m *Meet) Tys(a, b typesystem.Type) (typesystem.Type, error) {
	return Compute(m, a, b)
}

func (m *Meet) RelateWithVariance(v typesystem.Variance, a, b typesystem.Type) (typesystem.Type, error) {
	switch v {
	case typesystem.Covariant:
		return m.Tys(a, b)
	case typesystem.Contravariant:
		return NewJoin(m.fields, m.aIsExpected).Tys(a, b)
	case typesystem.Invariant:
		return m.fields.Equate(m.aIsExpected).Tys(a, b)
	default:
		return a, nil
	}
}

// RelateBound requires v <: a and v <: b.
func (m *Meet) RelateBound(v, a, b typesystem.Type) error {
	sub := m.fields.Sub(m.aIsExpected)
	if _, err := sub.Tys(v, a); err != nil {
		return err
	}
	_, err := sub.Tys(v, b)
	return err
}
