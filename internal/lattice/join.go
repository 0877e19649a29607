package lattice

import (
	"github.com/funvibe/lattice/internal/config"
	"github.com/funvibe/lattice/internal/infer"
	"github.com/funvibe/lattice/internal/relate"
	"github.com/funvibe/lattice/internal/traits"
	"github.com/funvibe/lattice/internal/typesystem"
)

// Join computes least upper bounds: the result is a supertype of both
// operands.
type Join struct {
	fields      *relate.Fields
	aIsExpected bool
}

// NewJoin returns the join direction over fields.
func NewJoin(fields *relate.Fields, aIsExpected bool) *Join {
	return &Join{fields: fields, aIsExpected: aIsExpected}
}

func (j *Join) Tag() string             { return config.TagLub }
func (j *Join) Fields() *relate.Fields  { return j.fields }
func (j *Join) AIsExpected() bool       { return j.aIsExpected }
func (j *Join) Infcx() *infer.Context   { return j.fields.Infcx }
func (j *Join) Cause() traits.Cause     { return j.fields.Cause }
func (j *Join) DefineOpaqueTypes() bool { return j.fields.DefineOpaqueTypes }
func (j *Join) AddObligations(obligations []traits.Obligation) {
	j.fields.AddObligations(obligations)
}

func (j *Join) Tys(a, b typesystem.Type) (typesystem.Type, error) {
	return Compute(j, a, b)
}

// RelateWithVariance flips to a meet in contravariant positions and
// equates invariant ones.
func (j *Join) RelateWithVariance(v typesystem.Variance, a, b typesystem.Type) (typesystem.Type, error) {
	switch v {
	case typesystem.Covariant:
		return j.Tys(a, b)
	case typesystem.Contravariant:
		return NewMeet(j.fields, j.aIsExpected).Tys(a, b)
	case typesystem.Invariant:
		return j.fields.Equate(j.aIsExpected).Tys(a, b)
	default:
		return a, nil
	}
}

// RelateBound requires a <: v and b <: v.
func (j *Join) RelateBound(v, a, b typesystem.Type) error {
	sub := j.fields.Sub(j.aIsExpected)
	if _, err := sub.Tys(a, v); err != nil {
		return err
	}
	_, err := sub.Tys(b, v)
	return err
}
