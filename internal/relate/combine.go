package relate

import (
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/typesystem"
)

// Combine relates two already resolved terms. Unbound variables are unified
// with each other or instantiated to the other side; everything else is
// handed to SuperRelate. Relations call it once their own special cases
// have been ruled out.
func Combine(rel Relation, a, b typesystem.Type) (typesystem.Type, error) {
	infcx := rel.Fields().Infcx
	av, aIsVar := a.(typesystem.TVar)
	bv, bIsVar := b.(typesystem.TVar)

	switch {
	case aIsVar && bIsVar:
		if err := infcx.Union(av, bv); err != nil {
			return nil, err
		}
		return a, nil
	case aIsVar:
		if err := infcx.Instantiate(av, b); err != nil {
			return nil, cyclicOriented(err, rel)
		}
		return b, nil
	case bIsVar:
		if err := infcx.Instantiate(bv, a); err != nil {
			return nil, cyclicOriented(err, rel)
		}
		return a, nil
	}
	return SuperRelate(rel, a, b)
}

// cyclicOriented keeps occurs-check failures oriented the way the relation
// reports other mismatches.
func cyclicOriented(err error, rel Relation) error {
	te, ok := err.(*typesystem.TypeError)
	if !ok || rel.AIsExpected() {
		return err
	}
	return &typesystem.TypeError{Reason: te.Reason, Expected: te.Found, Found: te.Expected}
}

// SuperRelate relates two non-variable terms shape by shape, recursing
// through rel with the variance of each position. Opaque references are
// related pointwise only when they name the same definition.
func SuperRelate(rel Relation, a, b typesystem.Type) (typesystem.Type, error) {
	infcx := rel.Fields().Infcx
	infcx.Log().WithFields(logrus.Fields{"rel": rel.Tag(), "a": a, "b": b}).Debug("super relate")

	mismatch := func(reason typesystem.MismatchReason) error {
		return typesystem.NewTypeError(reason, a, b, rel.AIsExpected())
	}

	switch a := a.(type) {
	case typesystem.TCon:
		if b, ok := b.(typesystem.TCon); ok && typesystem.Equal(a, b) {
			return a, nil
		}
	case typesystem.TApp:
		b, ok := b.(typesystem.TApp)
		if !ok {
			break
		}
		ctor, err := rel.RelateWithVariance(typesystem.Invariant, a.Constructor, b.Constructor)
		if err != nil {
			return nil, err
		}
		if len(a.Args) != len(b.Args) {
			return nil, mismatch(typesystem.ReasonArgCount)
		}
		ctor = infcx.Resolve(ctor)
		args, err := relateArgs(rel, a.Args, b.Args, func(i int) typesystem.Variance {
			return infcx.VarianceOf(ctor, i)
		})
		if err != nil {
			return nil, err
		}
		return typesystem.TApp{Constructor: ctor, Args: args}, nil
	case typesystem.TFunc:
		b, ok := b.(typesystem.TFunc)
		if !ok {
			break
		}
		if len(a.Params) != len(b.Params) {
			return nil, mismatch(typesystem.ReasonArgCount)
		}
		params, err := relateArgs(rel, a.Params, b.Params, constVariance(typesystem.Contravariant))
		if err != nil {
			return nil, err
		}
		ret, err := rel.RelateWithVariance(typesystem.Covariant, a.ReturnType, b.ReturnType)
		if err != nil {
			return nil, err
		}
		return typesystem.TFunc{Params: params, ReturnType: ret}, nil
	case typesystem.TTuple:
		b, ok := b.(typesystem.TTuple)
		if !ok {
			break
		}
		if len(a.Elements) != len(b.Elements) {
			return nil, mismatch(typesystem.ReasonArgCount)
		}
		elems, err := relateArgs(rel, a.Elements, b.Elements, constVariance(typesystem.Covariant))
		if err != nil {
			return nil, err
		}
		return typesystem.TTuple{Elements: elems}, nil
	case typesystem.TOpaque:
		b, ok := b.(typesystem.TOpaque)
		if !ok {
			break
		}
		if a.Def != b.Def {
			return nil, mismatch(typesystem.ReasonOpaque)
		}
		if len(a.Args) != len(b.Args) {
			return nil, mismatch(typesystem.ReasonArgCount)
		}
		args, err := relateArgs(rel, a.Args, b.Args, constVariance(typesystem.Invariant))
		if err != nil {
			return nil, err
		}
		return typesystem.TOpaque{Def: a.Def, Args: args}, nil
	}
	return nil, mismatch(typesystem.ReasonMismatch)
}

func constVariance(v typesystem.Variance) func(int) typesystem.Variance {
	return func(int) typesystem.Variance { return v }
}

func relateArgs(rel Relation, as, bs []typesystem.Type, variance func(int) typesystem.Variance) ([]typesystem.Type, error) {
	out := make([]typesystem.Type, len(as))
	for i := range as {
		t, err := rel.RelateWithVariance(variance(i), as[i], bs[i])
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
