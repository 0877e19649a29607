package typesystem

import (
	"fmt"

	"github.com/funvibe/lattice/internal/config"
)

// Variance describes how a type parameter position relates to subtyping.
type Variance int

const (
	Covariant     Variance = iota // T <: U implies C<T> <: C<U>
	Invariant                     // C<T> <: C<U> only when T == U
	Contravariant                 // T <: U implies C<U> <: C<T>
	Bivariant                     // Position is unconstrained
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return config.VarianceCovariant
	case Invariant:
		return config.VarianceInvariant
	case Contravariant:
		return config.VarianceContravariant
	case Bivariant:
		return config.VarianceBivariant
	default:
		return "unknown"
	}
}

// ParseVariance accepts the long names plus the usual shorthand (+, =, -, *).
func ParseVariance(s string) (Variance, error) {
	switch s {
	case config.VarianceCovariant, config.VarianceCovariantShort:
		return Covariant, nil
	case config.VarianceInvariant, config.VarianceInvariantShort:
		return Invariant, nil
	case config.VarianceContravariant, config.VarianceContravariantShort:
		return Contravariant, nil
	case config.VarianceBivariant, config.VarianceBivariantShort:
		return Bivariant, nil
	}
	return 0, fmt.Errorf("unknown variance %q", s)
}
