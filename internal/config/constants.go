package config

// SuiteFileName is the default name of a lattice suite file.
const SuiteFileName = "lattice.yaml"

// SuiteFileNames are all recognized suite file names, in lookup order.
var SuiteFileNames = []string{"lattice.yaml", "lattice.yml"}

// IsTestMode indicates if the program is running in test mode.
// Variables print without their numeric IDs so output is deterministic.
var IsTestMode = false

// Relation tags, used in trace output and diagnostics.
const (
	TagLub    = "Lub"
	TagGlb    = "Glb"
	TagSub    = "Sub"
	TagEquate = "Equate"
)

// Direction names accepted in suite files.
const (
	DirectionJoin = "join"
	DirectionMeet = "meet"
)

// DefaultUnit is the compilation unit assumed when a suite names none.
const DefaultUnit = "main"

// Variance names accepted in suite files, long form and shorthand.
const (
	VarianceCovariant     = "covariant"
	VarianceInvariant     = "invariant"
	VarianceContravariant = "contravariant"
	VarianceBivariant     = "bivariant"

	VarianceCovariantShort     = "+"
	VarianceInvariantShort     = "="
	VarianceContravariantShort = "-"
	VarianceBivariantShort     = "*"
)

// IsVarianceName reports whether s names a variance.
func IsVarianceName(s string) bool {
	switch s {
	case VarianceCovariant, VarianceInvariant, VarianceContravariant, VarianceBivariant,
		VarianceCovariantShort, VarianceInvariantShort, VarianceContravariantShort, VarianceBivariantShort:
		return true
	}
	return false
}
