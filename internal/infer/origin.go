package infer

import "fmt"

// Span is a source location attached to variables and obligations purely
// for diagnostics.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" && s.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// OriginKind records why an inference variable was created.
type OriginKind int

const (
	MiscVariable        OriginKind = iota // Created by a caller with no better reason
	TypeInference                         // Placeholder for an unannotated expression
	LatticeVariable                       // Pivot for a join or meet
	OpaqueTypeInference                   // Hidden type of an opaque reference
)

func (k OriginKind) String() string {
	switch k {
	case MiscVariable:
		return "misc"
	case TypeInference:
		return "type inference"
	case LatticeVariable:
		return "lattice variable"
	case OpaqueTypeInference:
		return "opaque type inference"
	default:
		return "unknown"
	}
}

// VarOrigin tags an inference variable with where and why it was created.
type VarOrigin struct {
	Kind OriginKind
	Span Span
}
