package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/lattice/internal/config"
)

// Type is the interface for all type terms handled by the inference engine.
type Type interface {
	String() string
	FreeTypeVariables() []TVar
}

// VarID identifies an inference variable inside the variable table that
// minted it. IDs are dense and start at zero.
type VarID uint32

// TVar represents an inference variable (e.g. ?0, ?1).
type TVar struct {
	ID VarID
}

func (t TVar) String() string {
	// Variable numbering depends on allocation order, which makes golden
	// output brittle; tests normalise it.
	if config.IsTestMode {
		return "?_"
	}
	return fmt.Sprintf("?%d", t.ID)
}

func (t TVar) FreeTypeVariables() []TVar {
	return []TVar{t}
}

// TCon represents a nominal type constant or constructor (e.g. Int, List).
type TCon struct {
	Name   string
	Module string // Optional module path for imported types
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) FreeTypeVariables() []TVar {
	return []TVar{}
}

// TApp represents a type application (e.g. List<Int>).
type TApp struct {
	Constructor Type
	Args        []Type
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	return fmt.Sprintf("%s<%s>", t.Constructor.String(), joinTypes(t.Args))
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := append([]TVar{}, t.Constructor.FreeTypeVariables()...)
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TFunc represents a function type. Parameters are contravariant and the
// return type is covariant.
type TFunc struct {
	Params     []Type
	ReturnType Type
}

func (t TFunc) String() string {
	return fmt.Sprintf("fn(%s) -> %s", joinTypes(t.Params), t.ReturnType.String())
}

func (t TFunc) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TTuple represents a tuple type (e.g. (Int, Bool)). The empty tuple is unit.
type TTuple struct {
	Elements []Type
}

func (t TTuple) String() string {
	return fmt.Sprintf("(%s)", joinTypes(t.Elements))
}

func (t TTuple) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, el := range t.Elements {
		vars = append(vars, el.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// DefID identifies the declaration site of an opaque type.
type DefID struct {
	Unit string // Compilation unit that declared the opaque type
	Name string
}

func (d DefID) String() string {
	return d.Unit + "::" + d.Name
}

// TOpaque is an existential type reference: callers see only the declared
// interface while the hidden type is inferred from the defining scope.
type TOpaque struct {
	Def  DefID
	Args []Type
}

func (t TOpaque) String() string {
	if len(t.Args) == 0 {
		return "opaque " + t.Def.String()
	}
	return fmt.Sprintf("opaque %s<%s>", t.Def, joinTypes(t.Args))
}

func (t TOpaque) FreeTypeVariables() []TVar {
	vars := []TVar{}
	for _, arg := range t.Args {
		vars = append(vars, arg.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// Common type constants.
var (
	Int    = TCon{Name: "Int"}
	Bool   = TCon{Name: "Bool"}
	String = TCon{Name: "String"}
	Unit   = TTuple{Elements: []Type{}}
)

// Equal reports whether a and b are structurally equal. Variables compare
// by ID; no bindings are followed.
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case TVar:
		b, ok := b.(TVar)
		return ok && a.ID == b.ID
	case TCon:
		b, ok := b.(TCon)
		return ok && a.Name == b.Name && a.Module == b.Module
	case TApp:
		b, ok := b.(TApp)
		return ok && Equal(a.Constructor, b.Constructor) && equalAll(a.Args, b.Args)
	case TFunc:
		b, ok := b.(TFunc)
		return ok && equalAll(a.Params, b.Params) && Equal(a.ReturnType, b.ReturnType)
	case TTuple:
		b, ok := b.(TTuple)
		return ok && equalAll(a.Elements, b.Elements)
	case TOpaque:
		b, ok := b.(TOpaque)
		return ok && a.Def == b.Def && equalAll(a.Args, b.Args)
	case nil:
		return b == nil
	default:
		return false
	}
}

func equalAll(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// IsVar reports whether t is an inference variable.
func IsVar(t Type) bool {
	_, ok := t.(TVar)
	return ok
}

// OccursIn returns true if tv appears free in t.
func OccursIn(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.ID == tv.ID {
			return true
		}
	}
	return false
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func uniqueTVars(vars []TVar) []TVar {
	seen := make(map[VarID]bool, len(vars))
	out := vars[:0]
	for _, v := range vars {
		if !seen[v.ID] {
			seen[v.ID] = true
			out = append(out, v)
		}
	}
	return out
}
