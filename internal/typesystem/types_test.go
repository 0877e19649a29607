package typesystem

import (
	"testing"

	"github.com/funvibe/lattice/internal/config"
)

func TestEqual(t *testing.T) {
	x := TVar{ID: 0}
	y := TVar{ID: 1}
	list := TCon{Name: "List"}
	iter := DefID{Unit: "app", Name: "Iter"}

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same constant", Int, TCon{Name: "Int"}, true},
		{"different constants", Int, Bool, false},
		{"module matters", TCon{Name: "Int", Module: "big"}, Int, false},
		{"same variable", x, TVar{ID: 0}, true},
		{"different variables", x, y, false},
		{"variable vs constant", x, Int, false},
		{"applications", TApp{Constructor: list, Args: []Type{Int}}, TApp{Constructor: list, Args: []Type{Int}}, true},
		{"application args differ", TApp{Constructor: list, Args: []Type{Int}}, TApp{Constructor: list, Args: []Type{x}}, false},
		{"functions", TFunc{Params: []Type{Int}, ReturnType: Bool}, TFunc{Params: []Type{Int}, ReturnType: Bool}, true},
		{"function arity", TFunc{Params: []Type{Int}, ReturnType: Bool}, TFunc{Params: []Type{}, ReturnType: Bool}, false},
		{"tuples", TTuple{Elements: []Type{Int, x}}, TTuple{Elements: []Type{Int, x}}, true},
		{"unit", Unit, TTuple{}, true},
		{"tuple vs function", TTuple{Elements: []Type{Int}}, TFunc{Params: []Type{}, ReturnType: Int}, false},
		{"opaque", TOpaque{Def: iter, Args: []Type{Int}}, TOpaque{Def: iter, Args: []Type{Int}}, true},
		{"opaque definition differs", TOpaque{Def: iter}, TOpaque{Def: DefID{Unit: "std", Name: "Iter"}}, false},
		{"opaque args differ", TOpaque{Def: iter, Args: []Type{Int}}, TOpaque{Def: iter, Args: []Type{Bool}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	x := TVar{ID: 7}
	tests := []struct {
		typ  Type
		want string
	}{
		{x, "?7"},
		{TCon{Name: "Map", Module: "std"}, "std.Map"},
		{TApp{Constructor: TCon{Name: "List"}, Args: []Type{Int}}, "List<Int>"},
		{TFunc{Params: []Type{Int, x}, ReturnType: Bool}, "fn(Int, ?7) -> Bool"},
		{TTuple{Elements: []Type{Int, Bool}}, "(Int, Bool)"},
		{Unit, "()"},
		{TOpaque{Def: DefID{Unit: "app", Name: "Iter"}, Args: []Type{Int}}, "opaque app::Iter<Int>"},
		{TOpaque{Def: DefID{Unit: "app", Name: "Handle"}}, "opaque app::Handle"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStringTestMode(t *testing.T) {
	config.IsTestMode = true
	defer func() { config.IsTestMode = false }()

	f := TFunc{Params: []Type{TVar{ID: 3}}, ReturnType: TVar{ID: 12}}
	if got := f.String(); got != "fn(?_) -> ?_" {
		t.Errorf("String() = %q, want variables normalised", got)
	}
}

func TestFreeTypeVariables(t *testing.T) {
	x, y := TVar{ID: 1}, TVar{ID: 2}
	typ := TFunc{
		Params:     []Type{x, TApp{Constructor: TCon{Name: "List"}, Args: []Type{y}}},
		ReturnType: TTuple{Elements: []Type{x, TOpaque{Def: DefID{Unit: "app", Name: "O"}, Args: []Type{y}}}},
	}
	vars := typ.FreeTypeVariables()
	if len(vars) != 2 || vars[0] != x || vars[1] != y {
		t.Errorf("FreeTypeVariables() = %v, want [?1 ?2]", vars)
	}
	if !OccursIn(y, typ) {
		t.Errorf("OccursIn(?2) = false, want true")
	}
	if OccursIn(TVar{ID: 3}, typ) {
		t.Errorf("OccursIn(?3) = true, want false")
	}
}

func TestReplaceVars(t *testing.T) {
	x := TVar{ID: 0}
	typ := TFunc{Params: []Type{x}, ReturnType: TOpaque{Def: DefID{Unit: "app", Name: "O"}, Args: []Type{x}}}
	got := ReplaceVars(typ, func(v TVar) Type { return Int })
	want := TFunc{Params: []Type{Int}, ReturnType: TOpaque{Def: DefID{Unit: "app", Name: "O"}, Args: []Type{Int}}}
	if !Equal(got, want) {
		t.Errorf("ReplaceVars() = %s, want %s", got, want)
	}
}

func TestParseVariance(t *testing.T) {
	if v, err := ParseVariance("-"); err != nil || v != Contravariant {
		t.Errorf("ParseVariance(-) = %v, %v", v, err)
	}
	if _, err := ParseVariance("sideways"); err == nil {
		t.Errorf("ParseVariance(sideways) should fail")
	}
}

func TestTypeErrorOrientation(t *testing.T) {
	err := NewTypeError(ReasonMismatch, Int, Bool, false)
	if !Equal(err.Expected, Bool) || !Equal(err.Found, Int) {
		t.Errorf("expected roles swapped, got %v", err)
	}
	if got := err.Error(); got != "type mismatch: expected Bool, found Int" {
		t.Errorf("Error() = %q", got)
	}
}
