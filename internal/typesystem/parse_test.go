package typesystem

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	vars := map[string]Type{}
	next := VarID(0)
	lookup := func(name string) Type {
		if v, ok := vars[name]; ok {
			return v
		}
		v := TVar{ID: next}
		next++
		vars[name] = v
		return v
	}

	list := TCon{Name: "List"}
	tests := []struct {
		src  string
		want Type
	}{
		{"Int", Int},
		{"std.collections.Map", TCon{Name: "Map", Module: "std.collections"}},
		{"List<Int>", TApp{Constructor: list, Args: []Type{Int}}},
		{"List<List<Bool>>", TApp{Constructor: list, Args: []Type{TApp{Constructor: list, Args: []Type{Bool}}}}},
		{"?a", TVar{ID: 0}},
		{"(?a, ?b, ?a)", TTuple{Elements: []Type{TVar{ID: 0}, TVar{ID: 1}, TVar{ID: 0}}}},
		{"?7", TVar{ID: 2}},
		{"()", Unit},
		{"fn() -> ()", TFunc{Params: []Type{}, ReturnType: Unit}},
		{"fn(Int, String) -> fn(Bool) -> Int", TFunc{
			Params:     []Type{Int, String},
			ReturnType: TFunc{Params: []Type{Bool}, ReturnType: Int},
		}},
		{"opaque app::Iter<Int>", TOpaque{Def: DefID{Unit: "app", Name: "Iter"}, Args: []Type{Int}}},
		{"opaque app::Handle", TOpaque{Def: DefID{Unit: "app", Name: "Handle"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := Parse(tt.src, lookup)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.src, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"", "unexpected end of input"},
		{"List<Int", "expected \">\""},
		{"fn(Int) Bool", "expected \"-\""},
		{"Int Bool", "after type"},
		{"opaque Iter", "expected \":\""},
		{"(Int,", "unexpected end of input"},
		{"?", "expected identifier"},
		{"List<>", "empty type argument list"},
		{"opaque app::Iter<>", "empty type argument list"},
		{"1", "unexpected \"1\""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Parse(tt.src, func(string) Type { return TVar{} })
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.src)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %v, want it to mention %q", tt.src, err, tt.want)
			}
		})
	}
}

func TestParseWithoutVariables(t *testing.T) {
	if _, err := Parse("List<?x>", nil); err == nil {
		t.Errorf("variables must be rejected when no lookup is given")
	}
}
