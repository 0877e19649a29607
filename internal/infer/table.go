package infer

import (
	"github.com/funvibe/lattice/internal/typesystem"
)

// varEntry is one slot of the union-find forest. Only roots carry values.
type varEntry struct {
	parent typesystem.VarID
	rank   int
	value  typesystem.Type // nil while unbound
	origin VarOrigin
}

type undoKind int

const (
	undoNewVar undoKind = iota
	undoSetParent
	undoSetRank
	undoSetValue
)

type undoEntry struct {
	kind   undoKind
	id     typesystem.VarID
	parent typesystem.VarID
	rank   int
	value  typesystem.Type
}

// varTable stores variable bindings. It is only reachable through
// Context.borrow, never directly.
type varTable struct {
	vars      []varEntry
	undo      []undoEntry
	snapshots int
}

func (t *varTable) record(e undoEntry) {
	if t.snapshots > 0 {
		t.undo = append(t.undo, e)
	}
}

func (t *varTable) newVar(origin VarOrigin) typesystem.TVar {
	id := typesystem.VarID(len(t.vars))
	t.vars = append(t.vars, varEntry{parent: id, origin: origin})
	t.record(undoEntry{kind: undoNewVar, id: id})
	return typesystem.TVar{ID: id}
}

// root walks parent links. Paths are not compressed so that the undo log
// stays small; union by rank keeps them logarithmic.
func (t *varTable) root(id typesystem.VarID) typesystem.VarID {
	for t.vars[id].parent != id {
		id = t.vars[id].parent
	}
	return id
}

func (t *varTable) probe(id typesystem.VarID) typesystem.Type {
	return t.vars[t.root(id)].value
}

// shallowResolve replaces a bound variable by its value, and an unbound
// variable by its root. Any other term is returned unchanged.
func (t *varTable) shallowResolve(ty typesystem.Type) typesystem.Type {
	v, ok := ty.(typesystem.TVar)
	if !ok {
		return ty
	}
	r := t.root(v.ID)
	if val := t.vars[r].value; val != nil {
		return val
	}
	return typesystem.TVar{ID: r}
}

func (t *varTable) resolveDeep(ty typesystem.Type) typesystem.Type {
	return typesystem.ReplaceVars(ty, func(v typesystem.TVar) typesystem.Type {
		r := t.root(v.ID)
		if val := t.vars[r].value; val != nil {
			return t.resolveDeep(val)
		}
		return typesystem.TVar{ID: r}
	})
}

// occurs reports whether root r appears in ty once bindings are followed.
func (t *varTable) occurs(r typesystem.VarID, ty typesystem.Type) bool {
	for _, v := range ty.FreeTypeVariables() {
		vr := t.root(v.ID)
		if vr == r {
			return true
		}
		if val := t.vars[vr].value; val != nil && t.occurs(r, val) {
			return true
		}
	}
	return false
}

func (t *varTable) setValue(r typesystem.VarID, val typesystem.Type) {
	t.record(undoEntry{kind: undoSetValue, id: r, value: t.vars[r].value})
	t.vars[r].value = val
}

// union merges two unbound roots.
func (t *varTable) union(a, b typesystem.VarID) typesystem.VarID {
	ra, rb := t.root(a), t.root(b)
	if ra == rb {
		return ra
	}
	if t.vars[ra].rank < t.vars[rb].rank {
		ra, rb = rb, ra
	}
	t.record(undoEntry{kind: undoSetParent, id: rb, parent: t.vars[rb].parent})
	t.vars[rb].parent = ra
	if t.vars[ra].rank == t.vars[rb].rank {
		t.record(undoEntry{kind: undoSetRank, id: ra, rank: t.vars[ra].rank})
		t.vars[ra].rank++
	}
	return ra
}

func (t *varTable) rollbackTo(n int) {
	for len(t.undo) > n {
		e := t.undo[len(t.undo)-1]
		t.undo = t.undo[:len(t.undo)-1]
		switch e.kind {
		case undoNewVar:
			t.vars = t.vars[:e.id]
		case undoSetParent:
			t.vars[e.id].parent = e.parent
		case undoSetRank:
			t.vars[e.id].rank = e.rank
		case undoSetValue:
			t.vars[e.id].value = e.value
		}
	}
}
