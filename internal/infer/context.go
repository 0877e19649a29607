// Package infer owns the inference variable table. Every access goes
// through a short scoped borrow of the table: a borrow is released before
// the accessor returns, so relations that recurse back into the context
// never hold the table across a call.
package infer

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/funvibe/lattice/internal/typesystem"
)

// ErrAlreadyBorrowed is the panic value raised when the variable table is
// borrowed while a borrow is already live.
var ErrAlreadyBorrowed = errors.New("infer: variable table already borrowed")

// ErrAlreadyBound is returned when instantiating a variable that has a value.
var ErrAlreadyBound = errors.New("infer: variable already bound")

// Options configure a Context. The zero value is usable: nothing is local,
// every constructor is covariant and logging is discarded.
type Options struct {
	// IsLocal reports whether an opaque definition belongs to the
	// compilation unit being checked.
	IsLocal func(typesystem.DefID) bool

	// Variances lists the parameter variances of named constructors.
	Variances map[string][]typesystem.Variance

	// Logger receives debug traces of relation steps.
	Logger logrus.FieldLogger
}

// LocalUnit returns an IsLocal predicate that accepts definitions from unit.
func LocalUnit(unit string) func(typesystem.DefID) bool {
	return func(d typesystem.DefID) bool { return d.Unit == unit }
}

// Context is the single owner of the inference state for one checking
// session. It is not safe for concurrent use.
type Context struct {
	ID uuid.UUID

	isLocal   func(typesystem.DefID) bool
	variances map[string][]typesystem.Variance
	log       logrus.FieldLogger

	table    varTable
	borrowed bool
	journals []Journal
}

// NewContext creates a Context with an empty variable table.
func NewContext(opts Options) *Context {
	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	isLocal := opts.IsLocal
	if isLocal == nil {
		isLocal = func(typesystem.DefID) bool { return false }
	}
	return &Context{
		ID:        id,
		isLocal:   isLocal,
		variances: opts.Variances,
		log:       logger.WithField("session", id.String()),
	}
}

// borrow runs fn with exclusive access to the variable table. fn must not
// call back into any Context accessor.
func (c *Context) borrow(fn func(*varTable)) {
	if c.borrowed {
		panic(ErrAlreadyBorrowed)
	}
	c.borrowed = true
	defer func() { c.borrowed = false }()
	fn(&c.table)
}

// Log returns the session logger.
func (c *Context) Log() logrus.FieldLogger {
	return c.log
}

// IsLocal reports whether def was declared in the current compilation unit.
func (c *Context) IsLocal(def typesystem.DefID) bool {
	return c.isLocal(def)
}

// VarianceOf returns the variance of parameter i of constructor con.
// Undeclared constructors are covariant.
func (c *Context) VarianceOf(con typesystem.Type, i int) typesystem.Variance {
	tc, ok := con.(typesystem.TCon)
	if !ok {
		return typesystem.Invariant
	}
	if vs, ok := c.variances[tc.String()]; ok && i < len(vs) {
		return vs[i]
	}
	return typesystem.Covariant
}

// FreshVar mints a new unbound variable.
func (c *Context) FreshVar(origin VarOrigin) typesystem.TVar {
	var v typesystem.TVar
	c.borrow(func(t *varTable) { v = t.newVar(origin) })
	return v
}

// NumVars returns how many variables have been created.
func (c *Context) NumVars() int {
	var n int
	c.borrow(func(t *varTable) { n = len(t.vars) })
	return n
}

// Origin returns the origin recorded when v was created.
func (c *Context) Origin(v typesystem.TVar) VarOrigin {
	var o VarOrigin
	c.borrow(func(t *varTable) { o = t.vars[v.ID].origin })
	return o
}

// Resolve follows one level of binding: a bound variable becomes its value,
// an unbound variable becomes its representative. Other terms are returned
// as they are.
func (c *Context) Resolve(ty typesystem.Type) typesystem.Type {
	var out typesystem.Type
	c.borrow(func(t *varTable) { out = t.shallowResolve(ty) })
	return out
}

// ResolveDeep substitutes every bound variable in ty, recursively.
func (c *Context) ResolveDeep(ty typesystem.Type) typesystem.Type {
	var out typesystem.Type
	c.borrow(func(t *varTable) { out = t.resolveDeep(ty) })
	return out
}

// Probe returns the value bound to v, or nil if v is unbound.
func (c *Context) Probe(v typesystem.TVar) typesystem.Type {
	var out typesystem.Type
	c.borrow(func(t *varTable) { out = t.probe(v.ID) })
	return out
}

// Instantiate binds the unbound variable v to ty. Binding a variable to a
// term that contains it fails with a cyclic-type relation error.
func (c *Context) Instantiate(v typesystem.TVar, ty typesystem.Type) error {
	var err error
	c.borrow(func(t *varTable) {
		r := t.root(v.ID)
		if t.vars[r].value != nil {
			err = fmt.Errorf("instantiate %s: %w", v, ErrAlreadyBound)
			return
		}
		if w, ok := t.shallowResolve(ty).(typesystem.TVar); ok && t.root(w.ID) == r {
			return
		}
		if t.occurs(r, ty) {
			err = &typesystem.TypeError{
				Reason:   typesystem.ReasonCyclic,
				Expected: typesystem.TVar{ID: r},
				Found:    t.resolveDeep(ty),
			}
			return
		}
		t.setValue(r, ty)
	})
	if err == nil {
		c.log.WithFields(logrus.Fields{"var": v, "value": ty}).Debug("instantiate")
	}
	return err
}

// Union makes a and b the same variable. At most one of them may be bound;
// the merged variable keeps that value, which must not mention the other.
func (c *Context) Union(a, b typesystem.TVar) error {
	var err error
	c.borrow(func(t *varTable) {
		ra, rb := t.root(a.ID), t.root(b.ID)
		va, vb := t.vars[ra].value, t.vars[rb].value
		if ra == rb {
			return
		}
		if va != nil && vb != nil {
			err = fmt.Errorf("union %s and %s: %w", a, b, ErrAlreadyBound)
			return
		}
		// Merging an unbound variable into one whose value mentions it would
		// make that value infinite.
		if va != nil && t.occurs(rb, va) {
			err = &typesystem.TypeError{Reason: typesystem.ReasonCyclic, Expected: typesystem.TVar{ID: rb}, Found: t.resolveDeep(va)}
			return
		}
		if vb != nil && t.occurs(ra, vb) {
			err = &typesystem.TypeError{Reason: typesystem.ReasonCyclic, Expected: typesystem.TVar{ID: ra}, Found: t.resolveDeep(vb)}
			return
		}
		r := t.union(ra, rb)
		if val := firstNonNil(va, vb); val != nil && t.vars[r].value == nil {
			t.setValue(r, val)
		}
	})
	return err
}

func firstNonNil(a, b typesystem.Type) typesystem.Type {
	if a != nil {
		return a
	}
	return b
}
