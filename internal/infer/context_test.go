package infer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/lattice/internal/typesystem"
)

func newTestContext() *Context {
	return NewContext(Options{IsLocal: LocalUnit("app")})
}

func TestFreshVarsAreUnbound(t *testing.T) {
	c := newTestContext()
	origin := VarOrigin{Kind: LatticeVariable, Span: Span{File: "a.fx", Line: 2, Col: 3}}
	v := c.FreshVar(origin)
	w := c.FreshVar(VarOrigin{})

	require.NotEqual(t, v.ID, w.ID)
	require.Equal(t, 2, c.NumVars())
	require.Nil(t, c.Probe(v))
	require.Equal(t, origin, c.Origin(v))
	require.Equal(t, v, c.Resolve(v))
}

func TestResolveFollowsOneBinding(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	y := c.FreshVar(VarOrigin{})
	listY := typesystem.TApp{Constructor: typesystem.TCon{Name: "List"}, Args: []typesystem.Type{y}}

	require.NoError(t, c.Instantiate(x, listY))
	require.NoError(t, c.Instantiate(y, typesystem.Int))

	// Shallow: the value of x is returned as stored.
	require.True(t, typesystem.Equal(listY, c.Resolve(x)))
	// Deep: nested bindings are substituted.
	want := typesystem.TApp{Constructor: typesystem.TCon{Name: "List"}, Args: []typesystem.Type{typesystem.Int}}
	require.True(t, typesystem.Equal(want, c.ResolveDeep(x)))
	// Terms other than variables are unchanged.
	require.True(t, typesystem.Equal(typesystem.Bool, c.Resolve(typesystem.Bool)))
}

func TestInstantiate(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Instantiate(x, typesystem.Int))

	err := c.Instantiate(x, typesystem.Bool)
	require.True(t, errors.Is(err, ErrAlreadyBound), "got %v", err)

	// Binding a variable to itself is a no-op.
	y := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Instantiate(y, y))
	require.Nil(t, c.Probe(y))
}

func TestInstantiateOccursCheck(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	y := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Instantiate(y, typesystem.TTuple{Elements: []typesystem.Type{x}}))

	// x := List<y> where y := (x) would be infinite.
	err := c.Instantiate(x, typesystem.TApp{Constructor: typesystem.TCon{Name: "List"}, Args: []typesystem.Type{y}})
	var te *typesystem.TypeError
	require.True(t, errors.As(err, &te), "got %v", err)
	require.Equal(t, typesystem.ReasonCyclic, te.Reason)
	require.Nil(t, c.Probe(x))
}

func TestUnion(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	y := c.FreshVar(VarOrigin{})
	z := c.FreshVar(VarOrigin{})

	require.NoError(t, c.Union(x, y))
	require.Equal(t, c.Resolve(x), c.Resolve(y))

	require.NoError(t, c.Instantiate(z, typesystem.String))
	require.NoError(t, c.Union(y, z))
	require.True(t, typesystem.Equal(typesystem.String, c.Resolve(x)), "union keeps the bound value")

	w := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Instantiate(w, typesystem.Int))
	require.True(t, errors.Is(c.Union(x, w), ErrAlreadyBound))
}

func TestNestedBorrowPanics(t *testing.T) {
	c := newTestContext()
	require.PanicsWithValue(t, ErrAlreadyBorrowed, func() {
		c.borrow(func(*varTable) {
			c.Resolve(typesystem.Int)
		})
	})
	// The failed borrow is released; the context stays usable.
	require.NotPanics(t, func() { c.FreshVar(VarOrigin{}) })
}

func TestSnapshotRollback(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	y := c.FreshVar(VarOrigin{})

	s := c.StartSnapshot()
	z := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Union(x, y))
	require.NoError(t, c.Instantiate(x, typesystem.TTuple{Elements: []typesystem.Type{z}}))
	require.Equal(t, 3, c.NumVars())
	c.RollbackTo(s)

	require.Equal(t, 2, c.NumVars())
	require.Nil(t, c.Probe(x))
	require.NotEqual(t, c.Resolve(x), c.Resolve(y))
}

func TestSnapshotCommitNested(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})

	outer := c.StartSnapshot()
	inner := c.StartSnapshot()
	require.NoError(t, c.Instantiate(x, typesystem.Int))
	c.Commit(inner)
	require.NotNil(t, c.Probe(x))
	c.RollbackTo(outer)
	require.Nil(t, c.Probe(x), "rolling back the outer snapshot undoes committed inner work")

	require.Panics(t, func() {
		a := c.StartSnapshot()
		c.StartSnapshot()
		c.Commit(a)
	})
}

func TestProbeAndCommitIfOK(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})

	require.NoError(t, c.ProbeFn(func() error {
		return c.Instantiate(x, typesystem.Int)
	}))
	require.Nil(t, c.Probe(x), "ProbeFn never keeps bindings")

	boom := errors.New("boom")
	err := c.CommitIfOK(func() error {
		require.NoError(t, c.Instantiate(x, typesystem.Int))
		return boom
	})
	require.Equal(t, boom, err)
	require.Nil(t, c.Probe(x))

	require.NoError(t, c.CommitIfOK(func() error {
		return c.Instantiate(x, typesystem.Bool)
	}))
	require.True(t, typesystem.Equal(typesystem.Bool, c.Probe(x)))
}

func TestPolicies(t *testing.T) {
	c := NewContext(Options{
		IsLocal:   LocalUnit("app"),
		Variances: map[string][]typesystem.Variance{"Cell": {typesystem.Invariant}},
	})
	require.True(t, c.IsLocal(typesystem.DefID{Unit: "app", Name: "Iter"}))
	require.False(t, c.IsLocal(typesystem.DefID{Unit: "std", Name: "Iter"}))

	require.Equal(t, typesystem.Invariant, c.VarianceOf(typesystem.TCon{Name: "Cell"}, 0))
	require.Equal(t, typesystem.Covariant, c.VarianceOf(typesystem.TCon{Name: "Cell"}, 1))
	require.Equal(t, typesystem.Covariant, c.VarianceOf(typesystem.TCon{Name: "List"}, 0))
	require.Equal(t, typesystem.Invariant, c.VarianceOf(typesystem.TVar{}, 0))

	require.False(t, NewContext(Options{}).IsLocal(typesystem.DefID{Unit: "app"}))
}

func TestUnionOccursCheck(t *testing.T) {
	c := newTestContext()
	x := c.FreshVar(VarOrigin{})
	y := c.FreshVar(VarOrigin{})
	require.NoError(t, c.Instantiate(x, typesystem.TApp{Constructor: typesystem.TCon{Name: "List"}, Args: []typesystem.Type{y}}))

	for _, pair := range [][2]typesystem.TVar{{x, y}, {y, x}} {
		err := c.Union(pair[0], pair[1])
		var te *typesystem.TypeError
		require.True(t, errors.As(err, &te), "got %v", err)
		require.Equal(t, typesystem.ReasonCyclic, te.Reason)
	}
	require.Nil(t, c.Probe(y))
	require.NotEqual(t, c.Resolve(x), c.Resolve(y))
	require.NoError(t, c.Union(x, x))
}

// journal records integers and supports truncation.
type journal struct {
	entries []int
}

func (j *journal) Mark() int         { return len(j.entries) }
func (j *journal) Truncate(mark int) { j.entries = j.entries[:mark] }

func TestSnapshotTruncatesJournals(t *testing.T) {
	c := newTestContext()
	j := &journal{entries: []int{1}}
	c.Track(j)
	c.Track(j)

	err := c.CommitIfOK(func() error {
		j.entries = append(j.entries, 2, 3)
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Equal(t, []int{1}, j.entries)

	require.NoError(t, c.ProbeFn(func() error {
		j.entries = append(j.entries, 4)
		return nil
	}))
	require.Equal(t, []int{1}, j.entries)

	require.NoError(t, c.CommitIfOK(func() error {
		j.entries = append(j.entries, 5)
		return nil
	}))
	require.Equal(t, []int{1, 5}, j.entries)
}
