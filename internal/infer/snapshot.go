package infer

// Journal is state outside the variable table that must be rolled back
// together with it, such as an obligation queue fed by speculative
// relations. Mark returns a position and Truncate discards everything
// recorded after it.
type Journal interface {
	Mark() int
	Truncate(mark int)
}

type journalMark struct {
	j    Journal
	mark int
}

// Snapshot marks a point in the variable table, and in every tracked
// journal, that can be returned to. Snapshots nest and must be closed in
// LIFO order.
type Snapshot struct {
	undoLen  int
	depth    int
	journals []journalMark
}

// Track registers j so that later snapshots roll it back along with the
// table. Tracking the same journal twice is a no-op.
func (c *Context) Track(j Journal) {
	for _, have := range c.journals {
		if have == j {
			return
		}
	}
	c.journals = append(c.journals, j)
}

// StartSnapshot opens a snapshot. Every snapshot must be closed with either
// RollbackTo or Commit.
func (c *Context) StartSnapshot() Snapshot {
	var s Snapshot
	c.borrow(func(t *varTable) {
		t.snapshots++
		s = Snapshot{undoLen: len(t.undo), depth: t.snapshots}
	})
	for _, j := range c.journals {
		s.journals = append(s.journals, journalMark{j: j, mark: j.Mark()})
	}
	return s
}

// RollbackTo undoes every change made since s, including variables created
// and entries added to tracked journals.
func (c *Context) RollbackTo(s Snapshot) {
	c.borrow(func(t *varTable) {
		t.assertTop(s)
		t.rollbackTo(s.undoLen)
		t.snapshots--
	})
	for i := len(s.journals) - 1; i >= 0; i-- {
		s.journals[i].j.Truncate(s.journals[i].mark)
	}
}

// Commit keeps the changes made since s.
func (c *Context) Commit(s Snapshot) {
	c.borrow(func(t *varTable) {
		t.assertTop(s)
		t.snapshots--
		if t.snapshots == 0 {
			t.undo = t.undo[:0]
		}
	})
}

func (t *varTable) assertTop(s Snapshot) {
	if s.depth != t.snapshots {
		panic("infer: snapshots closed out of order")
	}
}

// ProbeFn runs fn and always rolls back its effects on the table and on
// tracked journals. It is used to ask whether a relation would hold without
// committing to it.
func (c *Context) ProbeFn(fn func() error) error {
	s := c.StartSnapshot()
	defer c.RollbackTo(s)
	return fn()
}

// CommitIfOK runs fn and keeps its effects only when it succeeds.
func (c *Context) CommitIfOK(fn func() error) error {
	s := c.StartSnapshot()
	if err := fn(); err != nil {
		c.RollbackTo(s)
		return err
	}
	c.Commit(s)
	return nil
}
