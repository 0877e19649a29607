package traits

// Queue is a FIFO Sink that buffers obligations until the solver drains it.
type Queue struct {
	pending []Obligation
	pushed  int
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(obligations []Obligation) {
	q.pending = append(q.pending, obligations...)
	q.pushed += len(obligations)
}

// Len returns the number of obligations waiting to be drained.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Pushed returns the total number of obligations pushed, less any
// discarded by Truncate.
func (q *Queue) Pushed() int {
	return q.pushed
}

// Pending returns a copy of the waiting obligations without draining them.
func (q *Queue) Pending() []Obligation {
	return append([]Obligation(nil), q.pending...)
}

// Drain removes and returns every waiting obligation.
func (q *Queue) Drain() []Obligation {
	out := q.pending
	q.pending = nil
	return out
}

// Mark returns the number of obligations pushed so far.
func (q *Queue) Mark() int {
	return q.pushed
}

// Truncate forgets the obligations pushed after mark. Obligations already
// drained are not recalled.
func (q *Queue) Truncate(mark int) {
	if mark >= q.pushed {
		return
	}
	n := q.pushed - mark
	if n > len(q.pending) {
		n = len(q.pending)
	}
	q.pending = q.pending[:len(q.pending)-n]
	q.pushed = mark
}
