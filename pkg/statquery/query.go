package statquery

// Query evaluates a fixed, ordered set of compiled expressions against
// successive statistics dumps. It is the library-level core of a report
// loop: compile once, then call Step for every dump the stream yields.
//
// A Query owns its node trees. Evaluating the same Query against two
// streams concurrently would share the trees' internal state; build one
// Query per stream instead.
type Query struct {
	nodes []Node
}

// NewQuery returns a query over already-constructed node trees.
func NewQuery(nodes ...Node) *Query {
	return &Query{nodes: nodes}
}

// Compile builds each expression with the default registry (plus extra) and
// returns the resulting query. The first build failure aborts the whole
// compilation.
func Compile(exprs []string, extra Registry) (*Query, error) {
	nodes := make([]Node, len(exprs))
	for i, expr := range exprs {
		node, err := Build(expr, extra)
		if err != nil {
			return nil, err
		}
		nodes[i] = node
	}
	return NewQuery(nodes...), nil
}

// Headers returns the textual form of every expression, in order. These are
// stable and suitable for labeling output columns.
func (q *Query) Headers() []string {
	out := make([]string, len(q.nodes))
	for i, n := range q.nodes {
		out[i] = n.String()
	}
	return out
}

// Step evaluates every expression against one dump, in order. The first
// failure aborts the step; the caller decides whether to abort or skip the
// record.
func (q *Query) Step(dump Dump) ([]float64, error) {
	out := make([]float64, len(q.nodes))
	for i, n := range q.nodes {
		v, err := n.Eval(dump)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Reset restores every expression tree to its just-constructed state.
func (q *Query) Reset() {
	for _, n := range q.nodes {
		n.Reset()
	}
}
