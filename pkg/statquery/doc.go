// Package statquery evaluates arithmetic query expressions against streams
// of statistics dumps, producing derived time series from simulator
// instrumentation output.
//
// # Overview
//
// A query is a tree of value nodes. Leaf nodes read a named counter from
// the current dump (LogValue), return a constant (Constant), or derive a
// two-field ratio such as instructions per cycle (IPC/CPI). Binary operator
// nodes combine two children with + - * /. Stateful function nodes carry
// history across successive evaluations: running accumulators and means,
// and sliding-window variants bounded to the most recent values.
//
// # Quick Start
//
// Build a query expression and evaluate it against each dump in a stream:
//
//	node, err := statquery.Build(`SlidingAMean(IPC("system.cpu"), length=100)`, nil)
//	if err != nil {
//		// handle build error
//	}
//	for _, dump := range dumps {
//		v, err := node.Eval(dump)
//		...
//	}
//
// Trees can also be composed programmatically:
//
//	hostPerSim, _ := statquery.Div("host_seconds", "sim_seconds")
//
// Strings become field lookups and numbers become constants wherever an
// operand is expected.
//
// # Expression language
//
// Expressions use infix + - * / with the usual precedence, parentheses,
// numeric and quoted string literals, and Name(arg, ..., key=value) calls.
// Names resolve only against a fixed registry of node constructors (see
// DefaultRegistry) plus any caller-supplied extras; nothing else is
// reachable from expression text.
//
// # Statefulness
//
// Function nodes are cumulative, not memoryless: the value of
// Accumulate(LV("x")) depends on every dump evaluated so far. Reset
// restores a tree to its just-constructed state. A node tree belongs to one
// stream; build a fresh tree per stream rather than sharing.
//
// The stream package groups a forward-only dump sequence into fixed-size
// batches with optional skipping, count ceilings, and trailing trims.
package statquery
