package statquery

import (
	"fmt"
	"strconv"
)

// Node is a unit of a query expression tree. Eval computes the node's value
// for one dump, String returns the stable textual form used for labeling
// output columns, and Reset restores any internal state to its
// just-constructed value.
//
// Nodes are single-owner structures: a node carrying evaluation state must
// not be shared between two trees or evaluated against two streams, since
// the state would be incorrectly shared. Build one tree per stream.
type Node interface {
	Eval(dump Dump) (float64, error)
	String() string
	Reset()
}

// Box wraps common Go values so they can be used as operands in a query
// expression. Nodes pass through unchanged, strings become named field
// lookups, and numbers become constants.
//
// This enables expressions on the form: Div("host_seconds", 60).
func Box(v any) (Node, error) {
	switch x := v.(type) {
	case Node:
		return x, nil
	case string:
		return NewLogValue(x), nil
	case float64:
		return NewConstant(x), nil
	case int:
		return NewConstant(float64(x)), nil
	case int64:
		return NewConstant(float64(x)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrBadOperand, v)
	}
}

// Constant always evaluates to the same value.
type Constant struct {
	value float64
}

func NewConstant(value float64) *Constant {
	return &Constant{value: value}
}

func (c *Constant) Eval(Dump) (float64, error) { return c.value, nil }
func (c *Constant) String() string             { return formatNumber(c.value) }
func (c *Constant) Reset()                     {}

// LogValue looks up a named field in a statistics dump. Without a default,
// Eval fails with ErrFieldNotFound when the field is absent.
type LogValue struct {
	attr string
	def  *float64
}

func NewLogValue(attr string) *LogValue {
	return &LogValue{attr: attr}
}

// NewLogValueDefault returns a LogValue that yields def instead of failing
// when the field is absent.
func NewLogValueDefault(attr string, def float64) *LogValue {
	return &LogValue{attr: attr, def: &def}
}

func (lv *LogValue) Eval(dump Dump) (float64, error) {
	v, ok := dump.Lookup(lv.attr)
	if !ok {
		if lv.def != nil {
			return *lv.def, nil
		}
		return 0, fmt.Errorf("%q: %w", lv.attr, ErrFieldNotFound)
	}
	return v, nil
}

func (lv *LogValue) String() string {
	if lv.def != nil {
		return fmt.Sprintf("LV(%q, default=%s)", lv.attr, formatNumber(*lv.def))
	}
	return fmt.Sprintf("LV(%q)", lv.attr)
}

func (lv *LogValue) Reset() {}

// Operator identifies one of the four binary arithmetic operators.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// BinOp combines two child nodes with an arithmetic operator. Division by
// zero is not caught here; it propagates to the caller.
type BinOp struct {
	op  Operator
	lhs Node
	rhs Node
}

// NewBinOp boxes both operands and combines them with op.
func NewBinOp(op Operator, lhs, rhs any) (*BinOp, error) {
	l, err := Box(lhs)
	if err != nil {
		return nil, err
	}
	r, err := Box(rhs)
	if err != nil {
		return nil, err
	}
	return &BinOp{op: op, lhs: l, rhs: r}, nil
}

// Add returns a node computing lhs + rhs. Operands follow Box rules.
func Add(lhs, rhs any) (Node, error) { return NewBinOp(OpAdd, lhs, rhs) }

// Sub returns a node computing lhs - rhs. Operands follow Box rules.
func Sub(lhs, rhs any) (Node, error) { return NewBinOp(OpSub, lhs, rhs) }

// Mul returns a node computing lhs * rhs. Operands follow Box rules.
func Mul(lhs, rhs any) (Node, error) { return NewBinOp(OpMul, lhs, rhs) }

// Div returns a node computing lhs / rhs. Operands follow Box rules.
func Div(lhs, rhs any) (Node, error) { return NewBinOp(OpDiv, lhs, rhs) }

func (b *BinOp) Eval(dump Dump) (float64, error) {
	l, err := b.lhs.Eval(dump)
	if err != nil {
		return 0, err
	}
	r, err := b.rhs.Eval(dump)
	if err != nil {
		return 0, err
	}

	switch b.op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return 0, fmt.Errorf("%s: %w", b.String(), ErrDivisionByZero)
		}
		return l / r, nil
	default:
		return 0, fmt.Errorf("unknown operator %d", b.op)
	}
}

func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.lhs, b.op, b.rhs)
}

func (b *BinOp) Reset() {
	b.lhs.Reset()
	b.rhs.Reset()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
