package statquery

import (
	"fmt"

	"github.com/chosenoffset/statquery/pkg/statquery/parser"
)

// Builder translates expression text into value node trees. Identifiers are
// resolved only against the builder's registry (plus any extra names given
// per call); no other name is reachable from expression text, which keeps
// queries from touching anything outside the engine.
type Builder struct {
	registry Registry
}

// NewBuilder returns a builder resolving names against the given registry.
func NewBuilder(registry Registry) *Builder {
	return &Builder{registry: registry}
}

// Build translates expr into a value node tree using the default registry.
// See Builder.Build.
func Build(expr string, extra Registry) (Node, error) {
	return NewBuilder(DefaultRegistry()).Build(expr, extra)
}

// Build translates expr into a value node tree. The extra registry, if
// non-nil, is overlaid on the builder's registry for this call and shadows
// it. Any failure - lexical, syntactic, unknown name, bad arguments - is
// reported as a *BuildError before any evaluation happens.
func (b *Builder) Build(expr string, extra Registry) (Node, error) {
	l := parser.NewLexer(expr)
	p := parser.New(l)
	ast := p.ParseQuery()

	if msgs := p.Errors(); len(msgs) > 0 {
		return nil, newBuildError(expr, msgs...)
	}

	registry := b.registry
	if len(extra) > 0 {
		registry = b.registry.Clone(extra)
	}

	c := &compiler{registry: registry}
	arg, err := c.compile(ast)
	if err != nil {
		return nil, newBuildError(expr, err.Error())
	}

	node, err := arg.Node()
	if err != nil {
		return nil, newBuildError(expr, err.Error())
	}
	return node, nil
}

// compiler walks the parsed AST and produces argument terms, boxing them
// into nodes where an evaluable is required.
type compiler struct {
	registry Registry
}

func (c *compiler) compile(e parser.Expression) (Arg, error) {
	switch e := e.(type) {
	case *parser.Identifier:
		if _, ok := c.registry[e.Value]; ok {
			return Arg{}, fmt.Errorf("%q must be called", e.Value)
		}
		return Arg{}, fmt.Errorf("unknown name %q", e.Value)

	case *parser.IntegerLiteral:
		return NumberArg(float64(e.Value)), nil

	case *parser.FloatLiteral:
		return NumberArg(e.Value), nil

	case *parser.StringLiteral:
		return StringArg(e.Value), nil

	case *parser.PrefixExpression:
		return c.compilePrefix(e)

	case *parser.InfixExpression:
		return c.compileInfix(e)

	case *parser.CallExpression:
		return c.compileCall(e)

	case *parser.KeywordArgument:
		return Arg{}, fmt.Errorf("keyword argument %q outside a call", e.Name.Value)

	case nil:
		return Arg{}, fmt.Errorf("invalid expression")

	default:
		return Arg{}, fmt.Errorf("unsupported expression %q", e.String())
	}
}

func (c *compiler) compilePrefix(e *parser.PrefixExpression) (Arg, error) {
	arg, err := c.compile(e.Right)
	if err != nil {
		return Arg{}, err
	}
	// The only prefix operator is numeric negation.
	v, err := arg.Num()
	if err != nil {
		return Arg{}, fmt.Errorf("unary %s applies to numbers only", e.Operator)
	}
	return NumberArg(-v), nil
}

func (c *compiler) compileInfix(e *parser.InfixExpression) (Arg, error) {
	lhs, err := c.compile(e.Left)
	if err != nil {
		return Arg{}, err
	}
	rhs, err := c.compile(e.Right)
	if err != nil {
		return Arg{}, err
	}

	l, err := lhs.Node()
	if err != nil {
		return Arg{}, err
	}
	r, err := rhs.Node()
	if err != nil {
		return Arg{}, err
	}

	var op Operator
	switch e.Operator {
	case "+":
		op = OpAdd
	case "-":
		op = OpSub
	case "*":
		op = OpMul
	case "/":
		op = OpDiv
	default:
		return Arg{}, fmt.Errorf("unknown operator %q", e.Operator)
	}

	node, err := NewBinOp(op, l, r)
	if err != nil {
		return Arg{}, err
	}
	return NodeArg(node), nil
}

func (c *compiler) compileCall(e *parser.CallExpression) (Arg, error) {
	ident, ok := e.Function.(*parser.Identifier)
	if !ok {
		return Arg{}, fmt.Errorf("call target must be a name")
	}

	ctor, ok := c.registry[ident.Value]
	if !ok {
		return Arg{}, fmt.Errorf("unknown name %q", ident.Value)
	}

	args := Args{Kw: make(map[string]Arg)}
	for _, raw := range e.Arguments {
		if kw, ok := raw.(*parser.KeywordArgument); ok {
			if _, dup := args.Kw[kw.Name.Value]; dup {
				return Arg{}, fmt.Errorf("%s: duplicate option %q", ident.Value, kw.Name.Value)
			}
			val, err := c.compile(kw.Value)
			if err != nil {
				return Arg{}, err
			}
			args.Kw[kw.Name.Value] = val
			continue
		}

		if len(args.Kw) > 0 {
			return Arg{}, fmt.Errorf("%s: positional argument after keyword argument", ident.Value)
		}
		val, err := c.compile(raw)
		if err != nil {
			return Arg{}, err
		}
		args.Pos = append(args.Pos, val)
	}

	node, err := ctor(args)
	if err != nil {
		return Arg{}, err
	}
	return NodeArg(node), nil
}
