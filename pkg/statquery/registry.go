package statquery

import "fmt"

type argKind int

const (
	argNode argKind = iota
	argString
	argNumber
)

// Arg is one argument of a registry constructor call: a sub-expression node,
// a string literal, or a numeric literal.
type Arg struct {
	kind argKind
	node Node
	str  string
	num  float64
}

func NodeArg(n Node) Arg      { return Arg{kind: argNode, node: n} }
func StringArg(s string) Arg  { return Arg{kind: argString, str: s} }
func NumberArg(f float64) Arg { return Arg{kind: argNumber, num: f} }

// Node boxes the argument into an evaluable node: sub-expressions pass
// through, strings become field lookups, numbers become constants.
func (a Arg) Node() (Node, error) {
	switch a.kind {
	case argNode:
		return a.node, nil
	case argString:
		return NewLogValue(a.str), nil
	case argNumber:
		return NewConstant(a.num), nil
	default:
		return nil, ErrBadOperand
	}
}

// Str returns the argument as a string literal.
func (a Arg) Str() (string, error) {
	if a.kind != argString {
		return "", fmt.Errorf("expected a string argument")
	}
	return a.str, nil
}

// Num returns the argument as a numeric literal.
func (a Arg) Num() (float64, error) {
	if a.kind != argNumber {
		return 0, fmt.Errorf("expected a numeric argument")
	}
	return a.num, nil
}

// Args carries the positional and keyword arguments of one constructor call.
type Args struct {
	Pos []Arg
	Kw  map[string]Arg
}

// takeKw removes and returns the named keyword argument, if present.
func (a *Args) takeKw(name string) (Arg, bool) {
	arg, ok := a.Kw[name]
	if ok {
		delete(a.Kw, name)
	}
	return arg, ok
}

// unused reports leftover keyword arguments as an error.
func (a *Args) unused(fn string) error {
	for name := range a.Kw {
		return fmt.Errorf("%s: unknown option %q", fn, name)
	}
	return nil
}

// optNum resolves an optional numeric setting that may be given either as
// the positional argument at index pos or as the named keyword argument.
func (a *Args) optNum(fn, name string, pos int) (*float64, error) {
	if len(a.Pos) > pos {
		if _, ok := a.takeKw(name); ok {
			return nil, fmt.Errorf("%s: %q given both positionally and by name", fn, name)
		}
		v, err := a.Pos[pos].Num()
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %v", fn, pos+1, err)
		}
		return &v, nil
	}
	if arg, ok := a.takeKw(name); ok {
		v, err := arg.Num()
		if err != nil {
			return nil, fmt.Errorf("%s: option %q: %v", fn, name, err)
		}
		return &v, nil
	}
	return nil, nil
}

// Constructor builds a value node from the arguments of one call in an
// expression. Constructors are registered by name in a Registry.
type Constructor func(args Args) (Node, error)

// Registry maps callable names to node constructors. The builder resolves
// identifiers only against its registry; nothing outside it is reachable
// from expression text.
type Registry map[string]Constructor

// Clone returns a copy of the registry with the extra entries overlaid.
// Extra names shadow existing ones.
func (r Registry) Clone(extra Registry) Registry {
	out := make(Registry, len(r)+len(extra))
	for name, ctor := range r {
		out[name] = ctor
	}
	for name, ctor := range extra {
		out[name] = ctor
	}
	return out
}

// DefaultRegistry returns the fixed set of constructors understood by Build:
// the arithmetic operators, the leaf values, and the stateful functions,
// under the same names and aliases the query language has always used.
func DefaultRegistry() Registry {
	reg := Registry{
		"Add":      binOpConstructor("Add", OpAdd),
		"Sub":      binOpConstructor("Sub", OpSub),
		"Mul":      binOpConstructor("Mul", OpMul),
		"Div":      binOpConstructor("Div", OpDiv),
		"Constant": constantConstructor,

		"LogValue": logValueConstructor,
		"IPC":      ratioConstructor("IPC", NewIPC),
		"CPI":      ratioConstructor("CPI", NewCPI),

		"Accumulate":     accumulateConstructor,
		"ArithmeticMean": meanConstructor("ArithmeticMean", func(p any) (Node, error) { return NewArithmeticMean(p) }),
		"GeometricMean":  meanConstructor("GeometricMean", func(p any) (Node, error) { return NewGeometricMean(p) }),
		"HarmonicMean":   meanConstructor("HarmonicMean", func(p any) (Node, error) { return NewHarmonicMean(p) }),

		"SlidingSum":            slidingConstructor("SlidingSum", func(p any, l int) (Node, error) { return NewSlidingSum(p, l) }),
		"SlidingArithmeticMean": slidingConstructor("SlidingArithmeticMean", func(p any, l int) (Node, error) { return NewSlidingArithmeticMean(p, l) }),
		"SlidingGeometricMean":  slidingConstructor("SlidingGeometricMean", func(p any, l int) (Node, error) { return NewSlidingGeometricMean(p, l) }),
		"SlidingHarmonicMean":   slidingConstructor("SlidingHarmonicMean", func(p any, l int) (Node, error) { return NewSlidingHarmonicMean(p, l) }),
	}

	// Short aliases
	reg["LV"] = reg["LogValue"]
	reg["AC"] = reg["Accumulate"]
	reg["AMean"] = reg["ArithmeticMean"]
	reg["GMean"] = reg["GeometricMean"]
	reg["HMean"] = reg["HarmonicMean"]
	reg["SlidingAMean"] = reg["SlidingArithmeticMean"]
	reg["SlidingGMean"] = reg["SlidingGeometricMean"]
	reg["SlidingHMean"] = reg["SlidingHarmonicMean"]

	return reg
}

func binOpConstructor(fn string, op Operator) Constructor {
	return func(args Args) (Node, error) {
		if len(args.Pos) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", fn, len(args.Pos))
		}
		if err := args.unused(fn); err != nil {
			return nil, err
		}
		lhs, err := args.Pos[0].Node()
		if err != nil {
			return nil, err
		}
		rhs, err := args.Pos[1].Node()
		if err != nil {
			return nil, err
		}
		return NewBinOp(op, lhs, rhs)
	}
}

func constantConstructor(args Args) (Node, error) {
	if len(args.Pos) != 1 {
		return nil, fmt.Errorf("Constant expects 1 argument, got %d", len(args.Pos))
	}
	if err := args.unused("Constant"); err != nil {
		return nil, err
	}
	v, err := args.Pos[0].Num()
	if err != nil {
		return nil, fmt.Errorf("Constant: %v", err)
	}
	return NewConstant(v), nil
}

func logValueConstructor(args Args) (Node, error) {
	if len(args.Pos) < 1 || len(args.Pos) > 2 {
		return nil, fmt.Errorf("LogValue expects 1 argument, got %d", len(args.Pos))
	}
	attr, err := args.Pos[0].Str()
	if err != nil {
		return nil, fmt.Errorf("LogValue: %v", err)
	}
	def, err := args.optNum("LogValue", "default", 1)
	if err != nil {
		return nil, err
	}
	if err := args.unused("LogValue"); err != nil {
		return nil, err
	}
	if def != nil {
		return NewLogValueDefault(attr, *def), nil
	}
	return NewLogValue(attr), nil
}

func ratioConstructor(fn string, ctor func(string) *Ratio) Constructor {
	return func(args Args) (Node, error) {
		if len(args.Pos) < 1 || len(args.Pos) > 2 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", fn, len(args.Pos))
		}
		attr, err := args.Pos[0].Str()
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fn, err)
		}
		def, err := args.optNum(fn, "default", 1)
		if err != nil {
			return nil, err
		}
		if err := args.unused(fn); err != nil {
			return nil, err
		}
		r := ctor(attr)
		if def != nil {
			r = r.WithDefault(*def)
		}
		return r, nil
	}
}

func accumulateConstructor(args Args) (Node, error) {
	if len(args.Pos) < 1 || len(args.Pos) > 2 {
		return nil, fmt.Errorf("Accumulate expects 1 argument, got %d", len(args.Pos))
	}
	param, err := args.Pos[0].Node()
	if err != nil {
		return nil, err
	}
	start, err := args.optNum("Accumulate", "start", 1)
	if err != nil {
		return nil, err
	}
	if err := args.unused("Accumulate"); err != nil {
		return nil, err
	}
	if start != nil {
		return NewAccumulateStart(param, *start)
	}
	return NewAccumulate(param)
}

func meanConstructor(fn string, ctor func(any) (Node, error)) Constructor {
	return func(args Args) (Node, error) {
		if len(args.Pos) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", fn, len(args.Pos))
		}
		if err := args.unused(fn); err != nil {
			return nil, err
		}
		param, err := args.Pos[0].Node()
		if err != nil {
			return nil, err
		}
		return ctor(param)
	}
}

func slidingConstructor(fn string, ctor func(any, int) (Node, error)) Constructor {
	return func(args Args) (Node, error) {
		if len(args.Pos) < 1 || len(args.Pos) > 2 {
			return nil, fmt.Errorf("%s expects a parameter and a window length, got %d arguments", fn, len(args.Pos))
		}
		param, err := args.Pos[0].Node()
		if err != nil {
			return nil, err
		}
		length, err := args.optNum(fn, "length", 1)
		if err != nil {
			return nil, err
		}
		if err := args.unused(fn); err != nil {
			return nil, err
		}
		if length == nil {
			return nil, fmt.Errorf("%s: missing window length", fn)
		}
		if *length != float64(int(*length)) {
			return nil, fmt.Errorf("%s: window length must be an integer, got %s", fn, formatNumber(*length))
		}
		return ctor(param, int(*length))
	}
}
