package statquery

import "fmt"

// Suffixes of the per-CPU counters used by the IPC and CPI ratios.
const (
	instsSuffix  = ".committedInsts"
	cyclesSuffix = ".numCycles"
)

// Ratio derives a two-field ratio from a dump: the fields base+numSuffix and
// base+denSuffix are looked up and divided. With a configured default, a
// zero denominator or a missing field yields the default instead of failing;
// a CPU that never ran either reports zero cycles or is absent from the dump
// entirely, and both are expected conditions rather than bugs. Without a
// default, both failures propagate.
type Ratio struct {
	name      string
	attr      string
	numSuffix string
	denSuffix string
	def       *float64
}

// NewRatio returns a ratio of the fields attr+numSuffix and attr+denSuffix.
// name is the label used in the textual form.
func NewRatio(name, attr, numSuffix, denSuffix string) *Ratio {
	return &Ratio{name: name, attr: attr, numSuffix: numSuffix, denSuffix: denSuffix}
}

// WithDefault configures the value returned when the denominator is zero or
// either field is absent.
func (r *Ratio) WithDefault(def float64) *Ratio {
	r.def = &def
	return r
}

// NewIPC returns the instructions-per-cycle ratio of a CPU.
// attr is the base name of the CPU (e.g., "system.cpu").
func NewIPC(attr string) *Ratio {
	return NewRatio("IPC", attr, instsSuffix, cyclesSuffix)
}

// NewCPI returns the cycles-per-instruction ratio of a CPU.
// attr is the base name of the CPU (e.g., "system.cpu").
func NewCPI(attr string) *Ratio {
	return NewRatio("CPI", attr, cyclesSuffix, instsSuffix)
}

func (r *Ratio) Eval(dump Dump) (float64, error) {
	num, ok := dump.Lookup(r.attr + r.numSuffix)
	if !ok {
		if r.def != nil {
			return *r.def, nil
		}
		return 0, fmt.Errorf("%q: %w", r.attr+r.numSuffix, ErrFieldNotFound)
	}

	den, ok := dump.Lookup(r.attr + r.denSuffix)
	if !ok {
		if r.def != nil {
			return *r.def, nil
		}
		return 0, fmt.Errorf("%q: %w", r.attr+r.denSuffix, ErrFieldNotFound)
	}

	if den == 0 {
		if r.def != nil {
			return *r.def, nil
		}
		return 0, fmt.Errorf("%s: %w", r.String(), ErrDivisionByZero)
	}

	return num / den, nil
}

func (r *Ratio) String() string {
	return fmt.Sprintf("%s(%q)", r.name, r.attr)
}

func (r *Ratio) Reset() {}
