package statquery

// Dump is one sampled snapshot of named numeric counters, produced once per
// simulated interval by an external statistics source. Dumps are consumed
// one evaluation at a time; nodes never retain a dump beyond a single Eval
// call.
type Dump interface {
	// Lookup returns the value of the named field and whether the field is
	// present in the dump.
	Lookup(name string) (float64, bool)
}

// MapDump is the trivial in-memory Dump implementation.
type MapDump map[string]float64

func (d MapDump) Lookup(name string) (float64, bool) {
	v, ok := d[name]
	return v, ok
}
