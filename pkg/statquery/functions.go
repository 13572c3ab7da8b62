package statquery

import (
	"fmt"
	"math"
	"strings"

	"github.com/gammazero/deque"
)

// function is the common part of the stateful function nodes: a name for the
// textual form and one or more boxed parameter nodes. Parameters are always
// evaluated left to right before the function updates its own state, so the
// functions are cumulative rather than memoryless.
type function struct {
	name   string
	params []Node
}

func newFunction(name string, params ...any) (function, error) {
	boxed := make([]Node, len(params))
	for i, p := range params {
		n, err := Box(p)
		if err != nil {
			return function{}, err
		}
		boxed[i] = n
	}
	return function{name: name, params: boxed}, nil
}

func (f *function) evalParams(dump Dump) ([]float64, error) {
	out := make([]float64, len(f.params))
	for i, p := range f.params {
		v, err := p.Eval(dump)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *function) resetParams() {
	for _, p := range f.params {
		p.Reset()
	}
}

func (f *function) String() string {
	parts := make([]string, len(f.params))
	for i, p := range f.params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", f.name, strings.Join(parts, ","))
}

// Accumulate keeps a running total of its parameter and returns the total on
// every call.
type Accumulate struct {
	function
	start float64
	total float64
}

func NewAccumulate(param any) (*Accumulate, error) {
	return NewAccumulateStart(param, 0)
}

// NewAccumulateStart returns an accumulator whose total begins at start.
func NewAccumulateStart(param any, start float64) (*Accumulate, error) {
	f, err := newFunction("Accumulate", param)
	if err != nil {
		return nil, err
	}
	return &Accumulate{function: f, start: start, total: start}, nil
}

func (a *Accumulate) Eval(dump Dump) (float64, error) {
	xs, err := a.evalParams(dump)
	if err != nil {
		return 0, err
	}
	a.total += xs[0]
	return a.total, nil
}

func (a *Accumulate) Reset() {
	a.resetParams()
	a.total = a.start
}

// ArithmeticMean returns the running arithmetic mean of its parameter.
type ArithmeticMean struct {
	function
	sum   float64
	count int
}

func NewArithmeticMean(param any) (*ArithmeticMean, error) {
	f, err := newFunction("ArithmeticMean", param)
	if err != nil {
		return nil, err
	}
	return &ArithmeticMean{function: f}, nil
}

func (m *ArithmeticMean) Eval(dump Dump) (float64, error) {
	xs, err := m.evalParams(dump)
	if err != nil {
		return 0, err
	}
	m.sum += xs[0]
	m.count++
	return m.sum / float64(m.count), nil
}

func (m *ArithmeticMean) Reset() {
	m.resetParams()
	m.sum = 0
	m.count = 0
}

// GeometricMean returns the running geometric mean of its parameter. The
// running product must stay non-negative; a negative product fails with
// ErrNegativeRoot.
type GeometricMean struct {
	function
	product float64
	count   int
}

func NewGeometricMean(param any) (*GeometricMean, error) {
	f, err := newFunction("GeometricMean", param)
	if err != nil {
		return nil, err
	}
	return &GeometricMean{function: f, product: 1}, nil
}

func (m *GeometricMean) Eval(dump Dump) (float64, error) {
	xs, err := m.evalParams(dump)
	if err != nil {
		return 0, err
	}
	m.product *= xs[0]
	m.count++
	if m.product < 0 {
		return 0, fmt.Errorf("%s: %w", m.String(), ErrNegativeRoot)
	}
	return math.Pow(m.product, 1/float64(m.count)), nil
}

func (m *GeometricMean) Reset() {
	m.resetParams()
	m.product = 1
	m.count = 0
}

// HarmonicMean returns the running harmonic mean of its parameter. A zero
// value fails with ErrDivisionByZero.
type HarmonicMean struct {
	function
	recipSum float64
	count    int
}

func NewHarmonicMean(param any) (*HarmonicMean, error) {
	f, err := newFunction("HarmonicMean", param)
	if err != nil {
		return nil, err
	}
	return &HarmonicMean{function: f}, nil
}

func (m *HarmonicMean) Eval(dump Dump) (float64, error) {
	xs, err := m.evalParams(dump)
	if err != nil {
		return 0, err
	}
	if xs[0] == 0 {
		return 0, fmt.Errorf("%s: %w", m.String(), ErrDivisionByZero)
	}
	m.recipSum += 1 / xs[0]
	m.count++
	return float64(m.count) / m.recipSum, nil
}

func (m *HarmonicMean) Reset() {
	m.resetParams()
	m.recipSum = 0
	m.count = 0
}

// slidingWindow is the common part of the sliding-window functions: a
// bounded newest-first history of the most recent length parameter values.
// Before length observations have been seen the window holds only what has
// been seen, with no zero padding.
type slidingWindow struct {
	function
	length int
	window deque.Deque[float64]
}

func newSlidingWindow(name string, param any, length int) (slidingWindow, error) {
	if length < 1 {
		return slidingWindow{}, fmt.Errorf("%s: window length must be at least 1, got %d", name, length)
	}
	f, err := newFunction(name, param)
	if err != nil {
		return slidingWindow{}, err
	}
	return slidingWindow{function: f, length: length}, nil
}

func (s *slidingWindow) push(x float64) {
	s.window.PushFront(x)
	if s.window.Len() > s.length {
		s.window.PopBack()
	}
}

func (s *slidingWindow) Reset() {
	s.resetParams()
	s.window.Clear()
}

func (s *slidingWindow) String() string {
	return fmt.Sprintf("%s(%s, length=%d)", s.name, s.params[0], s.length)
}

// SlidingSum returns the sum of the values currently in the window.
type SlidingSum struct {
	slidingWindow
}

func NewSlidingSum(param any, length int) (*SlidingSum, error) {
	w, err := newSlidingWindow("SlidingSum", param, length)
	if err != nil {
		return nil, err
	}
	return &SlidingSum{slidingWindow: w}, nil
}

func (s *SlidingSum) Eval(dump Dump) (float64, error) {
	xs, err := s.evalParams(dump)
	if err != nil {
		return 0, err
	}
	s.push(xs[0])

	var sum float64
	for i := 0; i < s.window.Len(); i++ {
		sum += s.window.At(i)
	}
	return sum, nil
}

// SlidingArithmeticMean returns the arithmetic mean of the values currently
// in the window.
type SlidingArithmeticMean struct {
	slidingWindow
}

func NewSlidingArithmeticMean(param any, length int) (*SlidingArithmeticMean, error) {
	w, err := newSlidingWindow("SlidingArithmeticMean", param, length)
	if err != nil {
		return nil, err
	}
	return &SlidingArithmeticMean{slidingWindow: w}, nil
}

func (s *SlidingArithmeticMean) Eval(dump Dump) (float64, error) {
	xs, err := s.evalParams(dump)
	if err != nil {
		return 0, err
	}
	s.push(xs[0])

	var sum float64
	for i := 0; i < s.window.Len(); i++ {
		sum += s.window.At(i)
	}
	return sum / float64(s.window.Len()), nil
}

// SlidingGeometricMean returns the geometric mean of the values currently in
// the window.
type SlidingGeometricMean struct {
	slidingWindow
}

func NewSlidingGeometricMean(param any, length int) (*SlidingGeometricMean, error) {
	w, err := newSlidingWindow("SlidingGeometricMean", param, length)
	if err != nil {
		return nil, err
	}
	return &SlidingGeometricMean{slidingWindow: w}, nil
}

func (s *SlidingGeometricMean) Eval(dump Dump) (float64, error) {
	xs, err := s.evalParams(dump)
	if err != nil {
		return 0, err
	}
	s.push(xs[0])

	product := 1.0
	for i := 0; i < s.window.Len(); i++ {
		product *= s.window.At(i)
	}
	if product < 0 {
		return 0, fmt.Errorf("%s: %w", s.String(), ErrNegativeRoot)
	}
	return math.Pow(product, 1/float64(s.window.Len())), nil
}

// SlidingHarmonicMean returns the harmonic mean of the values currently in
// the window. A zero value in the window fails with ErrDivisionByZero.
type SlidingHarmonicMean struct {
	slidingWindow
}

func NewSlidingHarmonicMean(param any, length int) (*SlidingHarmonicMean, error) {
	w, err := newSlidingWindow("SlidingHarmonicMean", param, length)
	if err != nil {
		return nil, err
	}
	return &SlidingHarmonicMean{slidingWindow: w}, nil
}

func (s *SlidingHarmonicMean) Eval(dump Dump) (float64, error) {
	xs, err := s.evalParams(dump)
	if err != nil {
		return 0, err
	}
	s.push(xs[0])

	var recipSum float64
	for i := 0; i < s.window.Len(); i++ {
		v := s.window.At(i)
		if v == 0 {
			return 0, fmt.Errorf("%s: %w", s.String(), ErrDivisionByZero)
		}
		recipSum += 1 / v
	}
	return float64(s.window.Len()) / recipSum, nil
}
