// Package stream groups a forward-only, unbounded sequence into fixed-size
// batches without knowing the sequence's length in advance and without
// unbounded buffering.
package stream

import (
	"fmt"

	"github.com/gammazero/deque"
)

// Source is a forward-only, single-pass element producer. Next returns the
// next element and true, or the zero value and false once the source is
// exhausted.
type Source[T any] interface {
	Next() (T, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func() (T, bool)

func (f SourceFunc[T]) Next() (T, bool) { return f() }

// FromSlice returns a Source yielding the elements of items in order.
func FromSlice[T any](items []T) Source[T] {
	i := 0
	return SourceFunc[T](func() (T, bool) {
		if i >= len(items) {
			var zero T
			return zero, false
		}
		v := items[i]
		i++
		return v, true
	})
}

type config struct {
	start    int
	limit    int
	hasLimit bool
	trim     int
}

// Option configures a Slicer.
type Option func(*config)

// WithStart discards the first n source elements before any batch is
// formed.
func WithStart(n int) Option {
	return func(c *config) { c.start = n }
}

// WithLimit stops consuming the source once n elements have been consumed
// in total, counting elements discarded by WithStart.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n; c.hasLimit = true }
}

// WithTrim withholds the last n source elements from the output. The trim
// is implemented with a lookahead buffer, so it works on streams of unknown
// length; when the stream is too short to trim safely, the slicer yields
// nothing rather than too much.
func WithTrim(n int) Option {
	return func(c *config) { c.trim = n }
}

// Slicer groups a source into batches of step elements, with a trailing
// short batch when the source runs out mid-step. It buffers at most
// step+trim pending elements.
//
// A Slicer is single-pass: once the source is exhausted it releases a final
// partial batch (possibly none) and permanently terminates.
type Slicer[T any] struct {
	src      Source[T]
	start    int
	step     int
	limit    int
	hasLimit bool

	capacity int
	consumed int
	buffer   deque.Deque[T]
}

// New returns a Slicer over src with the given batch size.
func New[T any](src Source[T], step int, opts ...Option) (*Slicer[T], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if step < 1 {
		return nil, fmt.Errorf("stream: step must be at least 1, got %d", step)
	}
	if cfg.start < 0 {
		return nil, fmt.Errorf("stream: start must be non-negative, got %d", cfg.start)
	}
	if cfg.trim < 0 {
		return nil, fmt.Errorf("stream: trim must be non-negative, got %d", cfg.trim)
	}
	if cfg.hasLimit && cfg.limit < 0 {
		return nil, fmt.Errorf("stream: limit must be non-negative, got %d", cfg.limit)
	}
	if cfg.hasLimit && cfg.trim > 0 {
		return nil, fmt.Errorf("stream: limit and trim are mutually exclusive")
	}

	return &Slicer[T]{
		src:      src,
		start:    cfg.start,
		step:     step,
		limit:    cfg.limit,
		hasLimit: cfg.hasLimit,
		capacity: step + cfg.trim,
	}, nil
}

// Next returns the next batch. Full batches have exactly step elements; the
// final batch may be shorter. After the source is exhausted and the final
// batch has been released, Next returns (nil, false) forever without
// touching the source again.
func (s *Slicer[T]) Next() ([]T, bool) {
	if s.src == nil {
		return nil, false
	}

	for s.consumed < s.start {
		if _, ok := s.src.Next(); !ok {
			s.src = nil
			return nil, false
		}
		s.consumed++
	}

	for s.buffer.Len() < s.capacity && (!s.hasLimit || s.consumed < s.limit) {
		v, ok := s.src.Next()
		if !ok {
			break
		}
		s.consumed++
		s.buffer.PushBack(v)
	}

	if s.buffer.Len() < s.capacity {
		// The source ran dry (or the limit was hit) before the lookahead
		// buffer filled. Release whatever is not part of the trimmed tail
		// and terminate.
		s.src = nil

		released := s.step - (s.capacity - s.buffer.Len())
		if released <= 0 {
			s.buffer.Clear()
			return nil, false
		}
		out := make([]T, released)
		for i := range out {
			out[i] = s.buffer.PopFront()
		}
		s.buffer.Clear()
		return out, true
	}

	out := make([]T, s.step)
	for i := range out {
		out[i] = s.buffer.PopFront()
	}
	return out, true
}
