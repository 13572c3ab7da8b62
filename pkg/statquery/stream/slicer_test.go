package stream

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains a slicer into a slice of batches.
func collect[T any](t *testing.T, s *Slicer[T]) [][]T {
	t.Helper()
	var out [][]T
	for {
		batch, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, batch)
	}
}

func TestBatching(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		step  int
		opts  []Option
		want  [][]string
	}{
		{
			name:  "TrailingShortBatch",
			items: []string{"a", "b", "c", "d", "e"},
			step:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:  "ExactMultiple",
			items: []string{"a", "b", "c", "d"},
			step:  2,
			want:  [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "SingleStep",
			items: []string{"a", "b", "c"},
			step:  1,
			want:  [][]string{{"a"}, {"b"}, {"c"}},
		},
		{
			name:  "Empty",
			items: nil,
			step:  2,
			want:  nil,
		},
		{
			name:  "TrimWithholdsTail",
			items: []string{"a", "b", "c"},
			step:  1,
			opts:  []Option{WithTrim(1)},
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "TrimLongerThanStream",
			items: []string{"a"},
			step:  1,
			opts:  []Option{WithTrim(2)},
			want:  nil,
		},
		{
			name:  "TrimWithStep",
			items: []string{"a", "b", "c", "d", "e", "f", "g"},
			step:  2,
			opts:  []Option{WithTrim(2)},
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:  "StartSkipsPrefix",
			items: []string{"a", "b", "c", "d", "e"},
			step:  2,
			opts:  []Option{WithStart(2)},
			want:  [][]string{{"c", "d"}, {"e"}},
		},
		{
			name:  "StartBeyondStream",
			items: []string{"a", "b"},
			step:  1,
			opts:  []Option{WithStart(5)},
			want:  nil,
		},
		{
			name:  "LimitCapsConsumption",
			items: []string{"a", "b", "c", "d", "e", "f"},
			step:  2,
			opts:  []Option{WithLimit(5)},
			want:  [][]string{{"a", "b"}, {"c", "d"}, {"e"}},
		},
		{
			name:  "LimitCountsSkippedElements",
			items: []string{"a", "b", "c", "d", "e", "f"},
			step:  2,
			opts:  []Option{WithStart(2), WithLimit(4)},
			want:  [][]string{{"c", "d"}},
		},
		{
			name:  "LimitZeroYieldsNothing",
			items: []string{"a", "b"},
			step:  1,
			opts:  []Option{WithLimit(0)},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(FromSlice(tt.items), tt.step, tt.opts...)
			require.NoError(t, err)

			got := collect(t, s)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("batches mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExhaustedSlicerStopsReadingSource(t *testing.T) {
	calls := 0
	src := SourceFunc[int](func() (int, bool) {
		calls++
		if calls <= 3 {
			return calls, true
		}
		return 0, false
	})

	s, err := New[int](src, 2)
	require.NoError(t, err)

	batch, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, batch)

	batch, ok = s.Next()
	require.True(t, ok)
	assert.Equal(t, []int{3}, batch)

	callsAtExhaustion := calls
	for i := 0; i < 3; i++ {
		batch, ok = s.Next()
		assert.False(t, ok)
		assert.Nil(t, batch)
	}
	assert.Equal(t, callsAtExhaustion, calls, "source read after exhaustion")
}

func TestConfigValidation(t *testing.T) {
	src := FromSlice([]int{1, 2, 3})

	tests := []struct {
		name string
		step int
		opts []Option
	}{
		{"ZeroStep", 0, nil},
		{"NegativeStep", -1, nil},
		{"NegativeStart", 1, []Option{WithStart(-1)}},
		{"NegativeTrim", 1, []Option{WithTrim(-1)}},
		{"NegativeLimit", 1, []Option{WithLimit(-1)}},
		{"LimitAndTrim", 1, []Option{WithLimit(4), WithTrim(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(src, tt.step, tt.opts...)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}
