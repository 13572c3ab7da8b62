package main

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chosenoffset/statquery/pkg/statquery"
	"github.com/chosenoffset/statquery/pkg/statquery/metrics"
	"github.com/chosenoffset/statquery/pkg/statquery/stream"
)

func TestIntegrationSuite(t *testing.T) {
	t.Run("QueryOverStream", testQueryOverStream)
	t.Run("TrimmedStream", testTrimmedStream)
	t.Run("RuntimeSamplerFeed", testRuntimeSamplerFeed)
	t.Run("CompileErrors", testCompileErrors)
}

// simDumps fabricates a short run of core statistics, one record per dump.
func simDumps(n int) []statquery.Dump {
	dumps := make([]statquery.Dump, n)
	for i := 0; i < n; i++ {
		dumps[i] = statquery.MapDump{
			"cpu0.committedInsts": float64((i + 1) * 1000),
			"cpu0.numCycles":      float64((i + 1) * 800),
			"l2.overallMisses":    float64(i * 7),
		}
	}
	return dumps
}

func testQueryOverStream(t *testing.T) {
	q, err := statquery.Compile([]string{
		`IPC('cpu0')`,
		`AC(LV('l2.overallMisses'))`,
		`SlidingAMean(IPC('cpu0'), length=2)`,
	}, nil)
	require.NoError(t, err)

	// Aliases normalize to canonical names in headers.
	want := []string{
		`IPC("cpu0")`,
		`Accumulate(LV("l2.overallMisses"))`,
		`SlidingArithmeticMean(IPC("cpu0"), length=2)`,
	}
	assert.Equal(t, want, q.Headers())

	s, err := stream.New(stream.FromSlice(simDumps(6)), 2)
	require.NoError(t, err)

	var rows [][]float64
	for {
		batch, ok := s.Next()
		if !ok {
			break
		}
		row, err := q.Step(batch[0])
		require.NoError(t, err)
		rows = append(rows, row)
	}

	// Every dump has the same 1000/800 ratio, so each sampled IPC and its
	// sliding mean are 1.25. The accumulator sees dumps 0, 2 and 4.
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.InDelta(t, 1.25, row[0], 1e-9)
		assert.InDelta(t, 1.25, row[2], 1e-9)
	}
	assert.Equal(t, 0.0, rows[0][1])
	assert.Equal(t, 14.0, rows[1][1])
	assert.Equal(t, 42.0, rows[2][1])
}

func testTrimmedStream(t *testing.T) {
	q, err := statquery.Compile([]string{`CPI('cpu0')`}, nil)
	require.NoError(t, err)

	// Withhold the last two dumps: a cooldown phase that should not skew
	// the results.
	s, err := stream.New(stream.FromSlice(simDumps(7)), 1, stream.WithTrim(2))
	require.NoError(t, err)

	steps := 0
	for {
		batch, ok := s.Next()
		if !ok {
			break
		}
		row, err := q.Step(batch[0])
		require.NoError(t, err)
		assert.InDelta(t, 0.8, row[0], 1e-9)
		steps++
	}
	assert.Equal(t, 5, steps)
}

func testRuntimeSamplerFeed(t *testing.T) {
	rs := metrics.NewRuntimeSampler(16, time.Millisecond)
	for i := 0; i < 4; i++ {
		rs.Sample()
	}

	q, err := statquery.Compile([]string{
		`LV('heap.alloc') / (1024 * 1024)`,
		`AMean(LV('goroutines.count'))`,
	}, nil)
	require.NoError(t, err)

	for _, snap := range rs.History() {
		row, err := q.Step(snap)
		require.NoError(t, err)
		assert.Greater(t, row[0], 0.0)
		assert.GreaterOrEqual(t, row[1], 1.0)
	}
}

func testCompileErrors(t *testing.T) {
	bad := []string{
		`IPC('cpu0'`,
		`Nope('cpu0')`,
		`SlidingSum(LV('x'), length=0)`,
	}

	for _, expr := range bad {
		t.Run(expr, func(t *testing.T) {
			_, err := statquery.Compile([]string{expr}, nil)
			require.Error(t, err)

			var buildErr *statquery.BuildError
			require.ErrorAs(t, err, &buildErr)
			assert.Equal(t, expr, buildErr.Expr)
			_ = fmt.Sprintf("%v", err) // Error strings must render
		})
	}
}
