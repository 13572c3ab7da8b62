package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chosenoffset/statquery/pkg/statquery"
	"github.com/chosenoffset/statquery/pkg/statquery/metrics"
	"github.com/chosenoffset/statquery/pkg/statquery/stream"
)

// The demo samples the Go runtime as a stand-in for a simulator log, then
// evaluates a few query expressions over every second snapshot.
func main() {
	fmt.Println("Sampling runtime statistics...")

	sampler := metrics.NewRuntimeSampler(64, 10*time.Millisecond)
	var ballast [][]byte
	for i := 0; i < 32; i++ {
		// Churn the heap a little so the counters move between samples.
		ballast = append(ballast, make([]byte, 256<<10))
		if len(ballast) > 8 {
			ballast = ballast[1:]
		}
		sampler.Sample()
	}

	exprs := []string{
		`LV("heap.alloc") / (1024 * 1024)`,
		`SlidingAMean(LV("goroutines.count"), length=4)`,
		`AMean(LV("heap.objects"))`,
		`LV("gc.num")`,
	}

	query, err := statquery.Compile(exprs, nil)
	if err != nil {
		log.Fatalf("Error compiling queries: %v", err)
	}

	for i, header := range query.Headers() {
		fmt.Printf("# %d: %s\n", i, header)
	}

	dumps := make([]statquery.Dump, 0, 64)
	for _, snap := range sampler.History() {
		dumps = append(dumps, snap)
	}

	batches, err := stream.New(stream.FromSlice(dumps), 2)
	if err != nil {
		log.Fatalf("Error creating stream: %v", err)
	}

	for {
		batch, ok := batches.Next()
		if !ok {
			break
		}

		// Like the report loop, evaluate against the first dump of each
		// batch.
		row, err := query.Step(batch[0])
		if err != nil {
			log.Fatalf("Error evaluating queries: %v", err)
		}

		cols := make([]string, len(row))
		for i, v := range row {
			cols[i] = fmt.Sprintf("%g", v)
		}
		fmt.Println(strings.Join(cols, ":"))
	}
}
