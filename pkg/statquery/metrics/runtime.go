// Package metrics provides an in-process statistics source: a sampler that
// periodically snapshots Go runtime counters into flat dump records. It
// exists so queries can be exercised without an external simulator log.
package metrics

import (
	"runtime"
	"sync"
	"time"
)

// Snapshot is one sampled set of named runtime counters. It satisfies the
// statquery Dump contract.
type Snapshot map[string]float64

func (s Snapshot) Lookup(name string) (float64, bool) {
	v, ok := s[name]
	return v, ok
}

// RuntimeSampler collects runtime snapshots on a fixed interval, keeping a
// bounded history.
type RuntimeSampler struct {
	mu         sync.RWMutex
	current    Snapshot
	history    []Snapshot
	maxHistory int
	interval   time.Duration
	stopCh     chan struct{}
	running    bool
}

func NewRuntimeSampler(maxHistory int, interval time.Duration) *RuntimeSampler {
	return &RuntimeSampler{
		history:    make([]Snapshot, 0, maxHistory),
		maxHistory: maxHistory,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins periodic sampling. Start is idempotent.
func (rs *RuntimeSampler) Start() {
	rs.mu.Lock()
	if rs.running {
		rs.mu.Unlock()
		return
	}
	rs.running = true
	stopCh := rs.stopCh
	rs.mu.Unlock()

	go rs.sampleLoop(stopCh)
}

// Stop halts sampling. Stop is idempotent.
func (rs *RuntimeSampler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.running {
		return
	}
	rs.running = false
	close(rs.stopCh)
	rs.stopCh = make(chan struct{}) // Recreate for potential restart
}

func (rs *RuntimeSampler) sampleLoop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(rs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rs.Sample()
		case <-stopCh:
			return
		}
	}
}

// Sample takes one snapshot immediately and appends it to the history.
func (rs *RuntimeSampler) Sample() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	snap := Snapshot{
		"heap.alloc":       float64(m.HeapAlloc),
		"heap.sys":         float64(m.HeapSys),
		"heap.idle":        float64(m.HeapIdle),
		"heap.inuse":       float64(m.HeapInuse),
		"heap.released":    float64(m.HeapReleased),
		"heap.objects":     float64(m.HeapObjects),
		"stack.inuse":      float64(m.StackInuse),
		"stack.sys":        float64(m.StackSys),
		"sys":              float64(m.Sys),
		"gc.next":          float64(m.NextGC),
		"gc.pause":         float64(m.PauseTotalNs),
		"gc.num":           float64(m.NumGC),
		"gc.cpu_fraction":  m.GCCPUFraction,
		"goroutines.count": float64(runtime.NumGoroutine()),
		"cgo.calls":        float64(runtime.NumCgoCall()),
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.current = snap
	rs.history = append(rs.history, snap)
	if len(rs.history) > rs.maxHistory {
		rs.history = rs.history[len(rs.history)-rs.maxHistory:]
	}
	return snap
}

// Current returns the most recent snapshot, or nil before the first sample.
func (rs *RuntimeSampler) Current() Snapshot {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.current
}

// History returns a copy of the retained snapshots, oldest first.
func (rs *RuntimeSampler) History() []Snapshot {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make([]Snapshot, len(rs.history))
	copy(out, rs.history)
	return out
}
