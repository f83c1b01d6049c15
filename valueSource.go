package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// valueSource is the number on the display. With a count interval it
// ticks up by one per interval since it was last set.
type valueSource struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	base     uint64
	interval time.Duration
	start    time.Time
}

func newValueSource(clock clockwork.Clock, base uint64, interval time.Duration) *valueSource {
	return &valueSource{
		clock:    clock,
		base:     base,
		interval: interval,
		start:    clock.Now(),
	}
}

func (vs *valueSource) value() uint64 {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	if vs.interval <= 0 {
		return vs.base
	}
	elapsed := vs.clock.Now().Sub(vs.start)
	return vs.base + uint64(elapsed/vs.interval)
}

// set replaces the value and restarts the count from it
func (vs *valueSource) set(v uint64) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.base = v
	vs.start = vs.clock.Now()
}
