package pose

import (
	"errors"
	"sync"
)

// ErrNoMoreSamples is returned by a non-looping ReplaySource once the
// recorded trace is exhausted.
var ErrNoMoreSamples = errors.New("no more samples")

// ReplaySource plays back a pre-recorded trace of readings for testing
// and for running the monitor without the external estimator.
type ReplaySource struct {
	samples []Sample
	index   int
	loop    bool
	mu      sync.Mutex
	closed  bool
}

// NewReplaySource creates a ReplaySource over the given trace.
// When loop is true the trace restarts after the last reading.
func NewReplaySource(samples []Sample, loop bool) *ReplaySource {
	return &ReplaySource{
		samples: samples,
		loop:    loop,
	}
}

// Read returns the next reading in the trace.
func (r *ReplaySource) Read() (Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return Sample{}, ErrSourceClosed
	}
	if len(r.samples) == 0 {
		return Sample{}, ErrNoMoreSamples
	}

	if r.index >= len(r.samples) {
		if !r.loop {
			return Sample{}, ErrNoMoreSamples
		}
		r.index = 0
	}

	s := r.samples[r.index]
	r.index++
	return s, nil
}

// Close marks the source closed.
func (r *ReplaySource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}
