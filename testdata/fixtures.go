// Package testdata provides synthetic pose traces for tests and for
// running the monitor without an external estimator.
package testdata

import "github.com/ayusman/drishti/internal/pose"

// AttentiveTrace returns n frames of a head steadily facing the
// screen with small jitter on both axes.
func AttentiveTrace(n int) []pose.Sample {
	trace := make([]pose.Sample, n)
	for i := range trace {
		// Deterministic +/-3 degree wobble
		jitter := float64(i%7) - 3
		trace[i] = pose.At(jitter, -jitter/2)
	}
	return trace
}

// DistractionTrace returns a trace that starts attentive, loses the
// face for gone frames, then returns to the screen.
func DistractionTrace(before, gone, after int) []pose.Sample {
	trace := make([]pose.Sample, 0, before+gone+after)
	for i := 0; i < before; i++ {
		trace = append(trace, pose.At(0, 0))
	}
	for i := 0; i < gone; i++ {
		trace = append(trace, pose.NoFace())
	}
	for i := 0; i < after; i++ {
		trace = append(trace, pose.At(0, 0))
	}
	return trace
}

// FlickerTrace returns n frames alternating between facing the screen
// and a momentary dropout, the kind of noise the tracker must absorb.
func FlickerTrace(n int) []pose.Sample {
	trace := make([]pose.Sample, n)
	for i := range trace {
		if i%2 == 1 {
			trace[i] = pose.NoFace()
		} else {
			trace[i] = pose.At(1, 1)
		}
	}
	return trace
}

// TurnAwayTrace returns a trace of a head turning left past the yaw
// threshold and holding there.
func TurnAwayTrace(turning, held int) []pose.Sample {
	trace := make([]pose.Sample, 0, turning+held)
	for i := 0; i < turning; i++ {
		// Sweep from 0 to 50 degrees
		trace = append(trace, pose.At(float64(i)*50/float64(turning), 0))
	}
	for i := 0; i < held; i++ {
		trace = append(trace, pose.At(50, 0))
	}
	return trace
}
