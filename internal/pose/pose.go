// Package pose defines the head-pose reading contract between the
// attention tracker and the upstream pose-estimation collaborator.
package pose

import "errors"

// ErrSourceClosed is returned when reading from a closed source.
var ErrSourceClosed = errors.New("pose source is closed")

// Sample is a single per-frame head-orientation reading.
// A reading either carries yaw/pitch angles in degrees or marks
// that no face was detected for the frame.
type Sample struct {
	Yaw     float64 `json:"yaw"`
	Pitch   float64 `json:"pitch"`
	Present bool    `json:"present"`
}

// At returns a reading with the given yaw and pitch in degrees.
func At(yaw, pitch float64) Sample {
	return Sample{Yaw: yaw, Pitch: pitch, Present: true}
}

// NoFace returns a reading marking that no face was detected.
func NoFace() Sample {
	return Sample{}
}

// Source defines the interface for pose reading implementations.
type Source interface {
	// Read returns the next per-frame reading. The caller drives the
	// cadence; Read never blocks waiting for a future frame.
	Read() (Sample, error)

	// Close releases any resources held by the source.
	Close() error
}
