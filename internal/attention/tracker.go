// Package attention implements the temporal attention-state tracker.
// It converts a noisy stream of per-frame head-pose readings into a
// stable looking / not-looking state with majority-vote smoothing,
// debounced transitions and continuous inattention accounting.
package attention

import (
	"fmt"
	"math"
	"time"

	"github.com/ayusman/drishti/internal/pose"
)

// State represents the externally visible attention state.
type State string

const (
	// Looking means the user is oriented toward the screen.
	Looking State = "looking"
	// NotLooking means the user is looking away or no face is detected.
	NotLooking State = "not_looking"
)

// Default tracker configuration.
const (
	// DefaultAlertThreshold is the sustained inattention time in
	// seconds before the alert is raised.
	DefaultAlertThreshold = 5.0
	// DefaultYawThreshold is the looking cutoff for left-right head
	// rotation in degrees.
	DefaultYawThreshold = 25.0
	// DefaultPitchThreshold is the looking cutoff for up-down head
	// rotation in degrees.
	DefaultPitchThreshold = 20.0
	// DefaultSmoothingWindow is the number of frames in the
	// majority-vote smoothing window.
	DefaultSmoothingWindow = 5
	// DefaultMinConsecutiveFrames is the number of consecutive
	// confirming smoothed frames required to commit a state change.
	DefaultMinConsecutiveFrames = 3
)

// ConfigError reports an invalid tracker configuration value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s %s", e.Field, e.Reason)
}

// Config holds the tracker configuration options.
type Config struct {
	// AlertThreshold is the not-looking time in seconds before the
	// alert is raised. Must be > 0.
	AlertThreshold float64
	// YawThreshold in degrees; |yaw| must be strictly below it for a
	// frame to classify as looking.
	YawThreshold float64
	// PitchThreshold in degrees; |pitch| must be strictly below it for
	// a frame to classify as looking.
	PitchThreshold float64
	// SmoothingWindow is the majority-vote window size. Must be >= 1.
	SmoothingWindow int
	// MinConsecutiveFrames is the debounce confirmation count. Must be >= 1.
	MinConsecutiveFrames int
}

// DefaultConfig returns a Config with the default values.
func DefaultConfig() Config {
	return Config{
		AlertThreshold:       DefaultAlertThreshold,
		YawThreshold:         DefaultYawThreshold,
		PitchThreshold:       DefaultPitchThreshold,
		SmoothingWindow:      DefaultSmoothingWindow,
		MinConsecutiveFrames: DefaultMinConsecutiveFrames,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.AlertThreshold <= 0 {
		return &ConfigError{Field: "AlertThreshold", Reason: "must be positive"}
	}
	if c.YawThreshold <= 0 {
		return &ConfigError{Field: "YawThreshold", Reason: "must be positive"}
	}
	if c.PitchThreshold <= 0 {
		return &ConfigError{Field: "PitchThreshold", Reason: "must be positive"}
	}
	if c.SmoothingWindow < 1 {
		return &ConfigError{Field: "SmoothingWindow", Reason: "must be at least 1"}
	}
	if c.MinConsecutiveFrames < 1 {
		return &ConfigError{Field: "MinConsecutiveFrames", Reason: "must be at least 1"}
	}
	return nil
}

// FrameResult is the per-frame output of Update.
type FrameResult struct {
	State          State   `json:"state"`
	TimeNotLooking float64 `json:"time_not_looking"`
	AlertActive    bool    `json:"alert_active"`
	Confidence     float64 `json:"confidence"`
	RawState       State   `json:"raw_state"`
}

// Stats is a snapshot of the cumulative tracking statistics.
type Stats struct {
	TotalFrames      int     `json:"total_frames"`
	FramesLooking    int     `json:"frames_looking"`
	FramesNotLooking int     `json:"frames_not_looking"`
	AttentionRatio   float64 `json:"attention_ratio"`
	CurrentState     State   `json:"current_state"`
	TimeNotLooking   float64 `json:"time_not_looking"`
	AlertActive      bool    `json:"alert_active"`
}

// Tracker owns all temporal attention state. It is driven one frame
// at a time by Update and is not safe for concurrent use.
type Tracker struct {
	config Config

	state   State
	window  *window
	pending State
	// consecutive counts how many consecutive smoothed frames have
	// disagreed with the current state while matching pending.
	consecutive int

	timeNotLooking float64
	lastUpdate     time.Time
	alertActive    bool

	totalFrames      int
	framesLooking    int
	framesNotLooking int
}

// NewTracker creates a Tracker with the given configuration.
// now seeds the update clock so the first delta is small and
// non-negative.
func NewTracker(config Config, now time.Time) (*Tracker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Tracker{
		config:     config,
		state:      Looking,
		pending:    Looking,
		window:     newWindow(config.SmoothingWindow),
		lastUpdate: now,
	}, nil
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.config
}

// Classify derives the raw per-frame attention state from a reading.
// It is pure: an absent reading is always not-looking; a present one
// is looking iff both angles are strictly inside their thresholds.
func (t *Tracker) Classify(sample pose.Sample) State {
	if !sample.Present {
		return NotLooking
	}

	if math.Abs(sample.Yaw) < t.config.YawThreshold && math.Abs(sample.Pitch) < t.config.PitchThreshold {
		return Looking
	}
	return NotLooking
}

// Update processes one frame. now is caller-supplied so real and
// synthetic clocks behave identically.
func (t *Tracker) Update(sample pose.Sample, now time.Time) FrameResult {
	delta := now.Sub(t.lastUpdate).Seconds()
	if delta < 0 {
		delta = 0 // clock skew never subtracts accumulated time
	}
	t.lastUpdate = now

	raw := t.Classify(sample)
	t.window.Push(raw)

	// Majority vote once the window has filled; before that the
	// smoothed value tracks the raw frame with a binary confidence.
	var smoothed State
	var confidence float64
	if t.window.Full() {
		confidence = float64(t.window.Count(Looking)) / float64(t.window.Cap())
		if confidence > 0.5 {
			smoothed = Looking
		} else {
			smoothed = NotLooking
		}
	} else {
		smoothed = raw
		if smoothed == Looking {
			confidence = 1.0
		}
	}

	// Debounce: a transition commits only after MinConsecutiveFrames
	// consecutive smoothed frames in the new direction. The pending
	// latch resets whenever the smoothed signal reverts early, so an
	// oscillating signal never accumulates partial credit.
	if smoothed != t.state {
		if smoothed == t.pending {
			t.consecutive++
		} else {
			t.pending = smoothed
			t.consecutive = 1
		}

		if t.consecutive >= t.config.MinConsecutiveFrames {
			t.state = smoothed
			t.consecutive = 0

			if t.state == Looking {
				t.timeNotLooking = 0
				t.alertActive = false
			}
		}
	} else {
		t.consecutive = 0
		t.pending = smoothed
	}

	if t.state == NotLooking {
		t.timeNotLooking += delta
		if t.timeNotLooking >= t.config.AlertThreshold {
			t.alertActive = true
		}
	}

	t.totalFrames++
	if t.state == Looking {
		t.framesLooking++
	} else {
		t.framesNotLooking++
	}

	return FrameResult{
		State:          t.state,
		TimeNotLooking: t.timeNotLooking,
		AlertActive:    t.alertActive,
		Confidence:     confidence,
		RawState:       raw,
	}
}

// Statistics returns a snapshot of the cumulative counters and the
// current state. It never mutates the tracker.
func (t *Tracker) Statistics() Stats {
	ratio := 1.0
	if t.totalFrames > 0 {
		ratio = float64(t.framesLooking) / float64(t.totalFrames)
	}

	return Stats{
		TotalFrames:      t.totalFrames,
		FramesLooking:    t.framesLooking,
		FramesNotLooking: t.framesNotLooking,
		AttentionRatio:   ratio,
		CurrentState:     t.state,
		TimeNotLooking:   t.timeNotLooking,
		AlertActive:      t.alertActive,
	}
}

// Reset restores all tracking state to its construction-time values
// while keeping the configuration. now reseeds the update clock.
func (t *Tracker) Reset(now time.Time) {
	t.state = Looking
	t.pending = Looking
	t.window.Clear()
	t.consecutive = 0
	t.timeNotLooking = 0
	t.lastUpdate = now
	t.alertActive = false
	t.totalFrames = 0
	t.framesLooking = 0
	t.framesNotLooking = 0
}
