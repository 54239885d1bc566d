// Package monitor provides the main orchestration for the Drishti
// attention monitoring system. It drives the attention tracker from a
// pose source and fans results out to subscribers.
package monitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/drishti/internal/attention"
	"github.com/ayusman/drishti/internal/pose"
	"github.com/ayusman/drishti/internal/store"
)

// Sampling cadence constants.
const (
	// IdleFPS is the sampling rate while no face has been seen for a while.
	IdleFPS = 5
	// ActiveFPS is the sampling rate while a face is present.
	ActiveFPS = 15
	// IdleTimeoutMs is how long the face must stay absent before
	// dropping to the idle sampling rate.
	IdleTimeoutMs = 2000
	// subscriberBuffer is the per-subscriber channel capacity. Slow
	// consumers lose frames rather than stalling the loop.
	subscriberBuffer = 16
)

// Config holds configuration options for the monitor.
type Config struct {
	Store   *store.Store
	Source  pose.Source
	Tracker attention.Config
}

// Monitor owns the attention tracker and the sampling loop.
type Monitor struct {
	config  Config
	source  pose.Source
	tracker *attention.Tracker

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}

	latest      attention.FrameResult
	subscribers map[chan attention.FrameResult]struct{}
}

// New creates a Monitor with the given configuration. A zero
// Tracker config falls back to the defaults.
func New(config Config) (*Monitor, error) {
	trackerConfig := config.Tracker
	if trackerConfig == (attention.Config{}) {
		trackerConfig = attention.DefaultConfig()
	}

	tracker, err := attention.NewTracker(trackerConfig, time.Now())
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	return &Monitor{
		config:      config,
		source:      config.Source,
		tracker:     tracker,
		enabled:     true,
		subscribers: make(map[chan attention.FrameResult]struct{}),
	}, nil
}

// SetEnabled enables or disables attention tracking. While disabled
// the loop keeps running but frames are not processed.
func (m *Monitor) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether attention tracking is currently enabled.
func (m *Monitor) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetSource sets the pose source implementation to use.
func (m *Monitor) SetSource(s pose.Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = s
}

// LoadActiveProfile rebuilds the tracker from the active profile in
// the store, if one exists. Without a store or an active profile the
// current configuration is kept.
func (m *Monitor) LoadActiveProfile() error {
	if m.config.Store == nil {
		return nil
	}

	profile, err := m.config.Store.Profiles().GetActive()
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := m.ApplyProfile(profile); err != nil {
		return err
	}

	log.Printf("Loaded profile %q from database", profile.Name)
	return nil
}

// ApplyProfile replaces the tracker with one built from the profile.
// All accumulated tracking state is discarded.
func (m *Monitor) ApplyProfile(p *store.Profile) error {
	tracker, err := attention.NewTracker(profileConfig(p), time.Now())
	if err != nil {
		return fmt.Errorf("apply profile %q: %w", p.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracker = tracker
	return nil
}

// profileConfig converts a store.Profile to an attention.Config.
func profileConfig(p *store.Profile) attention.Config {
	return attention.Config{
		AlertThreshold:       p.AlertThreshold,
		YawThreshold:         p.YawThreshold,
		PitchThreshold:       p.PitchThreshold,
		SmoothingWindow:      p.SmoothingWindow,
		MinConsecutiveFrames: p.MinConsecutive,
	}
}

// Snapshot returns the most recent frame result.
func (m *Monitor) Snapshot() attention.FrameResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

// Stats returns a snapshot of the tracker statistics.
func (m *Monitor) Stats() attention.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracker.Statistics()
}

// TrackerConfig returns the configuration of the current tracker.
func (m *Monitor) TrackerConfig() attention.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tracker.Config()
}

// Reset clears all accumulated tracking state.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracker.Reset(time.Now())
	m.latest = attention.FrameResult{}
}

// Update feeds one reading through the tracker and publishes the
// result. Exposed for callers that drive frames themselves (tests,
// batch replays); the sampling loop uses it too.
func (m *Monitor) Update(sample pose.Sample, now time.Time) attention.FrameResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := m.tracker.Update(sample, now)
	m.latest = res

	// Sends stay under the mutex so Unsubscribe can never close a
	// channel mid-publish. They are non-blocking, so the hold time
	// stays bounded.
	for ch := range m.subscribers {
		select {
		case ch <- res:
		default:
			// Slow consumer, drop the frame
		}
	}
	return res
}

// Subscribe returns a channel receiving every published frame result.
// The channel is buffered; frames are dropped when it is full.
func (m *Monitor) Subscribe() chan attention.FrameResult {
	ch := make(chan attention.FrameResult, subscriberBuffer)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (m *Monitor) Unsubscribe(ch chan attention.FrameResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
}

// Start begins the sampling loop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Don't start if already running
	if m.stopCh != nil {
		return nil
	}
	if m.source == nil {
		return fmt.Errorf("no pose source configured")
	}

	m.stopCh = make(chan struct{})
	go m.runLoop(m.stopCh)

	log.Println("Attention monitor started")
	return nil
}

// Stop halts the sampling loop and closes the pose source.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopCh != nil {
		close(m.stopCh)
		m.stopCh = nil
	}

	if m.source != nil {
		if err := m.source.Close(); err != nil {
			log.Printf("Error closing pose source: %v", err)
		}
	}

	log.Println("Attention monitor stopped")
}
