package monitor

import (
	"log"
	"time"

	"github.com/ayusman/drishti/internal/attention"
)

// runLoop is the sampling loop that feeds readings from the pose
// source through the tracker.
//
// Loop logic:
// 1. Start at the active sampling rate (activeFPS=15)
// 2. On every tick read one sample and update the tracker
// 3. After 2s of continuous face absence, drop to idle rate (idleFPS=5)
// 4. On the first present sample, return to the active rate
// 5. Log state transitions and alert raise/clear
func (m *Monitor) runLoop(stopCh chan struct{}) {
	activeMode := true
	lastPresentTime := time.Now()

	frameInterval := time.Second / time.Duration(ActiveFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	var prevState attention.State = attention.Looking
	prevAlert := false

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing if tracking is disabled
			if !m.IsEnabled() {
				continue
			}

			m.mu.RLock()
			source := m.source
			m.mu.RUnlock()
			if source == nil {
				continue
			}

			sample, err := source.Read()
			if err != nil {
				log.Printf("Error reading pose sample: %v", err)
				continue
			}

			if sample.Present {
				lastPresentTime = time.Now()

				// Switch to active mode if not already
				if !activeMode {
					activeMode = true
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active sampling")
				}
			} else if activeMode {
				if time.Since(lastPresentTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle sampling")
				}
			}

			res := m.Update(sample, time.Now())

			if res.State != prevState {
				log.Printf("Attention state changed: %s -> %s (confidence: %.2f)", prevState, res.State, res.Confidence)
				prevState = res.State
			}

			if res.AlertActive != prevAlert {
				if res.AlertActive {
					log.Printf("Attention alert raised after %.1fs not looking", res.TimeNotLooking)
				} else {
					log.Println("Attention alert cleared")
				}
				prevAlert = res.AlertActive
			}
		}
	}
}
