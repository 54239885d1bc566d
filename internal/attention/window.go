package attention

// window is a fixed-capacity ring buffer over recent raw attention
// states. Pushing at capacity evicts the oldest entry.
type window struct {
	states []State
	head   int
	length int
}

// newWindow creates a window with the given capacity (>= 1).
func newWindow(capacity int) *window {
	return &window{
		states: make([]State, capacity),
	}
}

// Push appends a state, evicting the oldest when full.
func (w *window) Push(s State) {
	if w.length < len(w.states) {
		w.states[(w.head+w.length)%len(w.states)] = s
		w.length++
		return
	}

	// Overwrite the oldest slot and advance the head
	w.states[w.head] = s
	w.head = (w.head + 1) % len(w.states)
}

// Len returns the number of states currently held.
func (w *window) Len() int {
	return w.length
}

// Cap returns the fixed capacity.
func (w *window) Cap() int {
	return len(w.states)
}

// Full reports whether the window has reached capacity.
func (w *window) Full() bool {
	return w.length == len(w.states)
}

// Count returns how many held states equal s.
func (w *window) Count(s State) int {
	count := 0
	for i := 0; i < w.length; i++ {
		if w.states[(w.head+i)%len(w.states)] == s {
			count++
		}
	}
	return count
}

// Clear empties the window without releasing its storage.
func (w *window) Clear() {
	w.head = 0
	w.length = 0
}
