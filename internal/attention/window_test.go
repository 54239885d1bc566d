package attention

import "testing"

func TestWindow_PushAndCount(t *testing.T) {
	w := newWindow(3)

	if w.Len() != 0 {
		t.Errorf("expected empty window, got length %d", w.Len())
	}
	if w.Full() {
		t.Error("new window should not be full")
	}

	w.Push(Looking)
	w.Push(NotLooking)

	if w.Len() != 2 {
		t.Errorf("expected length 2, got %d", w.Len())
	}
	if w.Count(Looking) != 1 {
		t.Errorf("expected 1 looking entry, got %d", w.Count(Looking))
	}

	w.Push(Looking)
	if !w.Full() {
		t.Error("window should be full after 3 pushes")
	}
}

func TestWindow_EvictsOldestFirst(t *testing.T) {
	w := newWindow(3)

	// Fill with looking, then push not_looking entries one at a time.
	// Each push past capacity must evict exactly one looking entry.
	w.Push(Looking)
	w.Push(Looking)
	w.Push(Looking)

	w.Push(NotLooking)
	if w.Count(Looking) != 2 {
		t.Errorf("expected 2 looking after first eviction, got %d", w.Count(Looking))
	}

	w.Push(NotLooking)
	if w.Count(Looking) != 1 {
		t.Errorf("expected 1 looking after second eviction, got %d", w.Count(Looking))
	}

	w.Push(NotLooking)
	if w.Count(Looking) != 0 {
		t.Errorf("expected 0 looking after third eviction, got %d", w.Count(Looking))
	}

	if w.Len() != 3 {
		t.Errorf("length should stay at capacity, got %d", w.Len())
	}
}

func TestWindow_Clear(t *testing.T) {
	w := newWindow(2)
	w.Push(Looking)
	w.Push(NotLooking)

	w.Clear()

	if w.Len() != 0 {
		t.Errorf("expected empty window after clear, got length %d", w.Len())
	}
	if w.Count(Looking) != 0 || w.Count(NotLooking) != 0 {
		t.Error("cleared window should count zero entries")
	}

	// The window must be usable again after a clear
	w.Push(NotLooking)
	if w.Count(NotLooking) != 1 {
		t.Errorf("expected 1 not_looking after reuse, got %d", w.Count(NotLooking))
	}
}

func TestWindow_CapacityOne(t *testing.T) {
	w := newWindow(1)

	w.Push(Looking)
	if !w.Full() {
		t.Error("capacity-1 window should be full after one push")
	}

	w.Push(NotLooking)
	if w.Count(Looking) != 0 {
		t.Error("push should have evicted the looking entry")
	}
	if w.Count(NotLooking) != 1 {
		t.Errorf("expected 1 not_looking entry, got %d", w.Count(NotLooking))
	}
}
