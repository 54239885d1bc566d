package pose

import "sync"

// MockSource is a test implementation of the Source interface.
// It allows tests to control the readings returned by Read.
type MockSource struct {
	mu     sync.Mutex
	sample Sample
	err    error
	closed bool
}

// NewMockSource creates a new MockSource that reports no face until
// a sample is set.
func NewMockSource() *MockSource {
	return &MockSource{}
}

// SetSample sets the reading that will be returned by Read.
func (m *MockSource) SetSample(s Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sample = s
}

// SetError sets the error that will be returned by Read.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Read returns the pre-configured reading or error.
func (m *MockSource) Read() (Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Sample{}, ErrSourceClosed
	}
	if m.err != nil {
		return Sample{}, m.err
	}
	return m.sample, nil
}

// Close marks the source closed.
func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
