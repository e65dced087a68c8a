package audio

import (
	"sync"

	"github.com/ayusman/yantra/internal/recognize"
)

// MockSource plays back a fixed sample buffer in chunks, then reports
// ErrSourceClosed. It stands in for a microphone in tests.
type MockSource struct {
	mu      sync.Mutex
	samples []float32
	pos     int
	open    bool
}

// NewMockSource creates a mock source over the given samples.
func NewMockSource(samples []float32) *MockSource {
	return &MockSource{samples: samples}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	s.pos = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

func (s *MockSource) Read(buf []float32) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.pos >= len(s.samples) {
		return 0, ErrSourceClosed
	}
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// MockClassifier returns a scripted sequence of events, one per window,
// repeating the last once the script runs out.
type MockClassifier struct {
	mu     sync.Mutex
	script []recognize.Event
	index  int
	err    error
}

// NewMockClassifier creates a mock over the given event script.
func NewMockClassifier(script ...recognize.Event) *MockClassifier {
	return &MockClassifier{script: script}
}

// SetError makes every subsequent Classify call fail with err.
func (m *MockClassifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockClassifier) Classify(window []float32) (recognize.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return recognize.Event{}, m.err
	}
	if len(m.script) == 0 {
		return recognize.Event{}, nil
	}
	ev := m.script[m.index]
	if m.index < len(m.script)-1 {
		m.index++
	}
	return ev, nil
}

func (m *MockClassifier) Close() error {
	return nil
}
