package vision

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/yantra/internal/recognize"
)

// MockClassifier is a scripted classifier for tests: it returns a fixed
// sequence of events, repeating the last one once the script runs out.
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

func (m *MockClassifier) Classify(frame *gocv.Mat) (recognize.Event, error) {
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
