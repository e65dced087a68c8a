package transport

import (
	"sync"
	"time"
)

// historyLimit caps the virtual log so a long simulation session cannot
// grow without bound.
const historyLimit = 1000

// SentByte is one byte recorded by the virtual transport, with the time
// it was written.
type SentByte struct {
	Byte byte
	Time time.Time
}

// Virtual is the in-memory link variant. It never touches hardware;
// every write succeeds and is appended to an observable log that tests
// and the monitor UI can read back.
type Virtual struct {
	mu   sync.Mutex
	open bool
	sent []SentByte
}

// NewVirtual creates an unopened virtual transport.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Open marks the virtual link as connected. It cannot fail.
func (v *Virtual) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = true
	return nil
}

// Write records the byte in the log. Writing to a closed virtual link
// fails with ErrNotOpen, matching the real variants.
func (v *Virtual) Write(b byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open {
		return ErrNotOpen
	}
	if len(v.sent) >= historyLimit {
		copy(v.sent, v.sent[1:])
		v.sent = v.sent[:historyLimit-1]
	}
	v.sent = append(v.sent, SentByte{Byte: b, Time: time.Now()})
	return nil
}

// Close marks the link as disconnected. Idempotent.
func (v *Virtual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = false
	return nil
}

// IsOpen reports whether the virtual link is connected.
func (v *Virtual) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// Sent returns the raw bytes written so far, oldest first.
func (v *Virtual) Sent() []byte {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]byte, len(v.sent))
	for i, s := range v.sent {
		out[i] = s.Byte
	}
	return out
}

// Log returns a copy of the full write log with timestamps.
func (v *Virtual) Log() []SentByte {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]SentByte, len(v.sent))
	copy(out, v.sent)
	return out
}

// Clear empties the write log without touching the connection state.
func (v *Virtual) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sent = nil
}
