// Package events provides the activity hub: a publish/subscribe fan-out
// of everything observable in the system — connection-state changes,
// command outcomes, and recognition decisions. The monitor UI, the
// history store and the tests all attach here.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind groups events by what part of the system produced them.
type Kind string

const (
	KindConnection  Kind = "connection"
	KindCommand     Kind = "command"
	KindRecognition Kind = "recognition"
)

// Command and recognition outcomes. Rejections are expected filtering
// results, not failures.
const (
	StatusAccepted  = "accepted"
	StatusIgnored   = "ignored"
	StatusRejected  = "rejected"
	StatusFailed    = "failed"
	StatusConnected = "connected"
	StatusClosed    = "disconnected"
	StatusError     = "error"
)

// Event is one entry in the activity log.
type Event struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Kind       Kind      `json:"kind"`
	Status     string    `json:"status"`
	Producer   string    `json:"producer,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Wire       string    `json:"wire,omitempty"`
	Label      string    `json:"label,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// subscriberBuffer is how many events a slow subscriber may fall behind
// before the hub starts dropping events for it.
const subscriberBuffer = 64

// Hub fans events out to subscribers. Publishing never blocks: a
// subscriber that cannot keep up loses events rather than stalling the
// command path.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber and returns its channel together
// with a cancel function. Cancel must be called to release the
// subscription; the channel is closed by cancel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish stamps the event with an ID and timestamp and delivers it to
// every subscriber that has room.
func (h *Hub) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
