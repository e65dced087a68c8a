package recognize

import (
	"sync"
	"time"

	"github.com/ayusman/yantra/internal/command"
	"github.com/ayusman/yantra/internal/events"
)

// Submitter is the gateway surface the policy needs. Policies never
// read actuator state; they only submit requests and log events.
type Submitter interface {
	Submit(command.Request) error
}

// Policy wraps one opaque classifier's event stream and decides which
// events become command requests. Each pipeline gets its own instance
// with its own threshold, cooldown clock and mapping table.
//
// The policy is a two-state machine: Idle, where a qualifying event
// produces a command, and Cooldown, entered after every accepted event,
// where everything is rejected until the window elapses.
type Policy struct {
	producer  command.Producer
	threshold float64
	cooldown  time.Duration
	mapping   Mapping
	gateway   Submitter
	hub       *events.Hub

	// reverseOnStop is the gesture pipeline's quirk: each accepted
	// "stop" flips the drive direction, so the next "start" drives the
	// opposite way. This is wrapper-local state, never gateway state.
	reverseOnStop bool

	now func() time.Time // swapped out by tests

	mu           sync.Mutex
	lastAccepted time.Time
	reversed     bool
}

// Option configures a Policy.
type Option func(*Policy)

// WithDirectionToggle enables the stop-flips-direction behavior used by
// the gesture pipeline.
func WithDirectionToggle() Option {
	return func(p *Policy) { p.reverseOnStop = true }
}

// withClock replaces the policy's time source in tests.
func withClock(now func() time.Time) Option {
	return func(p *Policy) { p.now = now }
}

// NewPolicy creates a policy for one pipeline.
func NewPolicy(producer command.Producer, threshold float64, cooldown time.Duration,
	mapping Mapping, gateway Submitter, hub *events.Hub, opts ...Option) *Policy {
	p := &Policy{
		producer:  producer,
		threshold: threshold,
		cooldown:  cooldown,
		mapping:   mapping,
		gateway:   gateway,
		hub:       hub,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// OnEvent filters one classification result and, if it survives the
// confidence gate, the cooldown window and the mapping lookup, submits
// the mapped command to the gateway. Every decision is published to the
// activity hub, accepted or not.
func (p *Policy) OnEvent(ev Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ev.Confidence < p.threshold {
		p.emit(ev, events.StatusRejected, "low confidence")
		return
	}

	now := p.now()
	if !p.lastAccepted.IsZero() && now.Sub(p.lastAccepted) < p.cooldown {
		p.emit(ev, events.StatusRejected, "cooldown")
		return
	}

	binding, ok := p.mapping[ev.Label]
	if !ok {
		// Open vocabulary: an unmapped label is expected, not an error.
		p.emit(ev, events.StatusIgnored, "no mapping")
		return
	}

	req := p.buildRequest(binding)
	p.lastAccepted = now
	p.emit(ev, events.StatusAccepted, "")

	if binding.Emergency && p.reverseOnStop {
		p.reversed = !p.reversed
	}

	p.gateway.Submit(req)
}

// buildRequest instantiates the binding's template, applying the
// direction flip when it is in effect.
func (p *Policy) buildRequest(b Binding) command.Request {
	if b.Emergency {
		return command.EmergencyStop(p.producer)
	}

	action := b.Action
	if p.reversed {
		switch action {
		case command.Forward:
			action = command.Backward
		case command.Backward:
			action = command.Forward
		}
	}

	return command.Request{
		Producer: p.producer,
		Actuator: b.Actuator,
		Action:   action,
		Duration: b.Duration,
	}
}

func (p *Policy) emit(ev Event, status, detail string) {
	p.hub.Publish(events.Event{
		Kind:       events.KindRecognition,
		Status:     status,
		Producer:   string(p.producer),
		Detail:     detail,
		Label:      ev.Label,
		Confidence: ev.Confidence,
	})
}
