package command

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/yantra/internal/events"
	"github.com/ayusman/yantra/internal/transport"
)

// Gateway submission errors.
var (
	ErrNotConnected = errors.New("not connected")
	ErrPreempted    = errors.New("preempted by emergency stop")
	ErrUnsupported  = errors.New("unsupported action for actuator")
)

// pendingStop is a scheduled deferred stop for one channel. The seq
// number lets the timer callback detect that it has been replaced by a
// newer command while it was waiting for the lock.
type pendingStop struct {
	seq   uint64
	timer *time.Timer
}

// Gateway is the single choke point between every input producer and
// the wire. All requests funnel through Submit; the gateway's mutex
// serializes the whole read-state → decide → write → update-state
// sequence, so no two producers can ever interleave writes for the same
// channel. The gateway owns the transport handle and the actuator state
// tracker for the life of a connection; nothing else writes to either.
type Gateway struct {
	hub *events.Hub

	// halting is the emergency-stop fast path: it is set before the
	// stop takes the lock, so ordinary requests queued behind it bail
	// out instead of writing after the stop byte.
	halting atomic.Bool

	mu          sync.Mutex
	tr          transport.Transport // nil while disconnected
	tracker     Tracker
	pending     [numChannels]*pendingStop
	seq         uint64
	stale       bool
	lastFailure string
}

// NewGateway creates a disconnected gateway publishing to hub.
func NewGateway(hub *events.Hub) *Gateway {
	return &Gateway{hub: hub}
}

// Attach hands an opened transport to the gateway. All actuator state
// is reset: a fresh connection means a fresh robot.
func (g *Gateway) Attach(t transport.Transport) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelAllLocked()
	g.tracker.Reset()
	g.tr = t
	g.stale = false
	g.lastFailure = ""
}

// Detach drops the transport reference, cancels every deferred stop and
// resets all actuator state without sending any further bytes. The
// caller closes the transport; the device is assumed unreachable or
// fail-safe.
func (g *Gateway) Detach() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.cancelAllLocked()
	g.tracker.Reset()
	g.tr = nil
	g.stale = false
}

// Connected reports whether a transport is attached and open.
func (g *Gateway) Connected() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tr != nil && g.tr.IsOpen()
}

// Stale reports whether a write has failed since the last successful
// state change, meaning the robot's true state is unknown.
func (g *Gateway) Stale() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stale
}

// States returns a snapshot of every channel's tracked state.
func (g *Gateway) States() []ChannelState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tracker.Snapshot()
}

// Submit applies one command request. Processing order, first match
// wins: emergency stop, not-connected rejection, duplicate suppression,
// stop-then-reverse on direction change, then the plain write with an
// optional deferred stop.
func (g *Gateway) Submit(req Request) error {
	if req.Emergency {
		return g.emergencyStop(req.Producer)
	}
	if g.halting.Load() {
		// Published outside the lock on purpose: this path must not
		// wait behind the emergency stop it is yielding to.
		g.hub.Publish(events.Event{
			Kind:     events.KindCommand,
			Status:   events.StatusRejected,
			Producer: string(req.Producer),
			Detail:   "preempted by emergency stop",
		})
		return ErrPreempted
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.tr == nil || !g.tr.IsOpen() {
		g.emit(events.StatusRejected, req.Producer, "not connected", 0)
		return ErrNotConnected
	}

	ch := req.Actuator.Channel()

	if req.Action == Stop {
		return g.stopChannelLocked(req.Producer, ch)
	}

	wire, ok := Char(ch, req.Action)
	if !ok {
		g.emit(events.StatusRejected, req.Producer,
			fmt.Sprintf("%s cannot %s", ch, req.Action), 0)
		return ErrUnsupported
	}

	// A repeat of the action already in effect is a no-op; a held key
	// being re-polled must not produce duplicate wire traffic.
	if cur, active := g.tracker.Active(ch); active {
		if cur == req.Action {
			g.emit(events.StatusIgnored, req.Producer, "already active", wire)
			return nil
		}
		// Direction change: the channel is stopped first, then driven
		// the new way. Both writes happen inside this critical section.
		stop, _ := StopChar(ch)
		if err := g.writeLocked(req.Producer, stop); err != nil {
			return err
		}
		g.tracker.RecordStop(ch)
	}

	if err := g.writeLocked(req.Producer, wire); err != nil {
		return err
	}

	// The LED toggle is momentary: nothing to track, nothing to stop.
	if req.Action != Toggle {
		g.tracker.Record(ch, req.Action)
	}

	g.cancelPendingLocked(ch)
	if req.Duration > 0 && req.Action != Toggle {
		g.schedulePendingLocked(ch, req.Producer, req.Duration)
	}

	g.emit(events.StatusAccepted, req.Producer, "", wire)
	return nil
}

// stopChannelLocked handles an actuator-scoped stop. The stop byte is
// only sent if the channel is actually moving.
func (g *Gateway) stopChannelLocked(p Producer, ch Channel) error {
	stop, ok := StopChar(ch)
	if !ok {
		g.emit(events.StatusIgnored, p, fmt.Sprintf("%s has no stop", ch), 0)
		return nil
	}
	if !g.tracker.IsActive(ch) {
		g.emit(events.StatusIgnored, p, fmt.Sprintf("%s already stopped", ch), 0)
		return nil
	}

	g.cancelPendingLocked(ch)
	if err := g.writeLocked(p, stop); err != nil {
		return err
	}
	g.tracker.RecordStop(ch)
	g.emit(events.StatusAccepted, p, "", stop)
	return nil
}

// emergencyStop writes the global stop byte and clears everything. It
// is best-effort: state is reset even if the write fails, because
// safety bookkeeping must not depend on a healthy link.
func (g *Gateway) emergencyStop(p Producer) error {
	g.halting.Store(true)
	g.mu.Lock()
	defer g.mu.Unlock()
	defer g.halting.Store(false)

	g.cancelAllLocked()
	g.tracker.Reset()

	if g.tr == nil || !g.tr.IsOpen() {
		g.emit(events.StatusRejected, p, "not connected", 0)
		return ErrNotConnected
	}
	if err := g.tr.Write(EmergencyStopChar); err != nil {
		g.stale = true
		g.emitFailure(p, err)
		return fmt.Errorf("emergency stop: %w", err)
	}
	g.stale = false
	g.emit(events.StatusAccepted, p, "emergency stop", EmergencyStopChar)
	return nil
}

// writeLocked sends one byte on the attached transport. On failure the
// tracked state is left untouched and flagged stale: the robot may or
// may not have acted, and that ambiguity is surfaced, not hidden.
func (g *Gateway) writeLocked(p Producer, b byte) error {
	if err := g.tr.Write(b); err != nil {
		g.stale = true
		g.emitFailure(p, err)
		return fmt.Errorf("write %q: %w", string(b), err)
	}
	return nil
}

// schedulePendingLocked arms a deferred stop for the channel. The
// critical section owns cancellation: the callback re-acquires the lock
// and checks its sequence number, so a new command racing the expiry
// always wins cleanly.
func (g *Gateway) schedulePendingLocked(ch Channel, p Producer, d time.Duration) {
	g.seq++
	seq := g.seq
	g.pending[ch] = &pendingStop{
		seq: seq,
		timer: time.AfterFunc(d, func() {
			g.expirePending(ch, seq, p)
		}),
	}
}

func (g *Gateway) expirePending(ch Channel, seq uint64, p Producer) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pend := g.pending[ch]
	if pend == nil || pend.seq != seq {
		return // replaced or cancelled while we waited
	}
	g.pending[ch] = nil

	if g.tr == nil || !g.tr.IsOpen() || !g.tracker.IsActive(ch) {
		return
	}
	stop, ok := StopChar(ch)
	if !ok {
		return
	}
	if err := g.writeLocked(p, stop); err != nil {
		return
	}
	g.tracker.RecordStop(ch)
	g.emit(events.StatusAccepted, p, "duration elapsed", stop)
}

func (g *Gateway) cancelPendingLocked(ch Channel) {
	if pend := g.pending[ch]; pend != nil {
		pend.timer.Stop()
		g.pending[ch] = nil
	}
}

func (g *Gateway) cancelAllLocked() {
	for ch := range g.pending {
		g.cancelPendingLocked(Channel(ch))
	}
}

// emit publishes a command event. Any non-failure outcome resets the
// failure coalescing window.
func (g *Gateway) emit(status string, p Producer, detail string, wire byte) {
	g.lastFailure = ""
	ev := events.Event{
		Kind:     events.KindCommand,
		Status:   status,
		Producer: string(p),
		Detail:   detail,
	}
	if wire != 0 {
		ev.Wire = string(wire)
	}
	g.hub.Publish(ev)
}

// emitFailure publishes a write failure, coalescing identical
// consecutive failures so a dead link cannot flood the activity log.
func (g *Gateway) emitFailure(p Producer, err error) {
	if err.Error() == g.lastFailure {
		return
	}
	g.lastFailure = err.Error()
	g.hub.Publish(events.Event{
		Kind:     events.KindCommand,
		Status:   events.StatusFailed,
		Producer: string(p),
		Detail:   err.Error(),
	})
}
