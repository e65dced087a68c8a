// Package mode owns the input mode state machine. Exactly one mode is
// current at a time; at most one of the voice and gesture pipelines is
// capturing. Keyboard input is never fully disabled — the emergency
// stop works in every mode, and by policy (documented in DESIGN.md) the
// ordinary drive and arm keys stay live during automatic modes too.
package mode

import (
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/yantra/internal/events"
)

// Mode is the currently selected input mode.
type Mode string

const (
	Keyboard Mode = "keyboard"
	Voice    Mode = "voice"
	Gesture  Mode = "gesture"
)

// Parse validates a mode name from the API.
func Parse(s string) (Mode, error) {
	switch Mode(s) {
	case Keyboard, Voice, Gesture:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Producer is a capture+inference pipeline the coordinator can start
// and stop. Start is expected to spawn the pipeline's own goroutine and
// return; Stop blocks until the pipeline has wound down.
type Producer interface {
	Start() error
	Stop()
}

// Coordinator transitions between input modes. Transitions are explicit
// events (a UI toggle, an API call); there is no automatic switching.
type Coordinator struct {
	voice   Producer
	gesture Producer
	hub     *events.Hub

	mu      sync.Mutex
	current Mode
}

// NewCoordinator creates a coordinator starting in Keyboard mode with
// both pipelines idle.
func NewCoordinator(voice, gesture Producer, hub *events.Hub) *Coordinator {
	return &Coordinator{
		voice:   voice,
		gesture: gesture,
		hub:     hub,
		current: Keyboard,
	}
}

// Current returns the active mode.
func (c *Coordinator) Current() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set transitions to the given mode: the pipeline of the mode being
// left is stopped before the new one starts, so voice and gesture can
// never capture at the same time. Setting the current mode again is a
// no-op. If the new pipeline fails to start, the coordinator falls back
// to Keyboard.
func (c *Coordinator) Set(m Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m == c.current {
		return nil
	}

	switch c.current {
	case Voice:
		c.voice.Stop()
	case Gesture:
		c.gesture.Stop()
	}

	var err error
	switch m {
	case Voice:
		err = c.voice.Start()
	case Gesture:
		err = c.gesture.Start()
	}

	if err != nil {
		c.current = Keyboard
		log.Printf("could not enter %s mode: %v", m, err)
		return fmt.Errorf("enter %s mode: %w", m, err)
	}

	c.current = m
	c.hub.Publish(events.Event{
		Kind:   events.KindConnection,
		Status: "mode",
		Detail: string(m),
	})
	return nil
}

// Toggle flips between the given mode and Keyboard: selecting the mode
// that is already current returns to manual control.
func (c *Coordinator) Toggle(m Mode) error {
	if c.Current() == m {
		return c.Set(Keyboard)
	}
	return c.Set(m)
}

// Shutdown stops whichever pipeline is running and returns to Keyboard.
func (c *Coordinator) Shutdown() {
	c.Set(Keyboard)
}
