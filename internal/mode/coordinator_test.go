package mode

import (
	"errors"
	"testing"

	"github.com/ayusman/yantra/internal/events"
)

// fakeProducer records start/stop calls in order.
type fakeProducer struct {
	name     string
	startErr error
	running  bool
	calls    *[]string
}

func (f *fakeProducer) Start() error {
	*f.calls = append(*f.calls, f.name+":start")
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeProducer) Stop() {
	*f.calls = append(*f.calls, f.name+":stop")
	f.running = false
}

func newTestCoordinator() (*Coordinator, *fakeProducer, *fakeProducer, *[]string) {
	calls := &[]string{}
	voice := &fakeProducer{name: "voice", calls: calls}
	gesture := &fakeProducer{name: "gesture", calls: calls}
	return NewCoordinator(voice, gesture, events.NewHub()), voice, gesture, calls
}

func TestCoordinator_StartsInKeyboard(t *testing.T) {
	c, voice, gesture, _ := newTestCoordinator()
	if c.Current() != Keyboard {
		t.Errorf("Current() = %v, want Keyboard", c.Current())
	}
	if voice.running || gesture.running {
		t.Error("pipelines running before any mode switch")
	}
}

func TestCoordinator_SetStartsPipeline(t *testing.T) {
	c, voice, _, _ := newTestCoordinator()

	if err := c.Set(Voice); err != nil {
		t.Fatalf("Set(Voice) error = %v", err)
	}
	if c.Current() != Voice || !voice.running {
		t.Errorf("Current() = %v, voice running = %v", c.Current(), voice.running)
	}
}

func TestCoordinator_SwitchStopsOldBeforeStartingNew(t *testing.T) {
	c, voice, gesture, calls := newTestCoordinator()

	c.Set(Voice)
	if err := c.Set(Gesture); err != nil {
		t.Fatalf("Set(Gesture) error = %v", err)
	}

	if voice.running {
		t.Error("voice still running after switch to gesture")
	}
	if !gesture.running {
		t.Error("gesture not running after switch")
	}

	// The old pipeline must release the hardware before the new one
	// grabs it.
	want := []string{"voice:start", "voice:stop", "gesture:start"}
	if len(*calls) != len(want) {
		t.Fatalf("calls = %v, want %v", *calls, want)
	}
	for i, call := range want {
		if (*calls)[i] != call {
			t.Fatalf("calls = %v, want %v", *calls, want)
		}
	}
}

func TestCoordinator_SetSameModeNoOp(t *testing.T) {
	c, _, _, calls := newTestCoordinator()

	c.Set(Voice)
	before := len(*calls)
	if err := c.Set(Voice); err != nil {
		t.Fatalf("Set(Voice) again error = %v", err)
	}
	if len(*calls) != before {
		t.Errorf("re-selecting the current mode touched the pipeline: %v", *calls)
	}
}

func TestCoordinator_StartFailureFallsBackToKeyboard(t *testing.T) {
	c, _, gesture, _ := newTestCoordinator()
	gesture.startErr = errors.New("camera busy")

	if err := c.Set(Gesture); err == nil {
		t.Fatal("Set(Gesture) succeeded, want start error")
	}
	if c.Current() != Keyboard {
		t.Errorf("Current() = %v after failed start, want Keyboard", c.Current())
	}
}

func TestCoordinator_Toggle(t *testing.T) {
	c, voice, _, _ := newTestCoordinator()

	c.Toggle(Voice)
	if c.Current() != Voice {
		t.Fatalf("Current() = %v after first toggle, want Voice", c.Current())
	}

	// Toggling the active mode returns to manual control.
	c.Toggle(Voice)
	if c.Current() != Keyboard || voice.running {
		t.Errorf("Current() = %v, voice running = %v, want Keyboard stopped",
			c.Current(), voice.running)
	}
}

func TestCoordinator_Shutdown(t *testing.T) {
	c, _, gesture, _ := newTestCoordinator()

	c.Set(Gesture)
	c.Shutdown()
	if c.Current() != Keyboard || gesture.running {
		t.Errorf("after Shutdown: mode = %v, gesture running = %v", c.Current(), gesture.running)
	}
}

func TestParse(t *testing.T) {
	for _, s := range []string{"keyboard", "voice", "gesture"} {
		if _, err := Parse(s); err != nil {
			t.Errorf("Parse(%q) error = %v", s, err)
		}
	}
	if _, err := Parse("telepathy"); err == nil {
		t.Error("Parse(\"telepathy\") succeeded, want error")
	}
}
