package app

import (
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/yantra/internal/audio"
	"github.com/ayusman/yantra/internal/capture"
	"github.com/ayusman/yantra/internal/config"
	"github.com/ayusman/yantra/internal/events"
	"github.com/ayusman/yantra/internal/mode"
	"github.com/ayusman/yantra/internal/recognize"
	"github.com/ayusman/yantra/internal/transport"
	"github.com/ayusman/yantra/internal/vision"
)

// newTestApp assembles an app over mock capture hardware.
func newTestApp(t *testing.T, cfg config.Config, deps Deps) *App {
	t.Helper()

	if deps.Camera == nil {
		deps.Camera = capture.NewMockCamera(nil, false)
	}
	if deps.FrameClassifier == nil {
		deps.FrameClassifier = vision.NewMockClassifier()
	}
	if deps.AudioSource == nil {
		deps.AudioSource = audio.NewMockSource(nil)
	}
	if deps.AudioClassifier == nil {
		deps.AudioClassifier = audio.NewMockClassifier()
	}
	if deps.VoiceMapping == nil {
		deps.VoiceMapping = recognize.DefaultVoiceMapping(cfg.Voice.CommandDuration())
	}
	if deps.GestureMapping == nil {
		deps.GestureMapping = recognize.DefaultGestureMapping()
	}

	a := New(cfg, events.NewHub(), deps)
	t.Cleanup(a.Shutdown)
	return a
}

// connectVirtual connects the app on a virtual link and returns it.
func connectVirtual(t *testing.T, a *App) *transport.Virtual {
	t.Helper()
	if err := a.Connect(config.Connection{Kind: "virtual"}); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	v, ok := a.Transport().(*transport.Virtual)
	if !ok {
		t.Fatalf("Transport() = %T, want *transport.Virtual", a.Transport())
	}
	return v
}

// waitForWire polls the virtual log until it equals want.
func waitForWire(t *testing.T, v *transport.Virtual, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if string(v.Sent()) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("wire = %q, want %q", v.Sent(), want)
}

func TestApp_ConnectDisconnect(t *testing.T) {
	a := newTestApp(t, config.Default(), Deps{})

	connectVirtual(t, a)
	if !a.Gateway().Connected() {
		t.Fatal("gateway not connected after Connect()")
	}

	a.Disconnect()
	if a.Gateway().Connected() {
		t.Error("gateway still connected after Disconnect()")
	}
	if a.Transport() != nil {
		t.Error("Transport() != nil after Disconnect()")
	}
}

func TestApp_ConnectUnknownKind(t *testing.T) {
	a := newTestApp(t, config.Default(), Deps{})

	if err := a.Connect(config.Connection{Kind: "telegraph"}); err == nil {
		t.Error("Connect() with unknown kind succeeded, want error")
	}
}

func TestApp_KeyboardControl(t *testing.T) {
	a := newTestApp(t, config.Default(), Deps{})
	v := connectVirtual(t, a)

	a.Key("w", true)
	a.Key("w", false)
	a.Key("unbound-key", true) // silently ignored
	a.Key("escape", true)

	if string(v.Sent()) != "F0!" {
		t.Errorf("wire = %q, want %q", v.Sent(), "F0!")
	}
}

func TestApp_GesturePipelineDrivesWire(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cfg := config.Default()
	cfg.Camera.FPS = 50
	a := newTestApp(t, cfg, Deps{
		Camera:          capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		FrameClassifier: vision.NewMockClassifier(recognize.Event{Label: "start", Confidence: 0.9}),
	})
	v := connectVirtual(t, a)

	if err := a.Coordinator().Set(mode.Gesture); err != nil {
		t.Fatalf("Set(Gesture) error = %v", err)
	}

	// The looping classifier keeps reporting "start"; duplicate
	// suppression means exactly one forward goes out.
	waitForWire(t, v, "F")
	time.Sleep(100 * time.Millisecond)
	if string(v.Sent()) != "F" {
		t.Errorf("wire = %q, want single %q despite repeated detections", v.Sent(), "F")
	}
}

func TestApp_VoicePipelineTimedCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := config.Default()
	cfg.Audio.WindowSize = 16
	cfg.Audio.Overlap = 0

	a := newTestApp(t, cfg, Deps{
		AudioSource:     audio.NewMockSource(make([]float32, 64)),
		AudioClassifier: audio.NewMockClassifier(recognize.Event{Label: "forward", Confidence: 0.95}),
		VoiceMapping:    recognize.DefaultVoiceMapping(50 * time.Millisecond),
	})
	v := connectVirtual(t, a)

	if err := a.Coordinator().Set(mode.Voice); err != nil {
		t.Fatalf("Set(Voice) error = %v", err)
	}

	// One accepted "forward", then its deferred stop when the timed
	// command expires.
	waitForWire(t, v, "F0")
}

func TestApp_EstopDuringAutomaticMode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cfg := config.Default()
	cfg.Camera.FPS = 50
	a := newTestApp(t, cfg, Deps{
		Camera:          capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		FrameClassifier: vision.NewMockClassifier(recognize.Event{Label: "start", Confidence: 0.9}),
	})
	v := connectVirtual(t, a)

	a.Coordinator().Set(mode.Gesture)
	waitForWire(t, v, "F")

	// The keyboard emergency stop is always live, whatever the mode.
	if err := a.Key("escape", true); err != nil {
		t.Fatalf("Key(escape) error = %v", err)
	}
	if !strings.Contains(string(v.Sent()), "!") {
		t.Fatalf("wire = %q, want emergency stop byte", v.Sent())
	}
	for _, row := range a.Gateway().States() {
		if row.Active {
			t.Errorf("channel %s active after emergency stop", row.Channel)
		}
	}
}

func TestApp_MotionGateBlocksStaticScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cfg := config.Default()
	cfg.Camera.FPS = 50
	cfg.Camera.MotionThreshold = 1.0
	a := newTestApp(t, cfg, Deps{
		Camera:          capture.NewMockCamera([]*gocv.Mat{&frame}, true),
		FrameClassifier: vision.NewMockClassifier(recognize.Event{Label: "start", Confidence: 0.9}),
	})
	v := connectVirtual(t, a)

	a.Coordinator().Set(mode.Gesture)

	// The looping camera replays the same frame, so the motion gate
	// never lets a frame reach the classifier.
	time.Sleep(300 * time.Millisecond)
	if got := v.Sent(); len(got) != 0 {
		t.Errorf("wire = %q, want no traffic from a static scene", got)
	}
}

func TestApp_ReconnectResetsState(t *testing.T) {
	a := newTestApp(t, config.Default(), Deps{})
	v := connectVirtual(t, a)

	a.Key("w", true)
	if string(v.Sent()) != "F" {
		t.Fatalf("wire = %q, want %q", v.Sent(), "F")
	}

	// Connect tears the old link down and attaches a fresh one; the old
	// drive state must not leak across.
	fresh := connectVirtual(t, a)
	a.Key("w", true)
	if string(fresh.Sent()) != "F" {
		t.Errorf("fresh wire = %q, want %q with no stale stop", fresh.Sent(), "F")
	}
}
