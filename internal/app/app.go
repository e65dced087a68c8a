// Package app wires the yantra daemon together: connection lifecycle,
// the two recognition pipelines, and the mode coordinator, all feeding
// the command gateway.
package app

import (
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/yantra/internal/audio"
	"github.com/ayusman/yantra/internal/capture"
	"github.com/ayusman/yantra/internal/command"
	"github.com/ayusman/yantra/internal/config"
	"github.com/ayusman/yantra/internal/events"
	"github.com/ayusman/yantra/internal/mode"
	"github.com/ayusman/yantra/internal/recognize"
	"github.com/ayusman/yantra/internal/transport"
	"github.com/ayusman/yantra/internal/vision"
)

// Deps are the pluggable pieces of the daemon. Tests substitute mocks;
// main supplies the real camera, microphone and classifier backends.
type Deps struct {
	Camera          capture.Camera
	FrameClassifier vision.Classifier
	AudioSource     audio.Source
	AudioClassifier audio.Classifier
	VoiceMapping    recognize.Mapping
	GestureMapping  recognize.Mapping
}

// App is the assembled daemon.
type App struct {
	cfg     config.Config
	hub     *events.Hub
	gateway *command.Gateway

	voice       *voiceProducer
	gesture     *gestureProducer
	coordinator *mode.Coordinator

	mu sync.Mutex
	tr transport.Transport
}

// New assembles an app from its configuration and dependencies.
func New(cfg config.Config, hub *events.Hub, deps Deps) *App {
	a := &App{
		cfg:     cfg,
		hub:     hub,
		gateway: command.NewGateway(hub),
	}

	voicePolicy := recognize.NewPolicy(
		command.ProducerVoice,
		cfg.Voice.ConfidenceThreshold,
		cfg.Voice.Cooldown(),
		deps.VoiceMapping,
		a.gateway,
		hub,
	)
	gesturePolicy := recognize.NewPolicy(
		command.ProducerGesture,
		cfg.Gesture.ConfidenceThreshold,
		cfg.Gesture.Cooldown(),
		deps.GestureMapping,
		a.gateway,
		hub,
		recognize.WithDirectionToggle(),
	)

	var motion *capture.MotionDetector
	if cfg.Camera.MotionThreshold > 0 {
		motion = capture.NewMotionDetector(cfg.Camera.MotionThreshold)
	}

	a.voice = newVoiceProducer(deps.AudioSource, deps.AudioClassifier, voicePolicy,
		cfg.Audio.WindowSize, cfg.Audio.Overlap)
	a.gesture = newGestureProducer(deps.Camera, deps.FrameClassifier, gesturePolicy,
		cfg.Camera.FPS, motion)
	a.coordinator = mode.NewCoordinator(a.voice, a.gesture, hub)

	return a
}

// Gateway returns the command gateway.
func (a *App) Gateway() *command.Gateway {
	return a.gateway
}

// Coordinator returns the input mode coordinator.
func (a *App) Coordinator() *mode.Coordinator {
	return a.coordinator
}

// Connect opens the configured link and hands it to the gateway. An
// already-open connection is torn down first. No retry happens here:
// reconnection is always an explicit operator action.
func (a *App) Connect(cfg config.Connection) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tr != nil {
		a.detachLocked()
	}

	a.hub.Publish(events.Event{
		Kind:   events.KindConnection,
		Status: "connecting",
		Detail: fmt.Sprintf("%s %s", cfg.Kind, cfg.Address),
	})

	tr, err := transport.New(cfg)
	if err == nil {
		err = tr.Open()
	}
	if err != nil {
		a.hub.Publish(events.Event{
			Kind:   events.KindConnection,
			Status: events.StatusError,
			Detail: err.Error(),
		})
		return fmt.Errorf("connect: %w", err)
	}

	a.tr = tr
	a.gateway.Attach(tr)
	a.hub.Publish(events.Event{
		Kind:   events.KindConnection,
		Status: events.StatusConnected,
		Detail: fmt.Sprintf("%s %s", cfg.Kind, cfg.Address),
	})
	log.Printf("connected via %s %s", cfg.Kind, cfg.Address)
	return nil
}

// ConnectDefault connects using the connection section of the config
// file.
func (a *App) ConnectDefault() error {
	return a.Connect(a.cfg.Connection)
}

// Disconnect tears the link down. Deferred stops are cancelled and all
// actuator state resets without any further wire traffic.
func (a *App) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detachLocked()
}

func (a *App) detachLocked() {
	if a.tr == nil {
		return
	}
	a.gateway.Detach()
	if err := a.tr.Close(); err != nil {
		log.Printf("error closing transport: %v", err)
	}
	a.tr = nil
	a.hub.Publish(events.Event{
		Kind:   events.KindConnection,
		Status: events.StatusClosed,
	})
}

// Transport returns the current transport, or nil while disconnected.
// The monitor uses this to read the virtual link's byte log.
func (a *App) Transport() transport.Transport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tr
}

// Submit forwards a request to the gateway.
func (a *App) Submit(req command.Request) error {
	return a.gateway.Submit(req)
}

// Key translates a key press or release into a command request and
// submits it. Unbound keys are ignored.
func (a *App) Key(key string, pressed bool) error {
	req, ok := command.KeyRequest(key, pressed)
	if !ok {
		return nil
	}
	return a.gateway.Submit(req)
}

// Shutdown stops the pipelines and disconnects.
func (a *App) Shutdown() {
	a.coordinator.Shutdown()
	a.Disconnect()
}
