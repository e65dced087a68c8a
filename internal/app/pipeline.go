package app

import (
	"errors"
	"log"
	"time"

	"github.com/ayusman/yantra/internal/audio"
	"github.com/ayusman/yantra/internal/capture"
	"github.com/ayusman/yantra/internal/recognize"
	"github.com/ayusman/yantra/internal/vision"
)

// readChunk is how many samples the voice loop pulls from the source
// per read.
const readChunk = 4096

// gestureProducer runs the camera → classifier → policy loop while
// Gesture mode is active.
type gestureProducer struct {
	camera     capture.Camera
	classifier vision.Classifier
	policy     *recognize.Policy
	fps        int

	// motion, when non-nil, gates classification on inter-frame motion.
	motion *capture.MotionDetector

	stopCh chan struct{}
	done   chan struct{}
}

func newGestureProducer(camera capture.Camera, classifier vision.Classifier,
	policy *recognize.Policy, fps int, motion *capture.MotionDetector) *gestureProducer {
	return &gestureProducer{
		camera:     camera,
		classifier: classifier,
		policy:     policy,
		fps:        fps,
		motion:     motion,
	}
}

// Start opens the camera and launches the frame loop.
func (g *gestureProducer) Start() error {
	if g.stopCh != nil {
		return nil
	}
	if err := g.camera.Open(); err != nil {
		return err
	}
	if g.motion != nil {
		g.motion.Reset()
	}
	g.stopCh = make(chan struct{})
	g.done = make(chan struct{})
	go g.run(g.stopCh, g.done)
	log.Println("gesture pipeline started")
	return nil
}

// Stop halts the loop, waits for it to drain, and releases the camera
// so the hardware light goes out.
func (g *gestureProducer) Stop() {
	if g.stopCh == nil {
		return
	}
	close(g.stopCh)
	<-g.done
	g.stopCh = nil
	if err := g.camera.Close(); err != nil {
		log.Printf("error closing camera: %v", err)
	}
	log.Println("gesture pipeline stopped")
}

func (g *gestureProducer) run(stopCh, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := g.camera.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrCameraNotOpen) {
					return
				}
				log.Printf("error reading frame: %v", err)
				continue
			}

			if g.motion != nil {
				if moving, _ := g.motion.Detect(frame); !moving {
					frame.Close()
					continue
				}
			}

			ev, err := g.classifier.Classify(frame)
			frame.Close()
			if err != nil {
				log.Printf("gesture classify error: %v", err)
				continue
			}
			if ev.Label == "" {
				continue
			}
			g.policy.OnEvent(ev)
		}
	}
}

// voiceProducer runs the microphone → window → classifier → policy loop
// while Voice mode is active.
type voiceProducer struct {
	source     audio.Source
	classifier audio.Classifier
	policy     *recognize.Policy
	window     *audio.Window

	stopCh chan struct{}
	done   chan struct{}
}

func newVoiceProducer(source audio.Source, classifier audio.Classifier,
	policy *recognize.Policy, windowSize int, overlap float64) *voiceProducer {
	return &voiceProducer{
		source:     source,
		classifier: classifier,
		policy:     policy,
		window:     audio.NewWindow(windowSize, overlap),
	}
}

// Start opens the audio source and launches the sample loop.
func (v *voiceProducer) Start() error {
	if v.stopCh != nil {
		return nil
	}
	if err := v.source.Open(); err != nil {
		return err
	}
	v.window.Reset()
	v.stopCh = make(chan struct{})
	v.done = make(chan struct{})
	go v.run(v.stopCh, v.done)
	log.Println("voice pipeline started")
	return nil
}

// Stop closes the source, which unblocks the loop, and waits for it to
// drain.
func (v *voiceProducer) Stop() {
	if v.stopCh == nil {
		return
	}
	close(v.stopCh)
	if err := v.source.Close(); err != nil {
		log.Printf("error closing audio source: %v", err)
	}
	<-v.done
	v.stopCh = nil
	log.Println("voice pipeline stopped")
}

func (v *voiceProducer) run(stopCh, done chan struct{}) {
	defer close(done)

	buf := make([]float32, readChunk)
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		n, err := v.source.Read(buf)
		if err != nil {
			if errors.Is(err, audio.ErrSourceClosed) {
				return
			}
			log.Printf("error reading audio: %v", err)
			time.Sleep(100 * time.Millisecond)
			continue
		}

		for _, window := range v.window.Push(buf[:n]) {
			ev, err := v.classifier.Classify(window)
			if err != nil {
				log.Printf("voice classify error: %v", err)
				continue
			}
			if ev.Label == "" {
				continue
			}
			v.policy.OnEvent(ev)
		}
	}
}
