package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/yantra/internal/app"
	"github.com/ayusman/yantra/internal/audio"
	"github.com/ayusman/yantra/internal/capture"
	"github.com/ayusman/yantra/internal/config"
	"github.com/ayusman/yantra/internal/events"
	"github.com/ayusman/yantra/internal/mode"
	"github.com/ayusman/yantra/internal/recognize"
	"github.com/ayusman/yantra/internal/server"
	"github.com/ayusman/yantra/internal/store"
	"github.com/ayusman/yantra/internal/tray"
	"github.com/ayusman/yantra/internal/vision"
)

func main() {
	fmt.Println("Yantra - Robot Command Orchestrator")

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".yantra")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "yantra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	hub := events.NewHub()
	stopRecording := st.RecordEvents(hub)
	defer stopRecording()

	voiceMapping := loadMapping(st, "voice",
		recognize.DefaultVoiceMapping(cfg.Voice.CommandDuration()))
	gestureMapping := loadMapping(st, "gesture",
		recognize.DefaultGestureMapping())

	// The classifier backends are pluggable; without a configured model
	// runtime the pipelines run with inert classifiers that never emit
	// a label, the same way the monitor is still fully usable in
	// virtual-link mode.
	log.Println("no classifier backend configured, pipelines run inert")
	a := app.New(cfg, hub, app.Deps{
		Camera:          capture.NewCamera(cfg.Camera.DeviceID),
		FrameClassifier: vision.NewMockClassifier(),
		AudioSource:     audio.NewMockSource(nil),
		AudioClassifier: audio.NewMockClassifier(),
		VoiceMapping:    voiceMapping,
		GestureMapping:  gestureMapping,
	})
	defer a.Shutdown()

	srv := server.New(server.Config{
		App:        a,
		Store:      st,
		Hub:        hub,
		Connection: cfg.Connection,
	})
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()
	t.OnConnect(func() {
		if err := a.ConnectDefault(); err != nil {
			log.Printf("connect failed: %v", err)
		}
	})
	t.OnDisconnect(a.Disconnect)
	t.OnMode(func(name string) {
		m, err := mode.Parse(name)
		if err != nil {
			return
		}
		if err := a.Coordinator().Set(m); err != nil {
			log.Printf("mode switch failed: %v", err)
		}
	})
	t.OnQuit(a.Shutdown)

	// Keep the tray's status line in sync with connection events.
	ch, cancel := hub.Subscribe()
	defer cancel()
	go func() {
		for ev := range ch {
			if ev.Kind != events.KindConnection {
				continue
			}
			switch ev.Status {
			case events.StatusConnected:
				t.SetConnected(true)
			case events.StatusClosed, events.StatusError:
				t.SetConnected(false)
			}
		}
	}()

	// Blocks until quit; systray requires the main goroutine.
	t.Run()
}

// loadMapping returns the stored mapping for a pipeline, seeding the
// store with the default vocabulary on first run.
func loadMapping(st *store.Store, pipeline string, fallback recognize.Mapping) recognize.Mapping {
	m, err := st.LoadMapping(pipeline)
	if err != nil {
		log.Printf("Failed to load %s mapping, using defaults: %v", pipeline, err)
		return fallback
	}
	if len(m) == 0 {
		if err := st.SaveMapping(pipeline, fallback); err != nil {
			log.Printf("Failed to seed %s mapping: %v", pipeline, err)
		}
		return fallback
	}
	log.Printf("Loaded %d %s mappings from database", len(m), pipeline)
	return m
}
