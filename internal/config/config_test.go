package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Connection.Kind != "virtual" {
		t.Errorf("default connection kind = %q, want virtual", c.Connection.Kind)
	}
	if c.Connection.Baud != DefaultBaud {
		t.Errorf("default baud = %d, want %d", c.Connection.Baud, DefaultBaud)
	}
	if c.Voice.ConfidenceThreshold != DefaultConfidence {
		t.Errorf("voice threshold = %v, want %v", c.Voice.ConfidenceThreshold, DefaultConfidence)
	}
	if c.Voice.Cooldown() != time.Second {
		t.Errorf("voice cooldown = %v, want 1s", c.Voice.Cooldown())
	}
	if c.Voice.CommandDuration() != 3*time.Second {
		t.Errorf("voice command duration = %v, want 3s", c.Voice.CommandDuration())
	}
	// Gesture commands run until the stop gesture.
	if c.Gesture.CommandDuration() != 0 {
		t.Errorf("gesture command duration = %v, want 0", c.Gesture.CommandDuration())
	}
	if c.Audio.WindowSize != DefaultAudioWindowSize || c.Audio.Overlap != DefaultAudioOverlap {
		t.Errorf("audio = %+v, want defaults", c.Audio)
	}
	if c.ListenAddr != DefaultListenAddr {
		t.Errorf("listen addr = %q, want %q", c.ListenAddr, DefaultListenAddr)
	}
}

func TestLoad(t *testing.T) {
	raw := `
connection:
  kind: serial
  address: /dev/rfcomm0
voice:
  confidence_threshold: 0.85
  cooldown_sec: 0.5
camera:
  fps: 15
`
	path := writeConfig(t, raw)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Connection.Kind != "serial" || c.Connection.Address != "/dev/rfcomm0" {
		t.Errorf("connection = %+v", c.Connection)
	}
	// Unset values fall back to defaults alongside explicit ones.
	if c.Connection.Baud != DefaultBaud {
		t.Errorf("baud = %d, want default %d", c.Connection.Baud, DefaultBaud)
	}
	if c.Voice.ConfidenceThreshold != 0.85 {
		t.Errorf("voice threshold = %v, want 0.85", c.Voice.ConfidenceThreshold)
	}
	if c.Voice.Cooldown() != 500*time.Millisecond {
		t.Errorf("voice cooldown = %v, want 500ms", c.Voice.Cooldown())
	}
	if c.Camera.FPS != 15 {
		t.Errorf("camera fps = %d, want 15", c.Camera.FPS)
	}
	if c.Gesture.ConfidenceThreshold != DefaultConfidence {
		t.Errorf("gesture threshold = %v, want default", c.Gesture.ConfidenceThreshold)
	}
}

func TestLoad_ClampsOutOfRangeValues(t *testing.T) {
	raw := `
connection:
  kind: serial
  address: /dev/rfcomm0
  baud: -9600
voice:
  confidence_threshold: -0.5
  cooldown_sec: -1
camera:
  fps: -1
audio:
  window_size: -5
  overlap: 1.5
`
	c, err := Load(writeConfig(t, raw))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Negative or nonsensical numbers fall back to defaults; they must
	// never reach the pipelines.
	if c.Connection.Baud != DefaultBaud {
		t.Errorf("baud = %d, want default %d", c.Connection.Baud, DefaultBaud)
	}
	if c.Voice.ConfidenceThreshold != DefaultConfidence {
		t.Errorf("voice threshold = %v, want default %v", c.Voice.ConfidenceThreshold, DefaultConfidence)
	}
	if c.Voice.Cooldown() != time.Second {
		t.Errorf("voice cooldown = %v, want default 1s", c.Voice.Cooldown())
	}
	if c.Camera.FPS != DefaultGestureFPS {
		t.Errorf("camera fps = %d, want default %d", c.Camera.FPS, DefaultGestureFPS)
	}
	if c.Audio.WindowSize != DefaultAudioWindowSize {
		t.Errorf("audio window = %d, want default %d", c.Audio.WindowSize, DefaultAudioWindowSize)
	}
	if c.Audio.Overlap != DefaultAudioOverlap {
		t.Errorf("audio overlap = %v, want default %v", c.Audio.Overlap, DefaultAudioOverlap)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of missing file succeeded, want error")
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	// A typoed key must fail loudly, not silently fall back to defaults.
	path := writeConfig(t, "connection:\n  knid: serial\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown key succeeded, want error")
	}
}

func writeConfig(t *testing.T, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}
