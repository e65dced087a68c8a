// Package config loads the yantra configuration file and supplies defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Default tuning values, matching the robot firmware and classifier setup.
const (
	DefaultBaud            = 9600
	DefaultConfidence      = 0.70
	DefaultCooldownSec     = 1.0
	DefaultDurationSec     = 3.0
	DefaultListenAddr      = ":8080"
	DefaultCameraID        = 0
	DefaultGestureFPS      = 10
	DefaultAudioWindowSize = 44100
	DefaultAudioOverlap    = 0.5
)

// Connection describes how to reach the robot.
type Connection struct {
	// Kind is one of "serial", "socket" or "virtual".
	Kind string `yaml:"kind"`
	// Address is the serial device path or the host:port of the socket peer.
	Address string `yaml:"address"`
	// Baud applies to serial connections only.
	Baud int `yaml:"baud"`
}

// Pipeline holds the policy settings for one recognition pipeline.
type Pipeline struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	CooldownSec         float64 `yaml:"cooldown_sec"`
	CommandDurationSec  float64 `yaml:"command_duration_sec"`
}

// Cooldown returns the cooldown window as a duration.
func (p Pipeline) Cooldown() time.Duration {
	return time.Duration(p.CooldownSec * float64(time.Second))
}

// CommandDuration returns the timed-command duration as a duration.
// Zero means commands run until explicitly stopped.
func (p Pipeline) CommandDuration() time.Duration {
	return time.Duration(p.CommandDurationSec * float64(time.Second))
}

// Camera holds capture settings for the gesture pipeline.
type Camera struct {
	DeviceID int `yaml:"device_id"`
	FPS      int `yaml:"fps"`
	// MotionThreshold, when positive, gates classification on the
	// percentage of pixels changing between frames. Zero disables the
	// gate and every frame is classified.
	MotionThreshold float64 `yaml:"motion_threshold"`
}

// Audio holds the sliding-window settings for the voice pipeline.
type Audio struct {
	WindowSize int     `yaml:"window_size"`
	Overlap    float64 `yaml:"overlap"`
}

// Config is the top-level configuration for the daemon.
type Config struct {
	Connection Connection `yaml:"connection"`
	Voice      Pipeline   `yaml:"voice"`
	Gesture    Pipeline   `yaml:"gesture"`
	Camera     Camera     `yaml:"camera"`
	Audio      Audio      `yaml:"audio"`
	ListenAddr string     `yaml:"listen_addr"`
	DataDir    string     `yaml:"data_dir"`
}

// Default returns a configuration with all defaults applied and a
// virtual connection, so the daemon is usable without a config file.
func Default() Config {
	c := Config{
		Connection: Connection{Kind: "virtual"},
	}
	c.applyDefaults()
	return c
}

// Load reads and parses the YAML config file at path, then fills in
// defaults for any values left unset.
func Load(path string) (Config, error) {
	var c Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("could not open config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(raw, &c); err != nil {
		return c, fmt.Errorf("could not parse config file: %w", err)
	}
	c.applyDefaults()
	return c, nil
}

// applyDefaults fills unset values and clamps out-of-range ones. A
// negative rate or size from a hand-edited file must not survive into
// the pipelines, where it would blow up a ticker or an allocation.
func (c *Config) applyDefaults() {
	if c.Connection.Kind == "" {
		c.Connection.Kind = "virtual"
	}
	if c.Connection.Baud <= 0 {
		c.Connection.Baud = DefaultBaud
	}
	applyPipelineDefaults(&c.Voice, DefaultDurationSec)
	// Gesture commands run until the stop gesture; no fixed duration.
	applyPipelineDefaults(&c.Gesture, 0)
	if c.Camera.FPS <= 0 {
		c.Camera.FPS = DefaultGestureFPS
	}
	if c.Camera.MotionThreshold < 0 {
		c.Camera.MotionThreshold = 0
	}
	if c.Audio.WindowSize <= 0 {
		c.Audio.WindowSize = DefaultAudioWindowSize
	}
	if c.Audio.Overlap <= 0 || c.Audio.Overlap >= 1 {
		c.Audio.Overlap = DefaultAudioOverlap
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
}

func applyPipelineDefaults(p *Pipeline, durationSec float64) {
	if p.ConfidenceThreshold <= 0 {
		p.ConfidenceThreshold = DefaultConfidence
	}
	if p.CooldownSec <= 0 {
		p.CooldownSec = DefaultCooldownSec
	}
	if p.CommandDurationSec <= 0 {
		p.CommandDurationSec = durationSec
	}
}
