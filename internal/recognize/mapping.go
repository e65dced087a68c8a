package recognize

import (
	"time"

	"github.com/ayusman/yantra/internal/command"
)

// Binding is the command template a label maps to. Emergency bindings
// ignore the actuator and action fields.
type Binding struct {
	Actuator  command.Actuator
	Action    command.Action
	Duration  time.Duration
	Emergency bool
}

// Mapping is the label→command table for one pipeline. It is loaded
// once per session and treated as read-only by the policy.
type Mapping map[string]Binding

// DefaultVoiceMapping returns the stock vocabulary of the bundled sound
// classifier. Drive words carry the timed-command duration so a single
// "forward" doesn't run the robot into a wall; arm words run until the
// joint is told otherwise.
func DefaultVoiceMapping(driveDuration time.Duration) Mapping {
	return Mapping{
		"forward":  {Actuator: command.LeftDrive, Action: command.Forward, Duration: driveDuration},
		"backward": {Actuator: command.LeftDrive, Action: command.Backward, Duration: driveDuration},
		"left":     {Actuator: command.LeftDrive, Action: command.TurnLeft, Duration: driveDuration},
		"right":    {Actuator: command.LeftDrive, Action: command.TurnRight, Duration: driveDuration},
		"up":       {Actuator: command.Arm1, Action: command.Up},
		"down":     {Actuator: command.Arm1, Action: command.Down},
		// The arm2 vocabulary is tied to the wire bytes the firmware has
		// always received: "2up" sends 'S' and "2down" sends 'X',
		// whatever the protocol table calls those directions.
		"2up":       {Actuator: command.Arm2, Action: command.Down},
		"2down":     {Actuator: command.Arm2, Action: command.Up},
		"clockwise": {Actuator: command.Arm3, Action: command.Clockwise},
		"anti":      {Actuator: command.Arm3, Action: command.CounterClockwise},
		"clap":      {Actuator: command.Led, Action: command.Toggle},
		"stop":      {Emergency: true},
	}
}

// DefaultGestureMapping returns the stock two-gesture vocabulary:
// "start" drives, "stop" halts everything.
func DefaultGestureMapping() Mapping {
	return Mapping{
		"start": {Actuator: command.LeftDrive, Action: command.Forward},
		"stop":  {Emergency: true},
	}
}
