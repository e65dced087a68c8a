// Package command implements the single-byte wire protocol of the claw
// robot and the gateway that serializes all command traffic onto it.
package command

import "fmt"

// Actuator identifies one physically controllable unit. The set is
// fixed; the firmware knows no others.
type Actuator int

const (
	LeftDrive Actuator = iota
	RightDrive
	Arm1
	Arm2
	Arm3
	Led
)

var actuatorNames = map[Actuator]string{
	LeftDrive:  "left_drive",
	RightDrive: "right_drive",
	Arm1:       "arm1",
	Arm2:       "arm2",
	Arm3:       "arm3",
	Led:        "led",
}

func (a Actuator) String() string {
	if s, ok := actuatorNames[a]; ok {
		return s
	}
	return fmt.Sprintf("actuator(%d)", int(a))
}

// ParseActuator converts an actuator name from the API or the mapping
// store back into its enum value.
func ParseActuator(s string) (Actuator, error) {
	for a, name := range actuatorNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown actuator %q", s)
}

// Channel is a wire-addressable command channel. The two drive motors
// share one channel: the firmware runs them differentially, so F, B, L
// and R always command the pair.
type Channel int

const (
	ChanDrive Channel = iota
	ChanArm1
	ChanArm2
	ChanArm3
	ChanLed

	numChannels = 5
)

var channelNames = map[Channel]string{
	ChanDrive: "drive",
	ChanArm1:  "arm1",
	ChanArm2:  "arm2",
	ChanArm3:  "arm3",
	ChanLed:   "led",
}

func (c Channel) String() string {
	if s, ok := channelNames[c]; ok {
		return s
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Channel returns the wire channel the actuator is commanded on.
func (a Actuator) Channel() Channel {
	switch a {
	case LeftDrive, RightDrive:
		return ChanDrive
	case Arm1:
		return ChanArm1
	case Arm2:
		return ChanArm2
	case Arm3:
		return ChanArm3
	default:
		return ChanLed
	}
}

// Action is the motion (or LED toggle) requested for an actuator.
type Action int

const (
	Stop Action = iota
	Forward
	Backward
	TurnLeft
	TurnRight
	Up
	Down
	Clockwise
	CounterClockwise
	Toggle
)

var actionNames = map[Action]string{
	Stop:             "stop",
	Forward:          "forward",
	Backward:         "backward",
	TurnLeft:         "turn_left",
	TurnRight:        "turn_right",
	Up:               "up",
	Down:             "down",
	Clockwise:        "clockwise",
	CounterClockwise: "counterclockwise",
	Toggle:           "toggle",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// ParseAction converts an action name from the API or the mapping store
// back into its enum value.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// EmergencyStopChar stops every actuator at once. It is the only wire
// byte not tied to a specific channel.
const EmergencyStopChar byte = '!'

// wireChars is the full protocol table: one byte per (channel, action)
// pair, exactly as the firmware decodes it.
var wireChars = map[Channel]map[Action]byte{
	ChanDrive: {
		Forward:   'F',
		Backward:  'B',
		TurnLeft:  'L',
		TurnRight: 'R',
		Stop:      '0',
	},
	ChanArm1: {
		Down: 'A',
		Up:   'Z',
		Stop: 'a',
	},
	ChanArm2: {
		Down: 'S',
		Up:   'X',
		Stop: 's',
	},
	ChanArm3: {
		Clockwise:        'C',
		CounterClockwise: 'V',
		Stop:             'c',
	},
	ChanLed: {
		Toggle: 'Q',
	},
}

// Char returns the wire byte for an action on a channel. ok is false
// when the channel does not support the action (e.g. Up on drive).
func Char(ch Channel, a Action) (byte, bool) {
	b, ok := wireChars[ch][a]
	return b, ok
}

// StopChar returns the channel's dedicated stop byte. The LED has none:
// its toggle is momentary, so it is never "moving". ok is false for it.
func StopChar(ch Channel) (byte, bool) {
	b, ok := wireChars[ch][Stop]
	return b, ok
}

// Decode maps a wire byte back to its channel and action. It is the
// inverse of Char and is used by the monitor to annotate raw traffic.
// The emergency stop byte decodes to ok=false; check it separately.
func Decode(b byte) (Channel, Action, bool) {
	for ch, actions := range wireChars {
		for a, c := range actions {
			if c == b {
				return ch, a, true
			}
		}
	}
	return 0, 0, false
}
