package command

// keyBinding ties a key to the actuator and action it drives while
// pressed. Releasing the key stops the actuator's channel.
type keyBinding struct {
	actuator Actuator
	action   Action
}

// keyBindings is the manual control layout: WASD for the drive pair,
// number pairs for the arm joints, Q for the LED.
var keyBindings = map[string]keyBinding{
	"w": {LeftDrive, Forward},
	"s": {LeftDrive, Backward},
	"a": {LeftDrive, TurnLeft},
	"d": {LeftDrive, TurnRight},
	"1": {Arm1, Up},
	"4": {Arm1, Down},
	"3": {Arm2, Down},
	"6": {Arm2, Up},
	"0": {Arm3, Clockwise},
	"2": {Arm3, CounterClockwise},
	"q": {Led, Toggle},
}

// KeyRequest translates a key press or release into a command request.
// ok is false for unbound keys. Escape always maps to the emergency
// stop regardless of press/release, and the LED toggle fires on press
// only — there is nothing to stop on release.
func KeyRequest(key string, pressed bool) (Request, bool) {
	if key == "escape" {
		return EmergencyStop(ProducerKeyboard), true
	}

	b, ok := keyBindings[key]
	if !ok {
		return Request{}, false
	}

	if b.action == Toggle {
		if !pressed {
			return Request{}, false
		}
		return Request{Producer: ProducerKeyboard, Actuator: b.actuator, Action: Toggle}, true
	}

	if pressed {
		return Request{Producer: ProducerKeyboard, Actuator: b.actuator, Action: b.action}, true
	}
	return Request{Producer: ProducerKeyboard, Actuator: b.actuator, Action: Stop}, true
}
