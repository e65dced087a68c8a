package command

import "time"

// Producer identifies which input source created a request.
type Producer string

const (
	ProducerKeyboard Producer = "keyboard"
	ProducerVoice    Producer = "voice"
	ProducerGesture  Producer = "gesture"
)

// Request is a logical, pre-wire intent to change one actuator's
// action. Requests are transient: produced by an input source, consumed
// by the gateway, never stored.
type Request struct {
	Producer Producer
	Actuator Actuator
	Action   Action

	// Duration, when non-zero, schedules a deferred stop for the
	// actuator's channel after it elapses. Timed voice drive commands
	// use this.
	Duration time.Duration

	// Emergency marks the global stop. Actuator and Action are ignored
	// when set.
	Emergency bool
}

// EmergencyStop builds the global stop request.
func EmergencyStop(p Producer) Request {
	return Request{Producer: p, Emergency: true}
}

// NewDrive builds a request for the drive pair. Either drive actuator
// addresses both motors; LeftDrive is used by convention.
func NewDrive(p Producer, action Action, d time.Duration) Request {
	return Request{Producer: p, Actuator: LeftDrive, Action: action, Duration: d}
}
