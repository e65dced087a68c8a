package command

// channelState is what the gateway believes one wire channel is doing.
type channelState struct {
	active bool
	action Action
}

// Tracker holds the per-channel actuator state table. It does no I/O
// and takes no locks: every method must be called from inside the
// gateway's critical section, which owns the tracker exclusively.
type Tracker struct {
	states [numChannels]channelState
}

// IsActive reports whether the channel currently has a motion command
// in effect.
func (t *Tracker) IsActive(ch Channel) bool {
	return t.states[ch].active
}

// Active returns the action in effect on the channel. ok is false when
// the channel is stopped; the action is meaningless then.
func (t *Tracker) Active(ch Channel) (Action, bool) {
	s := t.states[ch]
	return s.action, s.active
}

// Record marks the channel active with the given action, called after a
// successful write of that action's byte.
func (t *Tracker) Record(ch Channel, a Action) {
	t.states[ch] = channelState{active: true, action: a}
}

// RecordStop clears the channel, called after a successful write of its
// stop byte.
func (t *Tracker) RecordStop(ch Channel) {
	t.states[ch] = channelState{}
}

// Reset clears every channel. Used on connect, disconnect and emergency
// stop.
func (t *Tracker) Reset() {
	t.states = [numChannels]channelState{}
}

// ChannelState is a read-only snapshot row for the status API.
type ChannelState struct {
	Channel string `json:"channel"`
	Active  bool   `json:"active"`
	Action  string `json:"action,omitempty"`
}

// Snapshot returns the state of every channel for external observers.
func (t *Tracker) Snapshot() []ChannelState {
	out := make([]ChannelState, 0, numChannels)
	for ch := Channel(0); ch < numChannels; ch++ {
		row := ChannelState{Channel: ch.String(), Active: t.states[ch].active}
		if row.Active {
			row.Action = t.states[ch].action.String()
		}
		out = append(out, row)
	}
	return out
}
