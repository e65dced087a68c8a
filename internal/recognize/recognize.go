// Package recognize holds the shared policy layer between the opaque
// classifiers and the command gateway: confidence gating, cooldown, and
// the label→command mapping table. The classifiers themselves (voice
// and vision) live behind interfaces in their own packages; this
// package never sees a frame or an audio sample.
package recognize

// Event is one classification result: a label and how sure the
// classifier is about it. Events arrive at irregular intervals, one per
// inference cycle, and are consumed immediately.
type Event struct {
	Label      string
	Confidence float64
}
