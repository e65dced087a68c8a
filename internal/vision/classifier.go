// Package vision defines the opaque frame classifier the gesture
// pipeline feeds. The actual model runtime is a pluggable backend;
// yantra only cares about the label and confidence it emits.
package vision

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/yantra/internal/recognize"
)

// Classifier turns one camera frame into a recognition event.
// Implementations are expected to be slow-ish (tens of milliseconds);
// the pipeline calls Classify from a single goroutine.
type Classifier interface {
	Classify(frame *gocv.Mat) (recognize.Event, error)
	Close() error
}
