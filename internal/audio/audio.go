// Package audio defines the voice pipeline's input side: a sample
// source, the sliding inference window, and the opaque sound
// classifier the windows are fed into.
package audio

import (
	"errors"

	"github.com/ayusman/yantra/internal/recognize"
)

// ErrSourceClosed is returned when reading from a closed source.
var ErrSourceClosed = errors.New("audio source closed")

// Source delivers mono float32 PCM samples. Read blocks until at least
// one sample is available and returns the number copied into buf.
type Source interface {
	Open() error
	Close() error
	Read(buf []float32) (int, error)
}

// Classifier turns one full inference window into a recognition event.
type Classifier interface {
	Classify(window []float32) (recognize.Event, error)
	Close() error
}
