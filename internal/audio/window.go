package audio

// Window accumulates incoming samples into fixed-size inference windows
// with partial overlap. When a window fills, a copy is emitted and the
// tail of the buffer slides to the front, so consecutive windows share
// their overlapping region and a word spoken across a window boundary
// is still seen whole by the classifier.
type Window struct {
	buf     []float32
	pos     int
	overlap float64
}

// NewWindow creates a window of the given size. overlap is the fraction
// of each window carried into the next, typically 0.5; values outside
// [0, 1) are clamped.
func NewWindow(size int, overlap float64) *Window {
	if overlap < 0 || overlap >= 1 {
		overlap = 0
	}
	return &Window{
		buf:     make([]float32, size),
		overlap: overlap,
	}
}

// Push feeds samples in and returns every inference window completed by
// them, oldest first. The returned slices are copies; the caller may
// keep them.
func (w *Window) Push(samples []float32) [][]float32 {
	var out [][]float32

	for len(samples) > 0 {
		n := copy(w.buf[w.pos:], samples)
		w.pos += n
		samples = samples[n:]

		if w.pos < len(w.buf) {
			break
		}

		window := make([]float32, len(w.buf))
		copy(window, w.buf)
		out = append(out, window)

		// Slide: keep the trailing overlap at the front.
		keep := int(float64(len(w.buf)) * w.overlap)
		copy(w.buf, w.buf[len(w.buf)-keep:])
		w.pos = keep
	}

	return out
}

// Reset discards any partially-filled window.
func (w *Window) Reset() {
	w.pos = 0
}
