package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Frame differencing parameters: blur kernel size and the per-pixel
// difference threshold.
const (
	gaussianBlurSize = 21
	diffThreshold    = 25
)

// MotionDetector gates the gesture pipeline on inter-frame motion, so a
// static scene does not burn classifier time and a held pose cannot
// keep re-triggering. It compares consecutive blurred grayscale frames
// and reports motion when the changed-pixel percentage exceeds the
// threshold.
type MotionDetector struct {
	threshold float64

	mu          sync.Mutex
	prevGray    gocv.Mat
	initialized bool
}

// NewMotionDetector creates a detector firing when more than threshold
// percent of pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares the frame against the previous one and reports
// whether motion was seen, along with the changed-pixel percentage. The
// first frame after creation or Reset establishes the baseline and
// never reports motion.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred,
		image.Point{X: gaussianBlurSize, Y: gaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(thresh)) /
		float64(thresh.Rows()*thresh.Cols()) * 100.0

	blurred.CopyTo(&m.prevGray)
	return changed > m.threshold, changed
}

// Reset drops the baseline frame. The pipeline calls this on restart so
// stale footage from the previous session cannot register as motion.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// Close releases the detector's OpenCV resources.
func (m *MotionDetector) Close() {
	m.Reset()
}
