// Package capture provides camera frame capture for the gesture
// pipeline using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Capture resolution, kept low on purpose: the gesture classifier
// downscales its input anyway.
const (
	frameWidth  = 640
	frameHeight = 480
)

// ErrCameraNotOpen is returned when reading from a camera that is not
// open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera is the frame source the gesture pipeline reads from.
type Camera interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller owns the returned
	// Mat and must close it.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// deviceCamera captures frames from a physical camera via GoCV.
type deviceCamera struct {
	deviceID int

	mu      sync.Mutex
	capture *gocv.VideoCapture
}

// NewCamera creates an unopened camera for the given device ID.
func NewCamera(deviceID int) Camera {
	return &deviceCamera{deviceID: deviceID}
}

func (c *deviceCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture != nil {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}
	capture.Set(gocv.VideoCaptureFrameWidth, frameWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, frameHeight)

	c.capture = capture
	return nil
}

func (c *deviceCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	return err
}

func (c *deviceCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}
	return &mat, nil
}

func (c *deviceCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture != nil
}
