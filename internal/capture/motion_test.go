package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	moving, changed := m.Detect(&frame)
	if moving || changed != 0 {
		t.Errorf("Detect(first frame) = %v, %v, want baseline false, 0", moving, changed)
	}
}

func TestMotionDetector_StaticSceneIsQuiet(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	frame := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer frame.Close()

	m.Detect(&frame)
	for i := 0; i < 3; i++ {
		if moving, changed := m.Detect(&frame); moving {
			t.Errorf("identical frame #%d reported motion (%.2f%% changed)", i, changed)
		}
	}
}

func TestMotionDetector_SceneChangeFires(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(255, 255, 255, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()

	m.Detect(&dark)
	moving, changed := m.Detect(&bright)
	if !moving {
		t.Errorf("full-frame change not detected (%.2f%% changed)", changed)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	dark := gocv.NewMatWithSize(120, 160, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(255, 255, 255, 0), 120, 160, gocv.MatTypeCV8UC3)
	defer bright.Close()

	m.Detect(&dark)
	m.Reset()

	// After a reset the next frame is a fresh baseline, however
	// different it is from the pre-reset footage.
	if moving, _ := m.Detect(&bright); moving {
		t.Error("frame after Reset reported motion, want new baseline")
	}
}

func TestMotionDetector_EmptyFrame(t *testing.T) {
	m := NewMotionDetector(1.0)
	defer m.Close()

	empty := gocv.NewMat()
	defer empty.Close()

	if moving, _ := m.Detect(&empty); moving {
		t.Error("empty frame reported motion")
	}
	if moving, _ := m.Detect(nil); moving {
		t.Error("nil frame reported motion")
	}
}
