package pose

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	raw    *Raw
	err    error
	calls  int
	closes int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose sets the pose that will be returned by Detect. A nil pose means
// "no detection".
func (m *MockDetector) SetPose(raw *Raw) {
	m.raw = raw
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured pose or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Raw, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

// Close records the call for assertions.
func (m *MockDetector) Close() error {
	m.closes++
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int { return m.calls }

// Closes returns how many times Close was invoked.
func (m *MockDetector) Closes() int { return m.closes }

// StandingPose returns a preset pose of a person standing upright facing the
// camera with arms relaxed. In a 640x480 frame the consumed landmarks land on
// whole pixels.
func StandingPose() *Raw {
	raw := &Raw{}

	// Start every landmark at the frame center, fully visible
	for i := range raw.Points {
		raw.Points[i] = RawPoint{X: 0.5, Y: 0.5, Visibility: 0.99}
	}

	set := func(l Landmark, x, y float64) {
		raw.Points[l] = RawPoint{X: x, Y: y, Visibility: 0.99}
	}

	// Head
	set(Nose, 0.5, 0.125)
	set(LeftEye, 0.52, 0.1)
	set(RightEye, 0.48, 0.1)
	set(LeftEar, 0.55, 0.11)
	set(RightEar, 0.45, 0.11)

	// Image-left is the person's right side when facing the camera
	set(LeftShoulder, 0.625, 0.25)
	set(RightShoulder, 0.375, 0.25)
	set(LeftElbow, 0.65, 0.375)
	set(RightElbow, 0.35, 0.375)
	set(LeftWrist, 0.6875, 0.5)
	set(RightWrist, 0.3125, 0.5)

	set(LeftHip, 0.5625, 0.5625)
	set(RightHip, 0.4375, 0.5625)
	set(LeftKnee, 0.5625, 0.75)
	set(RightKnee, 0.4375, 0.75)
	set(LeftAnkle, 0.5625, 0.9375)
	set(RightAnkle, 0.4375, 0.9375)

	return raw
}
