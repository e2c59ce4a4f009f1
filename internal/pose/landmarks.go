// Package pose provides body pose detection interfaces and landmark types.
package pose

import "fmt"

// Landmark identifies one of the body keypoints emitted by the pose model.
// Indices follow the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
type Landmark int

const (
	Nose Landmark = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// NumLandmarks is the number of landmarks in a full pose.
const NumLandmarks = 33

var landmarkNames = [NumLandmarks]string{
	"NOSE", "LEFT_EYE_INNER", "LEFT_EYE", "LEFT_EYE_OUTER",
	"RIGHT_EYE_INNER", "RIGHT_EYE", "RIGHT_EYE_OUTER",
	"LEFT_EAR", "RIGHT_EAR", "MOUTH_LEFT", "MOUTH_RIGHT",
	"LEFT_SHOULDER", "RIGHT_SHOULDER", "LEFT_ELBOW", "RIGHT_ELBOW",
	"LEFT_WRIST", "RIGHT_WRIST", "LEFT_PINKY", "RIGHT_PINKY",
	"LEFT_INDEX", "RIGHT_INDEX", "LEFT_THUMB", "RIGHT_THUMB",
	"LEFT_HIP", "RIGHT_HIP", "LEFT_KNEE", "RIGHT_KNEE",
	"LEFT_ANKLE", "RIGHT_ANKLE", "LEFT_HEEL", "RIGHT_HEEL",
	"LEFT_FOOT_INDEX", "RIGHT_FOOT_INDEX",
}

// String returns the MediaPipe name of the landmark, e.g. "LEFT_WRIST".
func (l Landmark) String() string {
	if l < 0 || int(l) >= NumLandmarks {
		return fmt.Sprintf("Landmark(%d)", int(l))
	}
	return landmarkNames[l]
}

// RawPoint is a landmark position in normalized [0,1] image coordinates
// as reported by the model. Values slightly outside the range are possible.
type RawPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Raw is the model output for a single detected person.
type Raw struct {
	Points [NumLandmarks]RawPoint `json:"points"`
}

// Point is a landmark position in pixel coordinates.
type Point struct {
	X          int
	Y          int
	Visibility float64
}

// Set maps landmark names to pixel positions for one frame.
type Set map[Landmark]Point

// Normalize converts raw normalized landmarks to pixel coordinates for a frame
// of the given size. Coordinates are truncated toward zero and never clamped,
// so model overshoot produces values outside [0,width) or [0,height).
func Normalize(raw *Raw, width, height int) Set {
	if raw == nil {
		return nil
	}

	set := make(Set, NumLandmarks)
	for i := 0; i < NumLandmarks; i++ {
		p := raw.Points[i]
		set[Landmark(i)] = Point{
			X:          int(p.X * float64(width)),
			Y:          int(p.Y * float64(height)),
			Visibility: p.Visibility,
		}
	}
	return set
}
