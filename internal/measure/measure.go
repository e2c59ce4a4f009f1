// Package measure derives body measurements from pixel-space pose landmarks.
//
// Every measurement is the absolute difference of a single coordinate axis
// between two landmarks. Values are in pixels; no calibration to physical
// units is applied.
package measure

import (
	"errors"
	"fmt"

	"github.com/ayusman/bodymeasure/internal/pose"
)

// ErrMissingLandmark is matched by every MissingLandmarkError.
var ErrMissingLandmark = errors.New("missing landmark")

// MissingLandmarkError reports a required landmark absent from a pose.Set.
// The detector returns either a full pose or none, so this indicates a bug
// upstream rather than a per-frame condition.
type MissingLandmarkError struct {
	Landmark pose.Landmark
}

func (e *MissingLandmarkError) Error() string {
	return fmt.Sprintf("missing landmark %s", e.Landmark)
}

// Is reports whether target is ErrMissingLandmark.
func (e *MissingLandmarkError) Is(target error) bool {
	return target == ErrMissingLandmark
}

// Measurements holds the values derived from one frame's landmarks.
type Measurements struct {
	ArmLength      float64 `json:"arm_length"`
	ShoulderLength float64 `json:"shoulder_length"`
	BodyWidth      float64 `json:"body_width"`
	BodyHeight     float64 `json:"body_height"`

	// BodyWeight is the vertical spread between the ankles. It is recorded
	// but never drawn.
	BodyWeight float64 `json:"body_weight"`
}

// Required lists the landmarks Compute reads.
var Required = []pose.Landmark{
	pose.LeftWrist,
	pose.LeftShoulder,
	pose.RightShoulder,
	pose.LeftHip,
	pose.RightHip,
	pose.Nose,
	pose.LeftAnkle,
	pose.RightAnkle,
}

// Compute derives Measurements from a landmark set.
// It returns a *MissingLandmarkError if any Required landmark is absent.
func Compute(set pose.Set) (Measurements, error) {
	for _, l := range Required {
		if _, ok := set[l]; !ok {
			return Measurements{}, &MissingLandmarkError{Landmark: l}
		}
	}

	return Measurements{
		ArmLength:      absDiff(set[pose.LeftWrist].X, set[pose.LeftShoulder].X),
		ShoulderLength: absDiff(set[pose.LeftShoulder].X, set[pose.RightShoulder].X),
		BodyWidth:      absDiff(set[pose.LeftHip].X, set[pose.RightHip].X),
		BodyHeight:     absDiff(set[pose.Nose].Y, set[pose.LeftHip].Y),
		BodyWeight:     absDiff(set[pose.RightAnkle].Y, set[pose.LeftAnkle].Y),
	}, nil
}

func absDiff(a, b int) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
