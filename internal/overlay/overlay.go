package overlay

import (
	"fmt"
	"image"

	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/ayusman/bodymeasure/internal/pose"
	"gocv.io/x/gocv"
)

// Connection is a pair of landmarks joined by a line in the skeleton.
type Connection [2]pose.Landmark

// Connections is the MediaPipe Pose skeleton.
var Connections = []Connection{
	// Face
	{pose.Nose, pose.LeftEyeInner}, {pose.LeftEyeInner, pose.LeftEye},
	{pose.LeftEye, pose.LeftEyeOuter}, {pose.LeftEyeOuter, pose.LeftEar},
	{pose.Nose, pose.RightEyeInner}, {pose.RightEyeInner, pose.RightEye},
	{pose.RightEye, pose.RightEyeOuter}, {pose.RightEyeOuter, pose.RightEar},
	{pose.MouthLeft, pose.MouthRight},

	// Torso and arms
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftShoulder, pose.LeftElbow}, {pose.LeftElbow, pose.LeftWrist},
	{pose.LeftWrist, pose.LeftPinky}, {pose.LeftWrist, pose.LeftIndex},
	{pose.LeftWrist, pose.LeftThumb}, {pose.LeftPinky, pose.LeftIndex},
	{pose.RightShoulder, pose.RightElbow}, {pose.RightElbow, pose.RightWrist},
	{pose.RightWrist, pose.RightPinky}, {pose.RightWrist, pose.RightIndex},
	{pose.RightWrist, pose.RightThumb}, {pose.RightPinky, pose.RightIndex},
	{pose.LeftShoulder, pose.LeftHip}, {pose.RightShoulder, pose.RightHip},
	{pose.LeftHip, pose.RightHip},

	// Legs
	{pose.LeftHip, pose.LeftKnee}, {pose.RightHip, pose.RightKnee},
	{pose.LeftKnee, pose.LeftAnkle}, {pose.RightKnee, pose.RightAnkle},
	{pose.LeftAnkle, pose.LeftHeel}, {pose.RightAnkle, pose.RightHeel},
	{pose.LeftHeel, pose.LeftFootIndex}, {pose.RightHeel, pose.RightFootIndex},
	{pose.LeftAnkle, pose.LeftFootIndex}, {pose.RightAnkle, pose.RightFootIndex},
}

// Lines formats measurements as the text lines drawn on the frame.
// The "cm" suffix is a display label only; values are pixel distances.
func Lines(m measure.Measurements) []string {
	return []string{
		fmt.Sprintf("Arm Length: %.2f cm", m.ArmLength),
		fmt.Sprintf("Shoulder Length: %.2f cm", m.ShoulderLength),
		fmt.Sprintf("Body Width: %.2f cm", m.BodyWidth),
		fmt.Sprintf("Body Height: %.2f cm", m.BodyHeight),
	}
}

// Renderer draws onto frames using a fixed Style.
type Renderer struct {
	style Style
}

// New creates a Renderer with the given style.
func New(style Style) *Renderer {
	return &Renderer{style: style}
}

// Style returns the renderer's drawing parameters.
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws the skeleton and, when m is non-nil, the measurement text.
// The frame is modified in place.
func (r *Renderer) Render(img *gocv.Mat, set pose.Set, m *measure.Measurements) {
	r.DrawSkeleton(img, set)
	if m != nil {
		r.DrawMeasurements(img, *m)
	}
}

// DrawSkeleton draws connections first and landmark dots on top, skipping
// landmarks that are not visible or fall outside the frame.
func (r *Renderer) DrawSkeleton(img *gocv.Mat, set pose.Set) {
	if len(set) == 0 {
		return
	}

	bounds := image.Rect(0, 0, img.Cols(), img.Rows())
	visible := make(map[pose.Landmark]image.Point, len(set))
	for l, p := range set {
		pt := image.Pt(p.X, p.Y)
		if p.Visibility < r.style.VisibilityThreshold || !pt.In(bounds) {
			continue
		}
		visible[l] = pt
	}

	conn := r.style.Connection
	for _, c := range Connections {
		from, ok1 := visible[c[0]]
		to, ok2 := visible[c[1]]
		if !ok1 || !ok2 {
			continue
		}
		gocv.Line(img, from, to, conn.Color, conn.Thickness)
	}

	dot := r.style.Landmark
	for _, pt := range visible {
		gocv.Circle(img, pt, dot.CircleRadius, dot.Color, dot.Thickness)
	}
}

// DrawMeasurements writes the measurement lines at their fixed positions.
// Text is not fitted to the frame and may run past its edges.
func (r *Renderer) DrawMeasurements(img *gocv.Mat, m measure.Measurements) {
	ts := r.style.Text
	for i, line := range Lines(m) {
		gocv.PutText(img, line, r.TextOrigin(i), ts.Font, ts.Scale, ts.Color, ts.Thickness)
	}
}

// TextOrigin returns the bottom-left anchor of measurement line i.
func (r *Renderer) TextOrigin(i int) image.Point {
	ts := r.style.Text
	return image.Pt(ts.Origin.X, ts.Origin.Y+i*ts.LineStep)
}
