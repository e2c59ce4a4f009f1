package overlay

import (
	"image"
	"testing"

	"github.com/ayusman/bodymeasure/internal/measure"
	"github.com/ayusman/bodymeasure/internal/pose"
	"gocv.io/x/gocv"
)

func TestLines(t *testing.T) {
	m := measure.Measurements{
		ArmLength:      50,
		ShoulderLength: 150,
		BodyWidth:      80.456,
		BodyHeight:     200,
		BodyWeight:     12,
	}

	want := []string{
		"Arm Length: 50.00 cm",
		"Shoulder Length: 150.00 cm",
		"Body Width: 80.46 cm",
		"Body Height: 200.00 cm",
	}

	got := Lines(m)
	if len(got) != len(want) {
		t.Fatalf("Lines() returned %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderer_TextOrigin(t *testing.T) {
	r := New(DefaultStyle())

	tests := []struct {
		line int
		want image.Point
	}{
		{0, image.Pt(10, 30)},
		{1, image.Pt(10, 60)},
		{2, image.Pt(10, 90)},
		{3, image.Pt(10, 120)},
	}

	for _, tt := range tests {
		if got := r.TextOrigin(tt.line); got != tt.want {
			t.Errorf("TextOrigin(%d) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestRenderer_StyleIsCopied(t *testing.T) {
	style := DefaultStyle()
	r := New(style)

	style.Text.LineStep = 99
	style.Landmark.CircleRadius = 42

	if r.Style().Text.LineStep != 30 {
		t.Errorf("renderer style changed after caller mutation: LineStep = %d", r.Style().Text.LineStep)
	}
	if r.Style().Landmark.CircleRadius != 2 {
		t.Errorf("renderer style changed after caller mutation: CircleRadius = %d", r.Style().Landmark.CircleRadius)
	}
}

func TestConnections_ValidLandmarks(t *testing.T) {
	if len(Connections) != 35 {
		t.Errorf("len(Connections) = %d, want 35", len(Connections))
	}
	for _, c := range Connections {
		for _, l := range c {
			if l < 0 || int(l) >= pose.NumLandmarks {
				t.Errorf("connection %v references invalid landmark %d", c, l)
			}
		}
	}
}

func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
}

// litPixels counts non-black pixels in a BGR frame.
func litPixels(t *testing.T, img gocv.Mat) int {
	t.Helper()
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	return gocv.CountNonZero(gray)
}

func TestRenderer_DrawSkeleton(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(DefaultStyle())

	t.Run("draws standing pose", func(t *testing.T) {
		img := blankFrame()
		defer img.Close()

		r.DrawSkeleton(&img, pose.Normalize(pose.StandingPose(), 640, 480))

		if litPixels(t, img) == 0 {
			t.Error("expected skeleton pixels on frame")
		}
	})

	t.Run("empty set leaves frame untouched", func(t *testing.T) {
		img := blankFrame()
		defer img.Close()

		r.DrawSkeleton(&img, nil)

		if n := litPixels(t, img); n != 0 {
			t.Errorf("lit pixels = %d, want 0", n)
		}
	})

	t.Run("skips low visibility and off-frame landmarks", func(t *testing.T) {
		img := blankFrame()
		defer img.Close()

		set := pose.Set{
			pose.LeftShoulder:  {X: 100, Y: 100, Visibility: 0.1},
			pose.RightShoulder: {X: 300, Y: 100, Visibility: 0.1},
			pose.LeftHip:       {X: 700, Y: 100, Visibility: 0.9},
			pose.RightHip:      {X: 100, Y: -20, Visibility: 0.9},
		}
		r.DrawSkeleton(&img, set)

		if n := litPixels(t, img); n != 0 {
			t.Errorf("lit pixels = %d, want 0", n)
		}
	})
}

func TestRenderer_Render(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(DefaultStyle())
	set := pose.Normalize(pose.StandingPose(), 640, 480)

	skeletonOnly := blankFrame()
	defer skeletonOnly.Close()
	r.Render(&skeletonOnly, set, nil)

	withText := blankFrame()
	defer withText.Close()
	m, err := measure.Compute(set)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	r.Render(&withText, set, &m)

	if litPixels(t, withText) <= litPixels(t, skeletonOnly) {
		t.Error("expected measurement text to add pixels")
	}

	// Text sits in the top-left band above the standing pose
	band := withText.Region(image.Rect(0, 0, 250, 50))
	defer band.Close()
	if litPixels(t, band) == 0 {
		t.Error("expected text pixels in the top-left band")
	}
}
