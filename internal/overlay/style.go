// Package overlay draws pose skeletons and measurement text onto video frames.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// DrawingSpec describes how a landmark or a connection is drawn.
type DrawingSpec struct {
	Color        color.RGBA
	Thickness    int
	CircleRadius int
}

// TextStyle describes how measurement lines are drawn.
// Line i is anchored at Origin shifted down by i*LineStep.
type TextStyle struct {
	Font      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	Origin    image.Point
	LineStep  int
}

// Style is the full set of drawing parameters for a Renderer.
// It is a plain value: the Renderer keeps its own copy.
type Style struct {
	Landmark   DrawingSpec
	Connection DrawingSpec
	Text       TextStyle

	// VisibilityThreshold hides landmarks (and their connections) whose
	// visibility score is below it.
	VisibilityThreshold float64
}

// Colors used by DefaultStyle.
var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

// DefaultStyle returns red landmark dots, green connections and red
// Hershey Simplex text stacked every 30px from (10,30).
func DefaultStyle() Style {
	return Style{
		Landmark: DrawingSpec{
			Color:        red,
			Thickness:    2,
			CircleRadius: 2,
		},
		Connection: DrawingSpec{
			Color:     green,
			Thickness: 2,
		},
		Text: TextStyle{
			Font:      gocv.FontHersheySimplex,
			Scale:     0.7,
			Color:     red,
			Thickness: 2,
			Origin:    image.Pt(10, 30),
			LineStep:  30,
		},
		VisibilityThreshold: 0.5,
	}
}
